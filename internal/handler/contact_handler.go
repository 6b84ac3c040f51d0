package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	contacts := router.Group("/api/contacts")
	{
		contacts.POST("", middleware.RequirePermission("contacts.write"), h.CreateContact)
		contacts.GET("", middleware.RequirePermission("contacts.read"), h.ListContacts)
		contacts.GET("/:id", middleware.RequirePermission("contacts.read"), h.GetContact)
		contacts.PUT("/:id", middleware.RequirePermission("contacts.write"), h.UpdateContact)
		contacts.DELETE("/:id", middleware.RequirePermission("contacts.write"), h.DeleteContact)
		contacts.GET("/:id/messages", middleware.RequirePermission("contacts.read"), h.ListMessages)
	}

	messages := router.Group("/api/messages")
	{
		messages.POST("", middleware.RequirePermission("contacts.write"), h.CreateMessage)
		messages.PUT("/:id/send", middleware.RequirePermission("contacts.write"), h.SendMessage)
	}
}

// CreateContact registers a family contact for a deceased record
// @Summary      Create family contact
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateContactRequest  true  "Create Contact Payload"
// @Success      201      {object}  response.Response{data=service.ContactResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contact))
}

// ListContacts returns the contacts attached to a deceased record
// @Summary      List family contacts
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        deceased_id  query     string  true  "Deceased record ID"
// @Success      200          {object}  response.Response{data=[]service.ContactResponse}
// @Failure      400          {object}  response.Response
// @Router       /api/contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	deceasedID := c.Query("deceased_id")
	if deceasedID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "deceased_id query parameter is required"))
		return
	}

	contacts, err := h.contactService.ListContactsByDeceased(c.Request.Context(), deceasedID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contacts))
}

// GetContact returns one family contact by ID
// @Summary      Get family contact
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contactService.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// UpdateContact updates a family contact
// @Summary      Update family contact
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Contact ID"
// @Param        payload  body      service.UpdateContactRequest  true  "Update Contact Payload"
// @Success      200      {object}  response.Response{data=service.ContactResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// DeleteContact soft deletes a family contact
// @Summary      Delete family contact
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contactService.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Contact deleted successfully"))
}

// CreateMessage drafts a message to a family contact
// @Summary      Create message draft
// @Tags         contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateMessageRequest  true  "Create Message Payload"
// @Success      201      {object}  response.Response{data=service.MessageResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/messages [post]
func (h *ContactHandler) CreateMessage(c *gin.Context) {
	var req service.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	msg, err := h.contactService.CreateMessage(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, msg))
}

// SendMessage marks a draft message as sent
// @Summary      Send message
// @Description  Moves a DRAFT message to SENT and stamps the send time
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response{data=service.MessageResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/messages/{id}/send [put]
func (h *ContactHandler) SendMessage(c *gin.Context) {
	msg, err := h.contactService.SendMessage(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, msg))
}

// ListMessages returns a contact's message history
// @Summary      List messages
// @Tags         contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Contact ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Router       /api/contacts/{id}/messages [get]
func (h *ContactHandler) ListMessages(c *gin.Context) {
	params := pagination.Parse(c)

	msgs, total, err := h.contactService.ListMessages(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "messages", msgs, total, params.Page, params.Limit))
}
