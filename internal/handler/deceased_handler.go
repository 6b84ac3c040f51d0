package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeceasedHandler struct {
	deceasedService service.DeceasedService
}

func NewDeceasedHandler(deceasedService service.DeceasedService) *DeceasedHandler {
	return &DeceasedHandler{deceasedService: deceasedService}
}

func (h *DeceasedHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/api/deceased")
	{
		records.POST("", middleware.RequirePermission("deceased.write"), h.CreateRecord)
		records.GET("", middleware.RequirePermission("deceased.read"), h.ListRecords)
		records.GET("/:id", middleware.RequirePermission("deceased.read"), h.GetRecord)
		records.PUT("/:id", middleware.RequirePermission("deceased.write"), h.UpdateRecord)
		records.PUT("/:id/release", middleware.RequirePermission("deceased.write"), h.ReleaseBody)
		records.DELETE("/:id", middleware.RequirePermission("deceased.write"), h.DeleteRecord)
	}
}

// CreateRecord registers a new deceased record (intake)
// @Summary      Create deceased record
// @Description  Registers a body into the facility's care with an auto-generated tag number
// @Tags         deceased
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDeceasedRequest  true  "Create Record Payload"
// @Success      201      {object}  response.Response{data=service.DeceasedResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/deceased [post]
func (h *DeceasedHandler) CreateRecord(c *gin.Context) {
	var req service.CreateDeceasedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.deceasedService.CreateRecord(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// ListRecords returns a paginated list of deceased records
// @Summary      List deceased records
// @Description  Retrieves deceased records filtered by status and search term
// @Tags         deceased
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (IN_STORAGE, RELEASED)"
// @Param        search  query     string  false  "Search by name or tag number"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/deceased [get]
func (h *DeceasedHandler) ListRecords(c *gin.Context) {
	params := pagination.Parse(c)

	records, total, err := h.deceasedService.ListRecords(c.Request.Context(), service.DeceasedFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "records", records, total, params.Page, params.Limit))
}

// GetRecord returns one deceased record by ID
// @Summary      Get deceased record
// @Tags         deceased
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  response.Response{data=service.DeceasedResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/deceased/{id} [get]
func (h *DeceasedHandler) GetRecord(c *gin.Context) {
	record, err := h.deceasedService.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// UpdateRecord updates a deceased record's details
// @Summary      Update deceased record
// @Tags         deceased
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Record ID"
// @Param        payload  body      service.UpdateDeceasedRequest  true  "Update Record Payload"
// @Success      200      {object}  response.Response{data=service.DeceasedResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/deceased/{id} [put]
func (h *DeceasedHandler) UpdateRecord(c *gin.Context) {
	var req service.UpdateDeceasedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.deceasedService.UpdateRecord(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// ReleaseBody closes a record's stay window and marks it RELEASED
// @Summary      Release body
// @Description  Marks the body released, closing the stay window used for daily-rate billing
// @Tags         deceased
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true   "Record ID"
// @Param        payload  body      service.ReleaseBodyRequest false  "Release Payload"
// @Success      200      {object}  response.Response{data=service.DeceasedResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/deceased/{id}/release [put]
func (h *DeceasedHandler) ReleaseBody(c *gin.Context) {
	var req service.ReleaseBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.deceasedService.ReleaseBody(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// DeleteRecord soft deletes a deceased record
// @Summary      Delete deceased record
// @Tags         deceased
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/deceased/{id} [delete]
func (h *DeceasedHandler) DeleteRecord(c *gin.Context) {
	if err := h.deceasedService.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Record deleted successfully"))
}

// userIDFromContext returns the authenticated user's ID set by the auth
// middleware, or an empty string for unauthenticated contexts.
func userIDFromContext(c *gin.Context) string {
	userID, _ := c.Get("userID")
	idStr, _ := userID.(string)
	return idStr
}
