package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	services := router.Group("/api/services")
	{
		services.POST("", middleware.RequirePermission("finance.write"), h.CreateService)
		services.GET("", middleware.RequirePermission("finance.read"), h.ListServices)
		services.GET("/:id", middleware.RequirePermission("finance.read"), h.GetService)
		services.PUT("/:id", middleware.RequirePermission("finance.write"), h.UpdateService)
		services.DELETE("/:id", middleware.RequirePermission("finance.write"), h.DeleteService)
	}
}

// CreateService adds a service to the billing catalog
// @Summary      Create catalog service
// @Description  Adds a ONE_TIME or DAILY service; DAILY services require a daily rate
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateServiceRequest  true  "Create Service Payload"
// @Success      201      {object}  response.Response{data=service.ServiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req service.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	svc, err := h.catalogService.CreateService(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, svc))
}

// ListServices returns the service catalog
// @Summary      List catalog services
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool  false  "Only active services"
// @Param        page    query     int   false  "Page number (default 1)"
// @Param        limit   query     int   false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active") == "true"

	services, total, err := h.catalogService.ListServices(c.Request.Context(), activeOnly, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "services", services, total, params.Page, params.Limit))
}

// GetService returns one catalog service by ID
// @Summary      Get catalog service
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  response.Response{data=service.ServiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.catalogService.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, svc))
}

// UpdateService updates a catalog service
// @Summary      Update catalog service
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Service ID"
// @Param        payload  body      service.UpdateServiceRequest  true  "Update Service Payload"
// @Success      200      {object}  response.Response{data=service.ServiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/services/{id} [put]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var req service.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	svc, err := h.catalogService.UpdateService(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, svc))
}

// DeleteService soft deletes a catalog service
// @Summary      Delete catalog service
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.catalogService.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Service deleted successfully"))
}
