package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CaseHandler struct {
	caseService service.CaseService
}

func NewCaseHandler(caseService service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

func (h *CaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	cases := router.Group("/api/cases")
	{
		cases.POST("", middleware.RequirePermission("cases.write"), h.CreateCase)
		cases.GET("", middleware.RequirePermission("cases.read"), h.ListCases)
		cases.GET("/:id", middleware.RequirePermission("cases.read"), h.GetCase)
		cases.PUT("/:id", middleware.RequirePermission("cases.write"), h.UpdateCase)
	}
}

// CreateCase opens a new embalming case for a deceased record
// @Summary      Create embalming case
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCaseRequest  true  "Create Case Payload"
// @Success      201      {object}  response.Response{data=service.CaseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cases [post]
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req service.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.caseService.CreateCase(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListCases returns a paginated list of embalming cases
// @Summary      List embalming cases
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        status       query     string  false  "Filter by status (PENDING, IN_PROGRESS, COMPLETED)"
// @Param        embalmer_id  query     string  false  "Filter by assigned embalmer"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/cases [get]
func (h *CaseHandler) ListCases(c *gin.Context) {
	params := pagination.Parse(c)

	cases, total, err := h.caseService.ListCases(c.Request.Context(), service.CaseFilter{
		Status:     c.Query("status"),
		EmbalmerID: c.Query("embalmer_id"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "cases", cases, total, params.Page, params.Limit))
}

// GetCase returns one embalming case by ID
// @Summary      Get embalming case
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Case ID"
// @Success      200  {object}  response.Response{data=service.CaseResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	result, err := h.caseService.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateCase updates case assignment, schedule, notes, or status
// @Summary      Update embalming case
// @Description  Updates the case; setting status COMPLETED stamps the completion time and freezes it
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Case ID"
// @Param        payload  body      service.UpdateCaseRequest  true  "Update Case Payload"
// @Success      200      {object}  response.Response{data=service.CaseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cases/{id} [put]
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	var req service.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.caseService.UpdateCase(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
