package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	payrollService service.PayrollService
}

func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/api/payroll")
	{
		payroll.POST("/payslips", middleware.RequirePermission("payroll.run"), h.GeneratePayslip)
		payroll.POST("/run", middleware.RequirePermission("payroll.run"), h.RunPayroll)
		payroll.GET("/payslips", middleware.RequirePermission("payroll.read"), h.ListPayslips)
		payroll.GET("/payslips/:id", middleware.RequirePermission("payroll.read"), h.GetPayslip)
	}
}

// GeneratePayslip computes and stores one employee's payslip for a period
// @Summary      Generate payslip
// @Description  Computes gross and net pay from the employee's salary structure for one period
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GeneratePayslipRequest  true  "Generate Payslip Payload"
// @Success      201      {object}  response.Response{data=service.PayslipResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/payroll/payslips [post]
func (h *PayrollHandler) GeneratePayslip(c *gin.Context) {
	var req service.GeneratePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	slip, err := h.payrollService.GeneratePayslip(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, slip))
}

// RunPayroll generates payslips for every active employee for a period
// @Summary      Run payroll
// @Description  Bulk-generates payslips for all active employees; already-paid employees are skipped
// @Tags         payroll
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RunPayrollRequest  true  "Run Payroll Payload"
// @Success      201      {object}  response.Response{data=service.PayrollRunResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/payroll/run [post]
func (h *PayrollHandler) RunPayroll(c *gin.Context) {
	var req service.RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	run, err := h.payrollService.RunPayroll(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, run))
}

// ListPayslips returns a paginated list of payslips
// @Summary      List payslips
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        period       query     string  false  "Filter by period (YYYY-MM)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/payroll/payslips [get]
func (h *PayrollHandler) ListPayslips(c *gin.Context) {
	params := pagination.Parse(c)

	slips, total, err := h.payrollService.ListPayslips(c.Request.Context(), service.PayslipFilter{
		EmployeeID: c.Query("employee_id"),
		Period:     c.Query("period"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "payslips", slips, total, params.Page, params.Limit))
}

// GetPayslip returns one payslip by ID
// @Summary      Get payslip
// @Tags         payroll
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payslip ID"
// @Success      200  {object}  response.Response{data=service.PayslipResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/payroll/payslips/{id} [get]
func (h *PayrollHandler) GetPayslip(c *gin.Context) {
	slip, err := h.payrollService.GetPayslip(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, slip))
}
