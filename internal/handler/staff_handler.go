package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staffService service.StaffService
}

func NewStaffHandler(staffService service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	{
		employees.POST("", middleware.RequirePermission("payroll.run"), h.CreateEmployee)
		employees.GET("", middleware.RequirePermission("payroll.read"), h.ListEmployees)
		employees.GET("/:id", middleware.RequirePermission("payroll.read"), h.GetEmployee)
		employees.PUT("/:id", middleware.RequirePermission("payroll.run"), h.UpdateEmployee)
		employees.DELETE("/:id", middleware.RequirePermission("payroll.run"), h.DeleteEmployee)
		employees.PUT("/:id/components", middleware.RequirePermission("payroll.run"), h.SetSalaryComponents)
		employees.POST("/:id/loans", middleware.RequirePermission("payroll.run"), h.AddLoan)
		employees.PUT("/:id/loans/:loanId/close", middleware.RequirePermission("payroll.run"), h.CloseLoan)
	}
}

// CreateEmployee registers a new staff member
// @Summary      Create employee
// @Description  Creates an employee with an auto-generated staff number and optional salary components
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEmployeeRequest  true  "Create Employee Payload"
// @Success      201      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/employees [post]
func (h *StaffHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	emp, err := h.staffService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, emp))
}

// ListEmployees returns a paginated employee list
// @Summary      List employees
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool    false  "Only active employees"
// @Param        search  query     string  false  "Search by name or staff number"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/employees [get]
func (h *StaffHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)

	employees, total, err := h.staffService.ListEmployees(c.Request.Context(), service.EmployeeFilter{
		ActiveOnly: c.Query("active") == "true",
		Search:     c.Query("search"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "employees", employees, total, params.Page, params.Limit))
}

// GetEmployee returns one employee with their salary structure
// @Summary      Get employee
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *StaffHandler) GetEmployee(c *gin.Context) {
	emp, err := h.staffService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// UpdateEmployee updates an employee's details and base pay
// @Summary      Update employee
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Update Employee Payload"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *StaffHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	emp, err := h.staffService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// DeleteEmployee soft deletes an employee
// @Summary      Delete employee
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *StaffHandler) DeleteEmployee(c *gin.Context) {
	if err := h.staffService.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Employee deleted successfully"))
}

// SetSalaryComponents replaces an employee's salary components
// @Summary      Set salary components
// @Description  Replaces the employee's allowances, deductions, and bonuses wholesale
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Employee ID"
// @Param        payload  body      []service.SalaryComponentRequest true  "Salary Components"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/employees/{id}/components [put]
func (h *StaffHandler) SetSalaryComponents(c *gin.Context) {
	var reqs []service.SalaryComponentRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	emp, err := h.staffService.SetSalaryComponents(c.Request.Context(), c.Param("id"), reqs)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// AddLoan attaches a new active loan to an employee
// @Summary      Add staff loan
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Employee ID"
// @Param        payload  body      service.LoanRequest  true  "Loan Payload"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/employees/{id}/loans [post]
func (h *StaffHandler) AddLoan(c *gin.Context) {
	var req service.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	emp, err := h.staffService.AddLoan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}

// CloseLoan deactivates a loan so it stops deducting from payroll
// @Summary      Close staff loan
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      string  true  "Employee ID"
// @Param        loanId  path      string  true  "Loan ID"
// @Success      200     {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/employees/{id}/loans/{loanId}/close [put]
func (h *StaffHandler) CloseLoan(c *gin.Context) {
	emp, err := h.staffService.CloseLoan(c.Request.Context(), c.Param("id"), c.Param("loanId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, emp))
}
