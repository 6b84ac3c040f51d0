package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/apperrors"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService service.FleetService
}

func NewFleetHandler(fleetService service.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

func (h *FleetHandler) RegisterRoutes(router *gin.RouterGroup) {
	vehicles := router.Group("/api/vehicles")
	{
		vehicles.POST("", middleware.RequirePermission("fleet.write"), h.CreateVehicle)
		vehicles.GET("", middleware.RequirePermission("fleet.read"), h.ListVehicles)
		vehicles.GET("/:id", middleware.RequirePermission("fleet.read"), h.GetVehicle)
		vehicles.PUT("/:id", middleware.RequirePermission("fleet.write"), h.UpdateVehicle)
		vehicles.DELETE("/:id", middleware.RequirePermission("fleet.write"), h.DeleteVehicle)
	}

	trips := router.Group("/api/trips")
	{
		trips.POST("", middleware.RequirePermission("fleet.write"), h.CreateTrip)
		trips.GET("", middleware.RequirePermission("fleet.read"), h.ListTrips)
		trips.GET("/:id", middleware.RequirePermission("fleet.read"), h.GetTrip)
		trips.PUT("/:id", middleware.RequirePermission("fleet.write"), h.UpdateTrip)
		trips.PUT("/:id/status", middleware.RequirePermission("fleet.write"), h.ChangeTripStatus)
		trips.GET("/:id/history", middleware.RequirePermission("fleet.read"), h.GetTripHistory)
	}
}

// CreateVehicle registers a fleet vehicle
// @Summary      Create vehicle
// @Tags         fleet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateVehicleRequest  true  "Create Vehicle Payload"
// @Success      201      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles [post]
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.fleetService.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vehicle))
}

// ListVehicles returns the vehicle fleet
// @Summary      List vehicles
// @Tags         fleet
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool  false  "Only active vehicles"
// @Param        page    query     int   false  "Page number (default 1)"
// @Param        limit   query     int   false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/vehicles [get]
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active") == "true"

	vehicles, total, err := h.fleetService.ListVehicles(c.Request.Context(), activeOnly, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "vehicles", vehicles, total, params.Page, params.Limit))
}

// GetVehicle returns one vehicle by ID
// @Summary      Get vehicle
// @Tags         fleet
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response{data=service.VehicleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [get]
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.fleetService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// UpdateVehicle updates vehicle details
// @Summary      Update vehicle
// @Tags         fleet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Vehicle ID"
// @Param        payload  body      service.UpdateVehicleRequest  true  "Update Vehicle Payload"
// @Success      200      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles/{id} [put]
func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	var req service.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.fleetService.UpdateVehicle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// DeleteVehicle soft deletes a vehicle
// @Summary      Delete vehicle
// @Tags         fleet
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/vehicles/{id} [delete]
func (h *FleetHandler) DeleteVehicle(c *gin.Context) {
	if err := h.fleetService.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Vehicle deleted successfully"))
}

// CreateTrip schedules a transport trip
// @Summary      Create trip
// @Tags         fleet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTripRequest  true  "Create Trip Payload"
// @Success      201      {object}  response.Response{data=service.TripResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/trips [post]
func (h *FleetHandler) CreateTrip(c *gin.Context) {
	var req service.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	trip, err := h.fleetService.CreateTrip(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, trip))
}

// ListTrips returns a paginated trip list
// @Summary      List trips
// @Tags         fleet
// @Security     BearerAuth
// @Produce      json
// @Param        status      query     string  false  "Filter by status"
// @Param        vehicle_id  query     string  false  "Filter by vehicle"
// @Param        driver_id   query     string  false  "Filter by driver"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/trips [get]
func (h *FleetHandler) ListTrips(c *gin.Context) {
	params := pagination.Parse(c)

	trips, total, err := h.fleetService.ListTrips(c.Request.Context(), service.TripFilter{
		Status:    c.Query("status"),
		VehicleID: c.Query("vehicle_id"),
		DriverID:  c.Query("driver_id"),
		Page:      params.Page,
		Limit:     params.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "trips", trips, total, params.Page, params.Limit))
}

// GetTrip returns one trip with its status history
// @Summary      Get trip
// @Tags         fleet
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Trip ID"
// @Success      200  {object}  response.Response{data=service.TripResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/trips/{id} [get]
func (h *FleetHandler) GetTrip(c *gin.Context) {
	trip, err := h.fleetService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trip))
}

// UpdateTrip updates trip details (not its status)
// @Summary      Update trip
// @Tags         fleet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Trip ID"
// @Param        payload  body      service.UpdateTripRequest  true  "Update Trip Payload"
// @Success      200      {object}  response.Response{data=service.TripResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/trips/{id} [put]
func (h *FleetHandler) UpdateTrip(c *gin.Context) {
	var req service.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	trip, err := h.fleetService.UpdateTrip(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trip))
}

// ChangeTripStatus applies a validated status transition
// @Summary      Change trip status
// @Description  Moves the trip through its status machine; DELAYED and CANCELLED require a note. Returns 422 for an illegal transition or missing note.
// @Tags         fleet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Trip ID"
// @Param        payload  body      service.ChangeTripStatusRequest  true  "Status Change Payload"
// @Success      200      {object}  response.Response{data=service.TripResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/trips/{id}/status [put]
func (h *FleetHandler) ChangeTripStatus(c *gin.Context) {
	var req service.ChangeTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	trip, err := h.fleetService.ChangeTripStatus(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		// The two transition errors are client mistakes the UI distinguishes.
		if errors.Is(err, apperrors.ErrIllegalTransition) || errors.Is(err, apperrors.ErrNoteRequired) {
			c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, trip))
}

// GetTripHistory returns the append-only status history of a trip
// @Summary      Get trip status history
// @Tags         fleet
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Trip ID"
// @Success      200  {object}  response.Response{data=[]service.TripHistoryResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/trips/{id}/history [get]
func (h *FleetHandler) GetTripHistory(c *gin.Context) {
	history, err := h.fleetService.GetTripHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}
