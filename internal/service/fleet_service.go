package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateVehicleRequest struct {
	PlateNumber string `json:"plate_number" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=HEARSE VAN OTHER"`
}

type UpdateVehicleRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type" binding:"omitempty,oneof=HEARSE VAN OTHER"`
	IsActive *bool   `json:"is_active"`
}

type VehicleResponse struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	IsActive    bool   `json:"is_active"`
}

type CreateTripRequest struct {
	VehicleID   string  `json:"vehicle_id" binding:"required,uuid"`
	DriverID    *string `json:"driver_id" binding:"omitempty,uuid"`
	DeceasedID  *string `json:"deceased_id" binding:"omitempty,uuid"`
	Purpose     string  `json:"purpose"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	ScheduledAt *string `json:"scheduled_at"` // RFC3339
}

type UpdateTripRequest struct {
	VehicleID   *string `json:"vehicle_id" binding:"omitempty,uuid"`
	DriverID    *string `json:"driver_id" binding:"omitempty,uuid"`
	Purpose     *string `json:"purpose"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	ScheduledAt *string `json:"scheduled_at"`
}

type ChangeTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type TripHistoryResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Note      string `json:"note"`
	ActorID   string `json:"actor_id,omitempty"`
	ActorName string `json:"actor_name,omitempty"`
	CreatedAt string `json:"created_at"`
}

type TripResponse struct {
	ID          string                `json:"id"`
	TripCode    string                `json:"trip_code"`
	VehicleID   string                `json:"vehicle_id"`
	Vehicle     *VehicleResponse      `json:"vehicle,omitempty"`
	DriverID    *string               `json:"driver_id"`
	DriverName  string                `json:"driver_name,omitempty"`
	DeceasedID  *string               `json:"deceased_id"`
	Purpose     string                `json:"purpose"`
	Origin      string                `json:"origin"`
	Destination string                `json:"destination"`
	ScheduledAt *string               `json:"scheduled_at"`
	Status      string                `json:"status"`
	History     []TripHistoryResponse `json:"history,omitempty"`
	CreatedAt   string                `json:"created_at"`
}

type TripFilter struct {
	Status    string
	VehicleID string
	DriverID  string
	Page      int
	Limit     int
}

// --- Interface ---

type FleetService interface {
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error)
	GetVehicle(ctx context.Context, id string) (VehicleResponse, error)
	ListVehicles(ctx context.Context, activeOnly bool, page, limit int) ([]VehicleResponse, int64, error)
	UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error)
	DeleteVehicle(ctx context.Context, id string) error

	CreateTrip(ctx context.Context, userID string, req CreateTripRequest) (TripResponse, error)
	GetTrip(ctx context.Context, id string) (TripResponse, error)
	ListTrips(ctx context.Context, filter TripFilter) ([]TripResponse, int64, error)
	UpdateTrip(ctx context.Context, userID, id string, req UpdateTripRequest) (TripResponse, error)
	ChangeTripStatus(ctx context.Context, userID, id string, req ChangeTripStatusRequest) (TripResponse, error)
	GetTripHistory(ctx context.Context, id string) ([]TripHistoryResponse, error)
}

type fleetService struct {
	tripRepo     repository.TripRepository
	vehicleRepo  repository.VehicleRepository
	employeeRepo repository.EmployeeRepository
	deceasedRepo repository.DeceasedRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *websocket.Hub
}

func NewFleetService(
	tripRepo repository.TripRepository,
	vehicleRepo repository.VehicleRepository,
	employeeRepo repository.EmployeeRepository,
	deceasedRepo repository.DeceasedRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) FleetService {
	return &fleetService{
		tripRepo:     tripRepo,
		vehicleRepo:  vehicleRepo,
		employeeRepo: employeeRepo,
		deceasedRepo: deceasedRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// --- Vehicles ---

func (s *fleetService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error) {
	vehicle := model.Vehicle{
		PlateNumber: strings.ToUpper(strings.TrimSpace(req.PlateNumber)),
		Name:        req.Name,
		Type:        req.Type,
		IsActive:    true,
	}
	if err := s.vehicleRepo.Create(ctx, &vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return toVehicleResponse(vehicle), nil
}

func (s *fleetService) GetVehicle(ctx context.Context, id string) (VehicleResponse, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}
	return toVehicleResponse(*vehicle), nil
}

func (s *fleetService) ListVehicles(ctx context.Context, activeOnly bool, page, limit int) ([]VehicleResponse, int64, error) {
	vehicles, total, err := s.vehicleRepo.List(ctx, activeOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	result := make([]VehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		result = append(result, toVehicleResponse(vehicle))
	}
	return result, total, nil
}

func (s *fleetService) UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}

	if req.Name != nil {
		vehicle.Name = *req.Name
	}
	if req.Type != nil {
		vehicle.Type = *req.Type
	}
	if req.IsActive != nil {
		vehicle.IsActive = *req.IsActive
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return toVehicleResponse(*vehicle), nil
}

func (s *fleetService) DeleteVehicle(ctx context.Context, id string) error {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle id: %w", err)
	}
	return s.vehicleRepo.Delete(ctx, vehicleID)
}

// --- Trips ---

func (s *fleetService) CreateTrip(ctx context.Context, userID string, req CreateTripRequest) (TripResponse, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return TripResponse{}, fmt.Errorf("invalid vehicle_id: %w", err)
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return TripResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}
	if !vehicle.IsActive {
		return TripResponse{}, fmt.Errorf("vehicle %s is not active", vehicle.PlateNumber)
	}

	trip := model.Trip{
		VehicleID:   vehicleID,
		Purpose:     req.Purpose,
		Origin:      req.Origin,
		Destination: req.Destination,
		Status:      model.TripStatusNotStarted,
	}

	if req.DriverID != nil && *req.DriverID != "" {
		driverID, err := uuid.Parse(*req.DriverID)
		if err != nil {
			return TripResponse{}, fmt.Errorf("invalid driver_id: %w", err)
		}
		if _, err := s.employeeRepo.FindByID(ctx, driverID); err != nil {
			return TripResponse{}, fmt.Errorf("driver not found: %w", err)
		}
		trip.DriverID = &driverID
	}
	if req.DeceasedID != nil && *req.DeceasedID != "" {
		deceasedID, err := uuid.Parse(*req.DeceasedID)
		if err != nil {
			return TripResponse{}, fmt.Errorf("invalid deceased_id: %w", err)
		}
		if _, err := s.deceasedRepo.FindByID(ctx, deceasedID); err != nil {
			return TripResponse{}, fmt.Errorf("deceased record not found: %w", err)
		}
		trip.DeceasedID = &deceasedID
	}
	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		scheduled, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return TripResponse{}, fmt.Errorf("invalid scheduled_at: %w", err)
		}
		trip.ScheduledAt = &scheduled
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, err := s.generateTripCode(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate trip code: %w", err)
		}
		trip.TripCode = code
		if err := s.tripRepo.Create(txCtx, &trip); err != nil {
			return fmt.Errorf("failed to create trip: %w", err)
		}
		s.logAudit(txCtx, userID, model.ActionCreateTrip, trip.ID.String(), trip.TripCode, req)
		return nil
	})
	if err != nil {
		return TripResponse{}, err
	}

	return s.reloadTrip(ctx, trip.ID)
}

func (s *fleetService) GetTrip(ctx context.Context, id string) (TripResponse, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return TripResponse{}, fmt.Errorf("invalid trip id: %w", err)
	}
	return s.reloadTrip(ctx, tripID)
}

func (s *fleetService) ListTrips(ctx context.Context, filter TripFilter) ([]TripResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	trips, total, err := s.tripRepo.List(ctx, repository.TripListFilter{
		Status:    filter.Status,
		VehicleID: filter.VehicleID,
		DriverID:  filter.DriverID,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch trips: %w", err)
	}

	result := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		result = append(result, toTripResponse(trip))
	}
	return result, total, nil
}

func (s *fleetService) UpdateTrip(ctx context.Context, userID, id string, req UpdateTripRequest) (TripResponse, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return TripResponse{}, fmt.Errorf("invalid trip id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		trip, err := s.tripRepo.FindByID(txCtx, tripID)
		if err != nil {
			return fmt.Errorf("trip not found: %w", err)
		}
		if trip.Status == model.TripStatusCompleted || trip.Status == model.TripStatusCancelled {
			return fmt.Errorf("trip %s is %s and cannot be edited", trip.TripCode, trip.Status)
		}

		if req.VehicleID != nil {
			vehicleID, err := uuid.Parse(*req.VehicleID)
			if err != nil {
				return fmt.Errorf("invalid vehicle_id: %w", err)
			}
			if _, err := s.vehicleRepo.FindByID(txCtx, vehicleID); err != nil {
				return fmt.Errorf("vehicle not found: %w", err)
			}
			trip.VehicleID = vehicleID
		}
		if req.DriverID != nil {
			if *req.DriverID == "" {
				trip.DriverID = nil
			} else {
				driverID, err := uuid.Parse(*req.DriverID)
				if err != nil {
					return fmt.Errorf("invalid driver_id: %w", err)
				}
				if _, err := s.employeeRepo.FindByID(txCtx, driverID); err != nil {
					return fmt.Errorf("driver not found: %w", err)
				}
				trip.DriverID = &driverID
			}
		}
		if req.Purpose != nil {
			trip.Purpose = *req.Purpose
		}
		if req.Origin != nil {
			trip.Origin = *req.Origin
		}
		if req.Destination != nil {
			trip.Destination = *req.Destination
		}
		if req.ScheduledAt != nil {
			scheduled, err := time.Parse(time.RFC3339, *req.ScheduledAt)
			if err != nil {
				return fmt.Errorf("invalid scheduled_at: %w", err)
			}
			trip.ScheduledAt = &scheduled
		}

		trip.History = nil
		if err := s.tripRepo.Update(txCtx, trip); err != nil {
			return fmt.Errorf("failed to update trip: %w", err)
		}
		return nil
	})
	if err != nil {
		return TripResponse{}, err
	}

	return s.reloadTrip(ctx, tripID)
}

// ChangeTripStatus validates the transition before touching anything. On a
// confirmed change it updates the trip, appends an immutable history entry,
// and writes the audit row in one transaction, then notifies listeners.
func (s *fleetService) ChangeTripStatus(ctx context.Context, userID, id string, req ChangeTripStatusRequest) (TripResponse, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return TripResponse{}, fmt.Errorf("invalid trip id: %w", err)
	}
	if !model.IsTripStatus(req.Status) {
		return TripResponse{}, fmt.Errorf("unknown trip status %q", req.Status)
	}

	var trip *model.Trip
	var previous string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		trip, err = s.tripRepo.FindByID(txCtx, tripID)
		if err != nil {
			return fmt.Errorf("trip not found: %w", err)
		}

		previous = trip.Status
		if err := model.ValidateTripTransition(trip.Status, req.Status, req.Note); err != nil {
			return err
		}

		trip.Status = req.Status
		trip.History = nil
		if err := s.tripRepo.Update(txCtx, trip); err != nil {
			return fmt.Errorf("failed to update trip: %w", err)
		}

		entry := model.TripStatusHistory{
			TripID: trip.ID,
			Status: req.Status,
			Note:   strings.TrimSpace(req.Note),
		}
		if uid, err := uuid.Parse(userID); err == nil {
			entry.ActorID = &uid
		}
		if err := s.tripRepo.AppendHistory(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to append history: %w", err)
		}

		s.logAudit(txCtx, userID, model.ActionUpdateTripStatus, trip.ID.String(), trip.TripCode,
			map[string]string{"from": previous, "to": req.Status, "note": entry.Note})
		return nil
	})
	if err != nil {
		return TripResponse{}, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.EventTripStatusChanged, map[string]string{
			"trip_id":   trip.ID.String(),
			"trip_code": trip.TripCode,
			"from":      previous,
			"to":        req.Status,
		})
	}

	return s.reloadTrip(ctx, tripID)
}

func (s *fleetService) GetTripHistory(ctx context.Context, id string) ([]TripHistoryResponse, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid trip id: %w", err)
	}

	entries, err := s.tripRepo.ListHistory(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	result := make([]TripHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, toTripHistoryResponse(entry))
	}
	return result, nil
}

// --- Helpers ---

func (s *fleetService) generateTripCode(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("TRP-%s-", time.Now().Format("20060102"))
	count, err := s.tripRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *fleetService) reloadTrip(ctx context.Context, id uuid.UUID) (TripResponse, error) {
	trip, err := s.tripRepo.FindByIDWithHistory(ctx, id)
	if err != nil {
		return TripResponse{}, fmt.Errorf("failed to reload trip: %w", err)
	}
	return toTripResponse(*trip), nil
}

func (s *fleetService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	details, _ := json.Marshal(payload)
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	})
}

// --- Mapping ---

func toVehicleResponse(vehicle model.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          vehicle.ID.String(),
		PlateNumber: vehicle.PlateNumber,
		Name:        vehicle.Name,
		Type:        vehicle.Type,
		IsActive:    vehicle.IsActive,
	}
}

func toTripResponse(trip model.Trip) TripResponse {
	resp := TripResponse{
		ID:          trip.ID.String(),
		TripCode:    trip.TripCode,
		VehicleID:   trip.VehicleID.String(),
		Purpose:     trip.Purpose,
		Origin:      trip.Origin,
		Destination: trip.Destination,
		Status:      trip.Status,
		CreatedAt:   trip.CreatedAt.Format(time.RFC3339),
	}
	if trip.Vehicle != nil {
		v := toVehicleResponse(*trip.Vehicle)
		resp.Vehicle = &v
	}
	if trip.DriverID != nil {
		id := trip.DriverID.String()
		resp.DriverID = &id
	}
	if trip.Driver != nil {
		resp.DriverName = trip.Driver.FullName
	}
	if trip.DeceasedID != nil {
		id := trip.DeceasedID.String()
		resp.DeceasedID = &id
	}
	if trip.ScheduledAt != nil {
		t := trip.ScheduledAt.Format(time.RFC3339)
		resp.ScheduledAt = &t
	}
	for _, entry := range trip.History {
		resp.History = append(resp.History, toTripHistoryResponse(entry))
	}
	return resp
}

func toTripHistoryResponse(entry model.TripStatusHistory) TripHistoryResponse {
	resp := TripHistoryResponse{
		ID:        entry.ID.String(),
		Status:    entry.Status,
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.ActorID != nil {
		resp.ActorID = entry.ActorID.String()
	}
	if entry.Actor != nil {
		resp.ActorName = entry.Actor.Username
	}
	return resp
}
