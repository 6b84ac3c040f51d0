package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFleetServiceForTest(tripRepo *mockTripRepo, vehicleRepo *mockVehicleRepo, auditRepo *mockAuditRepo) FleetService {
	return NewFleetService(tripRepo, vehicleRepo, &mockEmployeeRepo{}, &mockDeceasedRepo{}, auditRepo, &mockTxManager{}, nil)
}

func TestChangeTripStatus_AppendsHistoryOnLegalTransition(t *testing.T) {
	tripRepo := &mockTripRepo{}
	auditRepo := &mockAuditRepo{}
	service := newFleetServiceForTest(tripRepo, &mockVehicleRepo{}, auditRepo)

	tripID := uuid.New()
	actorID := uuid.New()
	trip := &model.Trip{
		ID:       tripID,
		TripCode: "TRP-20250301-0001",
		Status:   model.TripStatusNotStarted,
	}

	tripRepo.On("FindByID", mock.Anything, tripID).Return(trip, nil)
	tripRepo.On("Update", mock.Anything, mock.MatchedBy(func(tr *model.Trip) bool {
		return tr.Status == model.TripStatusInProgress
	})).Return(nil)

	var entry *model.TripStatusHistory
	tripRepo.On("AppendHistory", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry = args.Get(1).(*model.TripStatusHistory)
	}).Return(nil)
	tripRepo.On("FindByIDWithHistory", mock.Anything, tripID).Return(trip, nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.ChangeTripStatus(context.Background(), actorID.String(), tripID.String(), ChangeTripStatusRequest{
		Status: model.TripStatusInProgress,
	})

	require.NoError(t, err)
	assert.Equal(t, model.TripStatusInProgress, resp.Status)

	require.NotNil(t, entry)
	assert.Equal(t, tripID, entry.TripID)
	assert.Equal(t, model.TripStatusInProgress, entry.Status)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actorID, *entry.ActorID)

	tripRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestChangeTripStatus_RejectsIllegalTransition(t *testing.T) {
	tripRepo := &mockTripRepo{}
	service := newFleetServiceForTest(tripRepo, &mockVehicleRepo{}, &mockAuditRepo{})

	tripID := uuid.New()
	tripRepo.On("FindByID", mock.Anything, tripID).Return(&model.Trip{
		ID:     tripID,
		Status: model.TripStatusCompleted,
	}, nil)

	_, err := service.ChangeTripStatus(context.Background(), uuid.New().String(), tripID.String(), ChangeTripStatusRequest{
		Status: model.TripStatusInProgress,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIllegalTransition))
	tripRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	tripRepo.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
}

func TestChangeTripStatus_RequiresNoteForDelay(t *testing.T) {
	tripRepo := &mockTripRepo{}
	service := newFleetServiceForTest(tripRepo, &mockVehicleRepo{}, &mockAuditRepo{})

	tripID := uuid.New()
	tripRepo.On("FindByID", mock.Anything, tripID).Return(&model.Trip{
		ID:     tripID,
		Status: model.TripStatusInProgress,
	}, nil)

	_, err := service.ChangeTripStatus(context.Background(), uuid.New().String(), tripID.String(), ChangeTripStatusRequest{
		Status: model.TripStatusDelayed,
		Note:   "   ",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoteRequired))
	tripRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChangeTripStatus_RejectsUnknownStatus(t *testing.T) {
	tripRepo := &mockTripRepo{}
	service := newFleetServiceForTest(tripRepo, &mockVehicleRepo{}, &mockAuditRepo{})

	_, err := service.ChangeTripStatus(context.Background(), uuid.New().String(), uuid.New().String(), ChangeTripStatusRequest{
		Status: "TELEPORTED",
	})

	require.Error(t, err)
	tripRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestChangeTripStatus_TrimsHistoryNote(t *testing.T) {
	tripRepo := &mockTripRepo{}
	auditRepo := &mockAuditRepo{}
	service := newFleetServiceForTest(tripRepo, &mockVehicleRepo{}, auditRepo)

	tripID := uuid.New()
	trip := &model.Trip{
		ID:       tripID,
		TripCode: "TRP-20250301-0002",
		Status:   model.TripStatusInProgress,
	}

	tripRepo.On("FindByID", mock.Anything, tripID).Return(trip, nil)
	tripRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	var entry *model.TripStatusHistory
	tripRepo.On("AppendHistory", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry = args.Get(1).(*model.TripStatusHistory)
	}).Return(nil)
	tripRepo.On("FindByIDWithHistory", mock.Anything, tripID).Return(trip, nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	_, err := service.ChangeTripStatus(context.Background(), uuid.New().String(), tripID.String(), ChangeTripStatusRequest{
		Status: model.TripStatusDelayed,
		Note:   "  flat tire on route 9  ",
	})

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "flat tire on route 9", entry.Note)
}

func TestCreateTrip_RejectsInactiveVehicle(t *testing.T) {
	tripRepo := &mockTripRepo{}
	vehicleRepo := &mockVehicleRepo{}
	service := newFleetServiceForTest(tripRepo, vehicleRepo, &mockAuditRepo{})

	vehicleID := uuid.New()
	vehicleRepo.On("FindByID", mock.Anything, vehicleID).Return(&model.Vehicle{
		ID:          vehicleID,
		PlateNumber: "29C-12345",
		IsActive:    false,
	}, nil)

	_, err := service.CreateTrip(context.Background(), uuid.New().String(), CreateTripRequest{
		VehicleID: vehicleID.String(),
		Purpose:   "pickup",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
	tripRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
