package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripListFilter narrows the trip listing.
type TripListFilter struct {
	Status    string
	VehicleID string
	DriverID  string
	Page      int
	Limit     int
}

type TripRepository interface {
	Create(ctx context.Context, trip *model.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	FindByIDWithHistory(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	List(ctx context.Context, filter TripListFilter) ([]model.Trip, int64, error)
	Update(ctx context.Context, trip *model.Trip) error
	AppendHistory(ctx context.Context, entry *model.TripStatusHistory) error
	ListHistory(ctx context.Context, tripID uuid.UUID) ([]model.TripStatusHistory, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	CountGroupedByStatus(ctx context.Context) (map[string]int64, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *model.Trip) error {
	return GetDB(ctx, r.db).Create(trip).Error
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	if err := GetDB(ctx, r.db).Preload("Vehicle").Preload("Driver").First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindByIDWithHistory(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	if err := GetDB(ctx, r.db).
		Preload("Vehicle").
		Preload("Driver").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("trip_status_histories.created_at asc")
		}).
		Preload("History.Actor").
		First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) List(ctx context.Context, filter TripListFilter) ([]model.Trip, int64, error) {
	var trips []model.Trip
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Trip{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VehicleID != "" {
		query = query.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.DriverID != "" {
		query = query.Where("driver_id = ?", filter.DriverID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Vehicle").Preload("Driver").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&trips).Error; err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *model.Trip) error {
	return GetDB(ctx, r.db).Save(trip).Error
}

// AppendHistory inserts one immutable history row. There is deliberately no
// update or delete counterpart.
func (r *tripRepository) AppendHistory(ctx context.Context, entry *model.TripStatusHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *tripRepository) ListHistory(ctx context.Context, tripID uuid.UUID) ([]model.TripStatusHistory, error) {
	var entries []model.TripStatusHistory
	if err := GetDB(ctx, r.db).Preload("Actor").
		Where("trip_id = ?", tripID).Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *tripRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Trip{}).Where("trip_code LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tripRepository) CountGroupedByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := GetDB(ctx, r.db).Model(&model.Trip{}).
		Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Status] = rw.Count
	}
	return result, nil
}
