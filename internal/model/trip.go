package model

import (
	"strings"
	"time"

	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripStatus enum constants
const (
	TripStatusNotStarted = "NOT_STARTED"
	TripStatusInProgress = "IN_PROGRESS"
	TripStatusDelayed    = "DELAYED"
	TripStatusCompleted  = "COMPLETED"
	TripStatusCancelled  = "CANCELLED"
)

// tripAllowedFrom maps each target status to the statuses it may be entered
// from. Anything not listed is rejected, which makes COMPLETED and CANCELLED
// terminal, except that a cancelled trip may be reset to NOT_STARTED.
var tripAllowedFrom = map[string][]string{
	TripStatusNotStarted: {TripStatusCancelled},
	TripStatusInProgress: {TripStatusNotStarted, TripStatusDelayed},
	TripStatusDelayed:    {TripStatusNotStarted, TripStatusInProgress},
	TripStatusCompleted:  {TripStatusInProgress},
	TripStatusCancelled:  {TripStatusNotStarted, TripStatusDelayed},
}

// tripNoteRequired lists target statuses that need an explanatory note.
var tripNoteRequired = map[string]bool{
	TripStatusDelayed:   true,
	TripStatusCancelled: true,
}

// IsTripStatus reports whether s is one of the known trip statuses.
func IsTripStatus(s string) bool {
	_, ok := tripAllowedFrom[s]
	return ok
}

// CanTransitionTrip reports whether a trip may move from one status to another.
func CanTransitionTrip(from, to string) bool {
	for _, allowed := range tripAllowedFrom[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

// TripNoteRequired reports whether entering the given status requires a note.
func TripNoteRequired(to string) bool {
	return tripNoteRequired[to]
}

// ValidateTripTransition checks a requested status change before any mutation.
// It returns apperrors.ErrIllegalTransition for an unlisted edge and
// apperrors.ErrNoteRequired when the target needs a note and the (trimmed)
// note is empty. Distinct errors so the UI can show the right message.
func ValidateTripTransition(from, to, note string) error {
	if !CanTransitionTrip(from, to) {
		return apperrors.ErrIllegalTransition
	}
	if TripNoteRequired(to) && strings.TrimSpace(note) == "" {
		return apperrors.ErrNoteRequired
	}
	return nil
}

// VehicleType enum constants
const (
	VehicleTypeHearse = "HEARSE"
	VehicleTypeVan    = "VAN"
	VehicleTypeOther  = "OTHER"
)

// Vehicle is a fleet vehicle used for transport trips.
type Vehicle struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PlateNumber string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"plate_number"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Type        string         `gorm:"type:varchar(20);not null;default:'HEARSE'" json:"type"` // HEARSE, VAN, OTHER
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Trip is a scheduled transport run. Status is mutated only through a
// validated transition; every confirmed change appends a history entry.
type Trip struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TripCode    string              `gorm:"type:varchar(30);uniqueIndex;not null" json:"trip_code"`
	VehicleID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle     *Vehicle            `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	DriverID    *uuid.UUID          `gorm:"type:uuid;index" json:"driver_id"`
	Driver      *Employee           `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	DeceasedID  *uuid.UUID          `gorm:"type:uuid;index" json:"deceased_id"`
	Purpose     string              `gorm:"type:varchar(100)" json:"purpose"` // pickup, funeral, transfer...
	Origin      string              `gorm:"type:text" json:"origin"`
	Destination string              `gorm:"type:text" json:"destination"`
	ScheduledAt *time.Time          `json:"scheduled_at"`
	Status      string              `gorm:"type:varchar(20);not null;default:'NOT_STARTED';index" json:"status"`
	History     []TripStatusHistory `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TripStatusHistory is an append-only record of a confirmed status change.
// Entries are never edited or removed.
type TripStatusHistory struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TripID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"trip_id"`
	Status    string     `gorm:"type:varchar(20);not null" json:"status"`
	Note      string     `gorm:"type:text" json:"note"`
	ActorID   *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	Actor     *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
