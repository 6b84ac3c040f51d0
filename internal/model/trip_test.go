package model

import (
	"testing"

	"backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTrip(t *testing.T) {
	allowed := []struct{ from, to string }{
		{TripStatusCancelled, TripStatusNotStarted},
		{TripStatusNotStarted, TripStatusInProgress},
		{TripStatusDelayed, TripStatusInProgress},
		{TripStatusNotStarted, TripStatusDelayed},
		{TripStatusInProgress, TripStatusDelayed},
		{TripStatusInProgress, TripStatusCompleted},
		{TripStatusNotStarted, TripStatusCancelled},
		{TripStatusDelayed, TripStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionTrip(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}
}

func TestCanTransitionTripRejectsUnlistedEdges(t *testing.T) {
	statuses := []string{
		TripStatusNotStarted, TripStatusInProgress, TripStatusDelayed,
		TripStatusCompleted, TripStatusCancelled,
	}

	// Completed is fully terminal, Cancelled only re-enters Not Started.
	for _, to := range statuses {
		assert.False(t, CanTransitionTrip(TripStatusCompleted, to), "COMPLETED -> %s should be rejected", to)
	}
	for _, to := range statuses {
		if to == TripStatusNotStarted {
			continue
		}
		assert.False(t, CanTransitionTrip(TripStatusCancelled, to), "CANCELLED -> %s should be rejected", to)
	}

	// No direct path back to Not Started once a trip has begun.
	assert.False(t, CanTransitionTrip(TripStatusInProgress, TripStatusNotStarted))
	assert.False(t, CanTransitionTrip(TripStatusDelayed, TripStatusNotStarted))

	// Self-transitions are never listed.
	for _, s := range statuses {
		assert.False(t, CanTransitionTrip(s, s), "%s -> %s should be rejected", s, s)
	}

	// Unknown statuses fall out of the table entirely.
	assert.False(t, CanTransitionTrip("BOGUS", TripStatusInProgress))
	assert.False(t, CanTransitionTrip(TripStatusNotStarted, "BOGUS"))
}

func TestTripNoteRequired(t *testing.T) {
	assert.True(t, TripNoteRequired(TripStatusDelayed))
	assert.True(t, TripNoteRequired(TripStatusCancelled))
	assert.False(t, TripNoteRequired(TripStatusNotStarted))
	assert.False(t, TripNoteRequired(TripStatusInProgress))
	assert.False(t, TripNoteRequired(TripStatusCompleted))
}

func TestValidateTripTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		note    string
		wantErr error
	}{
		{"start trip", TripStatusNotStarted, TripStatusInProgress, "", nil},
		{"complete trip", TripStatusInProgress, TripStatusCompleted, "", nil},
		{"delay with note", TripStatusInProgress, TripStatusDelayed, "traffic on highway", nil},
		{"cancel with note", TripStatusNotStarted, TripStatusCancelled, "family postponed", nil},
		{"delay without note", TripStatusInProgress, TripStatusDelayed, "", apperrors.ErrNoteRequired},
		{"delay with whitespace-only note", TripStatusInProgress, TripStatusDelayed, "   \t", apperrors.ErrNoteRequired},
		{"cancel without note", TripStatusDelayed, TripStatusCancelled, "", apperrors.ErrNoteRequired},
		{"illegal edge", TripStatusCompleted, TripStatusInProgress, "", apperrors.ErrIllegalTransition},
		{"illegal edge beats missing note", TripStatusCompleted, TripStatusCancelled, "", apperrors.ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTripTransition(tt.from, tt.to, tt.note)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIsTripStatus(t *testing.T) {
	assert.True(t, IsTripStatus(TripStatusDelayed))
	assert.False(t, IsTripStatus("PAUSED"))
	assert.False(t, IsTripStatus(""))
}
