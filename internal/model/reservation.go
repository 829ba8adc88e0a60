package model

import "time"

// Status enumerates the lifecycle states of a reservation.  The set is
// closed: repositories only ever write values produced by this package,
// and the engine rejects transitions not allowed by CanTransition.
type Status string

const (
	StatusPending   Status = "pending"   // awaiting owner approval
	StatusConfirmed Status = "confirmed" // approved by the place owner
	StatusCancelled Status = "cancelled" // rejected or withdrawn
	StatusCompleted Status = "completed" // slot has elapsed
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether a reservation in state s can never change
// state again.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransition reports whether a reservation may move from s to next.
// pending may be confirmed or cancelled; confirmed may still be
// cancelled (owner takes the place offline) or completed (slot has
// elapsed, driven by the completion sweep).  Terminal states admit no
// further transitions.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	}
	return false
}

// Blocks reports whether a reservation in state s occupies its slot for
// the purpose of conflict checking.  Only pending and confirmed
// reservations block other bookings.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation records a user's request to occupy a study place for a
// half-open time window [StartTime, EndTime) on a calendar day.  Times
// are minute-granular wall-clock values formatted as "HH:MM"; the Date
// is formatted as "YYYY-MM-DD".  This struct mirrors the `reservations`
// table.
type Reservation struct {
	ID           uint64    `json:"id"`
	StudyPlaceID uint64    `json:"study_place_id"`
	UserID       uint64    `json:"user_id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
