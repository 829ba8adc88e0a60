package model

import "time"

// ReactionLike is the only reaction type currently supported.  The
// column is a free string so further types can be added without a
// schema change.
const ReactionLike = "like"

// Reaction is an idempotent per-user preference marker on a study
// place.  The database enforces at most one row per
// (study_place_id, user_id, type) through a unique key; toggling is
// implemented as insert-or-delete against that key.
type Reaction struct {
	ID           uint64    `json:"id"`
	StudyPlaceID uint64    `json:"study_place_id"`
	UserID       uint64    `json:"user_id"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}
