package model

import "time"

// Comment is a user-authored note attached to a study place.  Comments
// are immutable once created and disappear only when their place is
// deleted.
type Comment struct {
	ID           uint64    `json:"id"`
	StudyPlaceID uint64    `json:"study_place_id"`
	UserID       uint64    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}
