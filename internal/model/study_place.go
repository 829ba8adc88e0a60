package model

import "time"

// StudyPlace represents a reservable physical space published by a
// library staff member.  It corresponds to a row in the `study_places`
// table.  The availability flag is owner-controlled and independent of
// calendar occupancy: a place with every slot booked can still be
// marked available, and vice versa.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the staff member who created the place.
//  Name        – display name of the place.
//  Description – free-form description.
//  Location    – human-readable location (building, floor, room).
//  ImageURL    – public URL of an uploaded image, if any.
//  Available   – whether the place currently accepts new reservations.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type StudyPlace struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
