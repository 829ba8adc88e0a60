// Package queue defines message payloads exchanged over the message broker.
package queue

// DecidedQueueName is the broker queue carrying approval decisions.
const DecidedQueueName = "reservation.decided"

// ReservationDecidedEvent is published after an owner's approve or
// reject decision has been committed.  It carries enough information
// for downstream consumers to log or notify without querying the
// primary database.
type ReservationDecidedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	StudyPlaceID  uint64 `json:"study_place_id"`
	PlaceName     string `json:"place_name"`
	RequesterID   uint64 `json:"requester_id"`
	OwnerID       uint64 `json:"owner_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	DecidedAt     string `json:"decided_at"`
}
