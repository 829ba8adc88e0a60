package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/study-place-reservation/internal/conflict"
	"github.com/iliyamo/study-place-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation claims a half-open time window on a study place for one
// calendar day and moves through the pending/confirmed/cancelled/
// completed lifecycle.  Dates are stored in DATE columns and times of
// day in TIME columns; all timestamps are assumed to be UTC.
//
// Booking writes (CreateTx, UpdateSlotTx) must run inside the same
// transaction as the admissibility check, after the study place row has
// been locked via StudyPlaceRepo.LockTx.  The repository does not check
// admissibility itself; the engine sequences lock, check and write.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, study_place_id, user_id, reservation_date, start_time, end_time, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var date time.Time
	var start, end string
	err := row.Scan(&res.ID, &res.StudyPlaceID, &res.UserID, &date, &start, &end,
		&res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Date = date.Format(model.DateLayout)
	res.StartTime = trimSeconds(start)
	res.EndTime = trimSeconds(end)
	return &res, nil
}

// trimSeconds normalizes a MySQL TIME value ("09:00:00") to the minute
// granularity used throughout the API ("09:00").
func trimSeconds(t string) string {
	if len(t) == len("15:04:05") {
		return t[:len("15:04")]
	}
	return t
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// record.  The caller must commit or rollback.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (study_place_id, user_id, reservation_date, start_time, end_time, status) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.StudyPlaceID, res.UserID, res.Date, res.StartTime, res.EndTime, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	stored, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// OwnedReservation is a reservation joined with the owner and name of
// its study place.  The owner ID lets the engine authorize approve,
// reject and delete without a second query.
type OwnedReservation struct {
	model.Reservation
	OwnerID   uint64
	PlaceName string
}

// GetOwnedTx loads a reservation together with its place's owner and
// name, inside a transaction.  It returns sql.ErrNoRows when the
// reservation does not exist.
func (r *ReservationRepo) GetOwnedTx(ctx context.Context, tx *sql.Tx, id uint64) (*OwnedReservation, error) {
	const q = `SELECT r.id, r.study_place_id, r.user_id, r.reservation_date, r.start_time, r.end_time,
                      r.status, r.created_at, r.updated_at, p.owner_id, p.name
               FROM reservations r
               JOIN study_places p ON p.id = r.study_place_id
               WHERE r.id = ?`
	var own OwnedReservation
	var date time.Time
	var start, end string
	err := tx.QueryRowContext(ctx, q, id).Scan(&own.ID, &own.StudyPlaceID, &own.UserID,
		&date, &start, &end, &own.Status, &own.CreatedAt, &own.UpdatedAt, &own.OwnerID, &own.PlaceName)
	if err != nil {
		return nil, err
	}
	own.Date = date.Format(model.DateLayout)
	own.StartTime = trimSeconds(start)
	own.EndTime = trimSeconds(end)
	return &own, nil
}

// BusyIntervalsTx returns the blocking [start,end) windows for a place
// and day, excluding excludeID when non-zero (a reservation never
// conflicts with itself while being edited).  Only pending and
// confirmed reservations block.  Must run inside the booking
// transaction, after the place row is locked.
func (r *ReservationRepo) BusyIntervalsTx(ctx context.Context, tx *sql.Tx, placeID uint64, date string, excludeID uint64) ([]conflict.Interval, error) {
	const q = `SELECT start_time, end_time FROM reservations
               WHERE study_place_id = ? AND reservation_date = ? AND status IN ('pending', 'confirmed') AND id <> ?`
	rows, err := tx.QueryContext(ctx, q, placeID, date, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var busy []conflict.Interval
	for rows.Next() {
		var start, end string
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		s, err := model.ParseClock(start)
		if err != nil {
			return nil, err
		}
		e, err := model.ParseClock(end)
		if err != nil {
			return nil, err
		}
		busy = append(busy, conflict.Interval{Start: s, End: e})
	}
	return busy, rows.Err()
}

// HasBlockingForUserTx reports whether userID already holds a pending
// or confirmed reservation on the place.  The facade policy allows at
// most one live reservation per user per place.
func (r *ReservationRepo) HasBlockingForUserTx(ctx context.Context, tx *sql.Tx, placeID, userID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reservations
               WHERE study_place_id = ? AND user_id = ? AND status IN ('pending', 'confirmed'))`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, placeID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateSlotTx rewrites the slot of a reservation and forces its status
// back to pending so the edit goes through approval again.  The WHERE
// clause repeats the editable statuses: the engine's earlier read is a
// plain snapshot, so the write itself must refuse a reservation that
// settled concurrently.  It reports whether a row changed.
func (r *ReservationRepo) UpdateSlotTx(ctx context.Context, tx *sql.Tx, id uint64, date, start, end string) (bool, error) {
	const q = `UPDATE reservations SET reservation_date = ?, start_time = ?, end_time = ?, status = 'pending'
               WHERE id = ? AND status IN ('pending', 'confirmed')`
	res, err := tx.ExecContext(ctx, q, date, start, end, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetStatusTx stores a new lifecycle status, guarded by the status the
// caller read.  A decision based on a stale snapshot matches no row
// once a concurrent decision has committed, so a terminal status can
// never be overwritten.  It reports whether a row changed.
func (r *ReservationRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.Status) (bool, error) {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteTx removes a single reservation row.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}

// DeleteByPlaceTx removes every reservation of a study place as part of
// the cascade delete.  It returns the number of rows removed.
func (r *ReservationRepo) DeleteByPlaceTx(ctx context.Context, tx *sql.Tx, placeID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE study_place_id = ?`, placeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReservationDetail is a reservation joined with display data of its
// study place and requester.  It is the shape returned by the listing
// endpoints.
type ReservationDetail struct {
	model.Reservation
	PlaceName      string `json:"place_name"`
	PlaceLocation  string `json:"place_location"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email,omitempty"`
}

const detailColumns = `r.id, r.study_place_id, r.user_id, r.reservation_date, r.start_time, r.end_time,
                       r.status, r.created_at, r.updated_at, p.name, p.location, u.name, u.email`

func scanDetail(rows *sql.Rows) (*ReservationDetail, error) {
	var d ReservationDetail
	var date time.Time
	var start, end string
	if err := rows.Scan(&d.ID, &d.StudyPlaceID, &d.UserID, &date, &start, &end,
		&d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.PlaceName, &d.PlaceLocation, &d.RequesterName, &d.RequesterEmail); err != nil {
		return nil, err
	}
	d.Date = date.Format(model.DateLayout)
	d.StartTime = trimSeconds(start)
	d.EndTime = trimSeconds(end)
	return &d, nil
}

// ListByUser returns all reservations created by a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT ` + detailColumns + `
               FROM reservations r
               JOIN study_places p ON p.id = r.study_place_id
               JOIN users u ON u.id = r.user_id
               WHERE r.user_id = ?
               ORDER BY r.created_at DESC`
	return r.listDetails(ctx, q, userID)
}

// ListForOwner returns reservations on places owned by ownerID, newest
// first, optionally restricted to one status.  An empty status means
// all lifecycle states.
func (r *ReservationRepo) ListForOwner(ctx context.Context, ownerID uint64, status model.Status) ([]ReservationDetail, error) {
	q := `SELECT ` + detailColumns + `
          FROM reservations r
          JOIN study_places p ON p.id = r.study_place_id
          JOIN users u ON u.id = r.user_id
          WHERE p.owner_id = ?`
	args := []any{ownerID}
	if status != "" {
		q += ` AND r.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY r.created_at DESC`
	return r.listDetails(ctx, q, args...)
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// MarkCompleted flips confirmed reservations whose slot has fully
// elapsed to completed and returns how many rows changed.  The single
// UPDATE is atomic, so the sweep needs no explicit transaction and is
// safe to rerun at any time.
func (r *ReservationRepo) MarkCompleted(ctx context.Context, today, clock string) (int64, error) {
	const q = `UPDATE reservations SET status = 'completed'
               WHERE status = 'confirmed'
                 AND (reservation_date < ? OR (reservation_date = ? AND end_time <= ?))`
	res, err := r.db.ExecContext(ctx, q, today, today, clock)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
