package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/study-place-reservation/internal/model"
)

// ReactionRepo persists the reaction ledger.  The `reactions` table
// carries a unique key over (study_place_id, user_id, type); the ledger
// leans on that key, not on read-then-write, to stay idempotent under
// concurrent toggles.  Counts are always recomputed with COUNT(*).
type ReactionRepo struct {
	db *sql.DB
}

// NewReactionRepo returns a ReactionRepo bound to the given database.
func NewReactionRepo(db *sql.DB) *ReactionRepo { return &ReactionRepo{db: db} }

// ExistsTx reports whether the user already has a reaction of the given
// type on the place.
func (r *ReactionRepo) ExistsTx(ctx context.Context, tx *sql.Tx, placeID, userID uint64, typ string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reactions WHERE study_place_id = ? AND user_id = ? AND type = ?)`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, placeID, userID, typ).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertTx records a reaction.  A duplicate-key error surfaces
// unwrapped so the caller can recognise it with IsDuplicateEntry and
// treat a racing insert as "already present".
func (r *ReactionRepo) InsertTx(ctx context.Context, tx *sql.Tx, placeID, userID uint64, typ string) error {
	const q = `INSERT INTO reactions (study_place_id, user_id, type) VALUES (?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, placeID, userID, typ)
	return err
}

// DeleteTx removes the user's reaction of the given type and reports
// whether a row was actually deleted.
func (r *ReactionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, placeID, userID uint64, typ string) (bool, error) {
	const q = `DELETE FROM reactions WHERE study_place_id = ? AND user_id = ? AND type = ?`
	res, err := tx.ExecContext(ctx, q, placeID, userID, typ)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountTx recomputes the number of reactions of a type on a place from
// the ledger inside the toggle transaction.
func (r *ReactionRepo) CountTx(ctx context.Context, tx *sql.Tx, placeID uint64, typ string) (int, error) {
	const q = `SELECT COUNT(*) FROM reactions WHERE study_place_id = ? AND type = ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, placeID, typ).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountLikes is the read-only aggregate used outside of toggles.
func (r *ReactionRepo) CountLikes(ctx context.Context, placeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reactions WHERE study_place_id = ? AND type = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, placeID, model.ReactionLike).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByPlaceTx removes all reactions of a study place as part of the
// cascade delete and returns the number of rows removed.
func (r *ReactionRepo) DeleteByPlaceTx(ctx context.Context, tx *sql.Tx, placeID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM reactions WHERE study_place_id = ?`, placeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
