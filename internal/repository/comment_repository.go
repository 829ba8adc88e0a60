package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/study-place-reservation/internal/model"
)

// CommentRepo persists comments on study places.  Comments are
// append-only; the only delete path is the cascade when a place is
// removed.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo returns a CommentRepo bound to the given database.
func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

// CreateTx appends a comment inside tx and populates the generated ID
// and the server-assigned timestamp on the record.
func (r *CommentRepo) CreateTx(ctx context.Context, tx *sql.Tx, cm *model.Comment) error {
	const q = `INSERT INTO comments (study_place_id, user_id, content) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, cm.StudyPlaceID, cm.UserID, cm.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	const sel = `SELECT c.study_place_id, c.user_id, c.content, c.created_at, u.name
                 FROM comments c
                 JOIN users u ON u.id = c.user_id
                 WHERE c.id = ?`
	return tx.QueryRowContext(ctx, sel, cm.ID).Scan(
		&cm.StudyPlaceID, &cm.UserID, &cm.Content, &cm.CreatedAt, &cm.UserName)
}

// ListByPlace returns all comments for a place, newest first, each with
// its author's display name.
func (r *CommentRepo) ListByPlace(ctx context.Context, placeID uint64) ([]model.Comment, error) {
	const q = `SELECT c.id, c.study_place_id, c.user_id, c.content, c.created_at, u.name
               FROM comments c
               JOIN users u ON u.id = c.user_id
               WHERE c.study_place_id = ?
               ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Comment, 0)
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.StudyPlaceID, &cm.UserID, &cm.Content, &cm.CreatedAt, &cm.UserName); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// CountByPlace recomputes the comment count from the table at call time.
func (r *CommentRepo) CountByPlace(ctx context.Context, placeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM comments WHERE study_place_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, placeID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByPlaceTx removes all comments of a study place as part of the
// cascade delete and returns the number of rows removed.
func (r *CommentRepo) DeleteByPlaceTx(ctx context.Context, tx *sql.Tx, placeID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE study_place_id = ?`, placeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
