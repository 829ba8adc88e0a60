package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/study-place-reservation/internal/model"
)

// StudyPlaceRepo provides persistence for study places.  Rows are
// stored in the `study_places` table; the availability flag is a plain
// column mutated only through SetAvailabilityTx.
type StudyPlaceRepo struct {
	db *sql.DB
}

// NewStudyPlaceRepo returns a StudyPlaceRepo bound to the given database.
func NewStudyPlaceRepo(db *sql.DB) *StudyPlaceRepo { return &StudyPlaceRepo{db: db} }

const studyPlaceColumns = `id, owner_id, name, description, location, image_url, is_available, created_at, updated_at`

func scanStudyPlace(row interface{ Scan(...any) error }) (*model.StudyPlace, error) {
	var p model.StudyPlace
	var imageURL sql.NullString
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Location,
		&imageURL, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		u := imageURL.String
		p.ImageURL = &u
	}
	return &p, nil
}

// Create inserts a new study place and populates the generated ID and
// timestamp fields on the provided record.
func (r *StudyPlaceRepo) Create(ctx context.Context, p *model.StudyPlace) error {
	const q = `INSERT INTO study_places (owner_id, name, description, location, image_url, is_available) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.OwnerID, p.Name, p.Description, p.Location, p.ImageURL, p.Available)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + studyPlaceColumns + ` FROM study_places WHERE id = ?`
	stored, err := scanStudyPlace(r.db.QueryRowContext(ctx, sel, p.ID))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetByID returns a study place by primary key.  sql.ErrNoRows is
// returned when the place does not exist.
func (r *StudyPlaceRepo) GetByID(ctx context.Context, id uint64) (*model.StudyPlace, error) {
	const q = `SELECT ` + studyPlaceColumns + ` FROM study_places WHERE id = ?`
	return scanStudyPlace(r.db.QueryRowContext(ctx, q, id))
}

// LockTx loads a study place inside tx with a row lock (FOR UPDATE).
// All booking writes for a place must go through this lock so that two
// concurrent admissible-looking requests are serialized by the
// database rather than racing past each other's conflict checks.
func (r *StudyPlaceRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.StudyPlace, error) {
	const q = `SELECT ` + studyPlaceColumns + ` FROM study_places WHERE id = ? FOR UPDATE`
	return scanStudyPlace(tx.QueryRowContext(ctx, q, id))
}

// SetAvailabilityTx flips the availability flag inside tx.  The caller
// is responsible for the ownership check.
func (r *StudyPlaceRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, available bool) error {
	const q = `UPDATE study_places SET is_available = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, available, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// RowsAffected is zero both when the row is absent and when the
	// flag already holds the requested value, so re-check existence.
	if n == 0 {
		var exists uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM study_places WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTx removes the study place row itself.  Dependent reservations,
// reactions and comments must be removed first in the same transaction;
// the engine owns that ordering.
func (r *StudyPlaceRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM study_places WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PlaceStats is a study place decorated with its creator's name and the
// social aggregates recomputed from the ledger at query time.  Counts
// are never cached between requests.
type PlaceStats struct {
	model.StudyPlace
	CreatorName  string `json:"creator_name"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	ViewerLiked  bool   `json:"viewer_liked"`
}

// ListWithStats returns all study places, newest first, with like and
// comment counts and whether viewerID has liked each place.  The
// aggregates are computed by the database per call so concurrent
// toggles and comments are always reflected.
func (r *StudyPlaceRepo) ListWithStats(ctx context.Context, viewerID uint64) ([]PlaceStats, error) {
	const q = `SELECT p.id, p.owner_id, p.name, p.description, p.location, p.image_url, p.is_available,
                      p.created_at, p.updated_at, u.name,
                      (SELECT COUNT(*) FROM reactions x WHERE x.study_place_id = p.id AND x.type = ?),
                      (SELECT COUNT(*) FROM comments cm WHERE cm.study_place_id = p.id),
                      EXISTS(SELECT 1 FROM reactions v WHERE v.study_place_id = p.id AND v.user_id = ? AND v.type = ?)
               FROM study_places p
               JOIN users u ON u.id = p.owner_id
               ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, model.ReactionLike, viewerID, model.ReactionLike)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PlaceStats, 0)
	for rows.Next() {
		var s PlaceStats
		var imageURL sql.NullString
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Location,
			&imageURL, &s.Available, &s.CreatedAt, &s.UpdatedAt,
			&s.CreatorName, &s.LikeCount, &s.CommentCount, &s.ViewerLiked); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			u := imageURL.String
			s.ImageURL = &u
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetWithStats is the single-row variant of ListWithStats.
func (r *StudyPlaceRepo) GetWithStats(ctx context.Context, id, viewerID uint64) (*PlaceStats, error) {
	const q = `SELECT p.id, p.owner_id, p.name, p.description, p.location, p.image_url, p.is_available,
                      p.created_at, p.updated_at, u.name,
                      (SELECT COUNT(*) FROM reactions x WHERE x.study_place_id = p.id AND x.type = ?),
                      (SELECT COUNT(*) FROM comments cm WHERE cm.study_place_id = p.id),
                      EXISTS(SELECT 1 FROM reactions v WHERE v.study_place_id = p.id AND v.user_id = ? AND v.type = ?)
               FROM study_places p
               JOIN users u ON u.id = p.owner_id
               WHERE p.id = ?`
	var s PlaceStats
	var imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, model.ReactionLike, viewerID, model.ReactionLike, id).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Location,
		&imageURL, &s.Available, &s.CreatedAt, &s.UpdatedAt,
		&s.CreatorName, &s.LikeCount, &s.CommentCount, &s.ViewerLiked)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		u := imageURL.String
		s.ImageURL = &u
	}
	return &s, nil
}
