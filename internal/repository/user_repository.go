package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/study-place-reservation/internal/model"
)

// UserRepo provides persistence for user accounts.  Emails are unique;
// a duplicate registration surfaces as ErrEmailTaken.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user and populates the generated ID and creation
// timestamp.  ErrEmailTaken is returned when the email address already
// exists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if IsDuplicateEntry(err) {
			return ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	const sel = `SELECT created_at FROM users WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, u.ID).Scan(&u.CreatedAt)
}

// GetByEmail loads a user by email.  sql.ErrNoRows is returned when no
// account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, q, email))
}

// GetByID loads a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserRepo) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
