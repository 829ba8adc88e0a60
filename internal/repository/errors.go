// Package repository defines error values and helpers that are reused
// across multiple repositories.  These sentinel values allow higher
// layers such as the engine to distinguish failure scenarios without
// inspecting SQL state.  Not-found conditions are reported with
// sql.ErrNoRows so callers can use a single errors.Is check regardless
// of which repository produced them.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailTaken is returned by UserRepo.Create when the email address
// is already registered.
var ErrEmailTaken = errors.New("email already registered")

// IsDuplicateEntry reports whether err is a MySQL duplicate-key
// violation (error 1062).  The reaction ledger relies on this to detect
// a racing insert against the unique (study_place_id, user_id, type)
// key instead of trusting an earlier existence read.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
