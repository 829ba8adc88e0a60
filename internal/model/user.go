package model

import "time"

// Role enumerates the closed set of user roles recognised by the
// policy table.  Students and teachers book study places; library
// staff publish and administer them.
type Role string

const (
	RoleStudent      Role = "student"
	RoleTeacher      Role = "teacher"
	RoleLibraryStaff Role = "library_staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleLibraryStaff:
		return true
	}
	return false
}

// User represents an application user as stored in the `users` table.
// The password is stored only as a bcrypt hash.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name shown next to posts and comments.
//  Email        – unique email address used for login.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of the Role constants above.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
