package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles. New users default to RoleStudent.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a student (or administrator) account. The ID is the
// subject claim of the auth provider's token, so users are always
// upserted rather than created.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Email           string    `json:"email" gorm:"uniqueIndex"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Grade           string    `json:"grade"`
	School          string    `json:"school"`
	Role            string    `json:"role" gorm:"default:'student'"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user may access the admin surface.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpsertUser carries the full replacement state for a user profile.
// Fields left empty overwrite the stored value; only CreatedAt survives
// an upsert of an existing user.
type UpsertUser struct {
	ID              string `json:"id" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageUrl" validate:"omitempty,url"`
	Grade           string `json:"grade"`
	School          string `json:"school"`
	Role            string `json:"role" validate:"omitempty,oneof=student admin"`
}

// AuthClaims are the custom claims carried by development tokens,
// mirroring what a Firebase ID token provides in production.
type AuthClaims struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ProfileImageURL string `json:"profile_image_url"`
	jwt.RegisteredClaims
}
