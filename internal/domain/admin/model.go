package admin

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

type Admin struct {
	ID           uuid.UUID `json:"admin_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"-"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PatientRecord is the admin-facing patient row; the password hash is never
// serialized.
type PatientRecord struct {
	ID          uuid.UUID `json:"patient_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Address     string    `json:"address"`
}

// PatientFilter narrows the admin patient listing. Search matches first
// name, last name and email; age bounds are computed from date of birth.
// A zero bound means unbounded.
type PatientFilter struct {
	Search string
	Gender string
	MinAge int
	MaxAge int
}
