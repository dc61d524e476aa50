package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a registered patient account. PasswordHash never leaves the
// service layer.
type Patient struct {
	ID           uuid.UUID `json:"patient_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	DateOfBirth  time.Time `json:"-"`
	Gender       string    `json:"gender"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

const dateLayout = "2006-01-02"

// Profile is the patient-facing view of their own row.
type Profile struct {
	ID          uuid.UUID `json:"patient_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Address     string    `json:"address"`
}

func (p *Patient) profile() *Profile {
	return &Profile{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth.Format(dateLayout),
		Gender:      p.Gender,
		Address:     p.Address,
	}
}

type RegisterRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required,oneof=Male Female Other"`
	Address     string `json:"address" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest overwrites every mutable field. There is no partial
// update; an omitted field overwrites the stored value with its zero.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required,oneof=Male Female Other"`
	Address     string `json:"address" validate:"required"`
}
