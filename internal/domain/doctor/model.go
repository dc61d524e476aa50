package doctor

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Doctor is an admin-managed practitioner record. Schedule is an opaque
// availability blob stored as jsonb and echoed back on the public listing.
type Doctor struct {
	ID             uuid.UUID       `json:"doctor_id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Specialization string          `json:"specialization"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Schedule       json.RawMessage `json:"schedule"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`
}

// DirectoryEntry is the public listing shape: composed display name plus
// the schedule parsed back into a structure.
type DirectoryEntry struct {
	DoctorID       uuid.UUID       `json:"doctor_id"`
	Name           string          `json:"name"`
	Specialization string          `json:"specialization"`
	Availability   json.RawMessage `json:"availability"`
}

type UpsertRequest struct {
	FirstName      string          `json:"first_name" validate:"required"`
	LastName       string          `json:"last_name" validate:"required"`
	Email          string          `json:"email" validate:"required,email"`
	Phone          string          `json:"phone" validate:"required"`
	Specialization string          `json:"specialization" validate:"required"`
	Schedule       json.RawMessage `json:"schedule" validate:"required"`
}
