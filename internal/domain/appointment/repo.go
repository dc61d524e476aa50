package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("appointment not found")

// ErrSlotTaken is returned when an insert collides with the active-slot
// unique index, closing the race that the availability pre-check leaves open.
var ErrSlotTaken = errors.New("slot already booked")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	// SlotTaken reports whether a non-canceled appointment occupies the
	// exact (doctor, date, time) triple.
	SlotTaken(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	UpcomingByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientView, error)
	UpcomingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorView, error)
	// Reschedule moves a non-canceled appointment owned by the patient;
	// ErrNotFound when no row matched.
	Reschedule(ctx context.Context, id, patientID uuid.UUID, date time.Time, timeOfDay string) error
	// Cancel marks a not-yet-canceled appointment owned by the patient;
	// ErrNotFound when no row matched.
	Cancel(ctx context.Context, id, patientID uuid.UUID) error
}
