package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/telemed/telemed/internal/platform/apperr"
	"github.com/telemed/telemed/internal/platform/metrics"
)

// DoctorChecker reports doctor existence; implemented by the doctor service.
type DoctorChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PatientChecker reports patient existence; implemented by the patient service.
type PatientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	doctors  DoctorChecker
	patients PatientChecker
}

func NewService(repo Repository, doctors DoctorChecker, patients PatientChecker) *Service {
	return &Service{repo: repo, doctors: doctors, patients: patients}
}

// Book runs the validation chain in strict order, short-circuiting on the
// first failure: required fields, doctor exists, patient exists, slot free,
// insert. The availability check and the insert are separate round trips;
// the active-slot unique index catches the window between them and maps to
// the same conflict response.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *BookRequest) (*Appointment, error) {
	if req.DoctorID == "" || req.AppointmentDate == "" || req.AppointmentTime == "" {
		metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperr.Validation("All fields are required: doctor_id, appointment_date, and appointment_time")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperr.Validation("invalid doctor_id")
	}
	date, err := time.Parse(dateLayout, req.AppointmentDate)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperr.Validation("appointment_date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(timeLayout, req.AppointmentTime); err != nil {
		metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperr.Validation("appointment_time must be formatted as HH:MM")
	}

	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, apperr.Storage("Error checking doctor existence", err)
	}
	if !exists {
		metrics.BookingsTotal.WithLabelValues("doctor_not_found").Inc()
		return nil, apperr.NotFound("Doctor not found")
	}

	exists, err = s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, apperr.Storage("Error checking patient existence", err)
	}
	if !exists {
		metrics.BookingsTotal.WithLabelValues("patient_not_found").Inc()
		return nil, apperr.NotFound("Patient not found")
	}

	taken, err := s.repo.SlotTaken(ctx, doctorID, date, req.AppointmentTime)
	if err != nil {
		return nil, apperr.Storage("Error checking doctor availability", err)
	}
	if taken {
		metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		return nil, apperr.Conflict("This time slot is already booked")
	}

	a := &Appointment{
		PatientID: &patientID,
		DoctorID:  &doctorID,
		Date:      date,
		Time:      req.AppointmentTime,
		Status:    StatusScheduled,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.BookingsTotal.WithLabelValues("conflict").Inc()
			return nil, apperr.Conflict("This time slot is already booked")
		}
		return nil, apperr.Storage("Error booking appointment", err)
	}
	metrics.BookingsTotal.WithLabelValues("booked").Inc()
	return a, nil
}

// History returns every appointment of the patient, regardless of status.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*HistoryEntry, error) {
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperr.Storage("Internal server error", err)
	}
	entries := make([]*HistoryEntry, 0, len(appts))
	for _, a := range appts {
		entries = append(entries, a.history())
	}
	return entries, nil
}

func (s *Service) UpcomingForPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientView, error) {
	views, err := s.repo.UpcomingByPatient(ctx, patientID)
	if err != nil {
		return nil, apperr.Storage("Error fetching appointments", err)
	}
	return views, nil
}

func (s *Service) UpcomingForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorView, error) {
	views, err := s.repo.UpcomingByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperr.Storage("Error fetching appointments", err)
	}
	return views, nil
}

// Reschedule moves a non-canceled appointment owned by the session patient
// and resets its status to scheduled. A canceled or foreign appointment
// reports not found.
func (s *Service) Reschedule(ctx context.Context, id, patientID uuid.UUID, req *RescheduleRequest) error {
	if req.NewDate == "" || req.NewTime == "" {
		return apperr.Validation("New date and time are required")
	}
	date, err := time.Parse(dateLayout, req.NewDate)
	if err != nil {
		return apperr.Validation("newDate must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(timeLayout, req.NewTime); err != nil {
		return apperr.Validation("newTime must be formatted as HH:MM")
	}

	err = s.repo.Reschedule(ctx, id, patientID, date, req.NewTime)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Appointment not found or cannot be rescheduled")
	}
	if errors.Is(err, ErrSlotTaken) {
		return apperr.Conflict("This time slot is already booked")
	}
	if err != nil {
		return apperr.Storage("Error rescheduling appointment", err)
	}
	metrics.AppointmentTransitionsTotal.WithLabelValues("reschedule").Inc()
	return nil
}

// Cancel is terminal and not idempotent: canceling an already-canceled
// appointment reports not found.
func (s *Service) Cancel(ctx context.Context, id, patientID uuid.UUID) error {
	err := s.repo.Cancel(ctx, id, patientID)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Appointment not found or already canceled")
	}
	if err != nil {
		return apperr.Storage("Error canceling appointment", err)
	}
	metrics.AppointmentTransitionsTotal.WithLabelValues("cancel").Inc()
	return nil
}
