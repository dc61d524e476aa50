package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/telemed/telemed/internal/platform/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
	// raceOnCreate simulates a concurrent booking landing between the
	// availability check and the insert.
	raceOnCreate bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	if m.raceOnCreate {
		return ErrSlotTaken
	}
	for _, existing := range m.appts {
		if existing.DoctorID != nil && a.DoctorID != nil &&
			*existing.DoctorID == *a.DoctorID &&
			existing.Date.Equal(a.Date) && existing.Time == a.Time &&
			existing.Status != StatusCanceled {
			return ErrSlotTaken
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) SlotTaken(_ context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	for _, a := range m.appts {
		if a.DoctorID != nil && *a.DoctorID == doctorID &&
			a.Date.Equal(date) && a.Time == timeOfDay && a.Status != StatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.PatientID != nil && *a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) UpcomingByPatient(_ context.Context, patientID uuid.UUID) ([]*PatientView, error) {
	var out []*PatientView
	today := time.Now().Truncate(24 * time.Hour)
	for _, a := range m.appts {
		if a.PatientID != nil && *a.PatientID == patientID && a.Date.After(today) {
			out = append(out, &PatientView{
				AppointmentID:   a.ID,
				AppointmentDate: a.Date.Format(dateLayout),
				AppointmentTime: a.Time,
				Status:          a.Status,
			})
		}
	}
	return out, nil
}

func (m *mockRepo) UpcomingByDoctor(_ context.Context, doctorID uuid.UUID) ([]*DoctorView, error) {
	var out []*DoctorView
	today := time.Now().Truncate(24 * time.Hour)
	for _, a := range m.appts {
		if a.DoctorID != nil && *a.DoctorID == doctorID && a.Date.After(today) {
			out = append(out, &DoctorView{
				AppointmentID:   a.ID,
				AppointmentDate: a.Date.Format(dateLayout),
				AppointmentTime: a.Time,
				Status:          a.Status,
			})
		}
	}
	return out, nil
}

func (m *mockRepo) Reschedule(_ context.Context, id, patientID uuid.UUID, date time.Time, timeOfDay string) error {
	a, ok := m.appts[id]
	if !ok || a.PatientID == nil || *a.PatientID != patientID || a.Status == StatusCanceled {
		return ErrNotFound
	}
	a.Date = date
	a.Time = timeOfDay
	a.Status = StatusScheduled
	return nil
}

func (m *mockRepo) Cancel(_ context.Context, id, patientID uuid.UUID) error {
	a, ok := m.appts[id]
	if !ok || a.PatientID == nil || *a.PatientID != patientID || a.Status == StatusCanceled {
		return ErrNotFound
	}
	a.Status = StatusCanceled
	return nil
}

// removeDoctor nulls the doctor reference on every matching appointment,
// mirroring the ON DELETE SET NULL clause on appointments.doctor_id.
func (m *mockRepo) removeDoctor(doctorID uuid.UUID) {
	for _, a := range m.appts {
		if a.DoctorID != nil && *a.DoctorID == doctorID {
			a.DoctorID = nil
		}
	}
}

// -- Mock existence checkers --

type mockChecker struct {
	ids map[uuid.UUID]bool
}

func newMockChecker(ids ...uuid.UUID) *mockChecker {
	m := &mockChecker{ids: make(map[uuid.UUID]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func (m *mockChecker) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.ids[id], nil
}

type testEnv struct {
	svc       *Service
	repo      *mockRepo
	doctorID  uuid.UUID
	patientID uuid.UUID
}

func newTestEnv() *testEnv {
	repo := newMockRepo()
	doctorID := uuid.New()
	patientID := uuid.New()
	svc := NewService(repo, newMockChecker(doctorID), newMockChecker(patientID))
	return &testEnv{svc: svc, repo: repo, doctorID: doctorID, patientID: patientID}
}

func (env *testEnv) bookReq() *BookRequest {
	return &BookRequest{
		DoctorID:        env.doctorID.String(),
		AppointmentDate: "2030-06-15",
		AppointmentTime: "10:30",
	}
}

func TestService_Book(t *testing.T) {
	env := newTestEnv()

	a, err := env.svc.Book(nil, env.patientID, env.bookReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected scheduled status, got %q", a.Status)
	}
	if *a.DoctorID != env.doctorID || *a.PatientID != env.patientID {
		t.Error("stored appointment references wrong parties")
	}
}

func TestService_Book_MissingFields(t *testing.T) {
	env := newTestEnv()
	req := env.bookReq()
	req.AppointmentTime = ""

	_, err := env.svc.Book(nil, env.patientID, req)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ae.Message != "All fields are required: doctor_id, appointment_date, and appointment_time" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

func TestService_Book_DoctorNotFound(t *testing.T) {
	env := newTestEnv()
	req := env.bookReq()
	req.DoctorID = uuid.New().String()

	_, err := env.svc.Book(nil, env.patientID, req)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if ae.Message != "Doctor not found" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

// The doctor check runs before the patient check; when both are missing the
// failure reports the doctor.
func TestService_Book_ChecksDoctorBeforePatient(t *testing.T) {
	env := newTestEnv()
	req := env.bookReq()
	req.DoctorID = uuid.New().String()

	_, err := env.svc.Book(nil, uuid.New(), req)
	ae, _ := apperr.As(err)
	if ae == nil || ae.Message != "Doctor not found" {
		t.Fatalf("expected doctor failure first, got %v", err)
	}
}

func TestService_Book_PatientNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Book(nil, uuid.New(), env.bookReq())
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if ae.Message != "Patient not found" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

func TestService_Book_SlotConflict(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.Book(nil, env.patientID, env.bookReq()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := env.svc.Book(nil, env.patientID, env.bookReq())
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if ae.Message != "This time slot is already booked" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

// A canceled appointment frees its slot for rebooking.
func TestService_Book_CanceledSlotIsFree(t *testing.T) {
	env := newTestEnv()

	a, err := env.svc.Book(nil, env.patientID, env.bookReq())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := env.svc.Cancel(nil, a.ID, env.patientID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := env.svc.Book(nil, env.patientID, env.bookReq()); err != nil {
		t.Fatalf("rebooking freed slot failed: %v", err)
	}
}

// An insert colliding with the unique index after the availability check
// passed still surfaces as the same conflict response.
func TestService_Book_RaceMapsToConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.raceOnCreate = true

	_, err := env.svc.Book(nil, env.patientID, env.bookReq())
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_Reschedule(t *testing.T) {
	env := newTestEnv()
	a, _ := env.svc.Book(nil, env.patientID, env.bookReq())

	err := env.svc.Reschedule(nil, a.ID, env.patientID, &RescheduleRequest{
		NewDate: "2030-07-01", NewTime: "14:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := env.repo.appts[a.ID]
	if got.Date.Format(dateLayout) != "2030-07-01" || got.Time != "14:00" {
		t.Errorf("reschedule did not move the slot: %+v", got)
	}
	if got.Status != StatusScheduled {
		t.Errorf("expected scheduled status, got %q", got.Status)
	}
}

func TestService_Reschedule_MissingFields(t *testing.T) {
	env := newTestEnv()

	err := env.svc.Reschedule(nil, uuid.New(), env.patientID, &RescheduleRequest{NewDate: "2030-07-01"})
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ae.Message != "New date and time are required" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

// Canceled is terminal; rescheduling a canceled appointment reports not found.
func TestService_Reschedule_CanceledRejected(t *testing.T) {
	env := newTestEnv()
	a, _ := env.svc.Book(nil, env.patientID, env.bookReq())
	env.svc.Cancel(nil, a.ID, env.patientID)

	err := env.svc.Reschedule(nil, a.ID, env.patientID, &RescheduleRequest{
		NewDate: "2030-07-01", NewTime: "14:00",
	})
	if ae, ok := apperr.As(err); !ok || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Another patient's appointment is invisible to reschedule.
func TestService_Reschedule_OwnershipEnforced(t *testing.T) {
	env := newTestEnv()
	a, _ := env.svc.Book(nil, env.patientID, env.bookReq())

	err := env.svc.Reschedule(nil, a.ID, uuid.New(), &RescheduleRequest{
		NewDate: "2030-07-01", NewTime: "14:00",
	})
	if ae, ok := apperr.As(err); !ok || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_Cancel(t *testing.T) {
	env := newTestEnv()
	a, _ := env.svc.Book(nil, env.patientID, env.bookReq())

	if err := env.svc.Cancel(nil, a.ID, env.patientID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.repo.appts[a.ID].Status != StatusCanceled {
		t.Error("appointment not canceled")
	}
}

// Second cancel is an error, not a no-op.
func TestService_Cancel_AlreadyCanceled(t *testing.T) {
	env := newTestEnv()
	a, _ := env.svc.Book(nil, env.patientID, env.bookReq())
	env.svc.Cancel(nil, a.ID, env.patientID)

	err := env.svc.Cancel(nil, a.ID, env.patientID)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if ae.Message != "Appointment not found or already canceled" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

func TestService_History(t *testing.T) {
	env := newTestEnv()
	a, _ := env.svc.Book(nil, env.patientID, env.bookReq())
	env.svc.Cancel(nil, a.ID, env.patientID)

	entries, err := env.svc.History(nil, env.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Status != StatusCanceled || entries[0].Date != "2030-06-15" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestService_History_SurvivesDoctorDeletion(t *testing.T) {
	env := newTestEnv()
	booked, err := env.svc.Book(nil, env.patientID, env.bookReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env.repo.removeDoctor(env.doctorID)

	entries, err := env.svc.History(nil, env.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the appointment to survive, got %d entries", len(entries))
	}
	if entries[0].ID != booked.ID {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if entries[0].DoctorID != nil {
		t.Errorf("expected nulled doctor reference, got %v", entries[0].DoctorID)
	}
}

func TestService_UpcomingForPatient_FiltersPast(t *testing.T) {
	env := newTestEnv()
	past := &Appointment{
		PatientID: &env.patientID, DoctorID: &env.doctorID,
		Date: time.Now().AddDate(0, 0, -7), Time: "09:00", Status: StatusScheduled,
	}
	env.repo.Create(nil, past)
	env.svc.Book(nil, env.patientID, env.bookReq())

	views, err := env.svc.UpcomingForPatient(nil, env.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected only the future appointment, got %d", len(views))
	}
	if views[0].AppointmentDate != "2030-06-15" {
		t.Errorf("unexpected date: %s", views[0].AppointmentDate)
	}
}
