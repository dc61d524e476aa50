package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Appointment is a booked (doctor, date, time) slot. Patient and doctor
// references are nullable: deleting either account keeps the row and nulls
// the pointer.
type Appointment struct {
	ID        uuid.UUID  `json:"appointment_id"`
	PatientID *uuid.UUID `json:"patient_id"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	Date      time.Time  `json:"-"`
	Time      string     `json:"appointment_time"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// HistoryEntry is the patient-facing history row with the date flattened.
type HistoryEntry struct {
	ID        uuid.UUID  `json:"appointment_id"`
	PatientID *uuid.UUID `json:"patient_id"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	Date      string     `json:"appointment_date"`
	Time      string     `json:"appointment_time"`
	Status    string     `json:"status"`
}

func (a *Appointment) history() *HistoryEntry {
	return &HistoryEntry{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date.Format(dateLayout),
		Time:      a.Time,
		Status:    a.Status,
	}
}

// PatientView is an upcoming appointment joined with the doctor's name.
type PatientView struct {
	AppointmentID   uuid.UUID `json:"appointment_id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	DoctorFirstName string    `json:"doctor_first_name"`
	DoctorLastName  string    `json:"doctor_last_name"`
	Status          string    `json:"status"`
}

// DoctorView is an upcoming appointment joined with the patient's name.
type DoctorView struct {
	AppointmentID    uuid.UUID `json:"appointment_id"`
	AppointmentDate  string    `json:"appointment_date"`
	AppointmentTime  string    `json:"appointment_time"`
	PatientFirstName string    `json:"patient_first_name"`
	PatientLastName  string    `json:"patient_last_name"`
	Status           string    `json:"status"`
}

type BookRequest struct {
	DoctorID        string `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

type RescheduleRequest struct {
	NewDate string `json:"newDate"`
	NewTime string `json:"newTime"`
}
