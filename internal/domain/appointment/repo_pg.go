package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const appointmentColumns = `id, patient_id, doctor_id, appointment_date,
	appointment_time, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, appointment_time, status
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Status,
	)
	if isUniqueViolation(err) {
		return ErrSlotTaken
	}
	return err
}

func (r *repoPG) SlotTaken(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND appointment_date = $2
			  AND appointment_time = $3 AND status <> 'canceled'
		)`, doctorID, date, timeOfDay).Scan(&taken)
	return taken, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE patient_id = $1
		 ORDER BY appointment_date, appointment_time`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *repoPG) UpcomingByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.appointment_date, a.appointment_time,
		       d.first_name, d.last_name, a.status
		FROM appointments a
		JOIN doctors d ON a.doctor_id = d.id
		WHERE a.patient_id = $1 AND a.appointment_date > CURRENT_DATE
		ORDER BY a.appointment_date, a.appointment_time`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*PatientView
	for rows.Next() {
		var v PatientView
		var date time.Time
		err := rows.Scan(&v.AppointmentID, &date, &v.AppointmentTime,
			&v.DoctorFirstName, &v.DoctorLastName, &v.Status)
		if err != nil {
			return nil, err
		}
		v.AppointmentDate = date.Format(dateLayout)
		views = append(views, &v)
	}
	return views, rows.Err()
}

func (r *repoPG) UpcomingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.appointment_date, a.appointment_time,
		       p.first_name, p.last_name, a.status
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		WHERE a.doctor_id = $1 AND a.appointment_date > CURRENT_DATE
		ORDER BY a.appointment_date, a.appointment_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*DoctorView
	for rows.Next() {
		var v DoctorView
		var date time.Time
		err := rows.Scan(&v.AppointmentID, &date, &v.AppointmentTime,
			&v.PatientFirstName, &v.PatientLastName, &v.Status)
		if err != nil {
			return nil, err
		}
		v.AppointmentDate = date.Format(dateLayout)
		views = append(views, &v)
	}
	return views, rows.Err()
}

func (r *repoPG) Reschedule(ctx context.Context, id, patientID uuid.UUID, date time.Time, timeOfDay string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET appointment_date = $3, appointment_time = $4,
		    status = 'scheduled', updated_at = NOW()
		WHERE id = $1 AND patient_id = $2 AND status <> 'canceled'`,
		id, patientID, date, timeOfDay,
	)
	if isUniqueViolation(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Cancel(ctx context.Context, id, patientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = 'canceled', updated_at = NOW()
		WHERE id = $1 AND patient_id = $2 AND status <> 'canceled'`,
		id, patientID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(rows pgx.Rows) (*Appointment, error) {
	var a Appointment
	err := rows.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.Date,
		&a.Time, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
