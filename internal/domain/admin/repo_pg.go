package admin

import (
	"context"
	"errors"
	"fmt"
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

func (r *repoPG) Create(ctx context.Context, a *Admin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.Username, a.PasswordHash, a.Role,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	return err
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM admins WHERE username = $1`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *repoPG) ListPatients(ctx context.Context, f PatientFilter, limit, offset int) ([]*PatientRecord, int, error) {
	query := `SELECT id, first_name, last_name, email, phone, date_of_birth,
		gender, address FROM patients WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM patients WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Search != "" {
		clause := fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	if f.Gender != "" {
		clause := fmt.Sprintf(` AND gender = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.Gender)
		idx++
	}
	if f.MinAge > 0 {
		clause := fmt.Sprintf(` AND date_part('year', age(date_of_birth)) >= $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.MinAge)
		idx++
	}
	if f.MaxAge > 0 {
		clause := fmt.Sprintf(` AND date_part('year', age(date_of_birth)) <= $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.MaxAge)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*PatientRecord
	for rows.Next() {
		var rec PatientRecord
		var dob time.Time
		err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email,
			&rec.Phone, &dob, &rec.Gender, &rec.Address)
		if err != nil {
			return nil, 0, err
		}
		rec.DateOfBirth = dob.Format("2006-01-02")
		records = append(records, &rec)
	}
	return records, total, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
