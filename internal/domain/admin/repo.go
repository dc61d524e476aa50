package admin

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("admin not found")

// ErrDuplicateUsername is returned when an insert collides with the unique
// username constraint.
var ErrDuplicateUsername = errors.New("username already taken")

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ListPatients(ctx context.Context, f PatientFilter, limit, offset int) ([]*PatientRecord, int, error)
}
