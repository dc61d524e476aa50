package admin

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/telemed/telemed/internal/platform/apperr"
	"github.com/telemed/telemed/internal/platform/metrics"
)

type Service struct {
	repo       Repository
	bcryptCost int
}

func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Admin, error) {
	if req.Role != RoleAdmin && req.Role != RoleModerator {
		return nil, apperr.Validation("Invalid role. Role must be either admin or moderator")
	}

	taken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, apperr.Storage("Error checking username availability", err)
	}
	if taken {
		return nil, apperr.Validation("Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Storage("Error registering admin", err)
	}

	a := &Admin{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, apperr.Validation("Username is already taken")
		}
		return nil, apperr.Storage("Error registering admin", err)
	}
	metrics.RegistrationsTotal.WithLabelValues("admin").Inc()
	return a, nil
}

// Login verifies credentials. Unknown username and wrong password produce
// the same response.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Admin, error) {
	a, err := s.repo.GetByUsername(ctx, req.Username)
	if errors.Is(err, ErrNotFound) {
		metrics.LoginsTotal.WithLabelValues("admin", "failure").Inc()
		return nil, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Storage("Error retrieving admin data", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues("admin", "failure").Inc()
		return nil, apperr.Auth("Invalid credentials")
	}

	metrics.LoginsTotal.WithLabelValues("admin", "success").Inc()
	return a, nil
}

func (s *Service) ListPatients(ctx context.Context, f PatientFilter, limit, offset int) ([]*PatientRecord, int, error) {
	records, total, err := s.repo.ListPatients(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage("Error retrieving patients", err)
	}
	return records, total, nil
}
