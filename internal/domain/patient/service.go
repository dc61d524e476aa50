package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
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

// Register creates the account. The pre-check keeps the friendly error for
// the common case; the unique constraint catches the race at insert time
// and maps to the same response.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Patient, error) {
	taken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, apperr.Storage("Error checking email availability", err)
	}
	if taken {
		return nil, apperr.Validation("Email is already registered")
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, apperr.Validation("date_of_birth must be formatted as YYYY-MM-DD")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Storage("Error registering patient", err)
	}

	p := &Patient{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		Address:      req.Address,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation("Email is already registered")
		}
		return nil, apperr.Storage("Error registering patient", err)
	}
	metrics.RegistrationsTotal.WithLabelValues("patient").Inc()
	return p, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same response.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Patient, error) {
	p, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		metrics.LoginsTotal.WithLabelValues("patient", "failure").Inc()
		return nil, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Storage("Internal server error", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues("patient", "failure").Inc()
		return nil, apperr.Auth("Invalid credentials")
	}

	metrics.LoginsTotal.WithLabelValues("patient", "success").Inc()
	return p, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Profile not found")
	}
	if err != nil {
		return nil, apperr.Storage("Internal server error", err)
	}
	return p.profile(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) error {
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return apperr.Validation("date_of_birth must be formatted as YYYY-MM-DD")
	}

	p := &Patient{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
	}
	err = s.repo.Update(ctx, p)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Profile not found")
	}
	if err != nil {
		return apperr.Storage("Internal server error", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Profile not found")
	}
	if err != nil {
		return apperr.Storage("Error deleting patient account", err)
	}
	return nil
}

// Exists reports whether the patient row is still present. The booking
// validator calls this; a live session does not guarantee the row survived
// a concurrent account deletion.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}
