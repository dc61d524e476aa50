package doctor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/telemed/telemed/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *UpsertRequest) (*Doctor, error) {
	d := &Doctor{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		Email:          req.Email,
		Phone:          req.Phone,
		Schedule:       req.Schedule,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, apperr.Storage("Error adding doctor", err)
	}
	return d, nil
}

// Directory returns the public listing. A schedule blob that fails to parse
// becomes an empty object instead of failing the whole listing.
func (s *Service) Directory(ctx context.Context) ([]*DirectoryEntry, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage("Error retrieving doctors", err)
	}

	entries := make([]*DirectoryEntry, 0, len(doctors))
	for _, d := range doctors {
		availability := d.Schedule
		if len(availability) == 0 || !json.Valid(availability) {
			availability = json.RawMessage(`{}`)
		}
		entries = append(entries, &DirectoryEntry{
			DoctorID:       d.ID,
			Name:           d.FirstName + " " + d.LastName,
			Specialization: d.Specialization,
			Availability:   availability,
		})
	}
	return entries, nil
}

// Update checks existence before writing so an absent doctor reports 404
// rather than a silent zero-row update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpsertRequest) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return apperr.Storage("Error checking doctor", err)
	}
	if !exists {
		return apperr.NotFound("Doctor not found")
	}

	d := &Doctor{
		ID:             id,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		Email:          req.Email,
		Phone:          req.Phone,
		Schedule:       req.Schedule,
	}
	err = s.repo.Update(ctx, d)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Doctor not found")
	}
	if err != nil {
		return apperr.Storage("Error updating doctor profile", err)
	}
	return nil
}

// Delete removes the doctor row. Dependent appointments survive with their
// doctor reference nulled by the schema.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return apperr.Storage("Error checking doctor", err)
	}
	if !exists {
		return apperr.NotFound("Doctor not found")
	}

	err = s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Doctor not found")
	}
	if err != nil {
		return apperr.Storage("Error deleting doctor profile", err)
	}
	return nil
}

// Exists reports whether the doctor row is present; the booking validator
// consults this before touching the slot.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}
