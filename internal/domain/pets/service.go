package pets

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Species string
}

func (in CreateInput) normalize() (CreateInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	if in.Name == "" || in.Species == "" {
		return CreateInput{}, ErrInvalidInput
	}
	return in, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	in, err := in.normalize()
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		Name:      in.Name,
		Species:   in.Species,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return Pet{}, err
	}
	p.ID = id
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// Update reemplaza nombre y especie (PUT completo, no patch).
func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (Pet, error) {
	in, err := in.normalize()
	if err != nil {
		return Pet{}, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	p.Name = in.Name
	p.Species = in.Species
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}
