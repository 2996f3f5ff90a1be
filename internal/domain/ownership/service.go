package ownership

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-meet/internal/domain/persons"
	"pet-meet/internal/domain/pets"
)

var (
	// ErrNotOwner: la mascota existe pero no está asociada a esa persona.
	ErrNotOwner = errors.New("pet not associated with person")

	ErrAlreadyOwner = errors.New("pet already associated with person")
)

// Service administra el ciclo de vida de las asociaciones persona↔mascota,
// incluida la regla de cascada: al quitar la última asociación de una
// mascota por esta vía, la mascota se borra. Crear mascotas sueltas o
// borrarlas directamente por /pets nunca pasa por esta regla.
type Service struct {
	repo    Repository
	persons *persons.Service
	pets    *pets.Service
	now     func() time.Time
}

func NewService(repo Repository, personsSvc *persons.Service, petsSvc *pets.Service) *Service {
	return &Service{
		repo:    repo,
		persons: personsSvc,
		pets:    petsSvc,
		now:     time.Now,
	}
}

// Associate liga una mascota existente a una persona existente.
// Propaga persons.ErrNotFound / pets.ErrNotFound según cuál no resuelva.
func (s *Service) Associate(ctx context.Context, personID, petID int64) error {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return err
	}
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return err
	}
	return s.repo.Insert(ctx, personID, petID)
}

// CreatePetForOwner crea la mascota ya asociada a la persona, como unidad
// atómica: si la persona no existe no se crea ninguna fila.
func (s *Service) CreatePetForOwner(ctx context.Context, personID int64, in pets.CreateInput) (pets.Pet, error) {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return pets.Pet{}, err
	}

	name := strings.TrimSpace(in.Name)
	species := strings.TrimSpace(in.Species)
	if name == "" || species == "" {
		return pets.Pet{}, pets.ErrInvalidInput
	}

	now := s.now()
	return s.repo.InsertPetWithOwner(ctx, personID, pets.Pet{
		Name:      name,
		Species:   species,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) ListPetsOf(ctx context.Context, personID int64) ([]pets.Pet, error) {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	return s.repo.ListPetsOf(ctx, personID)
}

// UpdatePetOf actualiza la mascota a través de la relación: exige que la
// asociación exista. El cambio pega sobre la fila Pet, así que lo ven
// todos los dueños, no solo quien actualiza.
func (s *Service) UpdatePetOf(ctx context.Context, personID, petID int64, in pets.CreateInput) (pets.Pet, error) {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return pets.Pet{}, err
	}

	owns, err := s.repo.Exists(ctx, personID, petID)
	if err != nil {
		return pets.Pet{}, err
	}
	if !owns {
		return pets.Pet{}, ErrNotOwner
	}

	return s.pets.Update(ctx, petID, in)
}

// RemoveOwnership quita la asociación; si era la última de la mascota,
// la mascota también se borra (petDeleted=true). Este es el único camino
// del core que borra una mascota como efecto de un cambio de relación.
func (s *Service) RemoveOwnership(ctx context.Context, personID, petID int64) (petDeleted bool, err error) {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return false, err
	}
	return s.repo.Remove(ctx, personID, petID)
}
