package ownership

import (
	"context"

	"pet-meet/internal/domain/pets"
)

type Repository interface {
	// Insert crea la fila de asociación. Devuelve ErrAlreadyOwner si el
	// par ya existe.
	Insert(ctx context.Context, personID, petID int64) error

	Exists(ctx context.Context, personID, petID int64) (bool, error)

	// InsertPetWithOwner inserta la mascota y su asociación en UNA sola
	// transacción: si la asociación falla, la mascota no queda creada.
	InsertPetWithOwner(ctx context.Context, personID int64, p pets.Pet) (pets.Pet, error)

	ListPetsOf(ctx context.Context, personID int64) ([]pets.Pet, error)

	// Remove borra la asociación y, dentro de la misma transacción,
	// borra la mascota si ya nadie la referencia (regla de huérfanos).
	// Devuelve ErrNotOwner si la asociación no existía.
	Remove(ctx context.Context, personID, petID int64) (petDeleted bool, err error)
}
