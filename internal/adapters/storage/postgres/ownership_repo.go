package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-meet/internal/domain/ownership"
	"pet-meet/internal/domain/pets"
)

type OwnershipRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewOwnershipRepo(db *sql.DB) *OwnershipRepo {
	return &OwnershipRepo{db: db, now: time.Now}
}

func (r *OwnershipRepo) Insert(ctx context.Context, personID, petID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_owners (pet_id, person_id, created_at)
		VALUES ($1, $2, $3)
	`, petID, personID, r.now())
	if isUniqueViolation(err) {
		return ownership.ErrAlreadyOwner
	}
	return err
}

func (r *OwnershipRepo) Exists(ctx context.Context, personID, petID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pet_owners WHERE person_id = $1 AND pet_id = $2
		)
	`, personID, petID).Scan(&exists)
	return exists, err
}

func (r *OwnershipRepo) InsertPetWithOwner(ctx context.Context, personID int64, p pets.Pet) (pets.Pet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var petID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO pets (name, species, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.Name, p.Species, p.CreatedAt, p.UpdatedAt).Scan(&petID); err != nil {
		return pets.Pet{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pet_owners (pet_id, person_id, created_at)
		VALUES ($1, $2, $3)
	`, petID, personID, r.now()); err != nil {
		return pets.Pet{}, err
	}

	if err := tx.Commit(); err != nil {
		return pets.Pet{}, err
	}

	p.ID = petID
	return p, nil
}

func (r *OwnershipRepo) ListPetsOf(ctx context.Context, personID int64) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.species, p.created_at, p.updated_at
		FROM pets p
		JOIN pet_owners po ON po.pet_id = p.id
		WHERE po.person_id = $1
		ORDER BY p.id ASC
	`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPets(rows)
}

// Remove toma primero un lock FOR UPDATE sobre la fila de la mascota:
// el chequeo de FK de un Associate concurrente necesita KEY SHARE sobre
// esa misma fila, así que queda esperando hasta el commit y el NOT EXISTS
// del delete condicional no puede perderse una asociación en vuelo.
// (Bajo READ COMMITTED, sin el lock, el subquery se evalúa contra un
// snapshot que no ve inserts no commiteados.)
func (r *OwnershipRepo) Remove(ctx context.Context, personID, petID int64) (petDeleted bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var locked int64
	if err := tx.QueryRowContext(ctx, `
		SELECT id FROM pets WHERE id = $1 FOR UPDATE
	`, petID).Scan(&locked); err != nil && !errors.Is(err, sql.ErrNoRows) {
		// Si la mascota no existe tampoco existe la asociación; el
		// delete de abajo devolverá ErrNotOwner.
		return false, err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM pet_owners WHERE person_id = $1 AND pet_id = $2
	`, personID, petID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ownership.ErrNotOwner
	}

	res, err = tx.ExecContext(ctx, `
		DELETE FROM pets
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM pet_owners WHERE pet_id = $1)
	`, petID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}
