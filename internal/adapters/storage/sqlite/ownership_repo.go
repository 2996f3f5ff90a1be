package sqlite

import (
	"context"
	"database/sql"
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
		VALUES (?, ?, ?)
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
			SELECT 1 FROM pet_owners WHERE person_id = ? AND pet_id = ?
		)
	`, personID, petID).Scan(&exists)
	return exists, err
}

// InsertPetWithOwner crea mascota + asociación en una transacción: si la
// asociación no entra, la mascota tampoco.
func (r *OwnershipRepo) InsertPetWithOwner(ctx context.Context, personID int64, p pets.Pet) (pets.Pet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO pets (name, species, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, p.Name, p.Species, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return pets.Pet{}, err
	}
	petID, err := res.LastInsertId()
	if err != nil {
		return pets.Pet{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pet_owners (pet_id, person_id, created_at)
		VALUES (?, ?, ?)
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
		WHERE po.person_id = ?
		ORDER BY p.id ASC
	`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPets(rows)
}

// Remove borra la asociación y, en la MISMA transacción, la mascota si
// quedó sin dueños. El borrado condicional es una sola sentencia, así que
// un Associate concurrente no puede colarse entre el conteo y el delete.
func (r *OwnershipRepo) Remove(ctx context.Context, personID, petID int64) (petDeleted bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM pet_owners WHERE person_id = ? AND pet_id = ?
	`, personID, petID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ownership.ErrNotOwner
	}

	res, err = tx.ExecContext(ctx, `
		DELETE FROM pets
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM pet_owners WHERE pet_id = ?)
	`, petID, petID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}
