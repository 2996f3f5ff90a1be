package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-meet/internal/domain/persons"
)

type PersonsRepo struct {
	db *sql.DB
}

func NewPersonsRepo(db *sql.DB) *PersonsRepo {
	return &PersonsRepo{db: db}
}

func (r *PersonsRepo) Create(ctx context.Context, p persons.Person) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO persons (name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.Name, p.Email, p.PasswordHash, p.CreatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, persons.ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

func (r *PersonsRepo) GetByID(ctx context.Context, id int64) (persons.Person, error) {
	return r.get(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM persons
		WHERE id = $1
	`, id)
}

func (r *PersonsRepo) GetByEmail(ctx context.Context, email string) (persons.Person, error) {
	return r.get(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM persons
		WHERE email = $1
	`, email)
}

func (r *PersonsRepo) get(ctx context.Context, query string, arg any) (persons.Person, error) {
	var p persons.Person
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persons.Person{}, persons.ErrNotFound
		}
		return persons.Person{}, err
	}
	return p, nil
}

func (r *PersonsRepo) List(ctx context.Context) ([]persons.Person, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM persons
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]persons.Person, 0)
	for rows.Next() {
		var p persons.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
