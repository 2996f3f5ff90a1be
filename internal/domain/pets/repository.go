package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) (int64, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	Update(ctx context.Context, p Pet) error
	// Delete es idempotente: borrar un id inexistente no es error.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Pet, error)
}
