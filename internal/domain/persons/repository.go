package persons

import "context"

// No hay Delete: ninguna operación expuesta borra personas.
type Repository interface {
	Create(ctx context.Context, p Person) (int64, error)
	GetByID(ctx context.Context, id int64) (Person, error)
	GetByEmail(ctx context.Context, email string) (Person, error)
	List(ctx context.Context) ([]Person, error)
}
