package pets

import "time"

// Pet representa una mascota registrada en el sistema.
// El ID lo asigna el store al insertar.
type Pet struct {
	ID      int64
	Name    string
	Species string

	CreatedAt time.Time
	UpdatedAt time.Time
}
