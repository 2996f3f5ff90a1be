package ownership

import "time"

// Ownership es la fila de asociación muchos-a-muchos entre una mascota
// y una persona. El par (PetID, PersonID) es único en el store.
type Ownership struct {
	PetID    int64
	PersonID int64

	CreatedAt time.Time
}
