package persons

import "time"

// Person representa un usuario registrado.
// PasswordHash es un hash bcrypt; la contraseña en claro nunca se guarda.
type Person struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}
