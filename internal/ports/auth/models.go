package auth

// Claims representa la información extraída de un token válido.
type Claims struct {
	PersonID int64
}
