package auth

import (
	"context"
	"time"
)

// Verifier valida un token presentado y devuelve claims o error.
// Expirado, alterado o malformado son todos "inválido" para el caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Issuer emite un token firmado para una persona autenticada.
type Issuer interface {
	Issue(ctx context.Context, personID int64) (token string, expiresAt time.Time, err error)
}
