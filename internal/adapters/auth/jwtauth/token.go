package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pet-meet/internal/ports/auth"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// DefaultTTL es la vigencia de un token de sesión si no se configura otra.
const DefaultTTL = 24 * time.Hour

// Authenticator emite y verifica JWTs HS256 firmados con un secreto
// compartido. La validez se decide solo por firma + expiración; no hay
// estado de sesión en el servidor ni lista de revocación.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret []byte, ttl time.Duration) *Authenticator {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Authenticator{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (a *Authenticator) Issue(ctx context.Context, personID int64) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(personID, 10),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"jti": uuid.NewString(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (a *Authenticator) Verify(ctx context.Context, tokenString string) (auth.Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrExpiredToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	personID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || personID <= 0 {
		return auth.Claims{}, fmt.Errorf("%w: sub claim", ErrInvalidToken)
	}

	return auth.Claims{PersonID: personID}, nil
}
