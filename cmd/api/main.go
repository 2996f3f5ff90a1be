package main

import (
	"net/http"
	"os"
	"time"

	"pet-meet/internal/adapters/auth/jwtauth"
	"pet-meet/internal/platform/logger"
	"pet-meet/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Solo para dev; en producción JWT_SECRET es obligatorio.
		secret = "dev-secret-change-me"
		log.Warn("JWT_SECRET not set, using insecure dev secret", nil)
	}

	ttl := jwtauth.DefaultTTL
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Error("invalid TOKEN_TTL", map[string]any{"value": v, "err": err.Error()})
			os.Exit(1)
		}
		ttl = parsed
	}

	tokens := jwtauth.New([]byte(secret), ttl)

	r, err := router.NewRouter(router.Options{
		Verifier: tokens,
		Issuer:   tokens,
		Log:      log,
	})
	if err != nil {
		log.Error("router init failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
