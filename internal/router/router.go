package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	pg "pet-meet/internal/adapters/storage/postgres"
	lite "pet-meet/internal/adapters/storage/sqlite"
	"pet-meet/internal/domain/ownership"
	"pet-meet/internal/domain/persons"
	"pet-meet/internal/domain/pets"
	"pet-meet/internal/middleware"
	"pet-meet/internal/platform/logger"
	"pet-meet/internal/ports/auth"
)

type Options struct {
	Verifier auth.Verifier
	Issuer   auth.Issuer

	// Opcional: si viene, se usa esa DB (Postgres). Si no, se intenta
	// DB_DSN y como último recurso SQLite local.
	DB         *sql.DB
	SQLitePath string

	Log logger.Logger
}

func NewRouter(opts Options) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Log != nil {
		r.Use(middleware.AccessLog(opts.Log))
	}
	r.Use(middleware.AuthContext(opts.Verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				return nil, err
			}
			db = opened
		}
	}

	var (
		petRepo    pets.Repository
		personRepo persons.Repository
		ownRepo    ownership.Repository
	)

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		personRepo = pg.NewPersonsRepo(db)
		ownRepo = pg.NewOwnershipRepo(db)
	} else {
		path := opts.SQLitePath
		if path == "" {
			path = os.Getenv("SQLITE_PATH")
		}
		if path == "" {
			path = "pet_meet.db"
		}
		sdb, err := lite.Open(path)
		if err != nil {
			return nil, err
		}
		petRepo = lite.NewPetsRepo(sdb)
		personRepo = lite.NewPersonsRepo(sdb)
		ownRepo = lite.NewOwnershipRepo(sdb)
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	personsSvc := persons.NewService(personRepo, opts.Issuer)
	ownSvc := ownership.NewService(ownRepo, personsSvc, petsSvc)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	persons.RegisterRoutes(r, personsSvc)
	ownership.RegisterRoutes(r, ownSvc)

	return r, nil
}
