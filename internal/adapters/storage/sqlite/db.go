package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base SQLite en path y deja el esquema listo.
// Es el backend por defecto cuando no hay DB_DSN configurado.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Los pragmas van en el DSN, no en un Exec suelto: un Exec sobre el
	// *sql.DB aplica solo a la conexión del pool que lo ejecutó, y las
	// demás quedarían con foreign_keys=0 y sin busy_timeout. WAL para
	// lecturas concurrentes; foreign_keys para que las filas de
	// asociación no queden colgando de mascotas borradas.
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS persons (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pets (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			species    TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pet_owners (
			pet_id     INTEGER NOT NULL REFERENCES pets (id) ON DELETE CASCADE,
			person_id  INTEGER NOT NULL REFERENCES persons (id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			UNIQUE (pet_id, person_id)
		);

		CREATE INDEX IF NOT EXISTS idx_pet_owners_person ON pet_owners (person_id);
		CREATE INDEX IF NOT EXISTS idx_pet_owners_pet ON pet_owners (pet_id);
	`
	_, err := db.Exec(schema)
	return err
}
