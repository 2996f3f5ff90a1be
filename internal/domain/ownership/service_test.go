package ownership_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pet-meet/internal/adapters/auth/jwtauth"
	"pet-meet/internal/adapters/storage/sqlite"
	"pet-meet/internal/domain/ownership"
	"pet-meet/internal/domain/persons"
	"pet-meet/internal/domain/pets"
)

type fixture struct {
	own     *ownership.Service
	pets    *pets.Service
	persons *persons.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	petsSvc := pets.NewService(sqlite.NewPetsRepo(db))
	personsSvc := persons.NewService(sqlite.NewPersonsRepo(db), jwtauth.New([]byte("test-secret"), time.Hour))
	ownSvc := ownership.NewService(sqlite.NewOwnershipRepo(db), personsSvc, petsSvc)

	return fixture{own: ownSvc, pets: petsSvc, persons: personsSvc}
}

func (f fixture) person(t *testing.T, name, email string) persons.Person {
	t.Helper()
	p, err := f.persons.Register(context.Background(), persons.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return p
}

func (f fixture) pet(t *testing.T, name, species string) pets.Pet {
	t.Helper()
	p, err := f.pets.Create(context.Background(), pets.CreateInput{Name: name, Species: species})
	if err != nil {
		t.Fatalf("create pet %s: %v", name, err)
	}
	return p
}

func TestAssociateThenList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	rex := f.pet(t, "Rex", "dog")

	if err := f.own.Associate(ctx, ana.ID, rex.ID); err != nil {
		t.Fatalf("associate: %v", err)
	}

	owned, err := f.own.ListPetsOf(ctx, ana.ID)
	if err != nil {
		t.Fatalf("list pets of: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != rex.ID || owned[0].Name != "Rex" || owned[0].Species != "dog" {
		t.Fatalf("list pets of: %+v", owned)
	}
}

func TestAssociateMissingEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	rex := f.pet(t, "Rex", "dog")

	if err := f.own.Associate(ctx, 999, rex.ID); !errors.Is(err, persons.ErrNotFound) {
		t.Fatalf("associate unknown person: err = %v, want persons.ErrNotFound", err)
	}
	if err := f.own.Associate(ctx, ana.ID, 999); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("associate unknown pet: err = %v, want pets.ErrNotFound", err)
	}
}

func TestAssociateDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	rex := f.pet(t, "Rex", "dog")

	if err := f.own.Associate(ctx, ana.ID, rex.ID); err != nil {
		t.Fatalf("first associate: %v", err)
	}
	if err := f.own.Associate(ctx, ana.ID, rex.ID); !errors.Is(err, ownership.ErrAlreadyOwner) {
		t.Fatalf("duplicate associate: err = %v, want ErrAlreadyOwner", err)
	}
}

func TestCreatePetForOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")

	p, err := f.own.CreatePetForOwner(ctx, ana.ID, pets.CreateInput{Name: "Rex", Species: "dog"})
	if err != nil {
		t.Fatalf("create pet for owner: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("create pet for owner: id not assigned")
	}

	owned, err := f.own.ListPetsOf(ctx, ana.ID)
	if err != nil {
		t.Fatalf("list pets of: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != p.ID {
		t.Fatalf("list pets of: %+v", owned)
	}
}

func TestCreatePetForMissingOwnerCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.own.CreatePetForOwner(ctx, 999, pets.CreateInput{Name: "Rex", Species: "dog"})
	if !errors.Is(err, persons.ErrNotFound) {
		t.Fatalf("create for unknown person: err = %v, want persons.ErrNotFound", err)
	}

	// Ninguna fila de mascota debe haber quedado creada.
	all, err := f.pets.List(ctx)
	if err != nil {
		t.Fatalf("list pets: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("pet count after failed create = %d, want 0", len(all))
	}
}

func TestRemoveLastOwnerDeletesPet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	rex := f.pet(t, "Rex", "dog")
	if err := f.own.Associate(ctx, ana.ID, rex.ID); err != nil {
		t.Fatalf("associate: %v", err)
	}

	deleted, err := f.own.RemoveOwnership(ctx, ana.ID, rex.ID)
	if err != nil {
		t.Fatalf("remove ownership: %v", err)
	}
	if !deleted {
		t.Fatal("remove ownership: pet should have been cascade-deleted")
	}

	if _, err := f.pets.GetByID(ctx, rex.ID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("get pet after cascade: err = %v, want pets.ErrNotFound", err)
	}
}

func TestRemoveWithRemainingOwnerKeepsPet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	bea := f.person(t, "Bea", "bea@x.com")
	rex := f.pet(t, "Rex", "dog")

	for _, id := range []int64{ana.ID, bea.ID} {
		if err := f.own.Associate(ctx, id, rex.ID); err != nil {
			t.Fatalf("associate person %d: %v", id, err)
		}
	}

	deleted, err := f.own.RemoveOwnership(ctx, ana.ID, rex.ID)
	if err != nil {
		t.Fatalf("remove ownership: %v", err)
	}
	if deleted {
		t.Fatal("remove ownership: pet deleted while Bea still owns it")
	}

	if _, err := f.pets.GetByID(ctx, rex.ID); err != nil {
		t.Fatalf("pet should still resolve: %v", err)
	}

	owned, err := f.own.ListPetsOf(ctx, bea.ID)
	if err != nil {
		t.Fatalf("list pets of bea: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != rex.ID {
		t.Fatalf("bea's pets after ana unlinked: %+v", owned)
	}
}

func TestRemoveNotOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	rex := f.pet(t, "Rex", "dog")

	if _, err := f.own.RemoveOwnership(ctx, ana.ID, rex.ID); !errors.Is(err, ownership.ErrNotOwner) {
		t.Fatalf("remove without association: err = %v, want ErrNotOwner", err)
	}
	if _, err := f.own.RemoveOwnership(ctx, 999, rex.ID); !errors.Is(err, persons.ErrNotFound) {
		t.Fatalf("remove with unknown person: err = %v, want persons.ErrNotFound", err)
	}
}

func TestUpdatePetOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	bea := f.person(t, "Bea", "bea@x.com")
	rex := f.pet(t, "Rex", "dog")

	if err := f.own.Associate(ctx, ana.ID, rex.ID); err != nil {
		t.Fatalf("associate: %v", err)
	}

	// Bea no tiene asociación con Rex.
	if _, err := f.own.UpdatePetOf(ctx, bea.ID, rex.ID, pets.CreateInput{Name: "Max", Species: "dog"}); !errors.Is(err, ownership.ErrNotOwner) {
		t.Fatalf("update by non-owner: err = %v, want ErrNotOwner", err)
	}

	updated, err := f.own.UpdatePetOf(ctx, ana.ID, rex.ID, pets.CreateInput{Name: "Max", Species: "dog"})
	if err != nil {
		t.Fatalf("update by owner: %v", err)
	}
	if updated.Name != "Max" {
		t.Fatalf("updated name = %q, want Max", updated.Name)
	}

	// El cambio pega en la fila Pet: visible fuera de la relación.
	got, err := f.pets.GetByID(ctx, rex.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if got.Name != "Max" {
		t.Fatalf("pet row name = %q, want Max", got.Name)
	}
}

func TestListPetsOfMissingPersonVsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")

	// Persona existente sin mascotas: lista vacía, no error.
	owned, err := f.own.ListPetsOf(ctx, ana.ID)
	if err != nil {
		t.Fatalf("list pets of: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("expected empty list, got %+v", owned)
	}

	if _, err := f.own.ListPetsOf(ctx, 999); !errors.Is(err, persons.ErrNotFound) {
		t.Fatalf("list pets of unknown person: err = %v, want persons.ErrNotFound", err)
	}
}

// Un Associate concurrente con el RemoveOwnership del último dueño no
// puede quedar "perdido": si el associate devolvió éxito, la mascota
// tiene que seguir existiendo y figurar en la lista del nuevo dueño.
func TestConcurrentAssociateVsRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	bea := f.person(t, "Bea", "bea@x.com")

	for i := 0; i < 20; i++ {
		rex := f.pet(t, "Rex", "dog")
		if err := f.own.Associate(ctx, ana.ID, rex.ID); err != nil {
			t.Fatalf("iter %d: associate ana: %v", i, err)
		}

		assocErr := make(chan error, 1)
		go func() {
			assocErr <- f.own.Associate(ctx, bea.ID, rex.ID)
		}()

		if _, err := f.own.RemoveOwnership(ctx, ana.ID, rex.ID); err != nil {
			t.Fatalf("iter %d: remove ownership: %v", i, err)
		}

		// El associate puede perder la carrera (mascota ya borrada) y
		// fallar; lo que no puede pasar es éxito + mascota desaparecida.
		err := <-assocErr

		_, getErr := f.pets.GetByID(ctx, rex.ID)
		petAlive := getErr == nil
		if !petAlive && !errors.Is(getErr, pets.ErrNotFound) {
			t.Fatalf("iter %d: get pet: %v", i, getErr)
		}

		owned, listErr := f.own.ListPetsOf(ctx, bea.ID)
		if listErr != nil {
			t.Fatalf("iter %d: list pets of bea: %v", i, listErr)
		}
		beaOwns := false
		for _, p := range owned {
			if p.ID == rex.ID {
				beaOwns = true
			}
		}

		if err == nil && (!petAlive || !beaOwns) {
			t.Fatalf("iter %d: associate succeeded but petAlive=%v beaOwns=%v", i, petAlive, beaOwns)
		}
		if !petAlive && beaOwns {
			t.Fatalf("iter %d: association row references a deleted pet", i)
		}

		// Limpieza para la siguiente vuelta.
		if beaOwns {
			if _, err := f.own.RemoveOwnership(ctx, bea.ID, rex.ID); err != nil {
				t.Fatalf("iter %d: cleanup remove: %v", i, err)
			}
		} else if petAlive {
			if err := f.pets.Delete(ctx, rex.ID); err != nil {
				t.Fatalf("iter %d: cleanup delete: %v", i, err)
			}
		}
	}
}

func TestDirectPetDeleteSkipsCascadeRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.person(t, "Ana", "ana@x.com")
	rex := f.pet(t, "Rex", "dog")
	if err := f.own.Associate(ctx, ana.ID, rex.ID); err != nil {
		t.Fatalf("associate: %v", err)
	}

	// Borrado directo: la mascota se va y sus filas de asociación también
	// (FK), sin pasar por la regla de huérfanos.
	if err := f.pets.Delete(ctx, rex.ID); err != nil {
		t.Fatalf("direct delete: %v", err)
	}

	owned, err := f.own.ListPetsOf(ctx, ana.ID)
	if err != nil {
		t.Fatalf("list pets of: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("association rows survived pet delete: %+v", owned)
	}
}
