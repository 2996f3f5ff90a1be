package pets_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pet-meet/internal/adapters/storage/sqlite"
	"pet-meet/internal/domain/pets"
)

func newService(t *testing.T) *pets.Service {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return pets.NewService(sqlite.NewPetsRepo(db))
}

func TestCreateAndGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, pets.CreateInput{Name: "Rex", Species: "dog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("create: id not assigned")
	}

	got, err := svc.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Rex" || got.Species != "dog" {
		t.Fatalf("get: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)

	for _, in := range []pets.CreateInput{
		{Species: "dog"},
		{Name: "Rex"},
		{Name: "  ", Species: "dog"},
	} {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, pets.ErrInvalidInput) {
			t.Fatalf("create %+v: err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestUpdateMissing(t *testing.T) {
	svc := newService(t)

	_, err := svc.Update(context.Background(), 99, pets.CreateInput{Name: "Rex", Species: "dog"})
	if !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, pets.CreateInput{Name: "Rex", Species: "dog"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// El primer delete borra; los siguientes no son error ni cambian nada.
	for i := 0; i < 3; i++ {
		if err := svc.Delete(ctx, p.ID); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	if err := svc.Delete(ctx, 12345); err != nil {
		t.Fatalf("delete never-existing: %v", err)
	}

	if _, err := svc.GetByID(ctx, p.ID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("list after delete: %d items, want 0", len(items))
	}
}
