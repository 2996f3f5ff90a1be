package ownership

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-meet/internal/domain/persons"
	"pet-meet/internal/domain/pets"
	"pet-meet/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/persons/{personID}/pets", func(pr chi.Router) {
		// Listado de mascotas de una persona: dato de usuario, requiere token.
		pr.Get("/", listOwnedPetsHandler(svc))

		pr.Post("/", createOwnedPetHandler(svc))
		pr.Post("/{petID}", associateHandler(svc))
		pr.Put("/{petID}", updateOwnedPetHandler(svc))
		pr.Delete("/{petID}", removeOwnershipHandler(svc))
	})
}

type petRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

type petResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type associationResponse struct {
	PersonID int64 `json:"person_id"`
	PetID    int64 `json:"pet_id"`
}

func associateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, petID, ok := parsePairIDs(w, r)
		if !ok {
			return
		}

		if err := svc.Associate(r.Context(), personID, petID); err != nil {
			writeDomainError(w, err, personID, petID)
			return
		}

		writeJSON(w, http.StatusCreated, associationResponse{
			PersonID: personID,
			PetID:    petID,
		})
	}
}

func createOwnedPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, ok := parsePersonID(w, r)
		if !ok {
			return
		}

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.CreatePetForOwner(r.Context(), personID, pets.CreateInput{
			Name:    req.Name,
			Species: req.Species,
		})
		if err != nil {
			if errors.Is(err, pets.ErrInvalidInput) {
				http.Error(w, "name and species are required", http.StatusBadRequest)
				return
			}
			writeDomainError(w, err, personID, 0)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listOwnedPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		personID, ok := parsePersonID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListPetsOf(r.Context(), personID)
		if err != nil {
			writeDomainError(w, err, personID, 0)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func updateOwnedPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, petID, ok := parsePairIDs(w, r)
		if !ok {
			return
		}

		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdatePetOf(r.Context(), personID, petID, pets.CreateInput{
			Name:    req.Name,
			Species: req.Species,
		})
		if err != nil {
			if errors.Is(err, pets.ErrInvalidInput) {
				http.Error(w, "name and species are required", http.StatusBadRequest)
				return
			}
			writeDomainError(w, err, personID, petID)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func removeOwnershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, petID, ok := parsePairIDs(w, r)
		if !ok {
			return
		}

		if _, err := svc.RemoveOwnership(r.Context(), personID, petID); err != nil {
			writeDomainError(w, err, personID, petID)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// writeDomainError traduce los sentinelas del core a HTTP con el mensaje
// nombrando entidad e id, como espera el cliente.
func writeDomainError(w http.ResponseWriter, err error, personID, petID int64) {
	switch {
	case errors.Is(err, persons.ErrNotFound):
		http.Error(w, fmt.Sprintf("Person with ID %d doesn't exist", personID), http.StatusNotFound)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, fmt.Sprintf("Pet with ID %d doesn't exist", petID), http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, fmt.Sprintf("Pet with ID %d is not associated with Person ID %d", petID, personID), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyOwner):
		http.Error(w, fmt.Sprintf("Pet with ID %d is already associated with Person ID %d", petID, personID), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func parsePersonID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "personID"), 10, 64)
	if err != nil {
		http.Error(w, "person id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parsePairIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	pid, ok := parsePersonID(w, r)
	if !ok {
		return 0, 0, false
	}
	petID, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
	if err != nil {
		http.Error(w, "pet id must be an integer", http.StatusBadRequest)
		return 0, 0, false
	}
	return pid, petID, true
}

func toPetResponse(p pets.Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
