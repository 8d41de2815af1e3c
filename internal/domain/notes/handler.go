package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"therapy-journal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// ItemOwnerLookup evita importar el paquete items (rompe ciclos).
type ItemOwnerLookup interface {
	OwnerOf(ctx context.Context, itemID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, itemOwners ItemOwnerLookup) {
	// Notas: siempre privadas del paciente, el sharing del item no las toca.
	r.Route("/items/{itemID}/notes", func(nr chi.Router) {
		nr.Post("/", addNoteHandler(svc, itemOwners))
		nr.Get("/", listNotesHandler(svc, itemOwners))
	})

	r.Delete("/notes/{noteID}", deleteNoteHandler(svc))
}

type addNoteRequest struct {
	Body string `json:"body"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func addNoteHandler(svc *Service, itemOwners ItemOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID := chi.URLParam(r, "itemID")
		ownerID, err := itemOwners.OwnerOf(r.Context(), itemID)
		if err != nil || strings.TrimSpace(ownerID) == "" {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req addNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		n, err := svc.Add(r.Context(), claims.UserID, itemID, req.Body)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toNoteResponse(n))
	}
}

func listNotesHandler(svc *Service, itemOwners ItemOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID := chi.URLParam(r, "itemID")
		ownerID, err := itemOwners.OwnerOf(r.Context(), itemID)
		if err != nil || strings.TrimSpace(ownerID) == "" {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		// Un terapeuta con share activo igual NO ve notas: son privadas.
		if ownerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		list, err := svc.ListByItem(r.Context(), itemID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]noteResponse, 0, len(list))
		for _, n := range list {
			out = append(out, toNoteResponse(n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		noteID := chi.URLParam(r, "noteID")
		if err := svc.Delete(r.Context(), claims.UserID, noteID); err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "note not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toNoteResponse(n Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		ItemID:    n.ItemID,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
