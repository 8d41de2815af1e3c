package shares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"therapy-journal/internal/middleware"
	"therapy-journal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// ItemOwnerLookup evita importar el paquete items (rompe ciclos).
type ItemOwnerLookup interface {
	OwnerOf(ctx context.Context, itemID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, itemOwners ItemOwnerLookup) {
	r.Route("/items/{itemID}/share", func(sr chi.Router) {
		sr.Get("/", getShareStatusHandler(svc, itemOwners))
		sr.Put("/", setShareHandler(svc, itemOwners))
	})
}

type setShareRequest struct {
	Enabled bool `json:"enabled"`
}

type shareStatusResponse struct {
	IsShared     bool   `json:"is_shared"`
	HasTherapist bool   `json:"has_therapist"`
	TherapistID  string `json:"therapist_id,omitempty"`
}

// getShareStatusHandler godoc
// @Summary Estado de sharing de un item
// @Description Resuelve el terapeuta efectivo y devuelve si el item está compartido. `has_therapist=false` es distinto de "compartido apagado".
// @Tags shares
// @Produce json
// @Param itemID path string true "ID del item"
// @Success 200 {object} shareStatusResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "item not found"
// @Router /items/{itemID}/share [get]
func getShareStatusHandler(svc *Service, itemOwners ItemOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, itemID, ok := requireItemOwner(w, r, itemOwners)
		if !ok {
			return
		}

		st, err := svc.Status(r.Context(), claims.UserID, itemID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				// incluye fallos de lookup del terapeuta: retryable,
				// NO lo reportamos como "sin terapeuta"
				http.Error(w, "temporarily unavailable, retry", http.StatusServiceUnavailable)
			}
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(st))
	}
}

// setShareHandler godoc
// @Summary Activar/desactivar el share de un item
// @Description Toggle idempotente del par (item, terapeuta efectivo). La respuesta es el estado re-leído del backend, nunca el post-estado optimista.
// @Tags shares
// @Accept json
// @Produce json
// @Param itemID path string true "ID del item"
// @Param payload body setShareRequest true "enabled true/false"
// @Success 200 {object} shareStatusResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "item not found"
// @Failure 409 {string} string "no active therapist linked"
// @Router /items/{itemID}/share [put]
func setShareHandler(svc *Service, itemOwners ItemOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, itemID, ok := requireItemOwner(w, r, itemOwners)
		if !ok {
			return
		}

		var req setShareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.SetEnabled(r.Context(), claims.UserID, itemID, req.Enabled)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNoActiveTherapist):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "temporarily unavailable, retry", http.StatusServiceUnavailable)
			}
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(st))
	}
}

// requireItemOwner: claims presentes + el item existe + el caller es el dueño.
// Solo el dueño gobierna el sharing de sus items.
func requireItemOwner(w http.ResponseWriter, r *http.Request, itemOwners ItemOwnerLookup) (claims auth.Claims, itemID string, ok bool) {
	c, has := middleware.GetClaims(r.Context())
	if !has || strings.TrimSpace(c.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, "", false
	}

	itemID = chi.URLParam(r, "itemID")

	ownerID, err := itemOwners.OwnerOf(r.Context(), itemID)
	if err != nil || strings.TrimSpace(ownerID) == "" {
		http.Error(w, "item not found", http.StatusNotFound)
		return auth.Claims{}, "", false
	}
	if ownerID != c.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, "", false
	}

	return c, itemID, true
}

func toStatusResponse(st Status) shareStatusResponse {
	return shareStatusResponse{
		IsShared:     st.IsShared,
		HasTherapist: st.HasTherapist,
		TherapistID:  st.TherapistID,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
