package items

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"therapy-journal/internal/domain/shares"
	"therapy-journal/internal/middleware"
	"therapy-journal/internal/ports/auth"
	"therapy-journal/internal/ports/objectstore"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, sharesSvc *shares.Service, linkTTL time.Duration) {
	r.Route("/items", func(ir chi.Router) {
		ir.Post("/", createItemHandler(svc))
		ir.Get("/", listItemsHandler(svc, sharesSvc))

		ir.Get("/{itemID}", getItemHandler(svc, sharesSvc))
		ir.Patch("/{itemID}", updateItemHandler(svc))
		ir.Delete("/{itemID}", deleteItemHandler(svc))

		ir.Get("/{itemID}/link", itemLinkHandler(svc, sharesSvc, linkTTL))
	})

	// Vista therapist: solo items alcanzables por shares activos propios.
	r.Get("/me/shared-items", listSharedItemsHandler(svc, sharesSvc))
}

type createItemRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`

	StorageBucket string `json:"storage_bucket"`
	StoragePath   string `json:"storage_path"`
	MimeType      string `json:"mime_type"`
	Kind          string `json:"kind"`
}

type updateItemRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type itemResponse struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	Kind          Kind      `json:"kind"`
	EffectiveKind Kind      `json:"effective_kind"`
	Title         string    `json:"title,omitempty"`
	TextContent   string    `json:"text_content,omitempty"`
	StorageBucket string    `json:"storage_bucket,omitempty"`
	StoragePath   string    `json:"storage_path,omitempty"`
	MimeType      string    `json:"mime_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	// Solo en la vista owner: label Private/Shared.
	Shared *bool `json:"shared,omitempty"`
}

type deleteItemResponse struct {
	ObjectRemoved bool   `json:"object_removed"`
	ObjectWarning string `json:"object_warning,omitempty"`
}

type linkResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// createItemHandler godoc
// @Summary Crear item
// @Description Registra un item del paciente autenticado. Texto: `text` no vacío. Binario: `storage_bucket`+`storage_path`+`mime_type` (metadata del upload externo).
// @Tags items
// @Accept json
// @Produce json
// @Param payload body createItemRequest true "Payload de texto o metadata binaria"
// @Success 201 {object} itemResponse
// @Failure 400 {string} string "invalid json / texto vacío / metadata incompleta"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /items [post]
func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requirePatient(w, r)
		if !ok {
			return
		}

		var req createItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:         req.Title,
			Text:          req.Text,
			StorageBucket: req.StorageBucket,
			StoragePath:   req.StoragePath,
			MimeType:      req.MimeType,
			Kind:          req.Kind,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it, nil))
	}
}

// listItemsHandler es la vista owner: todos los items propios, más
// recientes primero, con label Shared calculado contra el terapeuta
// efectivo. ?type=all|text|files filtra como en la app.
func listItemsHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requirePatient(w, r)
		if !ok {
			return
		}

		list, err := svc.ListByPatient(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		sharedSet, err := sharesSvc.SharedItemSet(r.Context(), claims.UserID)
		if err != nil {
			// fallo transitorio resolviendo terapeuta: no lo disfrazamos
			// de "todo privado", devolvemos retryable
			http.Error(w, "temporarily unavailable, retry", http.StatusServiceUnavailable)
			return
		}

		list = filterByType(list, r.URL.Query().Get("type"))

		out := make([]itemResponse, 0, len(list))
		for _, it := range list {
			shared := sharedSet[it.ID]
			out = append(out, toItemResponse(it, &shared))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getItemHandler: owner siempre; therapist solo con share activo.
// Para un tercero el item es invisible: 404, no 403 (no filtramos existencia).
func getItemHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID := chi.URLParam(r, "itemID")
		it, err := svc.GetByID(r.Context(), itemID)
		if err != nil {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		if it.PatientID != claims.UserID {
			sharedWithCaller, err := sharesSvc.IsSharedWith(r.Context(), it.ID, claims.UserID)
			if err != nil {
				http.Error(w, "temporarily unavailable, retry", http.StatusServiceUnavailable)
				return
			}
			if !sharedWithCaller {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
		}

		writeJSON(w, http.StatusOK, toItemResponse(it, nil))
	}
}

func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requirePatient(w, r)
		if !ok {
			return
		}

		itemID := chi.URLParam(r, "itemID")

		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.UpdateText(r.Context(), claims.UserID, itemID, req.Title, req.Text)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrWrongKind):
				http.Error(w, "item is not text", http.StatusConflict)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "item not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it, nil))
	}
}

// deleteItemHandler godoc
// @Summary Borrar item
// @Description Borra un item propio en cascada: notas, binario (best-effort) y fila (los shares caen con ella). Si el binario no se pudo borrar, la respuesta lo reporta en `object_warning`.
// @Tags items
// @Produce json
// @Param itemID path string true "ID del item"
// @Success 200 {object} deleteItemResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "item not found"
// @Router /items/{itemID} [delete]
func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requirePatient(w, r)
		if !ok {
			return
		}

		itemID := chi.URLParam(r, "itemID")
		res, err := svc.Delete(r.Context(), claims.UserID, itemID)
		if err != nil {
			var de *DeleteError
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "item not found", http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.As(err, &de):
				// se reporta el paso fallido para retry dirigido
				http.Error(w, de.Error(), http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, deleteItemResponse{
			ObjectRemoved: res.ObjectRemoved,
			ObjectWarning: res.ObjectWarning,
		})
	}
}

// itemLinkHandler emite la signed URL del binario. Misma autorización
// que getItemHandler. Un link fallido es "contenido no disponible",
// nunca se responde una URL vacía.
func itemLinkHandler(svc *Service, sharesSvc *shares.Service, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID := chi.URLParam(r, "itemID")
		it, err := svc.GetByID(r.Context(), itemID)
		if err != nil {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		if it.PatientID != claims.UserID {
			sharedWithCaller, err := sharesSvc.IsSharedWith(r.Context(), it.ID, claims.UserID)
			if err != nil {
				http.Error(w, "temporarily unavailable, retry", http.StatusServiceUnavailable)
				return
			}
			if !sharedWithCaller {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
		}

		url, err := svc.SignedLink(r.Context(), it, ttl)
		if err != nil {
			if errors.Is(err, objectstore.ErrLinkUnavailable) {
				http.Error(w, "content unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, linkResponse{
			URL:       url,
			ExpiresIn: int(ttl.Seconds()),
		})
	}
}

// listSharedItemsHandler godoc
// @Summary Items compartidos conmigo (therapist)
// @Description Devuelve únicamente items alcanzables por shares activos del terapeuta autenticado. Un share revocado deja el item invisible. ?patient_id filtra por paciente, ?type=all|text|files por tipo.
// @Tags items
// @Produce json
// @Success 200 {array} itemResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/shared-items [get]
func listSharedItemsHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// El filtro es SIEMPRE el identity autenticado, jamás un
		// therapist_id venido del request.
		ids, err := sharesSvc.ActiveItemIDs(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		list, err := svc.ListByIDs(r.Context(), ids)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if pid := strings.TrimSpace(r.URL.Query().Get("patient_id")); pid != "" {
			filtered := make([]Item, 0, len(list))
			for _, it := range list {
				if it.PatientID == pid {
					filtered = append(filtered, it)
				}
			}
			list = filtered
		}

		list = filterByType(list, r.URL.Query().Get("type"))

		out := make([]itemResponse, 0, len(list))
		for _, it := range list {
			out = append(out, toItemResponse(it, nil))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// requirePatient corta con 401/403 si el caller no es un paciente autenticado.
func requirePatient(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	if claims.Role == auth.RoleTherapist {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}

// filterByType replica el filtro de la UI: all | text | files.
func filterByType(list []Item, raw string) []Item {
	switch strings.TrimSpace(raw) {
	case "", "all":
		return list
	case "text":
		out := make([]Item, 0, len(list))
		for _, it := range list {
			if it.Kind == KindText {
				out = append(out, it)
			}
		}
		return out
	default: // "files"
		out := make([]Item, 0, len(list))
		for _, it := range list {
			if it.Kind != KindText {
				out = append(out, it)
			}
		}
		return out
	}
}

func toItemResponse(it Item, shared *bool) itemResponse {
	return itemResponse{
		ID:            it.ID,
		PatientID:     it.PatientID,
		Kind:          it.Kind,
		EffectiveKind: it.EffectiveKind(),
		Title:         it.Title,
		TextContent:   it.TextContent,
		StorageBucket: it.StorageBucket,
		StoragePath:   it.StoragePath,
		MimeType:      it.MimeType,
		CreatedAt:     it.CreatedAt,
		Shared:        shared,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
