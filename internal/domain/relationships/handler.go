package relationships

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"therapy-journal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, resolver *Resolver) {
	// Therapist: sus pacientes vinculados (dashboard).
	r.Get("/me/patients", listMyPatientsHandler(resolver))
}

type patientLinkResponse struct {
	PatientID string    `json:"patient_id"`
	LinkedAt  time.Time `json:"linked_at"`
}

func listMyPatientsHandler(resolver *Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		links, err := resolver.ListPatients(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientLinkResponse, 0, len(links))
		for _, l := range links {
			out = append(out, patientLinkResponse{
				PatientID: l.PatientID,
				LinkedAt:  l.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
