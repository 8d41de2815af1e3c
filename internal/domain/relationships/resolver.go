package relationships

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"therapy-journal/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoTherapist: el paciente legítimamente no tiene terapeuta activo.
	// NO confundir con un fallo de lookup (ese viaja como error envuelto):
	// son dominios de falla distintos y la UI los muestra distinto.
	ErrNoTherapist = errors.New("no active therapist")
)

// Cache opcional de resolución paciente->terapeuta (Redis en prod).
// Solo se cachean resultados positivos y con TTL corto.
type Cache interface {
	GetTherapist(ctx context.Context, patientID string) (string, bool, error)
	SetTherapist(ctx context.Context, patientID, therapistID string) error
	Invalidate(ctx context.Context, patientID string) error
}

// Resolver determina el terapeuta "efectivo" de un paciente.
// Si existieran varios links activos (el storage no lo prohíbe),
// gana el más reciente por created_at. Simplificación documentada:
// un paciente tiene a lo sumo un terapeuta efectivo.
type Resolver struct {
	repo  Repository
	cache Cache // puede ser nil
	log   logger.Logger
}

func NewResolver(repo Repository, cache Cache, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{repo: repo, cache: cache, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, patientID string) (string, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return "", ErrInvalidInput
	}

	if r.cache != nil {
		if tid, ok, err := r.cache.GetTherapist(ctx, patientID); err == nil && ok {
			return tid, nil
		}
		// fallo de cache => seguimos contra el repo, no es fatal
	}

	links, err := r.repo.ListActiveByPatient(ctx, patientID)
	if err != nil {
		return "", fmt.Errorf("resolve therapist: %w", err)
	}
	if len(links) == 0 {
		return "", ErrNoTherapist
	}

	winner := links[0]
	for _, l := range links[1:] {
		if l.CreatedAt.After(winner.CreatedAt) {
			winner = l
		}
	}

	if r.cache != nil {
		if err := r.cache.SetTherapist(ctx, patientID, winner.TherapistID); err != nil {
			r.log.Debug("therapist cache set failed", map[string]any{
				"patient_id": patientID,
				"error":      err.Error(),
			})
		}
	}

	return winner.TherapistID, nil
}

// Invalidate fuerza una re-resolución en el próximo Resolve.
// Se llama después de un share fallido por terapeuta ausente/viejo.
func (r *Resolver) Invalidate(ctx context.Context, patientID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, strings.TrimSpace(patientID)); err != nil {
		r.log.Debug("therapist cache invalidate failed", map[string]any{
			"patient_id": patientID,
			"error":      err.Error(),
		})
	}
}

// ListPatients devuelve los links activos del terapeuta (su lista de pacientes).
func (r *Resolver) ListPatients(ctx context.Context, therapistID string) ([]Link, error) {
	therapistID = strings.TrimSpace(therapistID)
	if therapistID == "" {
		return nil, ErrInvalidInput
	}
	return r.repo.ListActiveByTherapist(ctx, therapistID)
}
