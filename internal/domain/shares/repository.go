package shares

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert activa el share del par (item, therapist): si la fila ya
	// existe se pisa shared_at y se limpia revoked_at. Idempotente,
	// jamás produce filas duplicadas para el par.
	Upsert(ctx context.Context, s Share) error

	// Revoke setea revoked_at en el share activo del par, si existe.
	// Devuelve false (sin error) si no había share activo: no-op.
	Revoke(ctx context.Context, itemID, therapistID string, at time.Time) (bool, error)

	// GetActive devuelve el share activo del par. found=false sin error
	// significa "no compartido"; error significa fallo de backend.
	GetActive(ctx context.Context, itemID, therapistID string) (Share, bool, error)

	// ListActiveByTherapist: todos los shares no revocados del terapeuta.
	ListActiveByTherapist(ctx context.Context, therapistID string) ([]Share, error)

	// ListActiveByItem: shares activos de un item (labels Private/Shared).
	ListActiveByItem(ctx context.Context, itemID string) ([]Share, error)
}
