package shares

import "time"

// Share es la capability que expone UN item a UN terapeuta.
// El par (item_id, therapist_id) es clave lógica estable: activar y
// revocar reutilizan siempre la misma fila (upsert + soft-delete),
// nunca un log append-only. Así no hay ambigüedad de "qué revocación
// corresponde a qué grant".
type Share struct {
	ItemID      string
	TherapistID string

	SharedAt  time.Time
	RevokedAt *time.Time
}

func (s Share) Active() bool { return s.RevokedAt == nil }
