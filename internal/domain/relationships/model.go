package relationships

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Link es la relación terapeuta<->paciente. Este core solo la LEE:
// altas/bajas pasan por procesos externos (onboarding, admin).
type Link struct {
	ID          string
	PatientID   string
	TherapistID string
	Status      Status
	CreatedAt   time.Time
}
