package notes

import "time"

// Note es una anotación libre del paciente sobre un item propio.
// Siempre privada: el estado de sharing del item no la afecta.
// Cae en cascada cuando se borra el item padre.
type Note struct {
	ID        string
	ItemID    string
	PatientID string

	Body string

	CreatedAt time.Time
}
