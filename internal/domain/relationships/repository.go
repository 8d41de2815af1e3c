package relationships

import "context"

type Repository interface {
	// ListActiveByPatient devuelve los links activos del paciente,
	// created_at descendente (el primero es el "efectivo").
	ListActiveByPatient(ctx context.Context, patientID string) ([]Link, error)

	// ListActiveByTherapist devuelve los pacientes vinculados al terapeuta.
	ListActiveByTherapist(ctx context.Context, therapistID string) ([]Link, error)
}
