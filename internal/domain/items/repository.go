package items

import "context"

type Repository interface {
	Create(ctx context.Context, i Item) error
	GetByID(ctx context.Context, id string) (Item, error)

	// ListByPatient devuelve los items del paciente, más recientes primero.
	ListByPatient(ctx context.Context, patientID string) ([]Item, error)

	// ListByIDs devuelve los items cuyos ids estén presentes (orden: más
	// recientes primero). IDs inexistentes se ignoran en silencio.
	ListByIDs(ctx context.Context, ids []string) ([]Item, error)

	UpdateText(ctx context.Context, id, title, text string) error

	// Delete borra la fila del item. Los shares del item caen
	// transitivamente (FK cascade en Postgres, purge explícito en memory).
	Delete(ctx context.Context, id string) error
}
