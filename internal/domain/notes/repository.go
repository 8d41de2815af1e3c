package notes

import "context"

type Repository interface {
	Create(ctx context.Context, n Note) error
	GetByID(ctx context.Context, id string) (Note, error)

	// ListByItem: notas del item, más antiguas primero (orden de escritura).
	ListByItem(ctx context.Context, itemID string) ([]Note, error)

	Delete(ctx context.Context, id string) error

	// DeleteByItem purga todas las notas del item (paso 1 del cascade).
	DeleteByItem(ctx context.Context, itemID string) error
}
