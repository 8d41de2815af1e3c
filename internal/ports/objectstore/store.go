package objectstore

import (
	"context"
	"errors"
	"time"
)

// ErrLinkUnavailable: no se pudo emitir una signed URL para el objeto
// (no existe, permiso denegado, backend caído). El caller lo trata como
// "contenido temporalmente no disponible", nunca como item inexistente.
var ErrLinkUnavailable = errors.New("link unavailable")

// Store es el contrato contra el object storage privado.
// El upload de bytes queda fuera del core: acá solo entran
// lectura firmada y borrado por path.
type Store interface {
	// SignedURL emite una URL temporal de lectura para UN objeto.
	// Falla cerrado: jamás devuelve una URL vacía o adivinada.
	SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)

	// Remove borra el objeto. Usado por el cascade delete de items.
	Remove(ctx context.Context, bucket, path string) error
}
