package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"therapy-journal/internal/platform/logger"
	"therapy-journal/internal/ports/objectstore"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrWrongKind    = errors.New("wrong kind")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// NotePurger borra las notas de un item (paso 1 del cascade delete).
// Interface chica para no importar el paquete notes (rompe ciclos).
type NotePurger interface {
	DeleteByItem(ctx context.Context, itemID string) error
}

type Service struct {
	repo    Repository
	notes   NotePurger
	objects objectstore.Store // puede ser nil (dev sin storage)
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, notes NotePurger, objects objectstore.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		notes:   notes,
		objects: objects,
		log:     log,
		now:     time.Now,
	}
}

type CreateInput struct {
	// Para items de texto
	Title string
	Text  string

	// Para items binarios: metadata que produce el upload externo.
	StorageBucket string
	StoragePath   string
	MimeType      string

	// Kind guardado por el uploader (hint; Classify decide).
	Kind string
}

// Create registra un item del paciente autenticado.
// Texto: exige texto no vacío (trimmed). Binario: exige bucket+path+mime.
func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (Item, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return Item{}, ErrInvalidInput
	}

	bucket := strings.TrimSpace(in.StorageBucket)
	path := strings.TrimSpace(in.StoragePath)
	mime := strings.TrimSpace(in.MimeType)

	now := s.now()

	// Familia binaria: cualquiera de los campos de storage presente.
	if bucket != "" || path != "" || mime != "" {
		if bucket == "" || path == "" || mime == "" {
			return Item{}, ErrInvalidInput
		}

		kind := Classify(mime, path, Kind(strings.TrimSpace(in.Kind)))
		if kind == KindText {
			// un item con payload binario nunca es "text"
			kind = KindFile
		}

		it := Item{
			ID:            uuid.NewString(),
			PatientID:     patientID,
			Kind:          kind,
			StorageBucket: bucket,
			StoragePath:   path,
			MimeType:      mime,
			CreatedAt:     now,
		}
		if err := s.repo.Create(ctx, it); err != nil {
			return Item{}, err
		}
		return it, nil
	}

	// Familia texto
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Item{}, ErrInvalidInput
	}

	it := Item{
		ID:          uuid.NewString(),
		PatientID:   patientID,
		Kind:        KindText,
		Title:       strings.TrimSpace(in.Title),
		TextContent: text,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Item, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

// UpdateText edita título/texto de un item de texto propio.
// Título vacío se guarda como NULL; texto vacío se rechaza.
func (s *Service) UpdateText(ctx context.Context, patientID, itemID, title, text string) (Item, error) {
	patientID = strings.TrimSpace(patientID)
	itemID = strings.TrimSpace(itemID)
	if patientID == "" || itemID == "" {
		return Item{}, ErrInvalidInput
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return Item{}, ErrNotFound
	}
	if it.PatientID != patientID {
		return Item{}, ErrForbidden
	}
	if it.Kind != KindText {
		return Item{}, ErrWrongKind
	}

	cleanText := strings.TrimSpace(text)
	if cleanText == "" {
		return Item{}, ErrInvalidInput
	}
	cleanTitle := strings.TrimSpace(title)

	if err := s.repo.UpdateText(ctx, itemID, cleanTitle, cleanText); err != nil {
		return Item{}, err
	}

	it.Title = cleanTitle
	it.TextContent = cleanText
	return it, nil
}

// DeleteStep identifica en qué paso del cascade falló un delete,
// para que el retry pueda ser dirigido.
type DeleteStep string

const (
	DeleteStepNotes  DeleteStep = "notes"
	DeleteStepObject DeleteStep = "object"
	DeleteStepItem   DeleteStep = "item"
)

type DeleteError struct {
	Step DeleteStep
	Err  error
}

func (e *DeleteError) Error() string { return fmt.Sprintf("delete %s: %v", e.Step, e.Err) }
func (e *DeleteError) Unwrap() error { return e.Err }

type DeleteResult struct {
	ObjectRemoved bool
	// ObjectWarning: el borrado del binario es best-effort; si falla
	// se reporta acá pero el item igual se elimina (un objeto huérfano
	// es menos grave que un item imposible de borrar).
	ObjectWarning string
}

// Delete elimina un item propio en orden fijo:
// 1) notas, 2) objeto binario (best-effort), 3) fila del item
// (los shares caen transitivamente con la fila).
func (s *Service) Delete(ctx context.Context, patientID, itemID string) (DeleteResult, error) {
	patientID = strings.TrimSpace(patientID)
	itemID = strings.TrimSpace(itemID)
	if patientID == "" || itemID == "" {
		return DeleteResult{}, ErrInvalidInput
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return DeleteResult{}, ErrNotFound
	}
	if it.PatientID != patientID {
		return DeleteResult{}, ErrForbidden
	}

	if s.notes != nil {
		if err := s.notes.DeleteByItem(ctx, itemID); err != nil {
			return DeleteResult{}, &DeleteError{Step: DeleteStepNotes, Err: err}
		}
	}

	res := DeleteResult{}
	if it.HasStorageObject() {
		switch {
		case s.objects == nil:
			res.ObjectWarning = "object store not configured"
		default:
			if err := s.objects.Remove(ctx, it.StorageBucket, it.StoragePath); err != nil {
				res.ObjectWarning = err.Error()
				s.log.Warn("storage object delete failed", map[string]any{
					"item_id": itemID,
					"bucket":  it.StorageBucket,
					"path":    it.StoragePath,
					"error":   err.Error(),
				})
			} else {
				res.ObjectRemoved = true
			}
		}
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return res, &DeleteError{Step: DeleteStepItem, Err: err}
	}

	return res, nil
}

// SignedLink emite la URL temporal de lectura para el binario del item.
func (s *Service) SignedLink(ctx context.Context, it Item, ttl time.Duration) (string, error) {
	if !it.HasStorageObject() {
		return "", objectstore.ErrLinkUnavailable
	}
	if s.objects == nil {
		return "", objectstore.ErrLinkUnavailable
	}
	return s.objects.SignedURL(ctx, it.StorageBucket, it.StoragePath, ttl)
}
