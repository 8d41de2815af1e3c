package shares

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"therapy-journal/internal/domain/relationships"
	"therapy-journal/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveTherapist: el paciente no tiene terapeuta vinculado.
	// Recuperable y con mensaje propio en la UI; no corrompe estado.
	ErrNoActiveTherapist = errors.New("no active therapist linked")
)

// TherapistResolver resuelve el terapeuta efectivo del paciente.
// Invalidate fuerza re-resolución (se llama tras un toggle fallido
// que asumió un terapeuta viejo/ausente).
type TherapistResolver interface {
	Resolve(ctx context.Context, patientID string) (string, error)
	Invalidate(ctx context.Context, patientID string)
}

// Status es el estado autoritativo de sharing de un item.
// HasTherapist=false es una condición distinta de "compartido apagado":
// la UI muestra otra cosa en cada caso.
type Status struct {
	IsShared     bool
	HasTherapist bool
	TherapistID  string
}

type Service struct {
	repo     Repository
	resolver TherapistResolver
	log      logger.Logger
	now      func() time.Time

	// Serialización por item: dos toggles sobre el mismo item nunca
	// corren en paralelo (el backend no ordena escrituras entre requests).
	// Items distintos no se bloquean entre sí.
	mu        sync.Mutex
	itemLocks map[string]*sync.Mutex
}

func NewService(repo Repository, resolver TherapistResolver, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		resolver:  resolver,
		log:       log,
		now:       time.Now,
		itemLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockItem(itemID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.itemLocks[itemID]
	if !ok {
		l = &sync.Mutex{}
		s.itemLocks[itemID] = l
	}
	return l
}

// Status resuelve el terapeuta y consulta el share activo del par.
// Sin terapeuta: siempre "not shared" + HasTherapist=false (sin error).
func (s *Service) Status(ctx context.Context, patientID, itemID string) (Status, error) {
	patientID = strings.TrimSpace(patientID)
	itemID = strings.TrimSpace(itemID)
	if patientID == "" || itemID == "" {
		return Status{}, ErrInvalidInput
	}

	tid, err := s.resolver.Resolve(ctx, patientID)
	if err != nil {
		if errors.Is(err, relationships.ErrNoTherapist) {
			return Status{IsShared: false, HasTherapist: false}, nil
		}
		// fallo de lookup: NO lo reportamos como "sin terapeuta"
		return Status{}, err
	}

	_, found, err := s.repo.GetActive(ctx, itemID, tid)
	if err != nil {
		return Status{}, fmt.Errorf("share read: %w", err)
	}

	return Status{IsShared: found, HasTherapist: true, TherapistID: tid}, nil
}

// SetEnabled activa/desactiva el share del item hacia el terapeuta
// efectivo y devuelve el estado re-leído del backend: el post-estado
// "optimista" nunca se reporta como verdad porque la mutación puede
// fallar a medias.
func (s *Service) SetEnabled(ctx context.Context, patientID, itemID string, enabled bool) (Status, error) {
	patientID = strings.TrimSpace(patientID)
	itemID = strings.TrimSpace(itemID)
	if patientID == "" || itemID == "" {
		return Status{}, ErrInvalidInput
	}

	lock := s.lockItem(itemID)
	lock.Lock()
	defer lock.Unlock()

	tid, err := s.resolver.Resolve(ctx, patientID)
	if err != nil {
		if errors.Is(err, relationships.ErrNoTherapist) {
			// por si el link apareció hace un instante y la cache está vieja
			s.resolver.Invalidate(ctx, patientID)
			return Status{IsShared: false, HasTherapist: false}, ErrNoActiveTherapist
		}
		return Status{}, err
	}

	now := s.now()

	if enabled {
		err = s.repo.Upsert(ctx, Share{
			ItemID:      itemID,
			TherapistID: tid,
			SharedAt:    now,
			RevokedAt:   nil,
		})
		if err != nil {
			s.resolver.Invalidate(ctx, patientID)
			return Status{}, fmt.Errorf("share write: %w", err)
		}
	} else {
		// revocar sin share activo es no-op exitoso, no error
		if _, err := s.repo.Revoke(ctx, itemID, tid, now); err != nil {
			s.resolver.Invalidate(ctx, patientID)
			return Status{}, fmt.Errorf("share write: %w", err)
		}
	}

	_, found, err := s.repo.GetActive(ctx, itemID, tid)
	if err != nil {
		return Status{}, fmt.Errorf("share read-back: %w", err)
	}

	st := Status{IsShared: found, HasTherapist: true, TherapistID: tid}
	s.log.Info("share toggled", map[string]any{
		"item_id":      itemID,
		"therapist_id": tid,
		"enabled":      enabled,
		"is_shared":    st.IsShared,
	})
	return st, nil
}

// ActiveItemIDs: ids de items alcanzables por el terapeuta vía sus
// shares no revocados. Es LA única puerta de la vista therapist.
func (s *Service) ActiveItemIDs(ctx context.Context, therapistID string) ([]string, error) {
	therapistID = strings.TrimSpace(therapistID)
	if therapistID == "" {
		return nil, ErrInvalidInput
	}

	list, err := s.repo.ListActiveByTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list))
	for _, sh := range list {
		ids = append(ids, sh.ItemID)
	}
	return ids, nil
}

// IsSharedWith chequea el share activo de (item, therapist). Se usa para
// autorizar la lectura puntual de un item por el terapeuta.
func (s *Service) IsSharedWith(ctx context.Context, itemID, therapistID string) (bool, error) {
	itemID = strings.TrimSpace(itemID)
	therapistID = strings.TrimSpace(therapistID)
	if itemID == "" || therapistID == "" {
		return false, ErrInvalidInput
	}
	_, found, err := s.repo.GetActive(ctx, itemID, therapistID)
	if err != nil {
		return false, err
	}
	return found, nil
}

// SharedItemSet: para la vista owner, set de item ids del paciente que
// están compartidos con su terapeuta efectivo (labels Private/Shared).
// Sin terapeuta, el set es vacío.
func (s *Service) SharedItemSet(ctx context.Context, patientID string) (map[string]bool, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}

	tid, err := s.resolver.Resolve(ctx, patientID)
	if err != nil {
		if errors.Is(err, relationships.ErrNoTherapist) {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	list, err := s.repo.ListActiveByTherapist(ctx, tid)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(list))
	for _, sh := range list {
		set[sh.ItemID] = true
	}
	return set, nil
}
