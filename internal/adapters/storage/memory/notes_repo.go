package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"therapy-journal/internal/domain/notes"
)

type NotesRepo struct {
	mu   sync.RWMutex
	byID map[string]notes.Note
}

func NewNotesRepo() *NotesRepo {
	return &NotesRepo{
		byID: make(map[string]notes.Note),
	}
}

func (r *NotesRepo) Create(ctx context.Context, n notes.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return errors.New("note id required")
	}
	if _, exists := r.byID[n.ID]; exists {
		return errors.New("note already exists")
	}
	r.byID[n.ID] = n
	return nil
}

func (r *NotesRepo) GetByID(ctx context.Context, id string) (notes.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return notes.Note{}, ErrNotFound
	}
	return n, nil
}

func (r *NotesRepo) ListByItem(ctx context.Context, itemID string) ([]notes.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notes.Note, 0)
	for _, n := range r.byID {
		if n.ItemID == itemID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *NotesRepo) DeleteByItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.byID {
		if n.ItemID == itemID {
			delete(r.byID, id)
		}
	}
	return nil
}
