package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"therapy-journal/internal/domain/items"
)

var ErrNotFound = errors.New("not found")

type ItemsRepo struct {
	mu     sync.RWMutex
	byID   map[string]items.Item
	shares *SharesRepo // para el purge transitivo al borrar (emula FK cascade)
}

// NewItemsRepo recibe el SharesRepo in-memory para emular el
// ON DELETE CASCADE de Postgres sobre item_shares.
func NewItemsRepo(shares *SharesRepo) *ItemsRepo {
	return &ItemsRepo{
		byID:   make(map[string]items.Item),
		shares: shares,
	}
}

func (r *ItemsRepo) Create(ctx context.Context, it items.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if it.ID == "" {
		return errors.New("item id required")
	}
	if _, exists := r.byID[it.ID]; exists {
		return errors.New("item already exists")
	}
	r.byID[it.ID] = it
	return nil
}

func (r *ItemsRepo) GetByID(ctx context.Context, id string) (items.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return items.Item{}, ErrNotFound
	}
	return it, nil
}

func (r *ItemsRepo) ListByPatient(ctx context.Context, patientID string) ([]items.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]items.Item, 0)
	for _, it := range r.byID {
		if it.PatientID == patientID {
			out = append(out, it)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *ItemsRepo) ListByIDs(ctx context.Context, ids []string) ([]items.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]items.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := r.byID[id]; ok {
			out = append(out, it)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *ItemsRepo) UpdateText(ctx context.Context, id, title, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	it.Title = title
	it.TextContent = text
	r.byID[id] = it
	return nil
}

func (r *ItemsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.byID[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.byID, id)
	r.mu.Unlock()

	if r.shares != nil {
		r.shares.purgeItem(id)
	}
	return nil
}

func sortNewestFirst(list []items.Item) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
