package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"therapy-journal/internal/domain/shares"
)

type pairKey struct {
	itemID      string
	therapistID string
}

type SharesRepo struct {
	mu     sync.RWMutex
	byPair map[pairKey]shares.Share
}

func NewSharesRepo() *SharesRepo {
	return &SharesRepo{
		byPair: make(map[pairKey]shares.Share),
	}
}

// Upsert pisa siempre la misma entrada del par: map key = (item, therapist),
// igual que la PK compuesta en Postgres. No hay forma de duplicar.
func (r *SharesRepo) Upsert(ctx context.Context, s shares.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.RevokedAt = nil
	r.byPair[pairKey{s.ItemID, s.TherapistID}] = s
	return nil
}

func (r *SharesRepo) Revoke(ctx context.Context, itemID, therapistID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := pairKey{itemID, therapistID}
	s, ok := r.byPair[k]
	if !ok || s.RevokedAt != nil {
		return false, nil
	}

	t := at
	s.RevokedAt = &t
	r.byPair[k] = s
	return true, nil
}

func (r *SharesRepo) GetActive(ctx context.Context, itemID, therapistID string) (shares.Share, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byPair[pairKey{itemID, therapistID}]
	if !ok || s.RevokedAt != nil {
		return shares.Share{}, false, nil
	}
	return s, true, nil
}

func (r *SharesRepo) ListActiveByTherapist(ctx context.Context, therapistID string) ([]shares.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shares.Share, 0)
	for _, s := range r.byPair {
		if s.TherapistID == therapistID && s.RevokedAt == nil {
			out = append(out, s)
		}
	}
	sortSharesNewestFirst(out)
	return out, nil
}

func (r *SharesRepo) ListActiveByItem(ctx context.Context, itemID string) ([]shares.Share, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shares.Share, 0)
	for _, s := range r.byPair {
		if s.ItemID == itemID && s.RevokedAt == nil {
			out = append(out, s)
		}
	}
	sortSharesNewestFirst(out)
	return out, nil
}

// purgeItem emula el FK ON DELETE CASCADE: al borrar el item caen TODOS
// sus shares, revocados incluidos.
func (r *SharesRepo) purgeItem(itemID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.byPair {
		if k.itemID == itemID {
			delete(r.byPair, k)
		}
	}
}

func sortSharesNewestFirst(list []shares.Share) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].SharedAt.After(list[j].SharedAt)
	})
}
