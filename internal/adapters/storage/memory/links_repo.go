package memory

import (
	"context"
	"sort"
	"sync"

	"therapy-journal/internal/domain/relationships"
)

type LinksRepo struct {
	mu   sync.RWMutex
	byID map[string]relationships.Link
}

func NewLinksRepo() *LinksRepo {
	return &LinksRepo{
		byID: make(map[string]relationships.Link),
	}
}

// Seed agrega un link (los links los crean procesos externos; en dev
// los sembramos a mano).
func (r *LinksRepo) Seed(l relationships.Link) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[l.ID] = l
}

func (r *LinksRepo) ListActiveByPatient(ctx context.Context, patientID string) ([]relationships.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]relationships.Link, 0)
	for _, l := range r.byID {
		if l.PatientID == patientID && l.Status == relationships.StatusActive {
			out = append(out, l)
		}
	}
	sortLinksNewestFirst(out)
	return out, nil
}

func (r *LinksRepo) ListActiveByTherapist(ctx context.Context, therapistID string) ([]relationships.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]relationships.Link, 0)
	for _, l := range r.byID {
		if l.TherapistID == therapistID && l.Status == relationships.StatusActive {
			out = append(out, l)
		}
	}
	sortLinksNewestFirst(out)
	return out, nil
}

func sortLinksNewestFirst(list []relationships.Link) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
