package notes

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Note
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Note{}}
}

func (r *testRepo) Create(ctx context.Context, n Note) error {
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Note, error) {
	n, ok := r.byID[id]
	if !ok {
		return Note{}, errRepoNotFound
	}
	return n, nil
}

func (r *testRepo) ListByItem(ctx context.Context, itemID string) ([]Note, error) {
	out := make([]Note, 0)
	for _, n := range r.byID {
		if n.ItemID == itemID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) DeleteByItem(ctx context.Context, itemID string) error {
	for id, n := range r.byID {
		if n.ItemID == itemID {
			delete(r.byID, id)
		}
	}
	return nil
}

func TestService_Add(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	n, err := svc.Add(context.Background(), "patient-1", "item-1", "  recordar esto en sesión  ")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if n.Body != "recordar esto en sesión" {
		t.Fatalf("expected trimmed body, got %q", n.Body)
	}
	if n.CreatedAt != now || n.ID == "" {
		t.Fatalf("expected generated id and CreatedAt = now")
	}

	// cuerpo vacío post-trim se rechaza
	if _, err := svc.Add(context.Background(), "patient-1", "item-1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Delete_OwnerOnly(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	n, err := svc.Add(context.Background(), "patient-1", "item-1", "privada")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	if err := svc.Delete(context.Background(), "patient-2", n.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "patient-1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "patient-1", n.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestService_DeleteByItem(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, _ = svc.Add(ctx, "patient-1", "item-1", "a")
	_, _ = svc.Add(ctx, "patient-1", "item-1", "b")
	_, _ = svc.Add(ctx, "patient-1", "item-2", "c")

	if err := svc.DeleteByItem(ctx, "item-1"); err != nil {
		t.Fatalf("DeleteByItem error: %v", err)
	}

	left, _ := svc.ListByItem(ctx, "item-1")
	if len(left) != 0 {
		t.Fatalf("expected item-1 notes purged, got %d", len(left))
	}
	other, _ := svc.ListByItem(ctx, "item-2")
	if len(other) != 1 {
		t.Fatalf("expected item-2 notes untouched, got %d", len(other))
	}
}
