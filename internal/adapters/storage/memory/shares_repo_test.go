package memory

import (
	"context"
	"testing"
	"time"

	"therapy-journal/internal/domain/items"
	"therapy-journal/internal/domain/shares"
)

func TestSharesRepo_UpsertRevokeCycle(t *testing.T) {
	repo := NewSharesRepo()
	ctx := context.Background()

	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	if err := repo.Upsert(ctx, shares.Share{ItemID: "i1", TherapistID: "t1", SharedAt: t0}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	// revoke sin share activo de OTRO par es no-op
	ok, err := repo.Revoke(ctx, "i1", "t-otro", t1)
	if err != nil || ok {
		t.Fatalf("expected no-op revoke, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.Revoke(ctx, "i1", "t1", t1)
	if err != nil || !ok {
		t.Fatalf("expected revoke, got ok=%v err=%v", ok, err)
	}

	// doble revoke es no-op
	ok, _ = repo.Revoke(ctx, "i1", "t1", t1)
	if ok {
		t.Fatalf("expected second revoke to be no-op")
	}

	if _, found, _ := repo.GetActive(ctx, "i1", "t1"); found {
		t.Fatalf("revoked share must not be active")
	}

	// re-upsert revive la MISMA fila del par
	if err := repo.Upsert(ctx, shares.Share{ItemID: "i1", TherapistID: "t1", SharedAt: t1}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	s, found, _ := repo.GetActive(ctx, "i1", "t1")
	if !found || s.RevokedAt != nil || s.SharedAt != t1 {
		t.Fatalf("expected revived share with fresh shared_at, got %+v found=%v", s, found)
	}
}

func TestItemsRepo_DeletePurgesShares(t *testing.T) {
	sharesRepo := NewSharesRepo()
	itemsRepo := NewItemsRepo(sharesRepo)
	ctx := context.Background()

	it := items.Item{ID: "i1", PatientID: "p1", Kind: items.KindText, TextContent: "x", CreatedAt: time.Now()}
	if err := itemsRepo.Create(ctx, it); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	_ = sharesRepo.Upsert(ctx, shares.Share{ItemID: "i1", TherapistID: "t1", SharedAt: time.Now()})

	if err := itemsRepo.Delete(ctx, "i1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	// el share cayó transitivamente, como el FK cascade en Postgres
	if _, found, _ := sharesRepo.GetActive(ctx, "i1", "t1"); found {
		t.Fatalf("expected share purged with item")
	}
	list, _ := sharesRepo.ListActiveByTherapist(ctx, "t1")
	if len(list) != 0 {
		t.Fatalf("expected no reachable shares, got %d", len(list))
	}
}
