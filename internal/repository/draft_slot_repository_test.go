package repository

import (
	"context"
	"testing"
)

func TestDraftSlotRepositoryOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftSlotRepository(openTestDB(t))

	empty, err := repo.LoadSlot(ctx, "slot-a")
	if err != nil || empty != nil {
		t.Fatalf("empty slot should return nil,nil got %q %v", empty, err)
	}

	if err := repo.SaveSlot(ctx, "slot-a", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := repo.SaveSlot(ctx, "slot-a", []byte(`{"version":1,"drafts":[]}`)); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	got, err := repo.LoadSlot(ctx, "slot-a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != `{"version":1,"drafts":[]}` {
		t.Fatalf("slot should be overwritten, got %s", got)
	}

	var count int64
	repo.db.Table("draft_slots").Count(&count)
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}

	if err := repo.DeleteSlot(ctx, "slot-a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got, _ := repo.LoadSlot(ctx, "slot-a"); got != nil {
		t.Fatalf("slot should be gone, got %s", got)
	}
}

func TestDraftSlotRepositoryRejectsEmptyKey(t *testing.T) {
	repo := NewDraftSlotRepository(openTestDB(t))
	if err := repo.SaveSlot(context.Background(), " ", []byte("x")); err == nil {
		t.Fatalf("expected error for empty slot key")
	}
}
