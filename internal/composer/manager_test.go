package composer

import (
	"context"
	"errors"
	"testing"
)

func newTestManager(t *testing.T, store SlotStore) *Manager {
	t.Helper()
	return NewManager(context.Background(), NewSlotPersistence(store, "test-slot"), WithIDGenerator(sequentialIDs()))
}

func TestNewManagerStartsWithSingleActiveDraft(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	drafts := m.Drafts()
	if len(drafts) != 1 {
		t.Fatalf("expected one draft, got %d", len(drafts))
	}
	assertSingleActive(t, drafts)
	if drafts[0].Name != "Order #1" {
		t.Fatalf("unexpected name: %s", drafts[0].Name)
	}
}

func TestCreateDraftActivatesNew(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	id := m.CreateDraft()
	if m.ActiveID() != id {
		t.Fatalf("new draft should be active")
	}
	draft, _ := m.Draft(id)
	if draft.Name != "Order #2" {
		t.Fatalf("unexpected name: %s", draft.Name)
	}
	assertSingleActive(t, m.Drafts())
}

func TestCloseDraftSingletonIsNoop(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	if m.CloseDraft(m.ActiveID()) {
		t.Fatalf("closing the only draft must be a no-op")
	}
	if m.Len() != 1 {
		t.Fatalf("expected one draft, got %d", m.Len())
	}
}

func TestCloseActiveDraftActivatesFirstRemaining(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	first := m.ActiveID()
	m.CreateDraft()
	third := m.CreateDraft()

	if !m.CloseDraft(third) {
		t.Fatalf("close should succeed")
	}
	if m.ActiveID() != first {
		t.Fatalf("activation should fall to first remaining draft, got %s", m.ActiveID())
	}
	assertSingleActive(t, m.Drafts())
	if m.CloseDraft("missing") {
		t.Fatalf("unknown id should be a no-op")
	}
}

func TestSwitchToUnknownIsNoop(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	first := m.ActiveID()
	second := m.CreateDraft()
	if m.SwitchTo("missing") {
		t.Fatalf("unknown id should be a no-op")
	}
	if m.ActiveID() != second {
		t.Fatalf("active draft changed unexpectedly")
	}
	if !m.SwitchTo(first) || m.ActiveID() != first {
		t.Fatalf("switch failed")
	}
	assertSingleActive(t, m.Drafts())
}

func TestMutateActiveKeepsIdentity(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	id := m.ActiveID()
	updated, err := m.MutateActive(func(d Draft) Draft {
		d.ID = "hijacked"
		d.IsActive = false
		d.LineItems = d.LineItems.AddOrMergeProduct(sampleProduct())
		return d
	})
	if err != nil {
		t.Fatalf("mutate active failed: %v", err)
	}
	if updated.ID != id || !updated.IsActive {
		t.Fatalf("mutation must not change id or activation: %+v", updated)
	}
	if updated.LineItems.Count() != 1 {
		t.Fatalf("expected mutation applied")
	}
	assertLineTotals(t, updated.LineItems)
}

func TestMutateDraftUnknownReturnsError(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	if _, err := m.MutateDraft("missing", func(d Draft) Draft { return d }); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestAttributeScenarioAcrossDrafts(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	second := m.CreateDraft()
	m.CreateDraft()
	if m.Len() != 3 {
		t.Fatalf("expected three drafts, got %d", m.Len())
	}
	m.SwitchTo(second)

	product := sampleProduct()
	m.MutateActive(func(d Draft) Draft {
		d.LineItems = d.LineItems.AddOrMergeProduct(product)
		return d
	})

	toggle := func(name string) Draft {
		t.Helper()
		var toggleErr error
		draft, err := m.MutateActive(func(d Draft) Draft {
			next, err := ToggleAttribute(d, product, name)
			toggleErr = err
			return next
		})
		if err != nil || toggleErr != nil {
			t.Fatalf("toggle %s failed: %v / %v", name, err, toggleErr)
		}
		return draft
	}

	toggle("A")
	draft := toggle("B")
	line, _ := draft.LineItems.Find("P")
	assertMoney(t, "after A then B", line.UnitPrice, 90000)

	draft = toggle("B")
	line, _ = draft.LineItems.Find("P")
	assertMoney(t, "after deselect B", line.UnitPrice, 70000)
	if len(line.SelectedAttributes) != 1 || line.SelectedAttributes[0].Name != "A" {
		t.Fatalf("A should remain selected: %+v", line.SelectedAttributes)
	}

	draft = toggle("A")
	line, _ = draft.LineItems.Find("P")
	assertMoney(t, "back to base", line.UnitPrice, 50000)
	if len(line.SelectedAttributes) != 0 {
		t.Fatalf("selections should be empty")
	}
	assertLineTotals(t, draft.LineItems)

	for _, other := range m.Drafts() {
		if other.ID != second && other.LineItems.Count() != 0 {
			t.Fatalf("other drafts must be untouched")
		}
	}
}

func TestRemoveSubmittedLastDraftCreatesFresh(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	id := m.ActiveID()
	if err := m.RemoveSubmitted(id); err != nil {
		t.Fatalf("remove submitted failed: %v", err)
	}
	if m.Len() != 1 || m.ActiveID() == id {
		t.Fatalf("expected a fresh draft after submitting the last one")
	}
	assertSingleActive(t, m.Drafts())
	if err := m.RemoveSubmitted("missing"); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestClosingDraftCancelsItsTasks(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	m.CreateDraft()
	target := m.ActiveID()

	ctx, done, err := m.BeginTask(context.Background(), target)
	if err != nil {
		t.Fatalf("begin task failed: %v", err)
	}
	defer done()
	m.CloseDraft(target)

	select {
	case <-ctx.Done():
	default:
		t.Fatalf("task context should be cancelled when draft closes")
	}
	if _, _, err := m.BeginTask(context.Background(), target); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound for closed draft, got %v", err)
	}
}

func TestManagerRestoresFromPersistence(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(t, store)
	m.MutateActive(func(d Draft) Draft {
		d.LineItems = d.LineItems.AddOrMergeProduct(sampleProduct())
		d.Customer = &CustomerInfo{Name: "Lan"}
		return d
	})
	second := m.CreateDraft()

	restored := NewManager(context.Background(), NewSlotPersistence(store, "test-slot"))
	if restored.Len() != 2 {
		t.Fatalf("expected two drafts restored, got %d", restored.Len())
	}
	if restored.ActiveID() != second {
		t.Fatalf("active draft not restored")
	}
	first := restored.Drafts()[0]
	if first.LineItems.Count() != 1 || first.Customer == nil || first.Customer.Name != "Lan" {
		t.Fatalf("unexpected restored draft: %+v", first)
	}
}

func TestManagerSurvivesStorageFailure(t *testing.T) {
	store := &failingStore{}
	m := newTestManager(t, store)
	if m.Len() != 1 {
		t.Fatalf("expected fresh state when load fails")
	}
	m.CreateDraft()
	m.MutateActive(func(d Draft) Draft {
		d.LineItems = d.LineItems.AddOrMergeProduct(sampleProduct())
		return d
	})
	if m.Len() != 2 || m.Active().LineItems.Count() != 1 {
		t.Fatalf("in-memory state must survive save failures")
	}
	if store.saves == 0 {
		t.Fatalf("expected save attempts")
	}
}

func TestManagerNormalizesRestoredDrafts(t *testing.T) {
	store := NewMemoryStore()
	payload := []byte(`[
		{"id":"a","name":"","line_items":[],"is_active":true},
		{"id":"a","name":"dup","line_items":[],"is_active":true},
		{"id":"","name":"blank","line_items":[]}
	]`)
	_ = store.SaveSlot(context.Background(), "test-slot", payload)

	m := newTestManager(t, store)
	drafts := m.Drafts()
	if len(drafts) != 3 {
		t.Fatalf("expected three drafts, got %d", len(drafts))
	}
	assertSingleActive(t, drafts)
	if drafts[0].Name == "" {
		t.Fatalf("missing name should be filled")
	}
	seen := map[string]bool{}
	for _, draft := range drafts {
		if draft.ID == "" || seen[draft.ID] {
			t.Fatalf("draft ids must be unique and non-empty: %+v", drafts)
		}
		seen[draft.ID] = true
	}
}

func TestSubmittingDraftIsFrozen(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	other := m.ActiveID()
	target := m.CreateDraft()

	ctx, done, err := m.BeginSubmit(context.Background(), target)
	if err != nil {
		t.Fatalf("begin submit failed: %v", err)
	}
	if !m.Submitting(target) || m.Submitting(other) {
		t.Fatalf("only the target draft should be marked")
	}
	if _, _, err := m.BeginSubmit(context.Background(), target); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress for second submit, got %v", err)
	}
	if _, _, err := m.BeginTask(context.Background(), target); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress for new task, got %v", err)
	}
	if _, err := m.MutateActive(func(d Draft) Draft {
		d.LineItems = d.LineItems.AddOrMergeProduct(sampleProduct())
		return d
	}); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress for mutation, got %v", err)
	}
	if m.CloseDraft(target) {
		t.Fatalf("a submitting draft must not be closed")
	}
	if m.Active().LineItems.Count() != 0 {
		t.Fatalf("submitting draft must stay unchanged")
	}
	if _, err := m.MutateDraft(other, func(d Draft) Draft { return d }); err != nil {
		t.Fatalf("other drafts stay writable: %v", err)
	}

	// 提交失败：解除标记后可继续编辑
	done()
	if ctx.Err() == nil || m.Submitting(target) {
		t.Fatalf("finished submit should release the draft")
	}
	if _, err := m.MutateActive(func(d Draft) Draft { return d }); err != nil {
		t.Fatalf("released draft should be writable: %v", err)
	}

	// 提交成功：删除草稿并解除标记
	_, done, err = m.BeginSubmit(context.Background(), target)
	if err != nil {
		t.Fatalf("begin submit again failed: %v", err)
	}
	if err := m.RemoveSubmitted(target); err != nil {
		t.Fatalf("remove submitted failed: %v", err)
	}
	done()
	if m.Submitting(target) || m.Len() != 1 || m.ActiveID() != other {
		t.Fatalf("unexpected state after submit: len=%d active=%s", m.Len(), m.ActiveID())
	}
}
