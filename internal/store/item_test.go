package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/perkola/larder/internal/database"
	"github.com/perkola/larder/internal/model"
)

func setupItemStore(t *testing.T) *ItemStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewItemStore(db)
}

func pendingItem(name string) model.Item {
	return model.Item{Name: name, Quantity: 1, CreatedAt: time.Now().UTC()}
}

func TestInsertAndGet(t *testing.T) {
	s := setupItemStore(t)

	created := time.Now().UTC()
	id, err := s.Insert(model.Item{Name: "Milk", Quantity: 2, CreatedAt: created})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	item, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item == nil {
		t.Fatal("expected item, got nil")
	}
	if item.ID != id {
		t.Errorf("id = %d, want %d", item.ID, id)
	}
	if item.Name != "Milk" {
		t.Errorf("name = %q, want %q", item.Name, "Milk")
	}
	if item.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", item.Quantity)
	}
	if item.Completed {
		t.Error("expected pending")
	}
	if item.CompletedAt != nil {
		t.Error("completed_at should be nil")
	}
	if !item.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", item.CreatedAt, created)
	}
}

func TestGetNotFound(t *testing.T) {
	s := setupItemStore(t)

	item, err := s.Get(9999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item != nil {
		t.Error("expected nil for nonexistent item")
	}
}

func TestIDsNeverReused(t *testing.T) {
	s := setupItemStore(t)

	first, _ := s.Insert(pendingItem("Milk"))
	second, _ := s.Insert(pendingItem("Bread"))
	if second <= first {
		t.Fatalf("ids not increasing: %d then %d", first, second)
	}

	if err := s.Delete(second); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third, err := s.Insert(pendingItem("Eggs"))
	if err != nil {
		t.Fatalf("insert after delete: %v", err)
	}
	if third <= second {
		t.Errorf("id %d reused after deleting %d", third, second)
	}
}

func TestNameRoundTrip(t *testing.T) {
	s := setupItemStore(t)

	name := `Grüße 牛奶 حليب Молоко 🛒 <&"'>`
	id, err := s.Insert(model.Item{Name: name, Quantity: 1, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	item, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Name != name {
		t.Errorf("name = %q, want %q", item.Name, name)
	}
}

func TestUpdateMergesOnlyGivenFields(t *testing.T) {
	s := setupItemStore(t)

	id, _ := s.Insert(model.Item{Name: "Milk", Quantity: 2, CreatedAt: time.Now().UTC()})

	name := "Whole Milk"
	if err := s.Update(id, ItemPatch{Name: &name}); err != nil {
		t.Fatalf("update name: %v", err)
	}

	item, _ := s.Get(id)
	if item.Name != "Whole Milk" {
		t.Errorf("name = %q, want %q", item.Name, "Whole Milk")
	}
	if item.Quantity != 2 {
		t.Errorf("quantity = %d, want 2 (untouched)", item.Quantity)
	}

	qty := int64(6)
	if err := s.Update(id, ItemPatch{Quantity: &qty}); err != nil {
		t.Fatalf("update quantity: %v", err)
	}

	item, _ = s.Get(id)
	if item.Name != "Whole Milk" {
		t.Errorf("name = %q, want untouched %q", item.Name, "Whole Milk")
	}
	if item.Quantity != 6 {
		t.Errorf("quantity = %d, want 6", item.Quantity)
	}
}

func TestUpdateCompletedPairsTimestamp(t *testing.T) {
	s := setupItemStore(t)

	id, _ := s.Insert(pendingItem("Milk"))

	completed := true
	now := time.Now().UTC()
	err := s.Update(id, ItemPatch{
		Completed:   &completed,
		CompletedAt: &sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	item, _ := s.Get(id)
	if !item.Completed {
		t.Error("expected completed")
	}
	if item.CompletedAt == nil || !item.CompletedAt.Equal(now) {
		t.Errorf("completed_at = %v, want %v", item.CompletedAt, now)
	}

	pending := false
	err = s.Update(id, ItemPatch{Completed: &pending, CompletedAt: &sql.NullTime{}})
	if err != nil {
		t.Fatalf("update back: %v", err)
	}

	item, _ = s.Get(id)
	if item.Completed {
		t.Error("expected pending")
	}
	if item.CompletedAt != nil {
		t.Errorf("completed_at = %v, want nil", item.CompletedAt)
	}
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	s := setupItemStore(t)

	id, _ := s.Insert(pendingItem("Milk"))
	if err := s.Update(id, ItemPatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}

	item, _ := s.Get(id)
	if item.Name != "Milk" || item.Quantity != 1 {
		t.Errorf("item changed by empty patch: %+v", item)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	s := setupItemStore(t)

	if err := s.Delete(9999); err != nil {
		t.Errorf("delete absent: %v", err)
	}
}

func TestScanAllAndClear(t *testing.T) {
	s := setupItemStore(t)

	if err := s.Clear(); err != nil {
		t.Fatalf("clear empty store: %v", err)
	}

	s.Insert(pendingItem("Milk"))
	s.Insert(pendingItem("Bread"))
	s.Insert(pendingItem("Eggs"))

	items, err := s.ScanAll()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ = s.ScanAll()
	if len(items) != 0 {
		t.Errorf("expected empty store after clear, got %d items", len(items))
	}
}

func TestDeleteCompleted(t *testing.T) {
	s := setupItemStore(t)

	done := time.Now().UTC()
	s.Insert(model.Item{Name: "Milk", Quantity: 1, CreatedAt: done, Completed: true, CompletedAt: &done})
	s.Insert(model.Item{Name: "Bread", Quantity: 1, CreatedAt: done, Completed: true, CompletedAt: &done})
	s.Insert(pendingItem("Eggs"))

	count, err := s.DeleteCompleted()
	if err != nil {
		t.Fatalf("delete completed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	items, _ := s.ScanAll()
	if len(items) != 1 {
		t.Fatalf("expected 1 remaining item, got %d", len(items))
	}
	if items[0].Name != "Eggs" {
		t.Errorf("remaining item = %q, want %q", items[0].Name, "Eggs")
	}
}
