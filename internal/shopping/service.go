// Package shopping implements the shopping-list business logic: input
// validation, timestamp derivation, sort order and aggregate stats. It keeps no
// item state between calls; every read goes to the store.
package shopping

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/perkola/larder/internal/model"
	"github.com/perkola/larder/internal/store"
)

// DefaultQuantity is used when Add is called without an explicit quantity.
const DefaultQuantity int64 = 1

type Service struct {
	items *store.ItemStore
}

func New(items *store.ItemStore) *Service {
	return &Service{items: items}
}

// Add validates name and quantity, then inserts a new pending item. The name is
// stored trimmed; a nil quantity means DefaultQuantity. Returns the new id.
// Validation happens before any store call, so a rejected add writes nothing.
func (s *Service) Add(name string, quantity *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}

	qty := DefaultQuantity
	if quantity != nil {
		qty = *quantity
	}
	if qty < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}

	id, err := s.items.Insert(model.Item{
		Name:      name,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("add item: %w", err)
	}
	return id, nil
}

// GetAll returns every item: pending before completed, newest first within each
// group. Items with equal creation times keep store scan order.
func (s *Service) GetAll() ([]model.Item, error) {
	items, err := s.items.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("get all items: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Completed != items[j].Completed {
			return !items[i].Completed
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Get returns the item with the given id, or nil if it does not exist.
func (s *Service) Get(id int64) (*model.Item, error) {
	return s.items.Get(id)
}

// UpdateParams carries the fields Update may change. Nil fields are untouched.
type UpdateParams struct {
	Name      *string
	Quantity  *int64
	Completed *bool
}

// Update validates params, then merges them into the stored item. The name is
// trimmed before persisting. When Completed is supplied, CompletedAt is derived
// here: set to now on a pending→completed transition, kept as-is when the item
// is already completed, cleared on completed→pending. Callers therefore cannot
// break the completed/completedAt pairing through this path.
//
// The read and the merged write are two round-trips; concurrent updates to the
// same id resolve last-write-wins on the final merge.
func (s *Service) Update(id int64, params UpdateParams) error {
	patch := store.ItemPatch{Quantity: params.Quantity}

	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		if trimmed == "" {
			return ErrEmptyName
		}
		patch.Name = &trimmed
	}
	if params.Quantity != nil && *params.Quantity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, *params.Quantity)
	}

	item, err := s.items.Get(id)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if item == nil {
		return ErrItemNotFound
	}

	if params.Completed != nil {
		patch.Completed = params.Completed
		patch.CompletedAt = completedAtFor(*params.Completed, item)
	}

	if err := s.items.Update(id, patch); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Toggle flips the item's completed state and sets or clears CompletedAt in the
// same merged write. Returns the updated item.
func (s *Service) Toggle(id int64) (*model.Item, error) {
	item, err := s.items.Get(id)
	if err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	completed := !item.Completed
	patch := store.ItemPatch{
		Completed:   &completed,
		CompletedAt: completedAtFor(completed, item),
	}
	if err := s.items.Update(id, patch); err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	return s.items.Get(id)
}

// completedAtFor pairs a completed value with its timestamp: now when newly
// completed, the existing time when already completed, NULL when pending.
func completedAtFor(completed bool, current *model.Item) *sql.NullTime {
	switch {
	case completed && current.CompletedAt != nil:
		return &sql.NullTime{Time: *current.CompletedAt, Valid: true}
	case completed:
		return &sql.NullTime{Time: time.Now().UTC(), Valid: true}
	default:
		return &sql.NullTime{}
	}
}

// Delete removes the item if present. Deleting an absent id is not an error.
func (s *Service) Delete(id int64) error {
	if err := s.items.Delete(id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Clear removes every item.
func (s *Service) Clear() error {
	if err := s.items.Clear(); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}

// ClearCompleted removes all completed items and returns how many were removed.
func (s *Service) ClearCompleted() (int64, error) {
	count, err := s.items.DeleteCompleted()
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return count, nil
}

// Stats counts all items in a fresh scan, so the result always reflects current
// store contents. Total == Completed + Pending by construction.
func (s *Service) Stats() (model.Stats, error) {
	items, err := s.items.ScanAll()
	if err != nil {
		return model.Stats{}, fmt.Errorf("stats: %w", err)
	}

	var stats model.Stats
	for _, item := range items {
		if item.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	stats.Total = stats.Completed + stats.Pending
	return stats, nil
}
