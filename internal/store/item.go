package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/perkola/larder/internal/model"
)

// ItemStore persists shopping items in SQLite. Each method runs as a single
// statement (or a read followed by a single statement), so every operation is
// independently transactional.
type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// ItemPatch carries the fields Update merges into a stored item. Nil fields are
// left untouched. CompletedAt is only written when Completed is set, and is
// written as NULL when nil, so the pair always changes together.
type ItemPatch struct {
	Name        *string
	Quantity    *int64
	Completed   *bool
	CompletedAt *sql.NullTime
}

const itemCols = `id, name, quantity, completed, created_at, completed_at`

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var completed int
	var completedAt sql.NullTime

	err := scanner.Scan(&item.ID, &item.Name, &item.Quantity, &completed, &item.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	item.Completed = completed != 0
	if completedAt.Valid {
		t := completedAt.Time
		item.CompletedAt = &t
	}
	return &item, nil
}

// Insert persists item (ignoring any ID it carries) and returns the id the
// database assigned.
func (s *ItemStore) Insert(item model.Item) (int64, error) {
	var completedAt sql.NullTime
	if item.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *item.CompletedAt, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_items (name, quantity, completed, created_at, completed_at) VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.Quantity, boolToInt(item.Completed), item.CreatedAt, completedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Get returns the item with the given id, or nil if no such item exists.
// Absence is not an error.
func (s *ItemStore) Get(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ScanAll returns every stored item. No ordering is promised; callers sort.
func (s *ItemStore) ScanAll() ([]model.Item, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM shopping_items`)
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Update merges the non-nil patch fields into the item with the given id as a
// single UPDATE statement. An empty patch is a no-op. Missing ids are not
// reported; callers that care check existence first.
func (s *ItemStore) Update(id int64, patch ItemPatch) error {
	var sets []string
	var args []any

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if patch.Completed != nil {
		var completedAt sql.NullTime
		if patch.CompletedAt != nil {
			completedAt = *patch.CompletedAt
		}
		sets = append(sets, "completed = ?", "completed_at = ?")
		args = append(args, boolToInt(*patch.Completed), completedAt)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	_, err := s.db.Exec(`UPDATE shopping_items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes the item with the given id. Deleting an absent id succeeds.
func (s *ItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Clear removes every item. Idempotent.
func (s *ItemStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM shopping_items`)
	if err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}

// DeleteCompleted removes all completed items and returns how many were removed.
func (s *ItemStore) DeleteCompleted() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_items WHERE completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("delete completed: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
