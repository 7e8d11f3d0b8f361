package model

import "time"

// Item is a single shopping-list entry. CompletedAt is non-nil exactly when
// Completed is true; the JSON tags define the persisted record layout, so
// CompletedAt serializes as an explicit null while the item is pending.
type Item struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Quantity    int64      `json:"quantity"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Stats holds derived counts over all items at a point in time. Never persisted.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}
