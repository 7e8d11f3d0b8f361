package shopping

import "errors"

// Validation and lookup failures, matched by callers with errors.Is. Storage
// failures from the database pass through wrapped and untranslated.
var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrItemNotFound    = errors.New("item not found")
)
