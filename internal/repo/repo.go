// Package repo holds the gorm-backed persistence layer. Handlers never
// see gorm errors directly, every lookup failure is translated into one
// of the sentinel errors below.
package repo

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record already exists")
	ErrEmptyCart = errors.New("cart is empty")
)
