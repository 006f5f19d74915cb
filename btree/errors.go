package btree

import "errors"

var (
	// ErrDuplicateKey reports an insert whose key is already present.
	// The table is left unchanged.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTreeInvariant reports on-disk structure the engine can no
	// longer trust; further mutation risks data loss, so it is treated
	// as fatal by callers.
	ErrTreeInvariant = errors.New("tree invariant violated")

	// ErrEndOfTable reports a cursor dereferenced past the last row.
	ErrEndOfTable = errors.New("cursor past end of table")
)
