// Package storage provides persistent stores on top of the sql engine.
// Each table is represented by a struct with methods implementing the business logic for its data type.
// All rows are scoped by the engine instance id (gid), so several instances can share a database.
package storage

import (
	"errors"
)

// ErrNotFound returned when the requested row doesn't exist
var ErrNotFound = errors.New("not found")
