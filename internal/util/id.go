// Package util contains small internal helpers shared across packages:
// identifier generation and a minimal JSON-schema parameter validator.
package util

import "github.com/google/uuid"

// NewID generates a new unique identifier for messages and stored memories.
func NewID() string { return uuid.NewString() }
