/*
errors.go - Centralized error types for the ledger engine

ERROR CATEGORIES:
  1. Validation errors - user input fails a domain rule; no state changes
  2. Persistence errors - the write-behind failed; in-memory state stands

The second category is deliberate policy: losing the entry the shopkeeper just
typed is worse than a persistence gap, so a failed write is reported alongside
the applied mutation rather than rolling it back.

Deletes of missing ids are not errors at all: they return a nil record, since
deletion is idempotent.

SEE ALSO:
  - store.go: Where these errors are produced
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the category all input-rule failures unwrap to.
	ErrValidation = errors.New("validation failed")

	// ErrPersist is the category persistence failures unwrap to.
	ErrPersist = errors.New("persistence failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which input broke which rule. It is always returned
// as a value, never panicked, and guarantees no partial state change occurred.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistError wraps a storage write failure. When a store operation returns
// one, the in-memory mutation has already been applied and the returned entity
// is valid; only the durable copy is stale.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return ErrPersist }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether err is an input-rule failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsPersist reports whether err is a storage write failure (state applied).
func IsPersist(err error) bool { return errors.Is(err, ErrPersist) }
