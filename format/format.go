/*
Package format provides the small formatting utilities shared across the ledger:
identifier generation, currency rendering, amount coercion, and the round-trip
between canonical timestamps and the minute-precision local representation that
date/time form fields edit.

PURPOSE:
  Keep every "how is this value rendered or parsed" decision in one place so the
  store, the share message builder, and the HTTP layer all agree on it.

COERCION CONTRACT:
  ParseAmount and ParseQuantity treat missing or non-numeric input as zero and
  clamp negatives to zero. Validation (rejecting a zero total) happens in the
  store, not here; these helpers only normalize.

SEE ALSO:
  - ledger/store.go: Uses ParseAmount/ParseQuantity during mutation validation
  - share/message.go: Uses INR and FormatDate for the shareable summary
*/
package format

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NewID returns a unique identifier with the given prefix, e.g. "cust-9f2…".
// Uniqueness within one store instance is the only requirement; the dataset is
// single-device and human-scale, so UUIDv4 is far more than enough.
func NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// =============================================================================
// CURRENCY
// =============================================================================

// INR renders an amount with exactly two decimal places ("200.00").
// The currency symbol is the caller's concern.
func INR(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAmount coerces a user-entered amount string to a non-negative decimal.
// Empty or non-numeric input yields zero; negative input is clamped to zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseQuantity is ParseAmount under a name that reads correctly at call sites
// handling item quantities.
func ParseQuantity(s string) decimal.Decimal {
	return ParseAmount(s)
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// localInputLayout matches the value format of an HTML datetime-local field:
// minute precision, no zone designator.
const localInputLayout = "2006-01-02T15:04"

// dateLayout is the date-only display format used in shared summaries.
const dateLayout = "02/01/2006"

// ToLocalInput converts a timestamp to the minute-precision local
// representation used by editable date/time fields. A zero time means "now".
func ToLocalInput(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Local().Format(localInputLayout)
}

// FromLocalInput parses a minute-precision local representation back into a
// timestamp in the local zone. Unparsable input yields the current time, the
// same fallback a blank form field gets.
func FromLocalInput(s string) time.Time {
	t, err := time.ParseInLocation(localInputLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

// FormatDate renders the date-only portion of a timestamp for display.
func FormatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}
