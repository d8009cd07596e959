/*
Package ledger is the state-and-derivation engine for a small-shop credit book:
customers, credit and payment transactions, and the derived totals that tell the
shopkeeper what each customer owes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer: Who the credit is extended to
  - Transaction: One credit (goods on account) or payment (money received)
  - CreditItem: A line of a credit transaction; its amount is qty x price
  - Totals: Derived per-customer aggregate, never persisted

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every amount; balances never drift
  2. Immutability: entities are value types; the store replaces, never edits
  3. Type Safety: typed IDs keep customer and transaction ids apart

SEE ALSO:
  - store.go: Mutations, derived views, persistence contract
  - errors.go: Validation and persistence error types
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CustomerID string
type TransactionID string

// =============================================================================
// CUSTOMER
// =============================================================================

// Customer is a party the shop extends credit to. Name is required; phone and
// address are optional. Phone is kept as a digit string of at most ten digits
// so it can feed the wa.me deep link directly.
type Customer struct {
	ID        CustomerID `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// =============================================================================
// TRANSACTION
// =============================================================================

type TxType string

const (
	TxCredit  TxType = "credit"
	TxPayment TxType = "payment"
)

// PaymentMethod values cover the fixed set the payment form offers. The store
// keeps whatever string it is handed, so the constants are the vocabulary, not
// a gate.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodUPI          PaymentMethod = "UPI"
	MethodCard         PaymentMethod = "Card"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodOther        PaymentMethod = "Other"
)

// CreditItem is one line of a credit transaction. Quantity and UnitPrice are
// non-negative after normalization; the line contributes Quantity x UnitPrice.
type CreditItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Total returns the line's contribution to the credit amount.
func (i CreditItem) Total() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Transaction records a single credit or payment against a customer. The type
// is fixed at creation. For credits Amount is derived from Items; for payments
// it is supplied directly. Date is user-editable at creation time and defaults
// to the moment of creation.
type Transaction struct {
	ID         TransactionID   `json:"id"`
	CustomerID CustomerID      `json:"customerId"`
	Type       TxType          `json:"type"`
	Date       time.Time       `json:"dateISO"`
	Amount     decimal.Decimal `json:"amount"`

	// Credit only.
	Items []CreditItem `json:"items,omitempty"`

	// Payment only.
	Method PaymentMethod `json:"method,omitempty"`
	Note   string        `json:"note,omitempty"`
}

// =============================================================================
// TOTALS - Derived aggregate, computed on demand
// =============================================================================

// Totals summarizes one customer's ledger. Balance is credit minus received;
// positive means the customer owes money, zero or negative means settled or in
// advance.
type Totals struct {
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	Balance       decimal.Decimal `json:"balance"`
}
