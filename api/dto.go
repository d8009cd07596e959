/*
dto.go - Request and response shapes for the ledger API

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

The domain entities already carry their wire tags (the persisted layout and
the API layout are the same), so list and detail responses reuse them
directly; only mutations and the share endpoint need dedicated shapes.

VALIDATION:
  Domain validation lives in the store. Handlers only translate errors.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import "github.com/warp/kirana-ledger/ledger"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateCustomerRequest is the body for POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateCreditRequest is the body for POST /api/customers/{id}/credits.
// Date is the minute-precision local form value; empty means "now".
type CreateCreditRequest struct {
	Items []ledger.CreditItemInput `json:"items"`
	Date  string                   `json:"date"`
}

// CreatePaymentRequest is the body for POST /api/customers/{id}/payments.
// Amount arrives as field text; coercion happens in the store.
type CreatePaymentRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
	Note   string `json:"note"`
	Date   string `json:"date"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CustomerResponse wraps a customer mutation result. Warning is set when the
// mutation applied but the durable write failed.
type CustomerResponse struct {
	Customer *ledger.Customer `json:"customer"`
	Warning  string           `json:"warning,omitempty"`
}

// TransactionResponse wraps a transaction mutation result.
type TransactionResponse struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Warning     string              `json:"warning,omitempty"`
}

// LedgerResponse is the per-customer detail view: transactions split by type
// plus the derived totals.
type LedgerResponse struct {
	Customer     ledger.Customer      `json:"customer"`
	Credits      []ledger.Transaction `json:"credits"`
	Payments     []ledger.Transaction `json:"payments"`
	Totals       ledger.Totals        `json:"totals"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// ShareResponse carries the formatted summary and its deep link.
type ShareResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
