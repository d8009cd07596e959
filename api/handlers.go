/*
handlers.go - HTTP handlers for the kirana ledger

PURPOSE:
  Exposes the ledger engine over REST. Handlers parse requests, delegate to
  the store and the share builders, and translate domain errors to HTTP.

ENDPOINTS:
  Customers:
    GET    /api/customers?q=           List / search customers
    POST   /api/customers              Create customer
    GET    /api/customers/{id}         Per-customer ledger view
    DELETE /api/customers/{id}         Delete customer (cascades)
    GET    /api/customers/{id}/totals  Derived totals
    GET    /api/customers/{id}/share   Summary message + wa.me link

  Transactions:
    POST   /api/customers/{id}/credits   Record a credit
    POST   /api/customers/{id}/payments  Record a payment
    DELETE /api/transactions/{id}        Delete a transaction

ERROR HANDLING:
  - 400: ValidationError (empty name, non-positive amount, bad JSON)
  - 404: Reads of an unknown customer
  - 200 with "warning": mutation applied but durable write failed; the
    in-memory state is the session's source of truth, so this is not an error
    status - the client shows the warning and moves on
  - Deletes of unknown ids are 200 with a null record (idempotent)

SEE ALSO:
  - dto.go: Request/response types
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/kirana-ledger/format"
	"github.com/warp/kirana-ledger/ledger"
	"github.com/warp/kirana-ledger/share"
)

// recentLimit is how many recent credits/payments the share summary includes.
const recentLimit = 5

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	Store *ledger.Store
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *ledger.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns customers, optionally filtered by ?q= (case-insensitive
// substring against name or phone).
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.Store.CustomersMatching(r.URL.Query().Get("q"))
	if customers == nil {
		customers = []ledger.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

// CreateCustomer adds a customer.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.Store.AddCustomer(r.Context(), req.Name, req.Phone, req.Address)
	if err != nil && !ledger.IsPersist(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CustomerResponse{Customer: &c, Warning: warning(err)})
}

// GetLedger returns the full per-customer view: entity, split transaction
// slices, and totals.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id := ledger.CustomerID(chi.URLParam(r, "id"))
	c, ok := h.Store.Customer(id)
	if !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	writeJSON(w, http.StatusOK, LedgerResponse{
		Customer:     *c,
		Credits:      orEmpty(h.Store.CreditsFor(id)),
		Payments:     orEmpty(h.Store.PaymentsFor(id)),
		Totals:       h.Store.TotalsFor(id),
		Transactions: orEmpty(h.Store.TransactionsFor(id)),
	})
}

// DeleteCustomer removes a customer and all of its transactions. Unknown ids
// are a successful no-op with a null customer.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Store.DeleteCustomer(r.Context(), ledger.CustomerID(chi.URLParam(r, "id")))
	if err != nil && !ledger.IsPersist(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CustomerResponse{Customer: removed, Warning: warning(err)})
}

// GetTotals returns the derived totals for a customer.
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	id := ledger.CustomerID(chi.URLParam(r, "id"))
	if _, ok := h.Store.Customer(id); !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, h.Store.TotalsFor(id))
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// CreateCredit records goods given on account.
func (h *Handler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var req CreateCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := ledger.CustomerID(chi.URLParam(r, "id"))
	t, err := h.Store.AddCredit(r.Context(), id, req.Items, parseDate(req.Date))
	if err != nil && !ledger.IsPersist(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, TransactionResponse{Transaction: &t, Warning: warning(err)})
}

// CreatePayment records money received.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := ledger.CustomerID(chi.URLParam(r, "id"))
	t, err := h.Store.AddPayment(r.Context(), id, req.Amount,
		ledger.PaymentMethod(req.Method), req.Note, parseDate(req.Date))
	if err != nil && !ledger.IsPersist(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, TransactionResponse{Transaction: &t, Warning: warning(err)})
}

// DeleteTransaction removes a transaction by id. Unknown ids are a successful
// no-op with a null transaction.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Store.DeleteTransaction(r.Context(), ledger.TransactionID(chi.URLParam(r, "id")))
	if err != nil && !ledger.IsPersist(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransactionResponse{Transaction: removed, Warning: warning(err)})
}

// =============================================================================
// SHARE HANDLER
// =============================================================================

// GetShare builds the summary message and its wa.me deep link for a customer.
// ?details=false drops the recent-entry sections; the default includes them.
func (h *Handler) GetShare(w http.ResponseWriter, r *http.Request) {
	id := ledger.CustomerID(chi.URLParam(r, "id"))
	c, ok := h.Store.Customer(id)
	if !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	includeDetails := r.URL.Query().Get("details") != "false"
	credits := limit(h.Store.CreditsFor(id), recentLimit)
	payments := limit(h.Store.PaymentsFor(id), recentLimit)

	msg := share.BuildSummary(*c, h.Store.TotalsFor(id), credits, payments, includeDetails)
	writeJSON(w, http.StatusOK, ShareResponse{
		Message: msg,
		Link:    share.BuildShareLink(msg, c.Phone),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// parseDate maps an optional minute-precision local form value to a timestamp.
// Empty means "let the store default to now".
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	return format.FromLocalInput(s)
}

func limit(txns []ledger.Transaction, n int) []ledger.Transaction {
	if len(txns) > n {
		return txns[:n]
	}
	return txns
}

func orEmpty(txns []ledger.Transaction) []ledger.Transaction {
	if txns == nil {
		return []ledger.Transaction{}
	}
	return txns
}

// warning extracts the message of a persistence failure that accompanied an
// applied mutation; any other error yields no warning.
func warning(err error) string {
	if err != nil && ledger.IsPersist(err) {
		return err.Error()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps store errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	if ledger.IsValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
