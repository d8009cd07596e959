/*
store.go - Single source of truth for customers and transactions

PURPOSE:
  All reads and writes pass through the Store. It owns both collections in
  memory, rewrites them through a Persister after every mutation, and exposes
  the derived views (filtered customers, per-customer transaction slices,
  totals) the presentation layer consumes.

PERSISTENCE CONTRACT:
  Write-through, whole-collection: every mutation serializes the affected
  collection(s) and hands them to the Persister. There is no incremental
  persistence and no rollback - if the write fails, the in-memory mutation
  stands and the failure is surfaced as *PersistError so the caller can warn.
  At startup, absent or unparsable records fall back to empty collections;
  load never fails.

ORDERING:
  Both collections are newest-first: additions prepend. TransactionsFor
  re-sorts by date descending with a stable sort, so entries sharing a date
  keep insertion order (most recently added first).

CONCURRENCY:
  Guarded by sync.RWMutex. The domain is single-writer, but the HTTP surface
  serves concurrent requests, so the same discipline as any shared store
  applies. Views return copies; callers never see internal slices.

SEE ALSO:
  - types.go: Entity definitions
  - errors.go: ValidationError / PersistError
  - store/memory.go: In-memory Persister for tests
  - persist/sqlite: Durable Persister
*/
package ledger

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/kirana-ledger/format"
)

// Persisted record keys. They match the keys the data has always lived under,
// so an existing book is picked up as-is.
const (
	KeyCustomers    = "kirana_customers"
	KeyTransactions = "kirana_txns"
)

// Persister is the key-value backend the store writes through to.
// Get returns (nil, nil) when the key is absent.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// =============================================================================
// STORE
// =============================================================================

// Store owns the customer and transaction collections. Construct with NewStore;
// the zero value is not usable.
type Store struct {
	mu        sync.RWMutex
	persister Persister

	customers []Customer    // newest first
	txns      []Transaction // newest first
}

// NewStore loads both collections from the persister. A missing record, a read
// failure, or corrupt serialization all fall back to an empty collection -
// startup never propagates a fault.
func NewStore(ctx context.Context, p Persister) *Store {
	s := &Store{persister: p}
	s.customers = loadSlice[Customer](ctx, p, KeyCustomers)
	s.txns = loadSlice[Transaction](ctx, p, KeyTransactions)
	return s
}

func loadSlice[T any](ctx context.Context, p Persister, key string) []T {
	raw, err := p.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// persistCustomers and persistTxns serialize the current collection. Callers
// hold the write lock. Serialization of our own types cannot fail; only the
// Put can.
func (s *Store) persistCustomers(ctx context.Context) error {
	raw, _ := json.Marshal(s.customers)
	if err := s.persister.Put(ctx, KeyCustomers, raw); err != nil {
		return &PersistError{Op: KeyCustomers, Err: err}
	}
	return nil
}

func (s *Store) persistTxns(ctx context.Context) error {
	raw, _ := json.Marshal(s.txns)
	if err := s.persister.Put(ctx, KeyTransactions, raw); err != nil {
		return &PersistError{Op: KeyTransactions, Err: err}
	}
	return nil
}

// =============================================================================
// CUSTOMER MUTATIONS
// =============================================================================

// AddCustomer creates a customer. The trimmed name is required; phone keeps at
// most its first ten digits (shorter is stored as given); address is trimmed.
// The new customer is prepended so it lists first.
//
// A *PersistError return means the customer was still created in memory.
func (s *Store) AddCustomer(ctx context.Context, name, phone, address string) (Customer, error) {
	nm := strings.TrimSpace(name)
	if nm == "" {
		return Customer{}, &ValidationError{Field: "name", Message: "name is required"}
	}

	c := Customer{
		ID:        CustomerID(format.NewID("cust")),
		Name:      nm,
		Phone:     NormalizePhone(phone),
		Address:   strings.TrimSpace(address),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = prepend(s.customers, c)
	return c, s.persistCustomers(ctx)
}

// DeleteCustomer removes the customer and every transaction referencing it.
// Deleting an unknown id is a no-op returning (nil, nil); deletion is
// idempotent.
func (s *Store) DeleteCustomer(ctx context.Context, id CustomerID) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed *Customer
	kept := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if c.ID == id && removed == nil {
			cc := c
			removed = &cc
			continue
		}
		kept = append(kept, c)
	}
	if removed == nil {
		return nil, nil
	}
	s.customers = kept

	keptTxns := make([]Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if t.CustomerID != id {
			keptTxns = append(keptTxns, t)
		}
	}
	s.txns = keptTxns

	if err := s.persistCustomers(ctx); err != nil {
		return removed, err
	}
	return removed, s.persistTxns(ctx)
}

// =============================================================================
// TRANSACTION MUTATIONS
// =============================================================================

// CreditItemInput is one raw credit line as entered. Quantity and price arrive
// as field text; non-numeric or negative values normalize to zero, a missing
// name becomes "Item".
type CreditItemInput struct {
	Name  string `json:"name"`
	Qty   string `json:"qty"`
	Price string `json:"price"`
}

func normalizeItems(in []CreditItemInput) []CreditItem {
	items := make([]CreditItem, 0, len(in))
	for _, i := range in {
		name := strings.TrimSpace(i.Name)
		if name == "" {
			name = "Item"
		}
		items = append(items, CreditItem{
			Name:      name,
			Quantity:  format.ParseQuantity(i.Qty),
			UnitPrice: format.ParseAmount(i.Price),
		})
	}
	return items
}

// AddCredit records goods given on account. The amount is derived as the exact
// sum of qty x price over the normalized lines and must come out positive;
// otherwise nothing is created. A zero date defaults to now.
func (s *Store) AddCredit(ctx context.Context, customerID CustomerID, items []CreditItemInput, date time.Time) (Transaction, error) {
	if customerID == "" {
		return Transaction{}, &ValidationError{Field: "customerId", Message: "customerId required"}
	}

	normalized := normalizeItems(items)
	amount := decimal.Zero
	for _, it := range normalized {
		amount = amount.Add(it.Total())
	}
	if !amount.IsPositive() {
		return Transaction{}, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}

	if date.IsZero() {
		date = time.Now()
	}
	t := Transaction{
		ID:         TransactionID(format.NewID("txn")),
		CustomerID: customerID,
		Type:       TxCredit,
		Date:       date,
		Amount:     amount,
		Items:      normalized,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = prepend(s.txns, t)
	return t, s.persistTxns(ctx)
}

// AddPayment records money received. The amount is coerced from field text
// (non-numeric reads as zero) and must be positive. Method defaults to Cash.
func (s *Store) AddPayment(ctx context.Context, customerID CustomerID, amount string, method PaymentMethod, note string, date time.Time) (Transaction, error) {
	if customerID == "" {
		return Transaction{}, &ValidationError{Field: "customerId", Message: "customerId required"}
	}

	amt := format.ParseAmount(amount)
	if !amt.IsPositive() {
		return Transaction{}, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}

	if method == "" {
		method = MethodCash
	}
	if date.IsZero() {
		date = time.Now()
	}
	t := Transaction{
		ID:         TransactionID(format.NewID("txn")),
		CustomerID: customerID,
		Type:       TxPayment,
		Date:       date,
		Amount:     amt,
		Method:     method,
		Note:       strings.TrimSpace(note),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = prepend(s.txns, t)
	return t, s.persistTxns(ctx)
}

// DeleteTransaction removes a transaction by id and returns the removed record
// so the caller can report what went away. Unknown ids return (nil, nil).
func (s *Store) DeleteTransaction(ctx context.Context, id TransactionID) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed *Transaction
	kept := make([]Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if t.ID == id && removed == nil {
			tt := t
			removed = &tt
			continue
		}
		kept = append(kept, t)
	}
	if removed == nil {
		return nil, nil
	}
	s.txns = kept
	return removed, s.persistTxns(ctx)
}

// =============================================================================
// VIEWS - Read-only, always copies
// =============================================================================

// Customers returns all customers, newest first.
func (s *Store) Customers() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Customer looks up a single customer by id.
func (s *Store) Customer(id CustomerID) (*Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			cc := c
			return &cc, true
		}
	}
	return nil, false
}

// CustomersMatching filters by case-insensitive substring against name or
// phone. An empty query returns everyone, in current store order.
func (s *Store) CustomersMatching(query string) []Customer {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Customers()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Customer
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q) {
			out = append(out, c)
		}
	}
	return out
}

// TransactionsFor returns the customer's transactions sorted by date
// descending. The sort is stable, so same-date entries keep insertion order.
func (s *Store) TransactionsFor(customerID CustomerID) []Transaction {
	s.mu.RLock()
	var out []Transaction
	for _, t := range s.txns {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// CreditsFor returns the customer's credit transactions, date descending.
func (s *Store) CreditsFor(customerID CustomerID) []Transaction {
	return filterType(s.TransactionsFor(customerID), TxCredit)
}

// PaymentsFor returns the customer's payment transactions, date descending.
func (s *Store) PaymentsFor(customerID CustomerID) []Transaction {
	return filterType(s.TransactionsFor(customerID), TxPayment)
}

func filterType(txns []Transaction, typ TxType) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// TotalsFor computes the customer's aggregate. Decimal arithmetic keeps
// balance = credit - received exact regardless of transaction count.
func (s *Store) TotalsFor(customerID CustomerID) Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credit, received := decimal.Zero, decimal.Zero
	for _, t := range s.txns {
		if t.CustomerID != customerID {
			continue
		}
		switch t.Type {
		case TxCredit:
			credit = credit.Add(t.Amount)
		case TxPayment:
			received = received.Add(t.Amount)
		}
	}
	return Totals{
		TotalCredit:   credit,
		TotalReceived: received,
		Balance:       credit.Sub(received),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// NormalizePhone strips non-digit characters and keeps at most the first ten
// digits. Shorter results are stored as given; length is not validated here.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

// prepend returns a fresh slice with v first. Collections are replaced, not
// mutated in place, so snapshots taken by callers stay stable.
func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}
