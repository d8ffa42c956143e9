package repository

import (
	"context"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
)

// JournalPost carries the invoice financials handed to the ledger
// posting collaborator.
type JournalPost struct {
	InvoiceID      int64
	CustomerID     *int64
	SubTotal       float64
	DiscountAmount float64
	TaxAmount      float64
	Total          float64
	PaymentMethod  string
	Branch         string
}

// IssuanceTx is the unit of work available to the issuance orchestrator.
// Every method runs on the same storage transaction; LockOrder holds an
// exclusive row lock until the transaction commits or rolls back, which
// serializes competing issuance attempts on the same order.
type IssuanceTx interface {
	// LockOrder reads the order under SELECT ... FOR UPDATE.
	// Returns (nil, nil) when no such order exists.
	LockOrder(ctx context.Context, id int64) (*entity.Order, error)
	// LatestInvoiceNumber returns the most recently issued sale invoice
	// number, or "" when none exists.
	LatestInvoiceNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, invoice *entity.Invoice) error
	// MarkOrderIssued flips the order to ISSUED and links the invoice.
	MarkOrderIssued(ctx context.Context, orderID, invoiceID int64) error
	// PostJournal invokes the ledger collaborator on this transaction.
	PostJournal(ctx context.Context, post JournalPost) (int64, error)
	AttachJournal(ctx context.Context, invoiceID, journalEntryID int64) error
}

// IssuanceStore opens the transaction the issuance pipeline runs in.
// A non-nil error from fn rolls the whole transaction back.
type IssuanceStore interface {
	Transaction(ctx context.Context, fn func(tx IssuanceTx) error) error
}
