package repository

import (
	"context"
	"errors"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	domainRepo "github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/internal/infrastructure/ledger"
	"github.com/matbakh-pos/matbakh-api/pkg/invoiceno"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type issuanceStore struct {
	db     *gorm.DB
	poster ledger.Poster
}

// NewIssuanceStore creates the transactional unit of work the issuance
// orchestrator runs in.
func NewIssuanceStore(db *gorm.DB, poster ledger.Poster) domainRepo.IssuanceStore {
	return &issuanceStore{db: db, poster: poster}
}

// Transaction opens one storage transaction for the whole issuance
// pipeline. GORM rolls back on a non-nil return or a panic and releases
// the connection either way.
func (s *issuanceStore) Transaction(ctx context.Context, fn func(tx domainRepo.IssuanceTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&issuanceTx{tx: tx, poster: s.poster})
	})
}

type issuanceTx struct {
	tx     *gorm.DB
	poster ledger.Poster
}

// LockOrder acquires the exclusive row lock that serializes competing
// issuance attempts: a second transaction blocks here until the first
// commits or rolls back, then observes the post-commit state.
func (t *issuanceTx) LockOrder(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (t *issuanceTx) LatestInvoiceNumber(ctx context.Context) (string, error) {
	var numbers []string
	err := t.tx.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("type = ? AND number LIKE ?", enum.InvoiceTypeSale, invoiceno.Prefix+"/%").
		Order("id DESC").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (t *issuanceTx) CreateInvoice(ctx context.Context, invoice *entity.Invoice) error {
	return t.tx.WithContext(ctx).Create(invoice).Error
}

func (t *issuanceTx) MarkOrderIssued(ctx context.Context, orderID, invoiceID int64) error {
	return t.tx.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":     enum.OrderStatusIssued,
			"invoice_id": invoiceID,
		}).Error
}

func (t *issuanceTx) PostJournal(ctx context.Context, post domainRepo.JournalPost) (int64, error) {
	return t.poster.Post(ctx, t.tx, post)
}

func (t *issuanceTx) AttachJournal(ctx context.Context, invoiceID, journalEntryID int64) error {
	return t.tx.WithContext(ctx).
		Model(&entity.Invoice{}).
		Where("id = ?", invoiceID).
		Update("journal_entry_id", journalEntryID).Error
}
