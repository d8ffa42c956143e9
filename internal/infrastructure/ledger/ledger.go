// Package ledger creates the double-entry journal record for a posted
// sale invoice. It always runs on the caller's transaction handle so the
// invoice and its journal entry commit or roll back together.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account codes from the seeded chart of accounts.
const (
	accountCash       = "1000"
	accountReceivable = "1100"
	accountTaxPayable = "2100"
	accountRevenue    = "4000"
	accountDiscounts  = "4100"
)

// Poster posts invoice financials to the ledger and returns the created
// journal entry id.
type Poster interface {
	Post(ctx context.Context, tx *gorm.DB, post repository.JournalPost) (int64, error)
}

// Service is the GORM-backed Poster implementation.
type Service struct{}

// NewService creates a new ledger posting service
func NewService() *Service {
	return &Service{}
}

// Post records the sale as one balanced journal entry:
//
//	debit  cash or receivable   total
//	debit  sales discounts      discount amount
//	credit sales revenue        subtotal
//	credit tax payable          tax amount
//
// total + discount = subtotal + tax, so the entry balances whenever the
// invoice totals are internally consistent; anything else is rejected.
func (s *Service) Post(ctx context.Context, tx *gorm.DB, post repository.JournalPost) (int64, error) {
	total := decimal.NewFromFloat(post.Total)
	discount := decimal.NewFromFloat(post.DiscountAmount)
	subtotal := decimal.NewFromFloat(post.SubTotal)
	tax := decimal.NewFromFloat(post.TaxAmount)

	debits := total.Add(discount)
	credits := subtotal.Add(tax)
	if !debits.Round(2).Equal(credits.Round(2)) {
		return 0, fmt.Errorf("unbalanced journal entry for invoice %d: debits %s, credits %s",
			post.InvoiceID, debits, credits)
	}

	accounts, err := s.loadAccounts(ctx, tx)
	if err != nil {
		return 0, err
	}

	receiving := accountReceivable
	if strings.EqualFold(post.PaymentMethod, "cash") {
		receiving = accountCash
	}

	entry := entity.JournalEntry{
		Date:       time.Now(),
		Memo:       fmt.Sprintf("Sale invoice #%d", post.InvoiceID),
		Branch:     post.Branch,
		SourceType: "invoice",
		SourceID:   post.InvoiceID,
	}

	entry.Lines = append(entry.Lines, entity.JournalLine{
		AccountID: accounts[receiving],
		Debit:     total,
	})
	if discount.IsPositive() {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			AccountID: accounts[accountDiscounts],
			Debit:     discount,
		})
	}
	entry.Lines = append(entry.Lines, entity.JournalLine{
		AccountID: accounts[accountRevenue],
		Credit:    subtotal,
	})
	if tax.IsPositive() {
		entry.Lines = append(entry.Lines, entity.JournalLine{
			AccountID: accounts[accountTaxPayable],
			Credit:    tax,
		})
	}

	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("failed to create journal entry: %w", err)
	}

	return entry.ID, nil
}

func (s *Service) loadAccounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	codes := []string{accountCash, accountReceivable, accountTaxPayable, accountRevenue, accountDiscounts}

	var rows []entity.Account
	if err := tx.WithContext(ctx).Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ledger accounts: %w", err)
	}

	accounts := make(map[string]int64, len(rows))
	for _, a := range rows {
		accounts[a.Code] = a.ID
	}
	for _, code := range codes {
		if _, ok := accounts[code]; !ok {
			return nil, fmt.Errorf("ledger account %s is not seeded", code)
		}
	}
	return accounts, nil
}
