package service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/pkg/apperror"
	"github.com/matbakh-pos/matbakh-api/pkg/invoiceno"
	"github.com/matbakh-pos/matbakh-api/pkg/lineitems"
)

// IssuanceService converts a draft order into a posted invoice plus
// ledger entry, atomically. All writes happen in one storage transaction
// behind an exclusive row lock on the order, so two competing issuance
// calls for the same order resolve to exactly one invoice.
type IssuanceService struct {
	store repository.IssuanceStore
	now   func() time.Time
}

// NewIssuanceService creates a new issuance service
func NewIssuanceService(store repository.IssuanceStore) *IssuanceService {
	return &IssuanceService{store: store, now: time.Now}
}

// IssueInput carries the issuance request. Nil optional fields fall back
// to the values stored on the order by the draft-save path. Branch is
// resolved by the caller (request value or configured default) before
// the call; the orchestrator never reads ambient configuration.
type IssueInput struct {
	OrderID        int64
	Number         string
	Date           *time.Time
	CustomerID     *int64
	SubTotal       *float64
	DiscountPct    *float64
	DiscountAmount *float64
	TaxPct         *float64
	TaxAmount      *float64
	Total          *float64
	PaymentMethod  string
	Branch         string
	Status         string
	// Lines is consulted only when the order's own lines yield no
	// items; the order is the source of truth.
	Lines any
}

// IssueResult is the committed outcome of an issuance.
type IssueResult struct {
	Invoice        *entity.Invoice `json:"invoice"`
	JournalEntryID *int64          `json:"journal_entry_id"`
}

// autoNumber is the placeholder clients send to request a generated number.
const autoNumber = "Auto"

// Issue runs the issuance pipeline. On any failure the transaction is
// rolled back and the order is left untouched; the returned error always
// carries one of the documented machine codes.
func (s *IssuanceService) Issue(ctx context.Context, input *IssueInput) (*IssueResult, error) {
	if input == nil || input.OrderID <= 0 {
		return nil, apperror.New(http.StatusBadRequest, apperror.CodeMissingOrderID, "order_id is required and must be a positive integer")
	}

	status := enum.InvoiceStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if status == "" {
		status = enum.InvoiceStatusPosted
	}

	var result IssueResult
	err := s.store.Transaction(ctx, func(tx repository.IssuanceTx) error {
		order, err := tx.LockOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.New(http.StatusNotFound, apperror.CodeNotFound, "Order not found")
		}

		// The lock guarantees no concurrent transaction can still
		// observe DRAFT here; a loser of the race fails on one of
		// these two checks instead of issuing twice.
		if order.InvoiceID != nil {
			return apperror.New(http.StatusConflict, apperror.CodeAlreadyIssued, "Order is already issued")
		}
		if !order.Status.Is(enum.OrderStatusDraft) {
			return apperror.New(http.StatusConflict, apperror.CodeInvalidState, "Order is not in a draft state")
		}

		items, err := s.resolveItems(order, input.Lines)
		if err != nil {
			return err
		}

		number, err := s.resolveNumber(ctx, tx, input.Number)
		if err != nil {
			return err
		}

		invoice, err := s.buildInvoice(order, input, items, number, status)
		if err != nil {
			return err
		}

		if err := tx.CreateInvoice(ctx, invoice); err != nil {
			return err
		}

		if err := tx.MarkOrderIssued(ctx, order.ID, invoice.ID); err != nil {
			return err
		}

		if status == enum.InvoiceStatusPosted && invoice.Total > 0 {
			journalID, err := tx.PostJournal(ctx, repository.JournalPost{
				InvoiceID:      invoice.ID,
				CustomerID:     invoice.CustomerID,
				SubTotal:       invoice.SubTotal,
				DiscountAmount: invoice.DiscountAmount,
				TaxAmount:      invoice.TaxAmount,
				Total:          invoice.Total,
				PaymentMethod:  invoice.PaymentMethod,
				Branch:         invoice.Branch,
			})
			if err != nil || journalID == 0 {
				return apperror.New(http.StatusInternalServerError, apperror.CodeJournalCreationFailed, "Failed to create journal entry for invoice")
			}
			if err := tx.AttachJournal(ctx, invoice.ID, journalID); err != nil {
				return err
			}
			invoice.JournalEntryID = &journalID
		}

		result = IssueResult{Invoice: invoice, JournalEntryID: invoice.JournalEntryID}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.New(http.StatusInternalServerError, apperror.CodeServerError, err.Error())
	}

	return &result, nil
}

// resolveItems extracts the item lines, treating the order's stored
// lines as authoritative. Request lines are only a fallback for orders
// whose own lines carry no items.
func (s *IssuanceService) resolveItems(order *entity.Order, fallback any) ([]lineitems.Item, error) {
	items := lineitems.Normalize(order.Lines)
	if len(items) == 0 && fallback != nil {
		if len(lineitems.Elements(fallback)) == 0 {
			return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeInvalidLines, "Supplied lines could not be decoded")
		}
		items = lineitems.Normalize(fallback)
	}
	if len(items) == 0 {
		return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeEmptyLines, "Order has no sale items")
	}
	return items, nil
}

// resolveNumber uses the supplied number verbatim unless it is absent,
// blank, or the "Auto" placeholder, in which case the next sequential
// number is computed from the latest one inside this same transaction.
func (s *IssuanceService) resolveNumber(ctx context.Context, tx repository.IssuanceTx, supplied string) (string, error) {
	number := strings.TrimSpace(supplied)
	if number != "" && !strings.EqualFold(number, autoNumber) {
		return number, nil
	}

	latest, err := tx.LatestInvoiceNumber(ctx)
	if err != nil {
		return "", err
	}
	if latest != "" && !invoiceno.Pattern.MatchString(latest) {
		// The sequence restarts at 1 here. The unique index on the
		// number column turns a collision into a rollback instead of
		// a duplicate.
		log.Printf("Warning: latest invoice number %q is malformed, restarting sequence", latest)
	}
	return invoiceno.Next(latest, s.now()), nil
}

func (s *IssuanceService) buildInvoice(order *entity.Order, input *IssueInput, items []lineitems.Item, number string, status enum.InvoiceStatus) (*entity.Invoice, error) {
	invoice := &entity.Invoice{
		Number:         number,
		Date:           s.now(),
		CustomerID:     order.CustomerID,
		Lines:          items,
		SubTotal:       pickNumber(input.SubTotal, order.SubTotal),
		DiscountPct:    pickNumber(input.DiscountPct, order.DiscountPct),
		DiscountAmount: pickNumber(input.DiscountAmount, order.DiscountAmount),
		TaxPct:         pickNumber(input.TaxPct, order.TaxPct),
		TaxAmount:      pickNumber(input.TaxAmount, order.TaxAmount),
		Total:          pickNumber(input.Total, order.Total),
		PaymentMethod:  order.PaymentMethod,
		Status:         status,
		Branch:         order.Branch,
		Type:           enum.InvoiceTypeSale,
	}

	if input.Date != nil {
		invoice.Date = *input.Date
	}
	if input.CustomerID != nil {
		invoice.CustomerID = input.CustomerID
	}
	if pm := strings.TrimSpace(input.PaymentMethod); pm != "" {
		invoice.PaymentMethod = pm
	}
	if branch := strings.TrimSpace(input.Branch); branch != "" {
		invoice.Branch = branch
	}

	for _, item := range items {
		if !finite(item.Qty) || !finite(item.Price) || !finite(item.Discount) {
			return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeInvalidValues, "Invoice line contains a non-finite number")
		}
	}
	for _, v := range []float64{invoice.SubTotal, invoice.DiscountPct, invoice.DiscountAmount, invoice.TaxPct, invoice.TaxAmount, invoice.Total} {
		if !finite(v) {
			return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeInvalidValues, "Invoice totals contain a non-finite number")
		}
	}

	if _, err := json.Marshal(invoice.Lines); err != nil {
		return nil, apperror.New(http.StatusUnprocessableEntity, apperror.CodeInvalidJSON, "Invoice lines are not JSON-serializable")
	}

	return invoice, nil
}

func pickNumber(override *float64, fallback float64) float64 {
	if override != nil {
		return *override
	}
	return fallback
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
