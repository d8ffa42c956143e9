package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIssuanceStore is an in-memory IssuanceStore with transaction
// semantics: mutations made through the tx are staged and only applied
// when the callback returns nil, mirroring a real rollback.
type fakeIssuanceStore struct {
	orders        map[int64]*entity.Order
	invoices      map[int64]*entity.Invoice
	latestNumber  string
	journalPosts  []repository.JournalPost
	journalErr    error
	journalZeroID bool
	nextInvoiceID int64
	nextJournalID int64
	lockErr       error
}

func newFakeIssuanceStore() *fakeIssuanceStore {
	return &fakeIssuanceStore{
		orders:        map[int64]*entity.Order{},
		invoices:      map[int64]*entity.Invoice{},
		nextInvoiceID: 100,
		nextJournalID: 500,
	}
}

func (s *fakeIssuanceStore) Transaction(ctx context.Context, fn func(tx repository.IssuanceTx) error) error {
	tx := &fakeIssuanceTx{store: s, issued: map[int64]int64{}, attached: map[int64]int64{}}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type fakeIssuanceTx struct {
	store    *fakeIssuanceStore
	created  []*entity.Invoice
	posts    []repository.JournalPost
	issued   map[int64]int64
	attached map[int64]int64
}

func (t *fakeIssuanceTx) LockOrder(ctx context.Context, id int64) (*entity.Order, error) {
	if t.store.lockErr != nil {
		return nil, t.store.lockErr
	}
	order, ok := t.store.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (t *fakeIssuanceTx) LatestInvoiceNumber(ctx context.Context) (string, error) {
	return t.store.latestNumber, nil
}

func (t *fakeIssuanceTx) CreateInvoice(ctx context.Context, invoice *entity.Invoice) error {
	invoice.ID = t.store.nextInvoiceID
	t.store.nextInvoiceID++
	t.created = append(t.created, invoice)
	return nil
}

func (t *fakeIssuanceTx) MarkOrderIssued(ctx context.Context, orderID, invoiceID int64) error {
	t.issued[orderID] = invoiceID
	return nil
}

func (t *fakeIssuanceTx) PostJournal(ctx context.Context, post repository.JournalPost) (int64, error) {
	if t.store.journalErr != nil {
		return 0, t.store.journalErr
	}
	if t.store.journalZeroID {
		return 0, nil
	}
	t.posts = append(t.posts, post)
	id := t.store.nextJournalID
	t.store.nextJournalID++
	return id, nil
}

func (t *fakeIssuanceTx) AttachJournal(ctx context.Context, invoiceID, journalEntryID int64) error {
	t.attached[invoiceID] = journalEntryID
	return nil
}

func (t *fakeIssuanceTx) commit() {
	for _, inv := range t.created {
		copied := *inv
		t.store.invoices[inv.ID] = &copied
		t.store.latestNumber = inv.Number
	}
	for orderID, invoiceID := range t.issued {
		order := t.store.orders[orderID]
		order.Status = enum.OrderStatusIssued
		id := invoiceID
		order.InvoiceID = &id
	}
	for invoiceID, journalID := range t.attached {
		id := journalID
		t.store.invoices[invoiceID].JournalEntryID = &id
	}
	t.store.journalPosts = append(t.store.journalPosts, t.posts...)
}

func newTestIssuanceService(store *fakeIssuanceStore) *IssuanceService {
	svc := NewIssuanceService(store)
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func draftOrder(id int64) *entity.Order {
	return &entity.Order{
		ID:     id,
		Branch: "main",
		Status: enum.OrderStatusDraft,
		Lines: entity.LineSet{
			{"type": "meta", "tax_pct": 15.0, "payment_method": "cash"},
			{"type": "item", "name": "Shawarma", "qty": 2.0, "price": 25.0},
			{"type": "item", "name": "Cola", "qty": 1.0, "price": 5.0},
		},
		SubTotal:      55,
		TaxPct:        15,
		TaxAmount:     8.25,
		Total:         63.25,
		PaymentMethod: "cash",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code)
}

func TestIssueSuccess(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	store.latestNumber = "INV/2026/0000000041"
	svc := newTestIssuanceService(store)

	result, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	require.NoError(t, err)
	require.NotNil(t, result.Invoice)

	assert.Equal(t, "INV/2026/0000000042", result.Invoice.Number)
	assert.Equal(t, enum.InvoiceStatusPosted, result.Invoice.Status)
	assert.Equal(t, enum.InvoiceTypeSale, result.Invoice.Type)
	assert.Len(t, result.Invoice.Lines, 2)
	assert.Equal(t, 63.25, result.Invoice.Total)

	require.NotNil(t, result.JournalEntryID)
	require.Len(t, store.journalPosts, 1)
	post := store.journalPosts[0]
	assert.Equal(t, result.Invoice.ID, post.InvoiceID)
	assert.Equal(t, 55.0, post.SubTotal)
	assert.Equal(t, 8.25, post.TaxAmount)
	assert.Equal(t, 63.25, post.Total)
	assert.Equal(t, "cash", post.PaymentMethod)

	order := store.orders[1]
	assert.Equal(t, enum.OrderStatusIssued, order.Status)
	require.NotNil(t, order.InvoiceID)
	assert.Equal(t, result.Invoice.ID, *order.InvoiceID)

	stored := store.invoices[result.Invoice.ID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.JournalEntryID)
	assert.Equal(t, *result.JournalEntryID, *stored.JournalEntryID)
}

func TestIssueMissingOrderID(t *testing.T) {
	svc := newTestIssuanceService(newFakeIssuanceStore())

	_, err := svc.Issue(context.Background(), nil)
	assertCode(t, err, apperror.CodeMissingOrderID)

	_, err = svc.Issue(context.Background(), &IssueInput{OrderID: 0})
	assertCode(t, err, apperror.CodeMissingOrderID)

	_, err = svc.Issue(context.Background(), &IssueInput{OrderID: -3})
	assertCode(t, err, apperror.CodeMissingOrderID)
}

func TestIssueOrderNotFound(t *testing.T) {
	svc := newTestIssuanceService(newFakeIssuanceStore())

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 77})
	assertCode(t, err, apperror.CodeNotFound)
}

func TestIssueAlreadyIssued(t *testing.T) {
	store := newFakeIssuanceStore()
	order := draftOrder(1)
	invoiceID := int64(9)
	order.Status = enum.OrderStatusIssued
	order.InvoiceID = &invoiceID
	store.orders[1] = order
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeAlreadyIssued)
}

func TestIssueInvalidState(t *testing.T) {
	store := newFakeIssuanceStore()
	order := draftOrder(1)
	order.Status = enum.OrderStatusCancelled
	store.orders[1] = order
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeInvalidState)
}

func TestIssueEmptyLines(t *testing.T) {
	store := newFakeIssuanceStore()
	order := draftOrder(1)
	// A meta row alone carries no sale items.
	order.Lines = entity.LineSet{{"type": "meta", "tax_pct": 15.0}}
	store.orders[1] = order
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeEmptyLines)

	assert.Empty(t, store.invoices)
	assert.Equal(t, enum.OrderStatusDraft, store.orders[1].Status)
}

func TestIssueFallbackLines(t *testing.T) {
	store := newFakeIssuanceStore()
	order := draftOrder(1)
	order.Lines = nil
	store.orders[1] = order
	svc := newTestIssuanceService(store)

	result, err := svc.Issue(context.Background(), &IssueInput{
		OrderID: 1,
		Lines:   `[{"type":"item","name":"Tea","qty":1,"price":3}]`,
	})
	require.NoError(t, err)
	require.Len(t, result.Invoice.Lines, 1)
	assert.Equal(t, "Tea", result.Invoice.Lines[0].Name)
}

func TestIssueUndecodableFallbackLines(t *testing.T) {
	store := newFakeIssuanceStore()
	order := draftOrder(1)
	order.Lines = nil
	store.orders[1] = order
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{
		OrderID: 1,
		Lines:   "definitely not json",
	})
	assertCode(t, err, apperror.CodeInvalidLines)
}

func TestIssueOrderLinesWinOverRequestLines(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	svc := newTestIssuanceService(store)

	result, err := svc.Issue(context.Background(), &IssueInput{
		OrderID: 1,
		Lines:   `[{"type":"item","name":"Intruder","qty":9,"price":99}]`,
	})
	require.NoError(t, err)
	require.Len(t, result.Invoice.Lines, 2)
	assert.Equal(t, "Shawarma", result.Invoice.Lines[0].Name)
}

func TestIssueNumberResolution(t *testing.T) {
	tests := []struct {
		name     string
		supplied string
		latest   string
		want     string
	}{
		{"supplied verbatim", "CUSTOM-0007", "INV/2026/0000000041", "CUSTOM-0007"},
		{"auto placeholder", "Auto", "INV/2026/0000000041", "INV/2026/0000000042"},
		{"blank generates", "  ", "INV/2026/0000000041", "INV/2026/0000000042"},
		{"no prior invoices", "", "", "INV/2026/0000000001"},
		{"prior year restarts", "", "INV/2025/0000000310", "INV/2026/0000000001"},
		{"malformed latest restarts", "", "DRAFT-99", "INV/2026/0000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeIssuanceStore()
			store.orders[1] = draftOrder(1)
			store.latestNumber = tt.latest
			svc := newTestIssuanceService(store)

			result, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1, Number: tt.supplied})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Invoice.Number)
		})
	}
}

func TestIssueJournalFailureRollsBack(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	store.journalErr = errors.New("ledger unavailable")
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeJournalCreationFailed)

	// Nothing from the failed attempt may persist.
	assert.Empty(t, store.invoices)
	assert.Empty(t, store.journalPosts)
	order := store.orders[1]
	assert.Equal(t, enum.OrderStatusDraft, order.Status)
	assert.Nil(t, order.InvoiceID)
}

func TestIssueJournalZeroIDRollsBack(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	store.journalZeroID = true
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeJournalCreationFailed)
	assert.Empty(t, store.invoices)
}

func TestIssueDraftStatusSkipsJournal(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	svc := newTestIssuanceService(store)

	result, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1, Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusDraft, result.Invoice.Status)
	assert.Nil(t, result.JournalEntryID)
	assert.Empty(t, store.journalPosts)
}

func TestIssueZeroTotalSkipsJournal(t *testing.T) {
	store := newFakeIssuanceStore()
	order := draftOrder(1)
	order.SubTotal = 0
	order.TaxAmount = 0
	order.Total = 0
	store.orders[1] = order
	svc := newTestIssuanceService(store)

	result, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	require.NoError(t, err)
	assert.Nil(t, result.JournalEntryID)
	assert.Empty(t, store.journalPosts)
}

func TestIssueOverridesApplied(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	svc := newTestIssuanceService(store)

	customerID := int64(42)
	total := 70.0
	date := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.Issue(context.Background(), &IssueInput{
		OrderID:       1,
		CustomerID:    &customerID,
		Total:         &total,
		Date:          &date,
		PaymentMethod: "card",
		Branch:        "downtown",
	})
	require.NoError(t, err)

	inv := result.Invoice
	require.NotNil(t, inv.CustomerID)
	assert.Equal(t, customerID, *inv.CustomerID)
	assert.Equal(t, total, inv.Total)
	assert.True(t, date.Equal(inv.Date))
	assert.Equal(t, "card", inv.PaymentMethod)
	assert.Equal(t, "downtown", inv.Branch)
	// Untouched amounts still come from the order.
	assert.Equal(t, 55.0, inv.SubTotal)
}

func TestIssueNonFiniteOverrideRejected(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	svc := newTestIssuanceService(store)

	nan := math.NaN()
	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1, Total: &nan})
	assertCode(t, err, apperror.CodeInvalidValues)
	assert.Empty(t, store.invoices)
}

func TestIssueSecondAttemptFails(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	svc := newTestIssuanceService(store)

	first, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeAlreadyIssued)

	// Exactly one invoice and one journal entry came out of the two attempts.
	assert.Len(t, store.invoices, 1)
	assert.Len(t, store.journalPosts, 1)
	require.NotNil(t, store.orders[1].InvoiceID)
	assert.Equal(t, first.Invoice.ID, *store.orders[1].InvoiceID)
}

func TestIssueUnknownErrorBecomesServerError(t *testing.T) {
	store := newFakeIssuanceStore()
	store.orders[1] = draftOrder(1)
	store.lockErr = errors.New("connection reset")
	svc := newTestIssuanceService(store)

	_, err := svc.Issue(context.Background(), &IssueInput{OrderID: 1})
	assertCode(t, err, apperror.CodeServerError)
}
