package service

import (
	"context"
	"testing"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders map[int64]*entity.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*entity.Order{}, nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	order.ID = r.nextID
	r.nextID++
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for _, order := range r.orders {
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindDraftByTable(ctx context.Context, branch, tableNo string) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.Branch == branch && order.TableNo == tableNo && order.Status.Is(enum.OrderStatusDraft) {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status enum.OrderStatus) error {
	r.orders[id].Status = status
	return nil
}

func TestSaveDraftCreatesNewOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	order, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:  "main",
		TableNo: "T4",
		Lines: []map[string]any{
			{"type": "meta", "tax_pct": 15.0, "discount_pct": 10.0, "payment_method": "card"},
			{"type": "item", "name": "Shawarma", "qty": 2.0, "price": 25.0},
			{"type": "item", "name": "Cola", "qty": 1.0, "price": 5.0, "discount": 1.0},
		},
		DefaultTaxPct: 15,
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)

	assert.Equal(t, enum.OrderStatusDraft, order.Status)
	assert.Equal(t, "T4", order.TableNo)
	assert.Equal(t, "card", order.PaymentMethod)
	// 2*25 + (1*5 - 1) = 54; 10% discount = 5.40; taxable 48.60;
	// 15% tax = 7.29; total 55.89.
	assert.Equal(t, 54.0, order.SubTotal)
	assert.Equal(t, 5.4, order.DiscountAmount)
	assert.Equal(t, 7.29, order.TaxAmount)
	assert.Equal(t, 55.89, order.Total)
	// The raw lines are stored as sent, meta row included.
	assert.Len(t, order.Lines, 3)
}

func TestSaveDraftReusesOpenTableDraft(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	first, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:  "main",
		TableNo: "T4",
		Lines:   []map[string]any{{"type": "item", "name": "Tea", "qty": 1.0, "price": 3.0}},
	})
	require.NoError(t, err)

	second, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:  "main",
		TableNo: "T4",
		Lines: []map[string]any{
			{"type": "item", "name": "Tea", "qty": 1.0, "price": 3.0},
			{"type": "item", "name": "Cake", "qty": 1.0, "price": 12.0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 15.0, second.Total)
	assert.Len(t, repo.orders, 1)
}

func TestSaveDraftByExplicitID(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	order, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:  "main",
		TableNo: "T1",
		Lines:   []map[string]any{{"type": "item", "name": "Tea", "qty": 1.0, "price": 3.0}},
	})
	require.NoError(t, err)

	updated, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		OrderID: &order.ID,
		Branch:  "main",
		Lines:   []map[string]any{{"type": "item", "name": "Tea", "qty": 2.0, "price": 3.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, order.ID, updated.ID)
	assert.Equal(t, 6.0, updated.Total)
	// TableNo persists across a save that omits it.
	assert.Equal(t, "T1", updated.TableNo)
}

func TestSaveDraftRejectsIssuedOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	invoiceID := int64(5)
	repo.orders[1] = &entity.Order{ID: 1, Branch: "main", Status: enum.OrderStatusIssued, InvoiceID: &invoiceID}
	repo.nextID = 2
	svc := NewOrderService(repo)

	id := int64(1)
	_, err := svc.SaveDraft(context.Background(), &SaveDraftInput{OrderID: &id, Branch: "main"})
	assertCode(t, err, apperror.CodeAlreadyIssued)
}

func TestSaveDraftRejectsCancelledOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &entity.Order{ID: 1, Branch: "main", Status: enum.OrderStatusCancelled}
	repo.nextID = 2
	svc := NewOrderService(repo)

	id := int64(1)
	_, err := svc.SaveDraft(context.Background(), &SaveDraftInput{OrderID: &id, Branch: "main"})
	assertCode(t, err, apperror.CodeInvalidState)
}

func TestSaveDraftRequiresBranch(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo())

	_, err := svc.SaveDraft(context.Background(), &SaveDraftInput{Branch: "  "})
	assertCode(t, err, apperror.CodeBadRequest)
}

func TestSaveDraftUnknownOrderID(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo())

	id := int64(99)
	_, err := svc.SaveDraft(context.Background(), &SaveDraftInput{OrderID: &id, Branch: "main"})
	assertCode(t, err, apperror.CodeNotFound)
}

func TestSaveDraftMetaDefaults(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	// No meta row: the configured default tax applies, no discount.
	order, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:        "main",
		TableNo:       "T2",
		Lines:         []map[string]any{{"type": "item", "name": "Tea", "qty": 1.0, "price": 10.0}},
		DefaultTaxPct: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, order.TaxPct)
	assert.Equal(t, 1.5, order.TaxAmount)
	assert.Equal(t, 11.5, order.Total)

	// Meta row with an explicit zero overrides the default.
	order, err = svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:  "main",
		TableNo: "T2",
		Lines: []map[string]any{
			{"type": "meta", "tax_pct": 0.0},
			{"type": "item", "name": "Tea", "qty": 1.0, "price": 10.0},
		},
		DefaultTaxPct: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.TaxPct)
	assert.Equal(t, 10.0, order.Total)
}

func TestSaveDraftStringEncodedLines(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	order, err := svc.SaveDraft(context.Background(), &SaveDraftInput{
		Branch:  "main",
		TableNo: "T3",
		Lines:   `[{"type":"item","name":"Tea","qty":"2","price":"3.5"}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, order.SubTotal)
	assert.Len(t, order.Lines, 1)
}

func TestCancelOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &entity.Order{ID: 1, Branch: "main", Status: enum.OrderStatusDraft}
	repo.nextID = 2
	svc := NewOrderService(repo)

	require.NoError(t, svc.CancelOrder(context.Background(), 1))
	assert.Equal(t, enum.OrderStatusCancelled, repo.orders[1].Status)
}

func TestCancelOrderRejectsIssued(t *testing.T) {
	repo := newFakeOrderRepo()
	invoiceID := int64(7)
	repo.orders[1] = &entity.Order{ID: 1, Status: enum.OrderStatusIssued, InvoiceID: &invoiceID}
	svc := NewOrderService(repo)

	assertCode(t, svc.CancelOrder(context.Background(), 1), apperror.CodeAlreadyIssued)
}

func TestCancelOrderRejectsCancelled(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.orders[1] = &entity.Order{ID: 1, Status: enum.OrderStatusCancelled}
	svc := NewOrderService(repo)

	assertCode(t, svc.CancelOrder(context.Background(), 1), apperror.CodeInvalidState)
}

func TestCancelOrderNotFound(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo())

	assertCode(t, svc.CancelOrder(context.Background(), 404), apperror.CodeNotFound)
}

func TestGetOrderNotFound(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo())

	_, err := svc.GetOrder(context.Background(), 12)
	assertCode(t, err, apperror.CodeNotFound)
}
