package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/pkg/apperror"
	"github.com/matbakh-pos/matbakh-api/pkg/lineitems"
	"github.com/matbakh-pos/matbakh-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// OrderService owns the draft side of the order lifecycle: repeated
// draft saves while a table is open, plus cancellation. Issuance is the
// IssuanceService's job.
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// SaveDraftInput represents a table-side draft save. Branch and
// DefaultTaxPct are resolved by the caller from the request or the
// configured defaults.
type SaveDraftInput struct {
	OrderID       *int64
	Branch        string
	TableNo       string
	Lines         any
	CustomerID    *int64
	CustomerName  string
	PaymentMethod string
	DefaultTaxPct float64
}

// SaveDraft creates or updates a draft order. The raw lines are stored
// as sent (after bounded decoding); totals are recomputed from the item
// rows and the meta row on every save.
func (s *OrderService) SaveDraft(ctx context.Context, input *SaveDraftInput) (*entity.Order, error) {
	if strings.TrimSpace(input.Branch) == "" {
		return nil, apperror.NewBadRequestError("branch is required")
	}

	order, err := s.resolveDraft(ctx, input)
	if err != nil {
		return nil, err
	}

	elems := lineitems.Elements(input.Lines)
	items := lineitems.Normalize(input.Lines)
	meta, hasMeta := lineitems.Meta(input.Lines)

	taxPct := input.DefaultTaxPct
	discountPct := 0.0
	if hasMeta {
		if _, present := meta["tax_pct"]; present {
			taxPct = lineitems.Number(meta["tax_pct"])
		}
		discountPct = lineitems.Number(meta["discount_pct"])
		if pm := lineitems.Text(meta["payment_method"]); pm != "" {
			order.PaymentMethod = pm
		}
		if name := lineitems.Text(meta["customer_name"]); name != "" {
			order.CustomerName = name
		}
	}

	order.Branch = input.Branch
	if input.TableNo != "" {
		order.TableNo = input.TableNo
	}
	if input.CustomerID != nil {
		order.CustomerID = input.CustomerID
	}
	if input.CustomerName != "" {
		order.CustomerName = input.CustomerName
	}
	if pm := strings.TrimSpace(input.PaymentMethod); pm != "" {
		order.PaymentMethod = pm
	}
	order.Lines = entity.LineSet(elems)

	applyTotals(order, items, discountPct, taxPct)

	if order.ID == 0 {
		err = s.orderRepo.Create(ctx, order)
	} else {
		err = s.orderRepo.Update(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// resolveDraft finds the draft a save targets: an explicit order id, the
// open draft for the branch/table pair, or a brand-new draft.
func (s *OrderService) resolveDraft(ctx context.Context, input *SaveDraftInput) (*entity.Order, error) {
	if input.OrderID != nil {
		order, err := s.orderRepo.GetByID(ctx, *input.OrderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, apperror.NewNotFoundError("Order")
		}
		if order.InvoiceID != nil {
			return nil, apperror.New(http.StatusConflict, apperror.CodeAlreadyIssued, "Order is already issued")
		}
		if !order.Status.Is(enum.OrderStatusDraft) {
			return nil, apperror.New(http.StatusConflict, apperror.CodeInvalidState, "Only draft orders can be edited")
		}
		return order, nil
	}

	if input.TableNo != "" {
		order, err := s.orderRepo.FindDraftByTable(ctx, input.Branch, input.TableNo)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}

	return &entity.Order{Status: enum.OrderStatusDraft}, nil
}

// applyTotals recomputes the stored totals from the item lines using
// decimal arithmetic, rounding to 2 places at the edges.
func applyTotals(order *entity.Order, items []lineitems.Item, discountPct, taxPct float64) {
	subTotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Qty).
			Mul(decimal.NewFromFloat(item.Price)).
			Sub(decimal.NewFromFloat(item.Discount))
		subTotal = subTotal.Add(line)
	}

	hundred := decimal.NewFromInt(100)
	discountAmount := subTotal.Mul(decimal.NewFromFloat(discountPct)).Div(hundred)
	taxable := subTotal.Sub(discountAmount)
	taxAmount := taxable.Mul(decimal.NewFromFloat(taxPct)).Div(hundred)
	total := taxable.Add(taxAmount)

	order.SubTotal = subTotal.Round(2).InexactFloat64()
	order.DiscountPct = discountPct
	order.DiscountAmount = discountAmount.Round(2).InexactFloat64()
	order.TaxPct = taxPct
	order.TaxAmount = taxAmount.Round(2).InexactFloat64()
	order.Total = total.Round(2).InexactFloat64()
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// CancelOrder cancels a draft order. Issued orders cannot be cancelled
// through this flow; their invoice would be orphaned.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if order.InvoiceID != nil {
		return apperror.New(http.StatusConflict, apperror.CodeAlreadyIssued, "Issued orders cannot be cancelled")
	}
	if !order.Status.Is(enum.OrderStatusDraft) {
		return apperror.New(http.StatusConflict, apperror.CodeInvalidState, "Only draft orders can be cancelled")
	}

	return s.orderRepo.UpdateStatus(ctx, id, enum.OrderStatusCancelled)
}
