package service

import (
	"context"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/pkg/apperror"
	"github.com/matbakh-pos/matbakh-api/pkg/invoiceno"
	"github.com/matbakh-pos/matbakh-api/pkg/pagination"
)

// InvoiceService is the read side for issued invoices.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, now: time.Now}
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// NextNumber previews the next invoice number for display. It does not
// reserve anything; the authoritative computation happens inside the
// issuance transaction.
func (s *InvoiceService) NextNumber(ctx context.Context) (string, error) {
	latest, err := s.invoiceRepo.LatestNumber(ctx)
	if err != nil {
		return "", err
	}
	return invoiceno.Next(latest, s.now()), nil
}
