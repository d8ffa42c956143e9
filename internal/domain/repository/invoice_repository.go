package repository

import (
	"context"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/pkg/pagination"
)

// InvoiceRepository defines the read side for issued invoices. Writes
// happen only through the issuance transaction (IssuanceStore).
type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// LatestNumber is the non-locking read backing the next-number
	// preview endpoint. It does not reserve anything.
	LatestNumber(ctx context.Context) (string, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Branch     string
	Status     *enum.InvoiceStatus
	CustomerID *int64
	StartDate  *time.Time
	EndDate    *time.Time
}
