package repository

import (
	"context"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/entity"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	// FindDraftByTable returns the open draft for a branch/table pair,
	// or nil when the table has none.
	FindDraftByTable(ctx context.Context, branch, tableNo string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Branch     string
	TableNo    string
	Status     *enum.OrderStatus
	CustomerID *int64
	StartDate  *time.Time
	EndDate    *time.Time
}
