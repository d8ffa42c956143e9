package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/matbakh-pos/matbakh-api/internal/application/service"
	"github.com/matbakh-pos/matbakh-api/internal/config"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/internal/presentation/http/dto/request"
	"github.com/matbakh-pos/matbakh-api/internal/presentation/http/dto/response"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	pos          config.POSConfig
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, pos config.POSConfig) *OrderHandler {
	return &OrderHandler{orderService: orderService, pos: pos}
}

// SaveDraft handles creating or updating a draft order
func (h *OrderHandler) SaveDraft(c *gin.Context) {
	var req request.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	branch := req.Branch
	if branch == "" {
		branch = h.pos.DefaultBranch
	}

	order, err := h.orderService.SaveDraft(c.Request.Context(), &service.SaveDraftInput{
		OrderID:       req.OrderID,
		Branch:        branch,
		TableNo:       req.TableNo,
		Lines:         req.Lines,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		DefaultTaxPct: h.pos.DefaultTaxPct,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft saved successfully", order)
}

// Get handles retrieving an order by ID
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: paginationFromQuery(c),
		Branch:     c.Query("branch"),
		TableNo:    c.Query("table_no"),
		StartDate:  parseDateQuery(c, "start_date"),
		EndDate:    parseDateQuery(c, "end_date"),
	}
	if status := c.Query("status"); status != "" {
		s := enum.OrderStatus(status)
		params.Status = &s
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Cancel handles cancelling a draft order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", nil)
}
