package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matbakh-pos/matbakh-api/internal/application/service"
	"github.com/matbakh-pos/matbakh-api/internal/config"
	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/matbakh-pos/matbakh-api/internal/presentation/http/dto/request"
	"github.com/matbakh-pos/matbakh-api/internal/presentation/http/dto/response"
	"github.com/matbakh-pos/matbakh-api/pkg/apperror"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	issuanceService *service.IssuanceService
	invoiceService  *service.InvoiceService
	pos             config.POSConfig
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(issuanceService *service.IssuanceService, invoiceService *service.InvoiceService, pos config.POSConfig) *InvoiceHandler {
	return &InvoiceHandler{
		issuanceService: issuanceService,
		invoiceService:  invoiceService,
		pos:             pos,
	}
}

// Issue handles converting a draft order into an invoice
func (h *InvoiceHandler) Issue(c *gin.Context) {
	var req request.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, apperror.CodeMissingOrderID, "Invalid request body: "+err.Error()))
		return
	}

	orderID, ok := req.ResolveOrderID()
	if !ok {
		response.Error(c, apperror.New(http.StatusBadRequest, apperror.CodeMissingOrderID, "order_id is required and must be a positive integer"))
		return
	}

	branch := req.Branch
	if branch == "" {
		branch = h.pos.DefaultBranch
	}

	input := &service.IssueInput{
		OrderID:        orderID,
		Number:         req.Number,
		CustomerID:     req.CustomerID,
		SubTotal:       req.SubTotal,
		DiscountPct:    req.DiscountPct,
		DiscountAmount: req.DiscountAmount,
		TaxPct:         req.TaxPct,
		TaxAmount:      req.TaxAmount,
		Total:          req.Total,
		PaymentMethod:  req.PaymentMethod,
		Branch:         branch,
		Status:         req.Status,
		Lines:          req.Lines,
	}
	if req.Date != "" {
		if date, err := time.Parse("2006-01-02", req.Date); err == nil {
			input.Date = &date
		}
	}

	result, err := h.issuanceService.Issue(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice issued successfully", result)
}

// NextNumber handles previewing the next invoice number
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	number, err := h.invoiceService.NextNumber(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next invoice number computed", gin.H{"number": number})
}

// Get handles retrieving an invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params := &repository.InvoiceFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("number"),
		Branch:     c.Query("branch"),
		StartDate:  parseDateQuery(c, "start_date"),
		EndDate:    parseDateQuery(c, "end_date"),
	}
	if status := c.Query("status"); status != "" {
		s := enum.InvoiceStatus(status)
		params.Status = &s
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}
