package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"retail_dashboard/internal/analytics"
	"retail_dashboard/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handler holds the services and implements the HTTP handlers.
type handler struct {
	salesService *sales.Service
	engine       *analytics.Engine
	logger       *zap.Logger
	now          func() time.Time
}

// NewHandler creates a new handler.
func NewHandler(salesService *sales.Service, engine *analytics.Engine, logger *zap.Logger) *handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &handler{
		salesService: salesService,
		engine:       engine,
		logger:       logger,
		now:          time.Now,
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *analytics.ValidationError
	switch {
	case errors.Is(err, sales.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sales.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, sales.ErrInvalidQuantity),
		errors.Is(err, sales.ErrInvalidAmount),
		errors.Is(err, sales.ErrInvalidDiscount),
		errors.Is(err, sales.ErrInvalidPaymentMethod),
		errors.Is(err, sales.ErrSameShop),
		errors.Is(err, sales.ErrEmptyField):
		return http.StatusBadRequest
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(ctx *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	h.logger.Warn(msg, zap.Error(err), zap.Int("status", status))
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func (h *handler) bind(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err), zap.String("path", ctx.FullPath()))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return false
	}
	return true
}

// handleCreateShop handles the POST /shops endpoint.
func (h *handler) handleCreateShop(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if !h.bind(ctx, &req) {
		return
	}

	shop, err := h.salesService.CreateShop(req.Name, req.Location)
	if err != nil {
		h.fail(ctx, "failed to create shop", err)
		return
	}
	ctx.JSON(http.StatusCreated, shop)
}

// handleCreateProduct handles the POST /products endpoint.
func (h *handler) handleCreateProduct(ctx *gin.Context) {
	var req sales.ProductInput
	if !h.bind(ctx, &req) {
		return
	}

	product, err := h.salesService.CreateProduct(req)
	if err != nil {
		h.fail(ctx, "failed to create product", err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// handleCreateSale handles the POST /sales endpoint.
func (h *handler) handleCreateSale(ctx *gin.Context) {
	var req sales.SaleInput
	if !h.bind(ctx, &req) {
		return
	}

	sale, err := h.salesService.RecordSale(req)
	if err != nil {
		h.fail(ctx, "failed to record sale", err)
		return
	}
	ctx.JSON(http.StatusCreated, sale)
}

// handleCreateExpense handles the POST /expenses endpoint.
func (h *handler) handleCreateExpense(ctx *gin.Context) {
	var req sales.ExpenseInput
	if !h.bind(ctx, &req) {
		return
	}

	expense, err := h.salesService.RecordExpense(req)
	if err != nil {
		h.fail(ctx, "failed to record expense", err)
		return
	}
	ctx.JSON(http.StatusCreated, expense)
}

func (h *handler) handleApproveExpense(ctx *gin.Context) {
	expense, err := h.salesService.ApproveExpense(ctx.Param("id"))
	if err != nil {
		h.fail(ctx, "failed to approve expense", err)
		return
	}
	ctx.JSON(http.StatusOK, expense)
}

// handleCreateTransfer handles the POST /transfers endpoint.
func (h *handler) handleCreateTransfer(ctx *gin.Context) {
	var req sales.TransferInput
	if !h.bind(ctx, &req) {
		return
	}

	transfer, err := h.salesService.TransferStock(req)
	if err != nil {
		h.fail(ctx, "failed to transfer stock", err)
		return
	}
	ctx.JSON(http.StatusCreated, transfer)
}

func (h *handler) handleListShops(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"results": h.salesService.Shops()})
}

func (h *handler) handleListProducts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"results": h.salesService.Products()})
}

func (h *handler) handleListSales(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"results": h.salesService.Sales()})
}

func (h *handler) handleListExpenses(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"results": h.salesService.Expenses()})
}

func (h *handler) handleListTransfers(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"results": h.salesService.Transfers()})
}

// handleAnalytics handles GET /analytics?shop_id=&date_from=&date_to=.
func (h *handler) handleAnalytics(ctx *gin.Context) {
	loc := h.engine.Options().Location

	from, err := parseDateParam(ctx.Query("date_from"), false, loc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date_from: %v", err)})
		return
	}
	to, err := parseDateParam(ctx.Query("date_to"), true, loc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date_to: %v", err)})
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "date_to is before date_from"})
		return
	}

	filter := analytics.Filter{
		ShopID:   ctx.Query("shop_id"),
		DateFrom: from,
		DateTo:   to,
	}

	result, err := h.engine.Compute(h.salesService.Snapshot(), filter, h.now())
	if err != nil {
		h.fail(ctx, "failed to compute analytics", err)
		return
	}

	h.logger.Info("analytics served",
		zap.String("shop_filter", filter.ShopID),
		zap.Int("transactions", result.TotalTransactions),
	)
	ctx.JSON(http.StatusOK, result)
}

// parseDateParam accepts RFC3339 or a plain 2006-01-02 date. A plain date
// used as an upper bound covers the whole day.
func parseDateParam(v string, endOfDay bool, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", v)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
