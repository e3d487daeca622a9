package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retail_dashboard/internal/analytics"
	"retail_dashboard/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func initRoutesTests(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	logger := zaptest.NewLogger(t)
	engine := analytics.NewEngine(analytics.Options{TrendDays: 7, Location: time.UTC}, logger)
	InitRoutes(router, sales.NewService(sales.NewLocalStorage(), logger), engine, logger)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	router := initRoutesTests(t)
	w := do(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestInitRoutes_NilLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	InitRoutes(router, sales.NewService(sales.NewLocalStorage(), zaptest.NewLogger(t)), analytics.NewEngine(analytics.Options{}, nil), nil)

	w := do(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/sales", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, router, http.MethodPost, "/sales", map[string]any{"productId": "x", "shopId": "y", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordSale_ExplicitZeroPrice(t *testing.T) {
	router := initRoutesTests(t)

	w := do(t, router, http.MethodPost, "/shops", map[string]string{"name": "Solo"})
	require.Equal(t, http.StatusCreated, w.Code)
	shop := decode[sales.Shop](t, w)
	w = do(t, router, http.MethodPost, "/products", map[string]any{"name": "Tea", "price": 4, "stock": map[string]int{shop.ID: 3}})
	require.Equal(t, http.StatusCreated, w.Code)
	product := decode[sales.Product](t, w)

	w = do(t, router, http.MethodPost, "/sales", map[string]any{"productId": product.ID, "shopId": shop.ID, "quantity": 1, "unitPrice": 0})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	free := decode[sales.Sale](t, w)
	assert.Equal(t, 0.0, free.UnitPrice)
	assert.Equal(t, 0.0, free.TotalAmount)

	w = do(t, router, http.MethodPost, "/sales", map[string]any{"productId": product.ID, "shopId": shop.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 4.0, decode[sales.Sale](t, w).UnitPrice)
}

// TestHappyPath_FullFlow walks shops -> product -> sale -> expense -> transfer -> analytics.
func TestHappyPath_FullFlow(t *testing.T) {
	router := initRoutesTests(t)

	w := do(t, router, http.MethodPost, "/shops", map[string]string{"name": "Centro", "location": "Main St"})
	require.Equal(t, http.StatusCreated, w.Code)
	centro := decode[sales.Shop](t, w)

	w = do(t, router, http.MethodPost, "/shops", map[string]string{"name": "Norte"})
	require.Equal(t, http.StatusCreated, w.Code)
	norte := decode[sales.Shop](t, w)

	w = do(t, router, http.MethodPost, "/products", map[string]any{
		"name": "Tea", "category": "drinks", "price": 4, "minStock": 8,
		"stock": map[string]int{centro.ID: 10},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	product := decode[sales.Product](t, w)

	t.Run("POST_RecordSale", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/sales", map[string]any{
			"productId": product.ID, "shopId": centro.ID, "quantity": 5,
			"customerName": "Ana", "paymentMethod": "card", "discount": 10,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		sale := decode[sales.Sale](t, w)
		assert.NotEmpty(t, sale.ID)
		assert.Equal(t, 18.0, sale.TotalAmount)
		assert.Equal(t, sales.PaymentCard, sale.PaymentMethod)
	})

	t.Run("POST_RecordExpense", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/expenses", map[string]any{
			"description": "Rent", "category": "rent", "shopId": centro.ID, "amount": 6,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		exp := decode[sales.Expense](t, w)

		w = do(t, router, http.MethodPatch, "/expenses/"+exp.ID+"/approve", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[sales.Expense](t, w).Approved)
	})

	t.Run("POST_TransferStock", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/transfers", map[string]any{
			"productId": product.ID, "fromShopId": centro.ID, "toShopId": norte.ID, "quantity": 2,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = do(t, router, http.MethodGet, "/transfers", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[struct {
			Results []sales.StockTransfer `json:"results"`
		}](t, w)
		assert.Len(t, list.Results, 1)
	})

	t.Run("GET_Analytics", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/analytics", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		res := decode[analytics.Result](t, w)
		assert.Equal(t, 18.0, res.TotalSales)
		assert.Equal(t, 6.0, res.TotalExpenses)
		assert.Equal(t, 12.0, res.Profit)
		assert.InDelta(t, 66.666, res.ProfitMargin, 0.01)
		assert.Equal(t, 1, res.TotalTransactions)
		assert.Equal(t, 18.0, res.AverageTransactionValue)
		require.Len(t, res.SalesByShop, 2)
		assert.Equal(t, centro.ID, res.SalesByShop[0].ShopID)
		assert.Zero(t, res.SalesByShop[1].Transactions)
		assert.Len(t, res.DailySales, 7)
		require.Len(t, res.StockAnalysis, 1)
		assert.Equal(t, 5, res.StockAnalysis[0].TotalStock)
		assert.True(t, res.StockAnalysis[0].LowStock)
		require.Len(t, res.TopCustomers, 1)
		assert.Equal(t, "Ana", res.TopCustomers[0].Name)
	})

	t.Run("GET_AnalyticsRawFields", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/analytics?shop_id="+norte.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		for _, field := range []string{
			"totalSales", "totalExpenses", "profit", "profitMargin", "salesByMonth",
			"salesByShop", "topProducts", "paymentMethods", "expenseCategories",
			"dailySales", "stockAnalysis", "topCustomers", "totalTransactions",
			"averageTransactionValue",
		} {
			assert.Contains(t, raw, field)
		}
		assert.JSONEq(t, "0", string(raw["totalSales"]))
		assert.JSONEq(t, "0", string(raw["profitMargin"]))
	})

	t.Run("GET_AnalyticsDateRange", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/analytics?date_to=2000-01-01", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, decode[analytics.Result](t, w).TotalTransactions)

		today := time.Now().UTC().Format(time.DateOnly)
		w = do(t, router, http.MethodGet, "/analytics?date_from="+today+"&date_to="+today, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decode[analytics.Result](t, w).TotalTransactions)
	})
}

func TestErrors(t *testing.T) {
	router := initRoutesTests(t)

	w := do(t, router, http.MethodPost, "/shops", map[string]string{"name": "Solo"})
	require.Equal(t, http.StatusCreated, w.Code)
	shop := decode[sales.Shop](t, w)
	w = do(t, router, http.MethodPost, "/products", map[string]any{"name": "Tea", "price": 1, "stock": map[string]int{shop.ID: 1}})
	require.Equal(t, http.StatusCreated, w.Code)
	product := decode[sales.Product](t, w)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed body", http.MethodPost, "/sales", "not an object", http.StatusBadRequest},
		{"missing shop name", http.MethodPost, "/shops", map[string]string{}, http.StatusBadRequest},
		{"unknown product", http.MethodPost, "/sales", map[string]any{"productId": "x", "shopId": shop.ID, "quantity": 1}, http.StatusNotFound},
		{"insufficient stock", http.MethodPost, "/sales", map[string]any{"productId": product.ID, "shopId": shop.ID, "quantity": 2}, http.StatusConflict},
		{"bad payment method", http.MethodPost, "/sales", map[string]any{"productId": product.ID, "shopId": shop.ID, "quantity": 1, "paymentMethod": "iou"}, http.StatusBadRequest},
		{"negative expense", http.MethodPost, "/expenses", map[string]any{"description": "d", "category": "c", "shopId": shop.ID, "amount": -5}, http.StatusBadRequest},
		{"approve unknown expense", http.MethodPatch, "/expenses/nope/approve", nil, http.StatusNotFound},
		{"transfer to same shop", http.MethodPost, "/transfers", map[string]any{"productId": product.ID, "fromShopId": shop.ID, "toShopId": shop.ID, "quantity": 1}, http.StatusBadRequest},
		{"bad date", http.MethodGet, "/analytics?date_from=yesterday", nil, http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/analytics?date_from=2026-02-01&date_to=2026-01-01", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestStatusFor_ValidationError(t *testing.T) {
	err := &analytics.ValidationError{Record: "sale", RecordID: "s1", Field: "totalAmount", Value: -1}
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(err))
}

func TestParseDateParam(t *testing.T) {
	got, err := parseDateParam("2026-03-04", true, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 23, 59, 59, 999999999, time.UTC), got)

	got, err = parseDateParam("2026-03-04", false, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDateParam("2026-03-04T10:00:00Z", true, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	got, err = parseDateParam("", false, time.UTC)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
