package analytics

import (
	"time"

	"retail_dashboard/internal/sales"
)

// Result is the analytics view computed from one snapshot of the store.
type Result struct {
	TotalSales              float64                         `json:"totalSales"`
	TotalExpenses           float64                         `json:"totalExpenses"`
	Profit                  float64                         `json:"profit"`
	ProfitMargin            float64                         `json:"profitMargin"`
	SalesByMonth            []MonthlySales                  `json:"salesByMonth"`
	SalesByShop             []ShopSummary                   `json:"salesByShop"`
	TopProducts             []ProductRanking                `json:"topProducts"`
	PaymentMethods          map[sales.PaymentMethod]float64 `json:"paymentMethods"`
	ExpenseCategories       map[string]float64              `json:"expenseCategories"`
	DailySales              []DailySales                    `json:"dailySales"`
	StockAnalysis           []StockStatus                   `json:"stockAnalysis"`
	TopCustomers            []CustomerSummary               `json:"topCustomers"`
	TotalTransactions       int                             `json:"totalTransactions"`
	AverageTransactionValue float64                         `json:"averageTransactionValue"`
}

// ShopSummary is the per-shop slice of the figures.
type ShopSummary struct {
	ShopID       string  `json:"shopId"`
	ShopName     string  `json:"shopName"`
	Sales        float64 `json:"sales"`
	Expenses     float64 `json:"expenses"`
	Transactions int     `json:"transactions"`
	Profit       float64 `json:"profit"`
}

type ProductRanking struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// DailySales is one calendar-day bucket of the sales trend.
type DailySales struct {
	Date         time.Time `json:"date"`
	Day          string    `json:"day"` // 2006-01-02
	Amount       float64   `json:"amount"`
	Transactions int       `json:"transactions"`
}

type MonthlySales struct {
	Month        string  `json:"month"` // 2006-01
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
}

type StockStatus struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	Category     string  `json:"category"`
	TotalStock   int     `json:"totalStock"`
	StockValue   float64 `json:"stockValue"`
	TotalSold    int     `json:"totalSold"`
	TurnoverRate float64 `json:"turnoverRate"`
	LowStock     bool    `json:"lowStock"`
}

type CustomerSummary struct {
	Name         string    `json:"name"`
	TotalSpent   float64   `json:"totalSpent"`
	Transactions int       `json:"transactions"`
	LastPurchase time.Time `json:"lastPurchase"`
}
