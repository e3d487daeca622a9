package analytics

import (
	"time"

	"retail_dashboard/internal/sales"

	"go.uber.org/zap"
)

const (
	DefaultTopN      = 10
	DefaultTrendDays = 30
)

// Options tune a computation. Zero values fall back to the defaults above
// and time.Local.
type Options struct {
	TopN      int
	TrendDays int
	Location  *time.Location
	// Strict rejects negative or non-finite monetary values instead of
	// treating non-finite ones as 0.
	Strict bool
}

// Engine turns store snapshots into analytics results. It keeps no state
// between calls and is safe for concurrent use.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// NewEngine creates a new Engine.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.TrendDays <= 0 {
		opts.TrendDays = DefaultTrendDays
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Engine{opts: opts, logger: logger}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Compute filters the snapshot and derives every analytics view from it.
// reference anchors the daily trend window.
func (e *Engine) Compute(snap sales.Snapshot, f Filter, reference time.Time) (Result, error) {
	if e.opts.Strict {
		if err := Validate(snap); err != nil {
			e.logger.Warn("snapshot rejected", zap.Error(err))
			return Result{}, err
		}
	}

	filteredSales := FilterSales(snap.Sales, f)
	filteredExpenses := FilterExpenses(snap.Expenses, f)

	revenue := revenueOf(filteredSales)
	expenses := expensesOf(filteredExpenses)

	res := Result{
		TotalSales:              revenue.InexactFloat64(),
		TotalExpenses:           expenses.InexactFloat64(),
		Profit:                  revenue.Sub(expenses).InexactFloat64(),
		ProfitMargin:            margin(revenue, expenses).InexactFloat64(),
		SalesByMonth:            SalesByMonth(filteredSales, e.opts.Location),
		SalesByShop:             SalesByShop(snap.Shops, filteredSales, filteredExpenses),
		TopProducts:             TopProducts(filteredSales, e.opts.TopN),
		PaymentMethods:          PaymentMethodBreakdown(filteredSales),
		ExpenseCategories:       ExpenseCategoryBreakdown(filteredExpenses),
		DailySales:              DailySalesTrend(filteredSales, reference, e.opts.TrendDays, e.opts.Location),
		StockAnalysis:           StockAnalysis(snap.Products, filteredSales),
		TopCustomers:            TopCustomers(filteredSales, e.opts.TopN),
		TotalTransactions:       len(filteredSales),
		AverageTransactionValue: average(revenue, len(filteredSales)).InexactFloat64(),
	}

	e.logger.Debug("analytics computed",
		zap.String("shop_filter", f.ShopID),
		zap.Time("date_from", f.DateFrom),
		zap.Time("date_to", f.DateTo),
		zap.Int("sales_in", len(snap.Sales)),
		zap.Int("sales_matched", len(filteredSales)),
		zap.Int("expenses_matched", len(filteredExpenses)),
		zap.Float64("total_sales", res.TotalSales),
	)
	return res, nil
}
