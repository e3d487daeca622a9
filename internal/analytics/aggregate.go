package analytics

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"retail_dashboard/internal/sales"

	"github.com/shopspring/decimal"
)

// money converts a stored amount to decimal, mapping NaN and infinities to 0.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(num(v))
}

func revenueOf(in []sales.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range in {
		total = total.Add(money(s.TotalAmount))
	}
	return total
}

func expensesOf(in []sales.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range in {
		total = total.Add(money(e.Amount))
	}
	return total
}

// margin is (revenue - expenses) / revenue * 100, or 0 without positive revenue.
func margin(revenue, expenses decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(expenses).Div(revenue).Mul(decimal.NewFromInt(100))
}

// average is total / count, or 0 when count is 0.
func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

// TotalRevenue sums TotalAmount over sales.
func TotalRevenue(in []sales.Sale) float64 {
	return revenueOf(in).InexactFloat64()
}

// TotalExpenses sums Amount over expenses.
func TotalExpenses(in []sales.Expense) float64 {
	return expensesOf(in).InexactFloat64()
}

func NetProfit(revenue, expenses float64) float64 {
	return money(revenue).Sub(money(expenses)).InexactFloat64()
}

// ProfitMargin is net profit as a percentage of revenue, or 0 when there is
// no positive revenue.
func ProfitMargin(revenue, expenses float64) float64 {
	return margin(money(revenue), money(expenses)).InexactFloat64()
}

// AverageTransactionValue is revenue per sale, or 0 for no sales.
func AverageTransactionValue(in []sales.Sale) float64 {
	return average(revenueOf(in), len(in)).InexactFloat64()
}

// SalesByShop returns one summary per shop, in the order shops are given,
// including shops with no activity.
func SalesByShop(shops []sales.Shop, in []sales.Sale, expenses []sales.Expense) []ShopSummary {
	type acc struct {
		sales, expenses decimal.Decimal
		count           int
	}
	accs := make([]acc, len(shops))
	pos := make(map[string]int, len(shops))
	for i, shop := range shops {
		pos[shop.ID] = i
	}
	for _, s := range in {
		if i, ok := pos[s.ShopID]; ok {
			accs[i].sales = accs[i].sales.Add(money(s.TotalAmount))
			accs[i].count++
		}
	}
	for _, e := range expenses {
		if i, ok := pos[e.ShopID]; ok {
			accs[i].expenses = accs[i].expenses.Add(money(e.Amount))
		}
	}

	out := make([]ShopSummary, len(shops))
	for i, shop := range shops {
		a := accs[i]
		out[i] = ShopSummary{
			ShopID:       shop.ID,
			ShopName:     shop.Name,
			Sales:        a.sales.InexactFloat64(),
			Expenses:     a.expenses.InexactFloat64(),
			Transactions: a.count,
			Profit:       a.sales.Sub(a.expenses).InexactFloat64(),
		}
	}
	return out
}

// TopProducts ranks products by revenue and keeps the first n. Products
// with equal revenue keep the order in which they were first sold.
func TopProducts(in []sales.Sale, n int) []ProductRanking {
	type acc struct {
		ranking ProductRanking
		revenue decimal.Decimal
	}
	pos := map[string]int{}
	var accs []acc
	for _, s := range in {
		i, ok := pos[s.ProductID]
		if !ok {
			i = len(accs)
			pos[s.ProductID] = i
			accs = append(accs, acc{ranking: ProductRanking{ProductID: s.ProductID, ProductName: s.ProductName}})
		}
		accs[i].ranking.Quantity += s.Quantity
		accs[i].ranking.Transactions++
		accs[i].revenue = accs[i].revenue.Add(money(s.TotalAmount))
	}
	slices.SortStableFunc(accs, func(a, b acc) int {
		return b.revenue.Cmp(a.revenue)
	})

	ranked := make([]ProductRanking, len(accs))
	for i, a := range accs {
		a.ranking.Revenue = a.revenue.InexactFloat64()
		ranked[i] = a.ranking
	}
	return truncate(ranked, n)
}

// PaymentMethodBreakdown sums revenue per payment method. Methods that never
// occur are absent.
func PaymentMethodBreakdown(in []sales.Sale) map[sales.PaymentMethod]float64 {
	sums := map[sales.PaymentMethod]decimal.Decimal{}
	for _, s := range in {
		sums[s.PaymentMethod] = sums[s.PaymentMethod].Add(money(s.TotalAmount))
	}
	out := make(map[sales.PaymentMethod]float64, len(sums))
	for method, sum := range sums {
		out[method] = sum.InexactFloat64()
	}
	return out
}

// ExpenseCategoryBreakdown sums expense amounts per category.
func ExpenseCategoryBreakdown(in []sales.Expense) map[string]float64 {
	sums := map[string]decimal.Decimal{}
	for _, e := range in {
		sums[e.Category] = sums[e.Category].Add(money(e.Amount))
	}
	out := make(map[string]float64, len(sums))
	for category, sum := range sums {
		out[category] = sum.InexactFloat64()
	}
	return out
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

// DailyTrend yields exactly days buckets, oldest first, covering the
// calendar days in loc that end with the day of reference. Days without
// sales yield zero buckets. Each range over the sequence recomputes it
// from in, so it can be iterated any number of times.
func DailyTrend(in []sales.Sale, reference time.Time, days int, loc *time.Location) iter.Seq[DailySales] {
	if loc == nil {
		loc = time.Local
	}
	return func(yield func(DailySales) bool) {
		if days <= 0 {
			return
		}
		type bucket struct {
			amount decimal.Decimal
			count  int
		}
		totals := map[day]bucket{}
		for _, s := range in {
			k := dayOf(s.Date, loc)
			b := totals[k]
			b.amount = b.amount.Add(money(s.TotalAmount))
			b.count++
			totals[k] = b
		}

		ry, rm, rd := reference.In(loc).Date()
		for i := days - 1; i >= 0; i-- {
			// time.Date normalises rd-i across month and year boundaries.
			midnight := time.Date(ry, rm, rd-i, 0, 0, 0, 0, loc)
			b := totals[dayOf(midnight, loc)]
			if !yield(DailySales{
				Date:         midnight,
				Day:          midnight.Format(time.DateOnly),
				Amount:       b.amount.InexactFloat64(),
				Transactions: b.count,
			}) {
				return
			}
		}
	}
}

// DailySalesTrend collects DailyTrend into a slice.
func DailySalesTrend(in []sales.Sale, reference time.Time, days int, loc *time.Location) []DailySales {
	out := slices.Collect(DailyTrend(in, reference, days, loc))
	if out == nil {
		out = []DailySales{}
	}
	return out
}

// SalesByMonth buckets sales per calendar month in loc, oldest month first.
// Only months with at least one sale appear.
func SalesByMonth(in []sales.Sale, loc *time.Location) []MonthlySales {
	if loc == nil {
		loc = time.Local
	}
	pos := map[string]int{}
	out := []MonthlySales{}
	var sums []decimal.Decimal
	for _, s := range in {
		key := s.Date.In(loc).Format("2006-01")
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, MonthlySales{Month: key})
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(money(s.TotalAmount))
		out[i].Transactions++
	}
	for i := range out {
		out[i].Amount = sums[i].InexactFloat64()
	}
	slices.SortFunc(out, func(a, b MonthlySales) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}

// StockAnalysis reports stock levels, value and turnover for every product.
func StockAnalysis(products []sales.Product, in []sales.Sale) []StockStatus {
	sold := map[string]int{}
	for _, s := range in {
		sold[s.ProductID] += s.Quantity
	}

	out := make([]StockStatus, 0, len(products))
	for _, p := range products {
		total := 0
		for _, qty := range p.Stock {
			total += qty
		}
		st := StockStatus{
			ProductID:   p.ID,
			ProductName: p.Name,
			Category:    p.Category,
			TotalStock:  total,
			StockValue:  decimal.NewFromInt(int64(total)).Mul(money(p.Price)).InexactFloat64(),
			TotalSold:   sold[p.ID],
			LowStock:    total < p.MinStock,
		}
		if total > 0 {
			st.TurnoverRate = float64(st.TotalSold) / float64(total)
		}
		out = append(out, st)
	}
	return out
}

// TopCustomers ranks named customers by total spend and keeps the first n.
// Sales without a customer name are ignored; names match exactly.
func TopCustomers(in []sales.Sale, n int) []CustomerSummary {
	type acc struct {
		summary CustomerSummary
		spent   decimal.Decimal
	}
	pos := map[string]int{}
	var accs []acc
	for _, s := range in {
		if s.CustomerName == "" {
			continue
		}
		i, ok := pos[s.CustomerName]
		if !ok {
			i = len(accs)
			pos[s.CustomerName] = i
			accs = append(accs, acc{summary: CustomerSummary{Name: s.CustomerName}})
		}
		accs[i].spent = accs[i].spent.Add(money(s.TotalAmount))
		accs[i].summary.Transactions++
		if s.Date.After(accs[i].summary.LastPurchase) {
			accs[i].summary.LastPurchase = s.Date
		}
	}
	slices.SortStableFunc(accs, func(a, b acc) int {
		return b.spent.Cmp(a.spent)
	})

	ranked := make([]CustomerSummary, len(accs))
	for i, a := range accs {
		a.summary.TotalSpent = a.spent.InexactFloat64()
		ranked[i] = a.summary
	}
	return truncate(ranked, n)
}

// truncate keeps at most n items; a non-positive n keeps none.
func truncate[T any](in []T, n int) []T {
	if n <= 0 || len(in) == 0 {
		return []T{}
	}
	if len(in) > n {
		return slices.Clip(in[:n])
	}
	return in
}
