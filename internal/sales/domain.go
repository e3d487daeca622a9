package sales

import "time"

// PaymentMethod is how a customer settled a sale.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile:
		return true
	}
	return false
}

// Sale represents a sales transaction recorded at a shop.
type Sale struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	ProductID     string        `json:"productId"`
	ProductName   string        `json:"productName"`
	ShopID        string        `json:"shopId"`
	ShopName      string        `json:"shopName"`
	Quantity      int           `json:"quantity"`
	UnitPrice     float64       `json:"unitPrice"`
	TotalAmount   float64       `json:"totalAmount"`
	CustomerName  string        `json:"customerName,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Discount      float64       `json:"discount,omitempty"` // percentage 0-100
}

// Expense is money spent by a shop.
type Expense struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ShopID      string    `json:"shopId"`
	ShopName    string    `json:"shopName"`
	Amount      float64   `json:"amount"`
	Approved    bool      `json:"approved"`
}

type Shop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Product is a catalogue item. Stock maps shop id to units on hand.
type Product struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Price    float64        `json:"price"`
	Stock    map[string]int `json:"stock"`
	MinStock int            `json:"minStock"`
}

// clone returns a copy of p that does not share the stock map.
func (p Product) clone() Product {
	stock := make(map[string]int, len(p.Stock))
	for shopID, qty := range p.Stock {
		stock[shopID] = qty
	}
	p.Stock = stock
	return p
}

// StockTransfer records units moved from one shop to another.
type StockTransfer struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	FromShopID  string    `json:"fromShopId"`
	ToShopID    string    `json:"toShopId"`
	Quantity    int       `json:"quantity"`
	Notes       string    `json:"notes,omitempty"`
}

// Snapshot is a consistent, read-only copy of every collection in the store.
type Snapshot struct {
	Sales    []Sale
	Expenses []Expense
	Shops    []Shop
	Products []Product
}
