package sales

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidAmount        = errors.New("amount must not be negative")
	ErrInvalidDiscount      = errors.New("discount must be between 0 and 100")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrSameShop             = errors.New("source and destination shop are the same")
	ErrEmptyField           = errors.New("required field is empty")
)

// Service records sales, expenses and stock movements on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	now     func() time.Time

	// serialises read-modify-write sequences on product stock
	mu sync.Mutex
}

// SaleInput is what a caller supplies to record a sale.
type SaleInput struct {
	ProductID     string        `json:"productId"`
	ShopID        string        `json:"shopId"`
	Quantity      int           `json:"quantity"`
	UnitPrice     *float64      `json:"unitPrice"` // nil means the product price
	CustomerName  string        `json:"customerName"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Discount      float64       `json:"discount"`
	Date          time.Time     `json:"date"`
}

type ExpenseInput struct {
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ShopID      string    `json:"shopId"`
	Amount      float64   `json:"amount"`
	Approved    bool      `json:"approved"`
	Date        time.Time `json:"date"`
}

type TransferInput struct {
	ProductID  string `json:"productId"`
	FromShopID string `json:"fromShopId"`
	ToShopID   string `json:"toShopId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

type ProductInput struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Price    float64        `json:"price"`
	MinStock int            `json:"minStock"`
	Stock    map[string]int `json:"stock"`
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateShop registers a new shop.
func (s *Service) CreateShop(name, location string) (Shop, error) {
	if strings.TrimSpace(name) == "" {
		return Shop{}, fmt.Errorf("%w: name", ErrEmptyField)
	}
	shop := Shop{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Location: strings.TrimSpace(location),
	}
	if err := s.storage.SetShop(shop); err != nil {
		return Shop{}, fmt.Errorf("failed to save shop: %w", err)
	}
	s.logger.Info("shop created", zap.String("shop_id", shop.ID), zap.String("name", shop.Name))
	return shop, nil
}

// CreateProduct registers a catalogue item. Every stock key must be a known shop.
func (s *Service) CreateProduct(in ProductInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, fmt.Errorf("%w: name", ErrEmptyField)
	}
	if in.Price < 0 {
		return Product{}, fmt.Errorf("%w: price %v", ErrInvalidAmount, in.Price)
	}
	if in.MinStock < 0 {
		return Product{}, fmt.Errorf("%w: min stock %d", ErrInvalidQuantity, in.MinStock)
	}
	stock := make(map[string]int, len(in.Stock))
	for shopID, qty := range in.Stock {
		if _, err := s.storage.ReadShop(shopID); err != nil {
			return Product{}, fmt.Errorf("shop %q: %w", shopID, err)
		}
		if qty < 0 {
			return Product{}, fmt.Errorf("%w: stock %d at shop %q", ErrInvalidQuantity, qty, shopID)
		}
		stock[shopID] = qty
	}

	product := Product{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Price:    in.Price,
		Stock:    stock,
		MinStock: in.MinStock,
	}
	if err := s.storage.SetProduct(product); err != nil {
		return Product{}, fmt.Errorf("failed to save product: %w", err)
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// RecordSale validates the input, prices the sale and takes the units out of
// the shop's stock.
func (s *Service) RecordSale(in SaleInput) (Sale, error) {
	if in.Quantity < 1 {
		return Sale{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, in.Quantity)
	}
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		return Sale{}, fmt.Errorf("%w: unit price %v", ErrInvalidAmount, *in.UnitPrice)
	}
	if in.Discount < 0 || in.Discount > 100 {
		return Sale{}, fmt.Errorf("%w: got %v", ErrInvalidDiscount, in.Discount)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCash
	}
	if !in.PaymentMethod.Valid() {
		return Sale{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.PaymentMethod)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shop, err := s.storage.ReadShop(in.ShopID)
	if err != nil {
		return Sale{}, fmt.Errorf("shop %q: %w", in.ShopID, err)
	}
	product, err := s.storage.ReadProduct(in.ProductID)
	if err != nil {
		return Sale{}, fmt.Errorf("product %q: %w", in.ProductID, err)
	}
	if available := product.Stock[shop.ID]; available < in.Quantity {
		return Sale{}, fmt.Errorf("%w: %d of %q available at %q, %d requested",
			ErrInsufficientStock, available, product.Name, shop.Name, in.Quantity)
	}

	unitPrice := product.Price
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	sale := Sale{
		ID:            uuid.NewString(),
		Date:          date,
		ProductID:     product.ID,
		ProductName:   product.Name,
		ShopID:        shop.ID,
		ShopName:      shop.Name,
		Quantity:      in.Quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   SaleTotal(unitPrice, in.Quantity, in.Discount),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		PaymentMethod: in.PaymentMethod,
		Discount:      in.Discount,
	}

	product.Stock[shop.ID] -= in.Quantity
	if err := s.storage.SetProduct(product); err != nil {
		s.logger.Error("failed to update stock", zap.String("product_id", product.ID), zap.Error(err))
		return Sale{}, fmt.Errorf("failed to update stock: %w", err)
	}
	if err := s.storage.AddSale(sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return Sale{}, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("shop_id", sale.ShopID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total_amount", sale.TotalAmount),
	)
	return sale, nil
}

// SaleTotal returns unitPrice * quantity * (1 - discount/100) rounded to cents.
func SaleTotal(unitPrice float64, quantity int, discount float64) float64 {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(decimal.NewFromFloat(discount)).Div(hundred)
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(factor).
		Round(2).
		InexactFloat64()
}

// RecordExpense stores an expense against a known shop.
func (s *Service) RecordExpense(in ExpenseInput) (Expense, error) {
	if strings.TrimSpace(in.Description) == "" {
		return Expense{}, fmt.Errorf("%w: description", ErrEmptyField)
	}
	if strings.TrimSpace(in.Category) == "" {
		return Expense{}, fmt.Errorf("%w: category", ErrEmptyField)
	}
	if in.Amount < 0 {
		return Expense{}, fmt.Errorf("%w: got %v", ErrInvalidAmount, in.Amount)
	}
	shop, err := s.storage.ReadShop(in.ShopID)
	if err != nil {
		return Expense{}, fmt.Errorf("shop %q: %w", in.ShopID, err)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	expense := Expense{
		ID:          uuid.NewString(),
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		ShopID:      shop.ID,
		ShopName:    shop.Name,
		Amount:      decimal.NewFromFloat(in.Amount).Round(2).InexactFloat64(),
		Approved:    in.Approved,
	}
	if err := s.storage.SetExpense(expense); err != nil {
		s.logger.Error("failed to save expense", zap.String("expense_id", expense.ID), zap.Error(err))
		return Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}

	s.logger.Info("expense recorded",
		zap.String("expense_id", expense.ID),
		zap.String("shop_id", expense.ShopID),
		zap.String("category", expense.Category),
		zap.Float64("amount", expense.Amount),
	)
	return expense, nil
}

// ApproveExpense marks an expense as approved. Approving twice is a no-op.
func (s *Service) ApproveExpense(id string) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense, err := s.storage.ReadExpense(id)
	if err != nil {
		return Expense{}, fmt.Errorf("expense %q: %w", id, err)
	}
	if expense.Approved {
		return expense, nil
	}
	expense.Approved = true
	if err := s.storage.SetExpense(expense); err != nil {
		return Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	s.logger.Info("expense approved", zap.String("expense_id", expense.ID))
	return expense, nil
}

// TransferStock moves units of a product between two shops.
func (s *Service) TransferStock(in TransferInput) (StockTransfer, error) {
	if in.Quantity < 1 {
		return StockTransfer{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, in.Quantity)
	}
	if in.FromShopID == in.ToShopID {
		return StockTransfer{}, ErrSameShop
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{in.FromShopID, in.ToShopID} {
		if _, err := s.storage.ReadShop(id); err != nil {
			return StockTransfer{}, fmt.Errorf("shop %q: %w", id, err)
		}
	}
	product, err := s.storage.ReadProduct(in.ProductID)
	if err != nil {
		return StockTransfer{}, fmt.Errorf("product %q: %w", in.ProductID, err)
	}
	if available := product.Stock[in.FromShopID]; available < in.Quantity {
		return StockTransfer{}, fmt.Errorf("%w: %d of %q available, %d requested",
			ErrInsufficientStock, available, product.Name, in.Quantity)
	}

	product.Stock[in.FromShopID] -= in.Quantity
	product.Stock[in.ToShopID] += in.Quantity
	if err := s.storage.SetProduct(product); err != nil {
		return StockTransfer{}, fmt.Errorf("failed to update stock: %w", err)
	}

	transfer := StockTransfer{
		ID:          uuid.NewString(),
		Date:        s.now(),
		ProductID:   product.ID,
		ProductName: product.Name,
		FromShopID:  in.FromShopID,
		ToShopID:    in.ToShopID,
		Quantity:    in.Quantity,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := s.storage.AddTransfer(transfer); err != nil {
		s.logger.Error("failed to save transfer", zap.String("transfer_id", transfer.ID), zap.Error(err))
		return StockTransfer{}, fmt.Errorf("failed to save transfer: %w", err)
	}

	s.logger.Info("stock transferred",
		zap.String("transfer_id", transfer.ID),
		zap.String("product_id", transfer.ProductID),
		zap.String("from_shop_id", transfer.FromShopID),
		zap.String("to_shop_id", transfer.ToShopID),
		zap.Int("quantity", transfer.Quantity),
	)
	return transfer, nil
}

func (s *Service) Shops() []Shop { return s.storage.Shops() }
func (s *Service) Products() []Product { return s.storage.Products() }
func (s *Service) Sales() []Sale { return s.storage.Sales() }
func (s *Service) Expenses() []Expense { return s.storage.Expenses() }
func (s *Service) Transfers() []StockTransfer { return s.storage.Transfers() }
func (s *Service) Snapshot() Snapshot { return s.storage.Snapshot() }
