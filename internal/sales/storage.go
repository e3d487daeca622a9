package sales

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a record with the given ID is not found.
var ErrNotFound = errors.New("not found")

// ErrEmptyID is returned when trying to store a record with an empty ID.
var ErrEmptyID = errors.New("empty ID")

// Storage is the main interface for our record storage layer.
// Every listing returns records in insertion order.
type Storage interface {
	SetShop(shop Shop) error
	ReadShop(id string) (Shop, error)
	Shops() []Shop

	SetProduct(product Product) error
	ReadProduct(id string) (Product, error)
	Products() []Product

	AddSale(sale Sale) error
	Sales() []Sale

	SetExpense(expense Expense) error
	ReadExpense(id string) (Expense, error)
	Expenses() []Expense

	AddTransfer(transfer StockTransfer) error
	Transfers() []StockTransfer

	// Snapshot returns all sales, expenses, shops and products read under a
	// single lock so the collections are mutually consistent.
	Snapshot() Snapshot
}

// orderedSet keeps values addressable by id while remembering insertion order.
type orderedSet[T any] struct {
	index map[string]int
	items []T
}

func newOrderedSet[T any]() *orderedSet[T] {
	return &orderedSet[T]{index: map[string]int{}}
}

func (o *orderedSet[T]) set(id string, v T) {
	if i, ok := o.index[id]; ok {
		o.items[i] = v
		return
	}
	o.index[id] = len(o.items)
	o.items = append(o.items, v)
}

func (o *orderedSet[T]) get(id string) (T, bool) {
	i, ok := o.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return o.items[i], true
}

func (o *orderedSet[T]) all() []T {
	out := make([]T, len(o.items))
	copy(out, o.items)
	return out
}

// LocalStorage provides an in-memory implementation for storing records.
type LocalStorage struct {
	mu        sync.RWMutex
	shops     *orderedSet[Shop]
	products  *orderedSet[Product]
	expenses  *orderedSet[Expense]
	sales     []Sale
	transfers []StockTransfer
}

// NewLocalStorage instantiates a new, empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		shops:    newOrderedSet[Shop](),
		products: newOrderedSet[Product](),
		expenses: newOrderedSet[Expense](),
	}
}

// SetShop inserts or replaces a shop.
// Returns ErrEmptyID if the shop has an empty ID.
func (l *LocalStorage) SetShop(shop Shop) error {
	if shop.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shops.set(shop.ID, shop)
	return nil
}

// ReadShop retrieves a shop by ID.
// Returns ErrNotFound if the shop is not found.
func (l *LocalStorage) ReadShop(id string) (Shop, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.shops.get(id)
	if !ok {
		return Shop{}, ErrNotFound
	}
	return s, nil
}

func (l *LocalStorage) Shops() []Shop {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.shops.all()
}

// SetProduct inserts or replaces a product. The stock map is copied.
func (l *LocalStorage) SetProduct(product Product) error {
	if product.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products.set(product.ID, product.clone())
	return nil
}

// ReadProduct retrieves a product by ID. The returned stock map is a copy.
func (l *LocalStorage) ReadProduct(id string) (Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.products.get(id)
	if !ok {
		return Product{}, ErrNotFound
	}
	return p.clone(), nil
}

func (l *LocalStorage) Products() []Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.productsLocked()
}

func (l *LocalStorage) productsLocked() []Product {
	out := l.products.all()
	for i := range out {
		out[i] = out[i].clone()
	}
	return out
}

// AddSale appends a sale. Sales are never updated once recorded.
func (l *LocalStorage) AddSale(sale Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sales = append(l.sales, sale)
	return nil
}

func (l *LocalStorage) Sales() []Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Sale, len(l.sales))
	copy(out, l.sales)
	return out
}

func (l *LocalStorage) SetExpense(expense Expense) error {
	if expense.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses.set(expense.ID, expense)
	return nil
}

func (l *LocalStorage) ReadExpense(id string) (Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.expenses.get(id)
	if !ok {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (l *LocalStorage) Expenses() []Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.expenses.all()
}

func (l *LocalStorage) AddTransfer(transfer StockTransfer) error {
	if transfer.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transfers = append(l.transfers, transfer)
	return nil
}

func (l *LocalStorage) Transfers() []StockTransfer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]StockTransfer, len(l.transfers))
	copy(out, l.transfers)
	return out
}

func (l *LocalStorage) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sales := make([]Sale, len(l.sales))
	copy(sales, l.sales)
	return Snapshot{
		Sales:    sales,
		Expenses: l.expenses.all(),
		Shops:    l.shops.all(),
		Products: l.productsLocked(),
	}
}
