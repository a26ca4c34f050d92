// Package cart maintains the editable order draft: line items capped by
// stock, derived totals, and the pending-sale snapshot persisted through
// the state store on every mutation.
package cart

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"

	"github.com/diewo77/pos-app/internal/models"
	"github.com/diewo77/pos-app/internal/state"
)

// TaxRate is the fixed rate applied after discount.
const TaxRate = 0.10

var newRef func() string

func init() {
	gen, err := nanoid.Standard(12)
	if err != nil {
		panic(err)
	}
	newRef = gen
}

type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Line is a live cart row. The product copy carries the stock ceiling.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// SaleItem is the persisted shape of a line inside the draft.
type SaleItem struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	Quantity      int     `json:"quantity"`
}

// PendingSale is the draft handed from the cart screen to confirmation.
type PendingSale struct {
	Reference       string       `json:"reference,omitempty"`
	Customer        *CustomerRef `json:"customer,omitempty"`
	Items           []SaleItem   `json:"items"`
	Subtotal        float64      `json:"subtotal"`
	DiscountPercent float64      `json:"discountPercent"`
	DiscountAmount  float64      `json:"discountAmount"`
	TaxAmount       float64      `json:"taxAmount"`
	Total           float64      `json:"total"`
	PaymentMethod   string       `json:"paymentMethod"`
	Note            string       `json:"note"`
	SavedAt         time.Time    `json:"savedAt"`
}

type Cart struct {
	store           state.Store
	lines           []Line
	discountPercent float64
	paymentMethod   string
	note            string
	customer        *CustomerRef
}

func New(store state.Store) *Cart {
	return &Cart{store: store, paymentMethod: "cash"}
}

// Load restores a previously saved draft. Malformed or missing data
// leaves the cart empty; corruption is never surfaced.
func Load(ctx context.Context, store state.Store) *Cart {
	c := New(store)
	var draft PendingSale
	found, err := store.Get(ctx, state.KeyPendingSale, &draft)
	if err != nil {
		log.Printf("cart: discarding bad pending sale: %v", err)
		return c
	}
	if !found {
		return c
	}
	for _, it := range draft.Items {
		c.lines = append(c.lines, Line{
			Product: models.Product{
				ID:            it.ProductID,
				Name:          it.Name,
				Price:         it.Price,
				StockQuantity: it.StockQuantity,
			},
			Quantity: it.Quantity,
		})
	}
	c.discountPercent = draft.DiscountPercent
	c.note = draft.Note
	c.customer = draft.Customer
	if draft.PaymentMethod != "" {
		c.paymentMethod = draft.PaymentMethod
	}
	return c
}

// Add puts the product in the cart with quantity 1, or bumps an existing
// line by 1. At the stock ceiling it is a silent no-op.
func (c *Cart) Add(ctx context.Context, p models.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			if c.lines[i].Quantity+1 > c.lines[i].Product.StockQuantity {
				return
			}
			c.lines[i].Quantity++
			c.persist(ctx)
			return
		}
	}
	if p.StockQuantity < 1 {
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
	c.persist(ctx)
}

// UpdateQuantity sets a line's quantity. Zero removes the line, negative
// values are ignored, anything above stock clamps to stock.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, qty int) {
	if qty == 0 {
		c.Remove(ctx, productID)
		return
	}
	if qty < 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			if ceiling := c.lines[i].Product.StockQuantity; qty > ceiling {
				qty = ceiling
			}
			c.lines[i].Quantity = qty
			c.persist(ctx)
			return
		}
	}
}

// UpdateQuantityInput handles the raw text of a direct quantity edit.
// Non-numeric input removes the line, matching the zero case.
func (c *Cart) UpdateQuantityInput(ctx context.Context, productID, raw string) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.Remove(ctx, productID)
		return
	}
	c.UpdateQuantity(ctx, productID, qty)
}

// Remove deletes the line unconditionally.
func (c *Cart) Remove(ctx context.Context, productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist(ctx)
			return
		}
	}
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Quantity(productID string) int {
	for _, l := range c.lines {
		if l.Product.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Totals recomputes the derived amounts from the current lines.
func (c *Cart) Totals() (subtotal, discount, tax, total float64) {
	for _, l := range c.lines {
		subtotal += l.Product.Price * float64(l.Quantity)
	}
	discount = subtotal * c.discountPercent / 100
	tax = (subtotal - discount) * TaxRate
	total = subtotal - discount + tax
	return subtotal, discount, tax, total
}

// SetDiscountPercent clamps to [0,100].
func (c *Cart) SetDiscountPercent(ctx context.Context, pct float64) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	c.discountPercent = pct
	c.persist(ctx)
}

func (c *Cart) DiscountPercent() float64 { return c.discountPercent }

func (c *Cart) SetNote(ctx context.Context, note string) {
	c.note = note
	c.persist(ctx)
}

func (c *Cart) Note() string { return c.note }

func (c *Cart) SetPaymentMethod(ctx context.Context, method string) {
	c.paymentMethod = method
	c.persist(ctx)
}

func (c *Cart) PaymentMethod() string { return c.paymentMethod }

func (c *Cart) SetCustomer(ctx context.Context, customer *CustomerRef) {
	c.customer = customer
	c.persist(ctx)
}

func (c *Cart) Customer() *CustomerRef { return c.customer }

func (c *Cart) snapshot() PendingSale {
	subtotal, discount, tax, total := c.Totals()
	items := make([]SaleItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, SaleItem{
			ProductID:     l.Product.ID,
			Name:          l.Product.Name,
			Price:         l.Product.Price,
			StockQuantity: l.Product.StockQuantity,
			Quantity:      l.Quantity,
		})
	}
	return PendingSale{
		Customer:        c.customer,
		Items:           items,
		Subtotal:        subtotal,
		DiscountPercent: c.discountPercent,
		DiscountAmount:  discount,
		TaxAmount:       tax,
		Total:           total,
		PaymentMethod:   c.paymentMethod,
		Note:            c.note,
		SavedAt:         time.Now(),
	}
}

// persist re-serializes the whole draft on every mutation (full
// overwrite, not incremental). Store failures only log.
func (c *Cart) persist(ctx context.Context) {
	if err := c.store.Set(ctx, state.KeyPendingSale, c.snapshot()); err != nil {
		log.Printf("cart: persist pending sale: %v", err)
	}
}

// ProcessSale snapshots the draft for the confirmation step and stamps a
// reference. No backend call happens here.
func (c *Cart) ProcessSale(ctx context.Context) PendingSale {
	sale := c.snapshot()
	sale.Reference = newRef()
	if err := c.store.Set(ctx, state.KeyPendingSale, sale); err != nil {
		log.Printf("cart: persist pending sale: %v", err)
	}
	return sale
}

// Clear empties the cart and drops the persisted draft.
func (c *Cart) Clear(ctx context.Context) {
	c.lines = nil
	c.discountPercent = 0
	c.note = ""
	c.customer = nil
	c.paymentMethod = "cash"
	if err := c.store.Delete(ctx, state.KeyPendingSale); err != nil {
		log.Printf("cart: clear pending sale: %v", err)
	}
}
