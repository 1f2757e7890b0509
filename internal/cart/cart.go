// Package cart holds the shopping cart: lines keyed by product, quantity
// changes and the derived subtotal, shipping and total.
package cart

import (
	"github.com/shopspring/decimal"

	"labubu_store/internal/models"
)

// Policy prices shipping for a cart that has no checkout method selected yet.
type Policy struct {
	FlatRate decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{FlatRate: decimal.RequireFromString("5.00")}
}

type Cart struct {
	Lines          []models.CartLine      `json:"lines"`
	ShippingMethod *models.ShippingOption `json:"shippingMethod,omitempty"`
}

// AddItem increments an existing line or appends a new one. Quantities below 1 count as 1.
func (c *Cart) AddItem(p models.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.index(p.ID); i >= 0 {
		c.Lines[i].Quantity += qty
		return
	}
	c.Lines = append(c.Lines, models.CartLine{
		ProductID: p.ID,
		Slug:      p.Slug,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  qty,
	})
}

// SetQuantity ignores quantities below 1; removing a line takes RemoveItem.
// It reports whether the line changed.
func (c *Cart) SetQuantity(lineID string, qty int) bool {
	if qty < 1 {
		return false
	}
	i := c.index(lineID)
	if i < 0 || c.Lines[i].Quantity == qty {
		return false
	}
	c.Lines[i].Quantity = qty
	return true
}

// RemoveItem is a no-op for unknown lines.
func (c *Cart) RemoveItem(lineID string) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Clear empties the lines. The chosen shipping method stays, matching the
// checkout flow, which keeps its selection too.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Reset drops everything, used once an order has been placed.
func (c *Cart) Reset() {
	*c = Cart{}
}

// SelectShipping records the checkout's chosen method; nil falls back to the flat rate.
func (c *Cart) SelectShipping(option *models.ShippingOption) {
	if option == nil {
		c.ShippingMethod = nil
		return
	}
	o := *option
	c.ShippingMethod = &o
}

func (c *Cart) Has(lineID string) bool {
	return c.index(lineID) >= 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// ShippingCost is zero for an empty cart, the selected checkout method's price
// once one is chosen, and the policy's flat rate otherwise.
func (c *Cart) ShippingCost(p Policy) decimal.Decimal {
	switch {
	case c.IsEmpty():
		return decimal.Zero
	case c.ShippingMethod != nil:
		return c.ShippingMethod.Price
	default:
		return p.FlatRate
	}
}

func (c *Cart) Total(p Policy) decimal.Decimal {
	return c.Subtotal().Add(c.ShippingCost(p))
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) index(lineID string) int {
	for i, l := range c.Lines {
		if l.ProductID == lineID {
			return i
		}
	}
	return -1
}

type Snapshot struct {
	Lines          []models.CartLine     `json:"lines"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Shipping       decimal.Decimal       `json:"shipping"`
	Total          decimal.Decimal       `json:"total"`
	Count          int                   `json:"count"`
	ShippingMethod models.ShippingMethod `json:"shippingMethod,omitempty"`
}

// Snapshot derives the totals from the current lines.
func (c *Cart) Snapshot(p Policy) Snapshot {
	s := Snapshot{
		Lines:    append(make([]models.CartLine, 0, len(c.Lines)), c.Lines...),
		Subtotal: c.Subtotal(),
		Shipping: c.ShippingCost(p),
		Total:    c.Total(p),
		Count:    c.ItemCount(),
	}
	if c.ShippingMethod != nil {
		s.ShippingMethod = c.ShippingMethod.ID
	}
	return s
}
