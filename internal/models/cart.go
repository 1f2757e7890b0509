package models

import "github.com/shopspring/decimal"

// CartLine is keyed by ProductID: a cart holds at most one line per product.
type CartLine struct {
	ProductID string          `json:"productId"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
