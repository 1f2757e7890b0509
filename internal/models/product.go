package models

import "github.com/shopspring/decimal"

type Product struct {
	ID           string          `json:"id"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	Series       string          `json:"series,omitempty"`
	IsNew        bool            `json:"isNew"`
	IsOutOfStock bool            `json:"isOutOfStock"`
}

type Availability string

const (
	InStock    Availability = "In Stock"
	OutOfStock Availability = "Out of Stock"
	PreOrder   Availability = "Pre-order"
)

type Specification struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ProductDetail is the product page view of a fixture product.
type ProductDetail struct {
	Product
	Images           []string        `json:"images"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	Specifications   []Specification `json:"specifications"`
	Availability     Availability    `json:"availability"`
	SKU              string          `json:"sku"`
	Tags             []string        `json:"tags,omitempty"`
	Reviews          []Review        `json:"reviews"`
}

func (d ProductDetail) Purchasable() bool {
	return !d.IsOutOfStock && d.Availability != OutOfStock
}
