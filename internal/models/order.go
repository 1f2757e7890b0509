package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderConfirmation struct {
	ConfirmationID string          `json:"confirmationId"`
	Lines          []CartLine      `json:"lines"`
	Shipping       Address         `json:"shipping"`
	Billing        Address         `json:"billing"`
	ShippingMethod ShippingMethod  `json:"shippingMethod"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Total          decimal.Decimal `json:"total"`
	CardLast4      string          `json:"cardLast4"`
	PlacedAt       time.Time       `json:"placedAt"`
}
