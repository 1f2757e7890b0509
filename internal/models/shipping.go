package models

import "github.com/shopspring/decimal"

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

type ShippingOption struct {
	ID            ShippingMethod  `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays int             `json:"estimatedDays"`
}
