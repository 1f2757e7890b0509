// Package events carries the storefront's outbound notifications: cart updates,
// validation failures, checkout step changes and placed orders.
package events

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"labubu_store/internal/models"
)

const (
	TypeCartUpdated      = "cart-updated"
	TypeValidationFailed = "validation-errors"
	TypeStepAdvanced     = "step-advanced"
	TypeOrderPlaced      = "order-placed"
)

type Event interface {
	Type() string
	SessionID() string
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

type CartUpdated struct {
	Session  string            `json:"-"`
	Lines    []models.CartLine `json:"lines"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Shipping decimal.Decimal   `json:"shipping"`
	Total    decimal.Decimal   `json:"total"`
	Count    int               `json:"count"`
}

func (e CartUpdated) Type() string      { return TypeCartUpdated }
func (e CartUpdated) SessionID() string { return e.Session }

type ValidationFailed struct {
	Session string            `json:"-"`
	Step    string            `json:"step"`
	Errors  map[string]string `json:"errors"`
}

func (e ValidationFailed) Type() string      { return TypeValidationFailed }
func (e ValidationFailed) SessionID() string { return e.Session }

type StepAdvanced struct {
	Session string `json:"-"`
	Step    string `json:"step"`
}

func (e StepAdvanced) Type() string      { return TypeStepAdvanced }
func (e StepAdvanced) SessionID() string { return e.Session }

type OrderPlaced struct {
	Session string                   `json:"-"`
	Email   string                   `json:"-"`
	Order   models.OrderConfirmation `json:"order"`
}

func (e OrderPlaced) Type() string      { return TypeOrderPlaced }
func (e OrderPlaced) SessionID() string { return e.Session }

// Envelope is the wire form shared by the in-process hub, redis pub/sub and the websocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func Encode(event Event) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "encode %s", event.Type())
	}
	return Envelope{Type: event.Type(), Payload: payload}, nil
}

// Topic is the per-session channel name.
func Topic(sessionID string) string {
	return "store:" + sessionID
}
