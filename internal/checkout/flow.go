// Package checkout runs the three step checkout: shipping address, shipping
// method, then payment details.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"labubu_store/internal/events"
	"labubu_store/internal/models"
)

type Step string

const (
	StepShippingAddress Step = "shipping-address"
	StepShippingMethod  Step = "shipping-method"
	StepPaymentDetails  Step = "payment-details"
	StepCompleted       Step = "completed"
)

var Steps = []Step{StepShippingAddress, StepShippingMethod, StepPaymentDetails}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

var (
	ErrStepLocked            = errors.New("checkout step is locked")
	ErrFlowCompleted         = errors.New("checkout already completed")
	ErrUnknownStep           = errors.New("unknown checkout step")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrEmptyCart             = errors.New("cart is empty")
)

// Options are the shipping methods offered at checkout, in display order.
type Options []models.ShippingOption

func DefaultOptions() Options {
	return NewOptions(decimal.RequireFromString("5.00"), decimal.RequireFromString("15.00"))
}

func NewOptions(standard, express decimal.Decimal) Options {
	return Options{
		{ID: models.ShippingStandard, Name: "Standard Shipping", Description: "5-7 days", Price: standard, EstimatedDays: 7},
		{ID: models.ShippingExpress, Name: "Express Shipping", Description: "1-3 days", Price: express, EstimatedDays: 3},
	}
}

func (o Options) Find(method models.ShippingMethod) (models.ShippingOption, bool) {
	for _, opt := range o {
		if opt.ID == method {
			return opt, true
		}
	}
	return models.ShippingOption{}, false
}

// Default is the method priced into the summary before the shopper picks one.
func (o Options) Default() models.ShippingOption {
	if opt, ok := o.Find(models.ShippingStandard); ok {
		return opt
	}
	return o[0]
}

// Flow is one session's checkout. It is stored between requests, so every
// field is plain data; the card number and CVC are never kept.
type Flow struct {
	Step          Step                  `json:"step"`
	Shipping      *ShippingForm         `json:"shipping,omitempty"`
	ShippingValid bool                  `json:"shippingValid"`
	Method        models.ShippingMethod `json:"method,omitempty"`
	Payment       *PaymentForm          `json:"payment,omitempty"`
}

func NewFlow() Flow {
	return Flow{Step: StepShippingAddress}
}

// Unlocked reports whether step can be opened: shipping-method needs a valid
// address, payment-details needs a chosen method as well.
func (f Flow) Unlocked(step Step) bool {
	switch step {
	case StepShippingAddress:
		return true
	case StepShippingMethod:
		return f.ShippingValid
	case StepPaymentDetails:
		return f.ShippingValid && f.Method != ""
	default:
		return false
	}
}

func (f Flow) Completed() bool {
	return f.Step == StepCompleted
}

// Result is what a transition produced: the new flow, any field errors and the
// notifications to deliver.
type Result struct {
	Flow   Flow
	Errors FieldErrors
	Events []events.Event
	Order  *models.OrderConfirmation
}

// SubmitShipping is only accepted on the shipping-address step; later steps
// must Open it first.
func (f Flow) SubmitShipping(session string, form ShippingForm) (Result, error) {
	if f.Completed() {
		return Result{Flow: f}, ErrFlowCompleted
	}
	if f.Step != StepShippingAddress {
		return Result{Flow: f}, ErrStepLocked
	}
	if errs := ValidateShipping(form); len(errs) > 0 {
		return Result{Flow: f, Errors: errs, Events: []events.Event{failed(session, StepShippingAddress, errs)}}, nil
	}
	f.Shipping = &form
	f.ShippingValid = true
	f.Step = StepShippingMethod
	return Result{Flow: f, Events: []events.Event{advanced(session, f.Step)}}, nil
}

func (f Flow) SelectShippingMethod(session string, options Options, method models.ShippingMethod) (Result, error) {
	if f.Completed() {
		return Result{Flow: f}, ErrFlowCompleted
	}
	if !f.Unlocked(StepShippingMethod) {
		return Result{Flow: f}, ErrStepLocked
	}
	if _, ok := options.Find(method); !ok {
		return Result{Flow: f}, ErrUnknownShippingMethod
	}
	f.Method = method
	f.Step = StepPaymentDetails
	return Result{Flow: f, Events: []events.Event{advanced(session, f.Step)}}, nil
}

// Order holds what the payment step needs to build the confirmation.
type Order struct {
	Lines    []models.CartLine
	Subtotal decimal.Decimal
	Shipping models.ShippingOption
	PlacedAt time.Time
}

// SubmitPayment is only accepted on the payment-details step. Success completes the flow.
func (f Flow) SubmitPayment(session string, form PaymentForm, order Order) (Result, error) {
	if f.Completed() {
		return Result{Flow: f}, ErrFlowCompleted
	}
	if f.Step != StepPaymentDetails || !f.Unlocked(StepPaymentDetails) {
		return Result{Flow: f}, ErrStepLocked
	}
	redacted := form.Redacted()
	f.Payment = &redacted

	details, errs := ValidatePayment(form)
	if len(errs) > 0 {
		return Result{Flow: f, Errors: errs, Events: []events.Event{failed(session, StepPaymentDetails, errs)}}, nil
	}

	shipping := f.Shipping.Address()
	confirmation := models.OrderConfirmation{
		ConfirmationID: NewConfirmationID(),
		Lines:          append([]models.CartLine(nil), order.Lines...),
		Shipping:       shipping,
		Billing:        details.BillingAddress(shipping),
		ShippingMethod: order.Shipping.ID,
		Subtotal:       order.Subtotal,
		ShippingCost:   order.Shipping.Price,
		Total:          order.Subtotal.Add(order.Shipping.Price),
		CardLast4:      details.Last4(),
		PlacedAt:       order.PlacedAt,
	}
	f.Step = StepCompleted
	return Result{
		Flow:  f,
		Order: &confirmation,
		Events: []events.Event{
			advanced(session, f.Step),
			events.OrderPlaced{Session: session, Email: shipping.Email, Order: confirmation},
		},
	}, nil
}

// Open re-enters a step. Earlier answers stay in the flow and are shown again.
func (f Flow) Open(session string, step Step) (Result, error) {
	if f.Completed() {
		return Result{Flow: f}, ErrFlowCompleted
	}
	if step.index() < 0 {
		return Result{Flow: f}, ErrUnknownStep
	}
	if !f.Unlocked(step) {
		return Result{Flow: f}, ErrStepLocked
	}
	if f.Step == step {
		return Result{Flow: f}, nil
	}
	f.Step = step
	return Result{Flow: f, Events: []events.Event{advanced(session, step)}}, nil
}

// NewConfirmationID returns "LB" followed by 8 uppercase hex characters.
func NewConfirmationID() string {
	id := uuid.New()
	return "LB" + strings.ToUpper(fmt.Sprintf("%x", id[:4]))
}

func failed(session string, step Step, errs FieldErrors) events.Event {
	return events.ValidationFailed{Session: session, Step: string(step), Errors: errs}
}

func advanced(session string, step Step) events.Event {
	return events.StepAdvanced{Session: session, Step: string(step)}
}
