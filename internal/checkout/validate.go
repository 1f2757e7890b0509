package checkout

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"labubu_store/internal/models"
)

// FieldErrors maps a form field (its json name) to the message shown next to it.
// An empty map means the form is valid.
type FieldErrors map[string]string

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// One message per field, whichever rule failed.
var messages = map[string]string{
	"fullName":            "Full name must be at least 2 characters.",
	"email":               "Please enter a valid email address.",
	"addressLine1":        "Address is too short.",
	"city":                "City name is too short.",
	"postalCode":          "Postal code is too short.",
	"country":             "Please select a country.",
	"phoneNumber":         "Phone number is too short.",
	"cardholderName":      "Cardholder name is too short.",
	"cardNumber":          "Invalid card number format.",
	"expiryDate":          "Expiry date must be MM/YY.",
	"cvc":                 "CVC must be 3 or 4 digits.",
	"billingAddressLine1": "Billing address details are required if different from shipping.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return cardNumberPattern.MatchString(stripSpaces(fl.Field().String()))
	}))
	must(v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("cvc", func(fl validator.FieldLevel) bool {
		return cvcPattern.MatchString(fl.Field().String())
	}))
	v.RegisterStructValidation(billingRule, PaymentForm{})
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ShippingForm is the shipping-address step as submitted.
type ShippingForm struct {
	FullName     string `json:"fullName" validate:"min=2"`
	Email        string `json:"email" validate:"email"`
	AddressLine1 string `json:"addressLine1" validate:"min=5"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"min=2"`
	PostalCode   string `json:"postalCode" validate:"min=4"`
	Country      string `json:"country" validate:"min=2"`
	PhoneNumber  string `json:"phoneNumber,omitempty" validate:"omitempty,min=7"`
}

func (f ShippingForm) Address() models.Address {
	return models.Address{
		FullName:     f.FullName,
		Email:        f.Email,
		AddressLine1: f.AddressLine1,
		AddressLine2: f.AddressLine2,
		City:         f.City,
		PostalCode:   f.PostalCode,
		Country:      f.Country,
		PhoneNumber:  f.PhoneNumber,
	}
}

// PaymentForm is the payment step as submitted. Billing fields only matter
// when BillingSameAsShipping is false; a missing flag means true.
type PaymentForm struct {
	CardholderName        string `json:"cardholderName" validate:"min=2"`
	CardNumber            string `json:"cardNumber" validate:"cardnumber"`
	ExpiryDate            string `json:"expiryDate" validate:"expiry"`
	CVC                   string `json:"cvc" validate:"cvc"`
	BillingSameAsShipping *bool  `json:"billingSameAsShipping,omitempty"`
	BillingAddressLine1   string `json:"billingAddressLine1,omitempty"`
	BillingCity           string `json:"billingCity,omitempty"`
	BillingPostalCode     string `json:"billingPostalCode,omitempty"`
	BillingCountry        string `json:"billingCountry,omitempty"`
}

func (f PaymentForm) SameAsShipping() bool {
	return f.BillingSameAsShipping == nil || *f.BillingSameAsShipping
}

// Redacted drops the card number and CVC so the form can be kept between attempts.
func (f PaymentForm) Redacted() PaymentForm {
	f.CardNumber = ""
	f.CVC = ""
	return f
}

func billingRule(sl validator.StructLevel) {
	f := sl.Current().Interface().(PaymentForm)
	if f.SameAsShipping() {
		return
	}
	if f.BillingAddressLine1 == "" || f.BillingCity == "" || f.BillingPostalCode == "" || f.BillingCountry == "" {
		sl.ReportError(f.BillingAddressLine1, "billingAddressLine1", "BillingAddressLine1", "billing", "")
	}
}

// Billing is either SameAsShipping or SeparateBilling.
type Billing interface {
	billing()
}

type SameAsShipping struct{}

type SeparateBilling struct {
	Address models.Address
}

func (SameAsShipping) billing()  {}
func (SeparateBilling) billing() {}

// PaymentDetails only comes out of a successful ValidatePayment.
type PaymentDetails struct {
	CardholderName string
	CardNumber     string
	ExpiryDate     string
	CVC            string
	Billing        Billing
}

func (d PaymentDetails) Last4() string {
	if len(d.CardNumber) < 4 {
		return d.CardNumber
	}
	return d.CardNumber[len(d.CardNumber)-4:]
}

// BillingAddress resolves the billing variant against the shipping address.
func (d PaymentDetails) BillingAddress(shipping models.Address) models.Address {
	if b, ok := d.Billing.(SeparateBilling); ok {
		return b.Address
	}
	return shipping
}

func ValidateShipping(f ShippingForm) FieldErrors {
	return fieldErrors(validate.Struct(f))
}

func ValidatePayment(f PaymentForm) (PaymentDetails, FieldErrors) {
	if errs := fieldErrors(validate.Struct(f)); len(errs) > 0 {
		return PaymentDetails{}, errs
	}
	details := PaymentDetails{
		CardholderName: f.CardholderName,
		CardNumber:     stripSpaces(f.CardNumber),
		ExpiryDate:     f.ExpiryDate,
		CVC:            f.CVC,
		Billing:        SameAsShipping{},
	}
	if !f.SameAsShipping() {
		details.Billing = SeparateBilling{Address: models.Address{
			FullName:     f.CardholderName,
			AddressLine1: f.BillingAddressLine1,
			City:         f.BillingCity,
			PostalCode:   f.BillingPostalCode,
			Country:      f.BillingCountry,
		}}
	}
	return details, nil
}

func fieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}
