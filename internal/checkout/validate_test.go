package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() ShippingForm {
	return ShippingForm{
		FullName:     "Labubu Lover",
		Email:        "lover@labubu.store",
		AddressLine1: "1 Monster Lane",
		City:         "Hong Kong",
		PostalCode:   "99907",
		Country:      "labubu_land",
	}
}

func validPayment() PaymentForm {
	return PaymentForm{
		CardholderName: "Labubu Lover",
		CardNumber:     "4242 4242 4242 4242",
		ExpiryDate:     "09/27",
		CVC:            "123",
	}
}

func boolPtr(b bool) *bool { return &b }

func TestValidateShipping(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.Empty(t, ValidateShipping(validShipping()))
	})

	tests := []struct {
		name  string
		edit  func(*ShippingForm)
		field string
		msg   string
	}{
		{"ShortName", func(f *ShippingForm) { f.FullName = "A" }, "fullName", "Full name must be at least 2 characters."},
		{"BadEmail", func(f *ShippingForm) { f.Email = "not-an-email" }, "email", "Please enter a valid email address."},
		{"EmptyEmail", func(f *ShippingForm) { f.Email = "" }, "email", "Please enter a valid email address."},
		{"ShortAddress", func(f *ShippingForm) { f.AddressLine1 = "1 A" }, "addressLine1", "Address is too short."},
		{"ShortCity", func(f *ShippingForm) { f.City = "X" }, "city", "City name is too short."},
		{"ShortPostalCode", func(f *ShippingForm) { f.PostalCode = "123" }, "postalCode", "Postal code is too short."},
		{"NoCountry", func(f *ShippingForm) { f.Country = "" }, "country", "Please select a country."},
		{"ShortPhone", func(f *ShippingForm) { f.PhoneNumber = "12345" }, "phoneNumber", "Phone number is too short."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validShipping()
			tt.edit(&form)
			errs := ValidateShipping(form)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}

	t.Run("OptionalFieldsMayBeEmpty", func(t *testing.T) {
		form := validShipping()
		form.AddressLine2 = ""
		form.PhoneNumber = ""
		assert.Empty(t, ValidateShipping(form))
		form.PhoneNumber = "5551234"
		assert.Empty(t, ValidateShipping(form))
	})

	t.Run("NameLengthCountsRunes", func(t *testing.T) {
		form := validShipping()
		form.FullName = "é"
		assert.Contains(t, ValidateShipping(form), "fullName")
	})
}

func TestValidatePayment(t *testing.T) {
	t.Run("ValidDefaultsToSameBilling", func(t *testing.T) {
		details, errs := ValidatePayment(validPayment())
		require.Empty(t, errs)
		assert.Equal(t, "4242424242424242", details.CardNumber)
		assert.Equal(t, "4242", details.Last4())
		assert.IsType(t, SameAsShipping{}, details.Billing)
	})

	tests := []struct {
		name  string
		edit  func(*PaymentForm)
		field string
	}{
		{"ShortCardholder", func(f *PaymentForm) { f.CardholderName = "A" }, "cardholderName"},
		{"ShortCardNumber", func(f *PaymentForm) { f.CardNumber = "4242 4242 4242" }, "cardNumber"},
		{"LongCardNumber", func(f *PaymentForm) { f.CardNumber = "42424242424242424242" }, "cardNumber"},
		{"LettersInCardNumber", func(f *PaymentForm) { f.CardNumber = "4242 4242 4242 424x" }, "cardNumber"},
		{"MonthThirteen", func(f *PaymentForm) { f.ExpiryDate = "13/27" }, "expiryDate"},
		{"MonthZero", func(f *PaymentForm) { f.ExpiryDate = "00/27" }, "expiryDate"},
		{"FullYear", func(f *PaymentForm) { f.ExpiryDate = "09/2027" }, "expiryDate"},
		{"ShortCVC", func(f *PaymentForm) { f.CVC = "12" }, "cvc"},
		{"LongCVC", func(f *PaymentForm) { f.CVC = "12345" }, "cvc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validPayment()
			tt.edit(&form)
			_, errs := ValidatePayment(form)
			require.Len(t, errs, 1)
			assert.Contains(t, errs, tt.field)
		})
	}

	t.Run("FourDigitCVCAndThirteenDigitCard", func(t *testing.T) {
		form := validPayment()
		form.CVC = "1234"
		form.CardNumber = "4222222222222"
		_, errs := ValidatePayment(form)
		assert.Empty(t, errs)
	})

	t.Run("SeparateBillingRequiresAllFields", func(t *testing.T) {
		form := validPayment()
		form.BillingSameAsShipping = boolPtr(false)
		form.BillingCity = "Paris"
		form.BillingPostalCode = "75001"
		form.BillingCountry = "fr"

		_, errs := ValidatePayment(form)
		require.Len(t, errs, 1)
		assert.Equal(t, "Billing address details are required if different from shipping.", errs["billingAddressLine1"])

		form.BillingAddressLine1 = "2 Rue des Monstres"
		details, errs := ValidatePayment(form)
		require.Empty(t, errs)
		billing, ok := details.Billing.(SeparateBilling)
		require.True(t, ok)
		assert.Equal(t, "2 Rue des Monstres", billing.Address.AddressLine1)
		assert.Equal(t, billing.Address, details.BillingAddress(validShipping().Address()))
	})

	t.Run("MissingCityIsReportedOnAddressLine", func(t *testing.T) {
		form := validPayment()
		form.BillingSameAsShipping = boolPtr(false)
		form.BillingAddressLine1 = "2 Rue des Monstres"
		form.BillingPostalCode = "75001"
		form.BillingCountry = "fr"
		_, errs := ValidatePayment(form)
		assert.Contains(t, errs, "billingAddressLine1")
		assert.NotContains(t, errs, "billingCity")
	})

	t.Run("BillingIgnoredWhenSame", func(t *testing.T) {
		form := validPayment()
		form.BillingSameAsShipping = boolPtr(true)
		details, errs := ValidatePayment(form)
		require.Empty(t, errs)
		ship := validShipping().Address()
		assert.Equal(t, ship, details.BillingAddress(ship))
	})

	t.Run("RedactedDropsSecrets", func(t *testing.T) {
		r := validPayment().Redacted()
		assert.Empty(t, r.CardNumber)
		assert.Empty(t, r.CVC)
		assert.Equal(t, "Labubu Lover", r.CardholderName)
	})
}
