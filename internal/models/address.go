package models

type Address struct {
	FullName     string `json:"fullName,omitempty"`
	Email        string `json:"email,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}
