package core

import "github.com/shopspring/decimal"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is a customer or an administrator. Customers own their invoices.
type User struct {
	ID           int             `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	Role         string          `json:"role"`
	Company      string          `json:"company"`
	Phone        string          `json:"phone,omitempty"`
	AddressLine1 string          `json:"addressLine1"`
	AddressLine2 string          `json:"addressLine2"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	ZipCode      string          `json:"zipCode"`
	PriceLevel   PriceLevel      `json:"priceLevel"`
	Taxable      bool            `json:"taxable"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
	Invoices     []Invoice       `json:"invoices"`
}

// Multiplier is FinalPrice, or 1 when unset.
func (u User) Multiplier() decimal.Decimal {
	if u.FinalPrice.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return u.FinalPrice
}

// Level is the user's price level, or level 3 when unset or out of range.
func (u User) Level() PriceLevel {
	if !u.PriceLevel.Valid() {
		return DefaultPriceLevel
	}
	return u.PriceLevel
}

// Public strips the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// CustomerInput holds registration and admin-edit fields.
type CustomerInput struct {
	Email        string
	Password     string // empty on edit keeps the current hash
	Company      string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	PriceLevel   PriceLevel
	Taxable      bool
	FinalPrice   decimal.Decimal
}
