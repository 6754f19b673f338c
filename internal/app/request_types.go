package app

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"order-portal/internal/core"
)

// Amount is a numeric form field as the client sent it. Browsers post
// numbers, strings with "$" and "," or blanks; all are kept as text until
// the service parses them.
type Amount string

// UnmarshalJSON accepts a JSON number, string or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("amount must be a number or string: %w", err)
		}
		*a = Amount(n.String())
	}
	return nil
}

func (a Amount) strict(field string) (decimal.Decimal, error) {
	return core.ParseAmount(field, string(a))
}

func (a Amount) lenient(field string) decimal.Decimal {
	return core.LenientAmount(field, string(a))
}

// nullable parses an optional price tier. Blank means "no price at this level".
func (a Amount) nullable(field string) (decimal.NullDecimal, error) {
	if string(a) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := a.strict(field)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// RegisterRequest is the self-service sign-up form.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Company      string `json:"company"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

// LoginRequest carries credentials for Authenticate.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerRequest is the admin form for adding or editing a customer.
type CustomerRequest struct {
	RegisterRequest
	PriceLevel core.PriceLevel `json:"priceLevel"`
	Taxable    bool            `json:"taxable"`
	FinalPrice Amount          `json:"finalPrice"`
}

func (r RegisterRequest) input() core.CustomerInput {
	return core.CustomerInput{
		Email:        r.Email,
		Password:     r.Password,
		Company:      r.Company,
		Phone:        r.Phone,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		ZipCode:      r.ZipCode,
	}
}

func (r CustomerRequest) input() (core.CustomerInput, error) {
	in := r.RegisterRequest.input()
	in.PriceLevel = r.PriceLevel
	in.Taxable = r.Taxable
	m, err := r.FinalPrice.strict("finalPrice")
	if err != nil {
		return in, err
	}
	in.FinalPrice = m
	return in, nil
}

// ItemRequest is the admin form for a catalog item.
type ItemRequest struct {
	ItemName      string  `json:"itemName"`
	Category      string  `json:"itemCategory"`
	OtherCategory string  `json:"otherCategory"`
	Cost          Amount  `json:"cost"`
	Quantity      Amount  `json:"quantity"`
	PriceLevel1   Amount  `json:"priceLevel1"`
	PriceLevel2   Amount  `json:"priceLevel2"`
	PriceLevel3   Amount  `json:"priceLevel3"`
	Rank          float64 `json:"rank"`
	Taxable       bool    `json:"taxableItem"`
	ImageURL      string  `json:"imageUrl"`
}

func (r ItemRequest) input() (core.ItemInput, error) {
	in := core.ItemInput{
		ItemName:      r.ItemName,
		Category:      r.Category,
		OtherCategory: r.OtherCategory,
		Rank:          r.Rank,
		Taxable:       r.Taxable,
		ImageURL:      r.ImageURL,
	}
	var err error
	if in.Cost, err = r.Cost.strict("cost"); err != nil {
		return in, err
	}
	if in.Quantity, err = r.Quantity.strict("quantity"); err != nil {
		return in, err
	}
	if in.PriceLevel1, err = r.PriceLevel1.nullable("priceLevel1"); err != nil {
		return in, err
	}
	if in.PriceLevel2, err = r.PriceLevel2.nullable("priceLevel2"); err != nil {
		return in, err
	}
	if in.PriceLevel3, err = r.PriceLevel3.nullable("priceLevel3"); err != nil {
		return in, err
	}
	return in, nil
}

// LineRequest is one product row on an invoice edit or a purchase.
type LineRequest struct {
	ProductName     string `json:"productName"`
	ProductCategory string `json:"productCategory"`
	Quantity        Amount `json:"quantity"`
	Rate            Amount `json:"rate"`
	Total           Amount `json:"total"`
	ItemID          *int   `json:"itemId,omitempty"`
	Taxable         *bool  `json:"taxable,omitempty"`
	AutoPricing     string `json:"autoPricing,omitempty"`
}

// invoiceLine parses strictly: a malformed row on an invoice edit is
// rejected rather than saved as zero.
func (r LineRequest) invoiceLine(i int) (core.InvoiceLine, error) {
	field := func(name string) string { return fmt.Sprintf("products[%d].%s", i, name) }
	l := core.InvoiceLine{
		ProductName:     r.ProductName,
		ProductCategory: r.ProductCategory,
		ItemID:          r.ItemID,
		Taxable:         r.Taxable,
	}
	var err error
	if l.Quantity, err = r.Quantity.strict(field("quantity")); err != nil {
		return l, err
	}
	if l.Rate, err = r.Rate.strict(field("rate")); err != nil {
		return l, err
	}
	if string(r.Total) == "" {
		l.Total = l.Quantity.Mul(l.Rate)
	} else if l.Total, err = r.Total.strict(field("total")); err != nil {
		return l, err
	}
	return l, nil
}

// purchaseLine parses leniently; unreadable figures become zero and are logged.
func (r LineRequest) purchaseLine(i int) core.PurchaseLine {
	field := func(name string) string { return fmt.Sprintf("products[%d].%s", i, name) }
	return core.PurchaseLine{
		ProductName:     r.ProductName,
		ProductCategory: r.ProductCategory,
		Quantity:        r.Quantity.lenient(field("quantity")),
		Rate:            r.Rate.lenient(field("rate")),
		AutoPricing:     r.AutoPricing,
	}
}

// InvoiceUpdateRequest is a partial edit. Absent fields are left unchanged.
type InvoiceUpdateRequest struct {
	InvoiceNumber  *string       `json:"invoiceNumber,omitempty"`
	DateCreated    *string       `json:"dateCreated,omitempty"`
	Products       []LineRequest `json:"products,omitempty"`
	CashPayment    *Amount       `json:"CashPayment,omitempty"`
	AccountPayment *Amount       `json:"AccountPayment,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
}

func (r InvoiceUpdateRequest) update() (core.InvoiceUpdate, error) {
	upd := core.InvoiceUpdate{
		InvoiceNumber: r.InvoiceNumber,
		DateCreated:   r.DateCreated,
		Notes:         r.Notes,
	}
	for i, lr := range r.Products {
		l, err := lr.invoiceLine(i)
		if err != nil {
			return upd, err
		}
		upd.Products = append(upd.Products, l)
	}
	if r.CashPayment != nil {
		d, err := r.CashPayment.strict("CashPayment")
		if err != nil {
			return upd, err
		}
		upd.CashPayment = &d
	}
	if r.AccountPayment != nil {
		d, err := r.AccountPayment.strict("AccountPayment")
		if err != nil {
			return upd, err
		}
		upd.AccountPayment = &d
	}
	return upd, nil
}

// PaymentRequest adds to an invoice's recorded payments.
type PaymentRequest struct {
	Cash    Amount `json:"cash"`
	Account Amount `json:"account"`
}

// PurchaseRequest is the admin form for a vendor invoice.
type PurchaseRequest struct {
	VendorName    string        `json:"vendorName"`
	NewVendor     string        `json:"newVendor"`
	DateCreated   string        `json:"dateCreated"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CashPaid      Amount        `json:"cashPaid"`
	AccountPaid   Amount        `json:"accountPaid"`
	Products      []LineRequest `json:"products"`
}

func (r PurchaseRequest) input() core.PurchaseInput {
	in := core.PurchaseInput{
		VendorName:    r.VendorName,
		NewVendor:     r.NewVendor,
		DateCreated:   r.DateCreated,
		InvoiceNumber: r.InvoiceNumber,
		CashPaid:      r.CashPaid.lenient("cashPaid"),
		AccountPaid:   r.AccountPaid.lenient("accountPaid"),
	}
	for i, lr := range r.Products {
		in.Products = append(in.Products, lr.purchaseLine(i))
	}
	return in
}

// VendorRequest is the admin form for a vendor contact.
type VendorRequest struct {
	Company       string `json:"company"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

func (r VendorRequest) input() core.VendorInput {
	return core.VendorInput{
		Company:       r.Company,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
	}
}

// VendorPriceRequest sets what one vendor charges for an item.
type VendorPriceRequest struct {
	Price         Amount `json:"price"`
	LastPurchased string `json:"lastPurchased"`
}

// ReturnRequest logs a customer return.
type ReturnRequest struct {
	Date           string   `json:"date"`
	Classification string   `json:"classification"`
	Damaged        bool     `json:"damaged"`
	TrackingNumber string   `json:"trackingNumber"`
	Images         []string `json:"images"`
}

func (r ReturnRequest) input() core.ReturnInput {
	return core.ReturnInput{
		Date:           r.Date,
		Classification: r.Classification,
		Damaged:        r.Damaged,
		TrackingNumber: r.TrackingNumber,
		Images:         r.Images,
	}
}

// CartItemRequest adds an item to the cart or changes its quantity.
type CartItemRequest struct {
	ItemID   int    `json:"itemId"`
	Quantity Amount `json:"quantity"`
}
