package core

import "github.com/shopspring/decimal"

// CatalogItem is a sellable product in the shared catalog.
// Price levels are nullable: an item imported without a tier price must be
// reported, not priced at zero.
type CatalogItem struct {
	ID          int                 `json:"id"`
	ItemName    string              `json:"itemName"`
	Category    string              `json:"itemCategory"`
	Cost        decimal.Decimal     `json:"cost"`
	Quantity    decimal.Decimal     `json:"quantity"`
	PriceLevel1 decimal.NullDecimal `json:"priceLevel1"`
	PriceLevel2 decimal.NullDecimal `json:"priceLevel2"`
	PriceLevel3 decimal.NullDecimal `json:"priceLevel3"`
	Rank        float64             `json:"rank"`
	Taxable     bool                `json:"taxableItem"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Vendors     []VendorPrice       `json:"vendors"`
}

// VendorPrice is the last known price an item was bought at from a vendor.
// Vendor names are compared case-insensitively.
type VendorPrice struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	LastPurchased string          `json:"lastPurchased,omitempty"`
}

// ItemInput carries admin-entered catalog fields after parsing.
type ItemInput struct {
	ItemName      string
	Category      string
	OtherCategory string // used when Category is "Other"
	Cost          decimal.Decimal
	Quantity      decimal.Decimal
	PriceLevel1   decimal.NullDecimal
	PriceLevel2   decimal.NullDecimal
	PriceLevel3   decimal.NullDecimal
	Rank          float64
	Taxable       bool
	ImageURL      string
}

// CategoryOther lets an admin type a new category name.
const CategoryOther = "Other"

// PriceFor returns the stored price for level, or false if it is absent.
func (it CatalogItem) PriceFor(level PriceLevel) (decimal.Decimal, bool) {
	var p decimal.NullDecimal
	switch level {
	case 1:
		p = it.PriceLevel1
	case 2:
		p = it.PriceLevel2
	case 3:
		p = it.PriceLevel3
	}
	return p.Decimal, p.Valid
}

// SetPrices overwrites all three price levels.
func (it *CatalogItem) SetPrices(p TierPrices) {
	it.PriceLevel1 = decimal.NewNullDecimal(p.Level1)
	it.PriceLevel2 = decimal.NewNullDecimal(p.Level2)
	it.PriceLevel3 = decimal.NewNullDecimal(p.Level3)
}
