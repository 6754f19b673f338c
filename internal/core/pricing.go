package core

import "github.com/shopspring/decimal"

// ── Pricing ──────────────────────────────────────────────────────────────────
//
// Customer prices round DOWN to the nearest quarter; auto-pricing from cost
// rounds to the NEAREST quarter. The two call sites intentionally differ and
// historical invoices depend on both.

var (
	one  = decimal.NewFromInt(1)
	four = decimal.NewFromInt(4)
)

// Auto-pricing profile names, as stored on purchase lines.
const (
	ProfileRetail = "autoPriceRetail"
	ProfileVPack  = "vPackAutoPrice"
)

// TierPrices holds the three catalog price levels.
type TierPrices struct {
	Level1 decimal.Decimal `json:"priceLevel1"`
	Level2 decimal.Decimal `json:"priceLevel2"`
	Level3 decimal.Decimal `json:"priceLevel3"`
}

// markup is price = factor·cost + add for one level.
type markup struct {
	factor decimal.Decimal
	add    decimal.Decimal
}

func (m markup) apply(cost decimal.Decimal) decimal.Decimal {
	return RoundQuarter(m.factor.Mul(cost).Add(m.add))
}

var autoPricingProfiles = map[string][3]markup{
	ProfileRetail: {
		{decimal.RequireFromString("1.10"), decimal.RequireFromString("0.25")},
		{decimal.RequireFromString("1.15"), decimal.RequireFromString("0.50")},
		{decimal.RequireFromString("1.30"), decimal.RequireFromString("1.00")},
	},
	ProfileVPack: {
		{decimal.RequireFromString("1.15"), decimal.RequireFromString("0.25")},
		{decimal.RequireFromString("1.25"), decimal.RequireFromString("0.50")},
		{decimal.RequireFromString("1.45"), decimal.RequireFromString("1.00")},
	},
}

// FloorQuarter rounds v down to a multiple of 0.25.
func FloorQuarter(v decimal.Decimal) decimal.Decimal {
	return v.Mul(four).Floor().Div(four)
}

// RoundQuarter rounds v to the nearest multiple of 0.25, halves away from zero.
func RoundQuarter(v decimal.Decimal) decimal.Decimal {
	return v.Mul(four).Round(0).Div(four)
}

// CustomerPrice resolves the price a customer pays for item:
// floor(priceLevelN × multiplier × 4) / 4, clamped at zero.
// An unset level defaults to 3 and a non-positive multiplier to 1.
// A missing price field is an error rather than a zero price.
func CustomerPrice(item CatalogItem, level PriceLevel, multiplier decimal.Decimal) (decimal.Decimal, error) {
	if !level.Valid() {
		level = DefaultPriceLevel
	}
	if multiplier.Sign() <= 0 {
		multiplier = one
	}
	base, ok := item.PriceFor(level)
	if !ok {
		return decimal.Zero, invalid(ErrMissingPriceLevel, "item %d (%s) has no priceLevel%d", item.ID, item.ItemName, level)
	}
	price := FloorQuarter(base.Mul(multiplier))
	if price.Sign() < 0 {
		return decimal.Zero, nil
	}
	return price, nil
}

// PriceForUser is CustomerPrice with the user's level and multiplier.
func PriceForUser(item CatalogItem, u User) (decimal.Decimal, error) {
	return CustomerPrice(item, u.Level(), u.Multiplier())
}

// AutoPrice computes all three price levels from cost using the named
// profile. ok is false for an unknown or empty profile name.
func AutoPrice(profile string, cost decimal.Decimal) (TierPrices, bool) {
	m, ok := autoPricingProfiles[profile]
	if !ok {
		return TierPrices{}, false
	}
	return TierPrices{
		Level1: m[0].apply(cost),
		Level2: m[1].apply(cost),
		Level3: m[2].apply(cost),
	}, true
}

// AutoPriceRetail is the standard retail markup profile.
func AutoPriceRetail(cost decimal.Decimal) TierPrices {
	p, _ := AutoPrice(ProfileRetail, cost)
	return p
}

// VPackAutoPrice is the variety-pack markup profile.
func VPackAutoPrice(cost decimal.Decimal) TierPrices {
	p, _ := AutoPrice(ProfileVPack, cost)
	return p
}
