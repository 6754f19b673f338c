package core_test

import (
	"errors"
	"testing"

	"order-portal/internal/core"
)

func TestAutoPrice_Profiles(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		cost    string
		want    [3]string
	}{
		{"retail at 10", core.ProfileRetail, "10", [3]string{"11.25", "12", "14"}},
		{"vpack at 10", core.ProfileVPack, "10", [3]string{"11.75", "13", "15.5"}},
		// 1.10*3.10+0.25 = 3.66 rounds to 3.75; 1.15*3.10+0.50 = 4.065 rounds to 4
		{"retail rounds to nearest quarter", core.ProfileRetail, "3.10", [3]string{"3.75", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := core.AutoPrice(tt.profile, dec(tt.cost))
			if !ok {
				t.Fatalf("AutoPrice(%s) reported unknown profile", tt.profile)
			}
			assertDecimal(t, "priceLevel1", got.Level1, tt.want[0])
			assertDecimal(t, "priceLevel2", got.Level2, tt.want[1])
			assertDecimal(t, "priceLevel3", got.Level3, tt.want[2])
		})
	}
}

func TestAutoPrice_UnknownProfile(t *testing.T) {
	if _, ok := core.AutoPrice("", dec("10")); ok {
		t.Errorf("Expected empty profile to be rejected")
	}
	if _, ok := core.AutoPrice("wholesale", dec("10")); ok {
		t.Errorf("Expected unknown profile to be rejected")
	}
}

func TestCustomerPrice(t *testing.T) {
	item := core.CatalogItem{
		ID: 7, ItemName: "Swisher Sweets",
		PriceLevel1: price("12"), PriceLevel2: price("9.5"), PriceLevel3: price("10.99"),
	}

	tests := []struct {
		name       string
		level      core.PriceLevel
		multiplier string
		want       string
	}{
		{"level 3 floors to quarter", 3, "1", "10.75"},
		{"multiplier applied before flooring", 2, "1.1", "10.25"},
		{"unset level uses level 3", 0, "1", "10.75"},
		{"out of range level uses level 3", 5, "1", "10.75"},
		{"non-positive multiplier is one", 1, "0", "12"},
		{"exact quarter is kept", 1, "0.5", "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.CustomerPrice(item, tt.level, dec(tt.multiplier))
			if err != nil {
				t.Fatalf("CustomerPrice failed: %v", err)
			}
			assertDecimal(t, "price", got, tt.want)
		})
	}
}

func TestCustomerPrice_MissingLevel(t *testing.T) {
	item := core.CatalogItem{ID: 9, ItemName: "Imported", PriceLevel1: price("5")}

	_, err := core.CustomerPrice(item, 2, dec("1"))
	if err == nil {
		t.Fatal("Expected an error for a missing price level, got nil")
	}
	if !errors.Is(err, core.ErrMissingPriceLevel) {
		t.Errorf("Expected ErrMissingPriceLevel, got %v", err)
	}
	if !core.IsValidation(err) {
		t.Errorf("Expected a validation error, got %T", err)
	}
}

func TestQuarterRounding(t *testing.T) {
	tests := []struct {
		in, floor, round string
	}{
		{"10.99", "10.75", "11"},
		{"10.125", "10", "10.25"},
		{"10.10", "10", "10"},
		{"0.24", "0", "0.25"},
	}
	for _, tt := range tests {
		assertDecimal(t, "FloorQuarter("+tt.in+")", core.FloorQuarter(dec(tt.in)), tt.floor)
		assertDecimal(t, "RoundQuarter("+tt.in+")", core.RoundQuarter(dec(tt.in)), tt.round)
	}
}
