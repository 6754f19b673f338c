package core_test

import (
	"testing"

	"order-portal/internal/core"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "blank is zero", raw: "  ", want: "0"},
		{name: "dollar sign and commas", raw: "$1,000.50", want: "1000.5"},
		{name: "negative", raw: "-2.5", want: "-2.5"},
		{name: "trailing zeros past eight places", raw: "1.500000000", want: "1.5"},
		{name: "largest accepted", raw: "999999999999.99", want: "999999999999.99"},
		{name: "words", raw: "abc", wantErr: true},
		{name: "huge exponent", raw: "1e30000000", wantErr: true},
		{name: "small exponent", raw: "1E3", wantErr: true},
		{name: "negative exponent", raw: "5e-2", wantErr: true},
		{name: "at the limit", raw: "1000000000000", wantErr: true},
		{name: "negative at the limit", raw: "-1,000,000,000,000", wantErr: true},
		{name: "too many decimal places", raw: "0.000000001", wantErr: true},
		{name: "overlong digit run", raw: "0.00000000000000000000000000000001", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ParseAmount("quantity", tt.raw)
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Errorf("Expected a validation error for %q, got %v (value %s)", tt.raw, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount failed: %v", err)
			}
			assertDecimal(t, "amount", got, tt.want)
		})
	}
}

func TestLenientAmount_RejectedBecomesZero(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "12.25", "12.25"},
		{"huge exponent", "1e30000000", "0"},
		{"garbage", "n/a", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, "amount", core.LenientAmount("qty", tt.raw), tt.want)
		})
	}
}
