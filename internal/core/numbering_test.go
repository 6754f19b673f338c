package core_test

import (
	"strings"
	"testing"
	"time"

	"order-portal/internal/core"
)

func TestCompanyPrefix(t *testing.T) {
	tests := []struct {
		name    string
		company string
		want    string
	}{
		{"two words", "Acme Widgets", "AW"},
		{"lowercase and extra spaces", "  corner   store  ", "CS"},
		{"words without letters are skipped", "Acme & Widgets", "AW"},
		{"leading digits use first letter", "7eleven Market", "EM"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.CompanyPrefix(tt.company); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseInvoiceNumber(t *testing.T) {
	tests := []struct {
		number     string
		wantPrefix string
		wantN      int
	}{
		{"AW04", "AW", 4},
		{"CS120", "CS", 120},
		{"INV-123", "INV-", 123},
		{"A1B", "AB", 1},
		{"ABC", "ABC", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		prefix, n := core.ParseInvoiceNumber(tt.number)
		if prefix != tt.wantPrefix || n != tt.wantN {
			t.Errorf("ParseInvoiceNumber(%q): expected (%q, %d), got (%q, %d)", tt.number, tt.wantPrefix, tt.wantN, prefix, n)
		}
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	existing := []core.Invoice{
		{InvoiceNumber: "AW01"},
		{InvoiceNumber: "AW03"},
		{InvoiceNumber: "XY09"},
	}
	if got := core.NextInvoiceNumber("Acme Widgets", existing); got != "AW04" {
		t.Errorf("Expected AW04, got %s", got)
	}
	if got := core.NextInvoiceNumber("Acme Widgets", nil); got != "AW01" {
		t.Errorf("Expected AW01 for a first invoice, got %s", got)
	}
	if got := core.NextInvoiceNumber("Acme Widgets", []core.Invoice{{InvoiceNumber: "AW99"}}); got != "AW100" {
		t.Errorf("Expected AW100 past two digits, got %s", got)
	}
}

func TestNextInvoiceNumber_IgnoresOutOfRangeSuffix(t *testing.T) {
	huge := "AW" + strings.Repeat("9", 25)
	tests := []struct {
		name     string
		existing []core.Invoice
		want     string
	}{
		{"only an out of range suffix", []core.Invoice{{InvoiceNumber: huge}}, "AW01"},
		{"alongside a normal suffix", []core.Invoice{{InvoiceNumber: "AW01"}, {InvoiceNumber: huge}}, "AW02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.NextInvoiceNumber("Acme Widgets", tt.existing); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}

	prefix, n := core.ParseInvoiceNumber(huge)
	if prefix != "AW" || n != 0 {
		t.Errorf("Expected (AW, 0) for %s, got (%q, %d)", huge, prefix, n)
	}
	prefix, n = core.ParseInvoiceNumber("INV-" + strings.Repeat("7", 30))
	if prefix != "INV-" || n != 0 {
		t.Errorf("Expected (INV-, 0) for an overlong digit run, got (%q, %d)", prefix, n)
	}
}

func TestAssignInvoiceNumber(t *testing.T) {
	doc := seedDocument()
	doc.Users[1].Invoices = []core.Invoice{{InvoiceNumber: "AW01"}, {InvoiceNumber: "AW03"}}
	now := time.UnixMilli(1700000123456)

	if got := core.AssignInvoiceNumber(doc, "Acme Widgets", now); got != "AW04" {
		t.Errorf("Expected AW04, got %s", got)
	}
	if got := core.AssignInvoiceNumber(doc, "Corner Store", now); got != "CS01" {
		t.Errorf("Expected CS01 for a company without invoices, got %s", got)
	}
	if got := core.AssignInvoiceNumber(doc, "Zeta Zone", now); got != "ZZ01" {
		t.Errorf("Expected ZZ01 for a company without an account, got %s", got)
	}

	got := core.AssignInvoiceNumber(doc, "   ", now)
	if got != "INV123456" {
		t.Errorf("Expected INV123456 for a blank company, got %s", got)
	}
	if !strings.HasPrefix(core.AssignInvoiceNumber(doc, "&&", now), "INV") {
		t.Errorf("Expected an INV fallback for a company without letters")
	}
}
