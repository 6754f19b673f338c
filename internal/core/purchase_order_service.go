package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PurchaseService records vendor purchases. Recording a purchase updates
// the cost of each matched catalog item, optionally re-prices it with an
// auto-pricing profile, and refreshes the item's price from that vendor.
// Purchases do not receive stock.
type PurchaseService interface {
	RecordPurchase(ctx context.Context, in PurchaseInput) (*Purchase, error)
	UpdatePurchase(ctx context.Context, id int, in PurchaseInput) (*Purchase, error)
	DeletePurchase(ctx context.Context, id int) error
	GetPurchase(ctx context.Context, id int) (*Purchase, error)
	ListPurchases(ctx context.Context) ([]Purchase, error)
}

type purchaseService struct {
	store *Store
}

// NewPurchaseService constructs a PurchaseService over store.
func NewPurchaseService(store *Store) PurchaseService {
	return &purchaseService{store: store}
}

// resolvePurchase validates in and returns the effective vendor name and
// cleaned lines. Line totals are re-derived from quantity × rate.
func resolvePurchase(in PurchaseInput) (string, []PurchaseLine, error) {
	vendor := strings.TrimSpace(in.VendorName)
	if strings.EqualFold(vendor, VendorOther) {
		vendor = strings.TrimSpace(in.NewVendor)
	}
	if vendor == "" {
		return "", nil, invalid(ErrInvalidInput, "vendor name is required")
	}
	if len(in.Products) == 0 {
		return "", nil, invalid(ErrInvalidLine, "no products provided")
	}
	lines := make([]PurchaseLine, len(in.Products))
	for i, l := range in.Products {
		if strings.TrimSpace(l.ProductName) == "" {
			return "", nil, invalid(ErrInvalidLine, "line %d: missing productName", i+1)
		}
		if l.AutoPricing != "" {
			if _, ok := autoPricingProfiles[l.AutoPricing]; !ok {
				return "", nil, invalid(ErrInvalidLine, "line %d: unknown auto-pricing profile %q", i+1, l.AutoPricing)
			}
		}
		l.Total = l.Quantity.Mul(l.Rate)
		lines[i] = l
	}
	if in.CashPaid.Sign() < 0 || in.AccountPaid.Sign() < 0 {
		return "", nil, invalid(ErrInvalidInput, "payments cannot be negative")
	}
	return vendor, lines, nil
}

// applyPurchaseToCatalog sets cost, applies auto-pricing and upserts the
// vendor price for every line that names a catalog item exactly.
func applyPurchaseToCatalog(d *Document, vendor, date string, lines []PurchaseLine) {
	for _, l := range lines {
		i := d.itemIndexByName(l.ProductName)
		if i < 0 {
			log.Printf("warning: purchase from %s: %q not found in inventory", vendor, l.ProductName)
			continue
		}
		it := &d.Inventory[i]
		it.Cost = l.Rate
		if prices, ok := AutoPrice(l.AutoPricing, l.Rate); ok {
			it.SetPrices(prices)
		}
		upsertVendorPrice(it, vendor, l.Rate, date)
	}
}

func (d *Document) purchaseIndex(id int) int {
	for i := range d.Purchases {
		if d.Purchases[i].PurchaseID == id {
			return i
		}
	}
	return -1
}

func (d *Document) nextPurchaseID() int {
	max := 0
	for _, p := range d.Purchases {
		if p.PurchaseID > max {
			max = p.PurchaseID
		}
	}
	return max + 1
}

func (s *purchaseService) RecordPurchase(ctx context.Context, in PurchaseInput) (*Purchase, error) {
	vendor, lines, err := resolvePurchase(in)
	if err != nil {
		return nil, err
	}
	date := CanonicalDate(in.DateCreated)

	var out Purchase
	err = s.store.Update(ctx, func(d *Document) error {
		ensureVendor(d, vendor)
		applyPurchaseToCatalog(d, vendor, date, lines)
		p := Purchase{
			PurchaseID:    d.nextPurchaseID(),
			VendorName:    vendor,
			DateCreated:   date,
			InvoiceNumber: in.InvoiceNumber,
			CashPaid:      in.CashPaid,
			AccountPaid:   in.AccountPaid,
			Products:      lines,
		}
		p.settle()
		d.Purchases = append(d.Purchases, p)
		out = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	return &out, nil
}

func (s *purchaseService) UpdatePurchase(ctx context.Context, id int, in PurchaseInput) (*Purchase, error) {
	vendor, lines, err := resolvePurchase(in)
	if err != nil {
		return nil, err
	}
	date := CanonicalDate(in.DateCreated)

	var out Purchase
	err = s.store.Update(ctx, func(d *Document) error {
		i := d.purchaseIndex(id)
		if i < 0 {
			return notFound("purchase", id)
		}
		ensureVendor(d, vendor)
		applyPurchaseToCatalog(d, vendor, date, lines)
		p := &d.Purchases[i]
		p.VendorName = vendor
		p.DateCreated = date
		p.InvoiceNumber = in.InvoiceNumber
		p.CashPaid = in.CashPaid
		p.AccountPaid = in.AccountPaid
		p.Products = lines
		p.settle()
		out = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(d *Document) error {
		i := d.purchaseIndex(id)
		if i < 0 {
			return notFound("purchase", id)
		}
		d.Purchases = append(d.Purchases[:i], d.Purchases[i+1:]...)
		return nil
	})
}

func (s *purchaseService) GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	var out Purchase
	err := s.store.View(func(d *Document) error {
		i := d.purchaseIndex(id)
		if i < 0 {
			return notFound("purchase", id)
		}
		out = d.Purchases[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPurchases returns purchases newest first.
func (s *purchaseService) ListPurchases(ctx context.Context) ([]Purchase, error) {
	var out []Purchase
	_ = s.store.View(func(d *Document) error {
		out = append([]Purchase(nil), d.Purchases...)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := ParseDate(out[i].DateCreated)
		tj, _ := ParseDate(out[j].DateCreated)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].PurchaseID > out[j].PurchaseID
	})
	return out, nil
}

// PurchaseOutstanding sums the unpaid account balance across purchases.
func PurchaseOutstanding(purchases []Purchase) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		if !p.Paid {
			total = total.Add(p.AccountBalance)
		}
	}
	return total
}
