package core

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// VendorService manages the vendor list and the per-item vendor prices.
type VendorService interface {
	ListVendors(ctx context.Context) ([]Vendor, error)
	CreateVendor(ctx context.Context, in VendorInput) (*Vendor, error)
	UpdateVendor(ctx context.Context, id int, in VendorInput) (*Vendor, error)
	DeleteVendor(ctx context.Context, id int) error
	SetItemVendorPrice(ctx context.Context, itemID int, vendor string, price decimal.Decimal, lastPurchased string) (*CatalogItem, error)
	DeleteItemVendor(ctx context.Context, itemID int, vendor string) error
}

type vendorService struct {
	store *Store
}

// NewVendorService constructs a VendorService over store.
func NewVendorService(store *Store) VendorService {
	return &vendorService{store: store}
}

func (d *Document) vendorIndexByName(name string) int {
	for i := range d.Vendors {
		if strings.EqualFold(d.Vendors[i].Company, name) {
			return i
		}
	}
	return -1
}

func (d *Document) vendorIndex(id int) int {
	for i := range d.Vendors {
		if d.Vendors[i].ID == id {
			return i
		}
	}
	return -1
}

// ensureVendor appends name to the vendor list unless a vendor with that
// name (ignoring case) already exists.
func ensureVendor(d *Document, name string) {
	if d.vendorIndexByName(name) >= 0 {
		return
	}
	max := 0
	for _, v := range d.Vendors {
		if v.ID > max {
			max = v.ID
		}
	}
	d.Vendors = append(d.Vendors, Vendor{ID: max + 1, Company: name})
}

// upsertVendorPrice records price (and the purchase date, when given) for
// vendor on item, matching the vendor name case-insensitively.
func upsertVendorPrice(it *CatalogItem, vendor string, price decimal.Decimal, date string) {
	for i := range it.Vendors {
		if strings.EqualFold(it.Vendors[i].Name, vendor) {
			it.Vendors[i].Price = price
			if date != "" {
				it.Vendors[i].LastPurchased = date
			}
			return
		}
	}
	it.Vendors = append(it.Vendors, VendorPrice{Name: vendor, Price: price, LastPurchased: date})
}

func (s *vendorService) ListVendors(ctx context.Context) ([]Vendor, error) {
	var out []Vendor
	_ = s.store.View(func(d *Document) error {
		out = append([]Vendor(nil), d.Vendors...)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Company) < strings.ToLower(out[j].Company)
	})
	return out, nil
}

func (s *vendorService) CreateVendor(ctx context.Context, in VendorInput) (*Vendor, error) {
	name := strings.TrimSpace(in.Company)
	if name == "" {
		return nil, invalid(ErrInvalidInput, "vendor company is required")
	}
	var out Vendor
	err := s.store.Update(ctx, func(d *Document) error {
		if d.vendorIndexByName(name) >= 0 {
			return invalid(ErrDuplicate, "vendor %q", name)
		}
		ensureVendor(d, name)
		v := &d.Vendors[len(d.Vendors)-1]
		applyVendorInput(v, in)
		out = *v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func applyVendorInput(v *Vendor, in VendorInput) {
	v.Company = strings.TrimSpace(in.Company)
	v.ContactPerson = in.ContactPerson
	v.Email = in.Email
	v.Phone = in.Phone
	v.Address = in.Address
}

func (s *vendorService) UpdateVendor(ctx context.Context, id int, in VendorInput) (*Vendor, error) {
	name := strings.TrimSpace(in.Company)
	if name == "" {
		return nil, invalid(ErrInvalidInput, "vendor company is required")
	}
	var out Vendor
	err := s.store.Update(ctx, func(d *Document) error {
		i := d.vendorIndex(id)
		if i < 0 {
			return notFound("vendor", id)
		}
		if j := d.vendorIndexByName(name); j >= 0 && j != i {
			return invalid(ErrDuplicate, "vendor %q", name)
		}
		applyVendorInput(&d.Vendors[i], in)
		out = d.Vendors[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(d *Document) error {
		i := d.vendorIndex(id)
		if i < 0 {
			return notFound("vendor", id)
		}
		d.Vendors = append(d.Vendors[:i], d.Vendors[i+1:]...)
		return nil
	})
}

func (s *vendorService) SetItemVendorPrice(ctx context.Context, itemID int, vendor string, price decimal.Decimal, lastPurchased string) (*CatalogItem, error) {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return nil, invalid(ErrInvalidInput, "vendor name is required")
	}
	if price.Sign() < 0 {
		return nil, invalid(ErrInvalidInput, "vendor price cannot be negative")
	}
	var out CatalogItem
	err := s.store.Update(ctx, func(d *Document) error {
		i := d.itemIndex(itemID)
		if i < 0 {
			return notFound("item", itemID)
		}
		upsertVendorPrice(&d.Inventory[i], vendor, price, CanonicalDate(lastPurchased))
		out = d.Inventory[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *vendorService) DeleteItemVendor(ctx context.Context, itemID int, vendor string) error {
	return s.store.Update(ctx, func(d *Document) error {
		i := d.itemIndex(itemID)
		if i < 0 {
			return notFound("item", itemID)
		}
		it := &d.Inventory[i]
		for j := range it.Vendors {
			if strings.EqualFold(it.Vendors[j].Name, vendor) {
				it.Vendors = append(it.Vendors[:j], it.Vendors[j+1:]...)
				return nil
			}
		}
		return notFound("item vendor", vendor)
	})
}
