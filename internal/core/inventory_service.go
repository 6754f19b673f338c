package core

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PricedItem is a catalog item with the price a given customer pays.
type PricedItem struct {
	CatalogItem
	Price decimal.Decimal `json:"price"`
}

// InventoryService manages the catalog: items, display order and category ranks.
type InventoryService interface {
	ListItems(ctx context.Context) ([]CatalogItem, error)
	GetItem(ctx context.Context, id int) (*CatalogItem, error)
	CreateItem(ctx context.Context, in ItemInput) (*CatalogItem, error)
	UpdateItem(ctx context.Context, id int, in ItemInput) (*CatalogItem, error)
	DeleteItem(ctx context.Context, id int) error
	DuplicateItem(ctx context.Context, id int) (*CatalogItem, error)
	SetItemRank(ctx context.Context, id int, rank float64) error
	CategoryRanks(ctx context.Context) ([]CategoryRank, error)
	SetCategoryRanks(ctx context.Context, ranks []CategoryRank) error
	// PriceList resolves every item's price for the user. Items without a
	// price at the user's level are left out and logged.
	PriceList(ctx context.Context, userID int) ([]PricedItem, error)
}

type inventoryService struct {
	store *Store
}

// NewInventoryService constructs an InventoryService over store.
func NewInventoryService(store *Store) InventoryService {
	return &inventoryService{store: store}
}

// SortCatalog orders items by category rank, then item rank, then name.
// Categories without a rank come after ranked ones, alphabetically.
func SortCatalog(items []CatalogItem, ranks []CategoryRank) {
	rankOf := make(map[string]float64, len(ranks))
	for _, r := range ranks {
		rankOf[r.Category] = r.Rank
	}
	catRank := func(c string) float64 {
		if r, ok := rankOf[c]; ok {
			return r
		}
		return math.Inf(1)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := catRank(a.Category), catRank(b.Category); ra != rb {
			return ra < rb
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.ItemName < b.ItemName
	})
}

func (s *inventoryService) ListItems(ctx context.Context) ([]CatalogItem, error) {
	var items []CatalogItem
	var ranks []CategoryRank
	_ = s.store.View(func(d *Document) error {
		items = append([]CatalogItem(nil), d.Inventory...)
		ranks = d.ItemsCategory
		return nil
	})
	SortCatalog(items, ranks)
	return items, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id int) (*CatalogItem, error) {
	var out CatalogItem
	err := s.store.View(func(d *Document) error {
		i := d.itemIndex(id)
		if i < 0 {
			return notFound("item", id)
		}
		out = d.Inventory[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// validateItem resolves the "Other" category and checks the numeric fields.
func validateItem(in ItemInput) (ItemInput, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	if in.ItemName == "" {
		return in, invalid(ErrInvalidInput, "item name is required")
	}
	if in.Category == CategoryOther && strings.TrimSpace(in.OtherCategory) != "" {
		in.Category = strings.TrimSpace(in.OtherCategory)
	}
	if strings.TrimSpace(in.Category) == "" {
		return in, invalid(ErrInvalidInput, "item category is required")
	}
	if in.Quantity.Sign() < 0 {
		return in, invalid(ErrInvalidInput, "quantity cannot be negative")
	}
	if in.Cost.Sign() < 0 {
		return in, invalid(ErrInvalidInput, "cost cannot be negative")
	}
	for i, p := range []decimal.NullDecimal{in.PriceLevel1, in.PriceLevel2, in.PriceLevel3} {
		if p.Valid && p.Decimal.Sign() < 0 {
			return in, invalid(ErrInvalidInput, "priceLevel%d cannot be negative", i+1)
		}
	}
	return in, nil
}

func applyItemInput(it *CatalogItem, in ItemInput) {
	it.ItemName = in.ItemName
	it.Category = in.Category
	it.Cost = in.Cost
	it.Quantity = in.Quantity
	it.PriceLevel1 = in.PriceLevel1
	it.PriceLevel2 = in.PriceLevel2
	it.PriceLevel3 = in.PriceLevel3
	it.Rank = in.Rank
	it.Taxable = in.Taxable
	if in.ImageURL != "" {
		it.ImageURL = in.ImageURL
	}
}

func (s *inventoryService) CreateItem(ctx context.Context, in ItemInput) (*CatalogItem, error) {
	in, err := validateItem(in)
	if err != nil {
		return nil, err
	}
	var out CatalogItem
	err = s.store.Update(ctx, func(d *Document) error {
		it := CatalogItem{ID: d.nextItemID(), Vendors: []VendorPrice{}}
		applyItemInput(&it, in)
		d.Inventory = append(d.Inventory, it)
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id int, in ItemInput) (*CatalogItem, error) {
	in, err := validateItem(in)
	if err != nil {
		return nil, err
	}
	var out CatalogItem
	err = s.store.Update(ctx, func(d *Document) error {
		i := d.itemIndex(id)
		if i < 0 {
			return notFound("item", id)
		}
		applyItemInput(&d.Inventory[i], in)
		out = d.Inventory[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id int) error {
	return s.store.Update(ctx, func(d *Document) error {
		i := d.itemIndex(id)
		if i < 0 {
			return notFound("item", id)
		}
		d.Inventory = append(d.Inventory[:i], d.Inventory[i+1:]...)
		return nil
	})
}

// DuplicateItem copies an item under a new ID with " (Copy)" appended to its name.
func (s *inventoryService) DuplicateItem(ctx context.Context, id int) (*CatalogItem, error) {
	var out CatalogItem
	err := s.store.Update(ctx, func(d *Document) error {
		i := d.itemIndex(id)
		if i < 0 {
			return notFound("item", id)
		}
		dup := d.Inventory[i]
		dup.ID = d.nextItemID()
		dup.ItemName += " (Copy)"
		dup.Vendors = append([]VendorPrice{}, dup.Vendors...)
		d.Inventory = append(d.Inventory, dup)
		out = dup
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *inventoryService) SetItemRank(ctx context.Context, id int, rank float64) error {
	if math.IsNaN(rank) || math.IsInf(rank, 0) {
		return invalid(ErrInvalidInput, "rank must be a finite number")
	}
	return s.store.Update(ctx, func(d *Document) error {
		i := d.itemIndex(id)
		if i < 0 {
			return notFound("item", id)
		}
		d.Inventory[i].Rank = rank
		return nil
	})
}

// CategoryRanks returns one rank per category in use; categories never
// ranked are appended after the ranked ones.
func (s *inventoryService) CategoryRanks(ctx context.Context) ([]CategoryRank, error) {
	var out []CategoryRank
	_ = s.store.View(func(d *Document) error {
		out = append([]CategoryRank(nil), d.ItemsCategory...)
		seen := make(map[string]bool, len(out))
		max := 0.0
		for _, r := range out {
			seen[r.Category] = true
			if r.Rank > max {
				max = r.Rank
			}
		}
		var missing []string
		for _, it := range d.Inventory {
			if !seen[it.Category] {
				seen[it.Category] = true
				missing = append(missing, it.Category)
			}
		}
		sort.Strings(missing)
		for _, c := range missing {
			max++
			out = append(out, CategoryRank{Category: c, Rank: max})
		}
		return nil
	})
	return out, nil
}

func (s *inventoryService) SetCategoryRanks(ctx context.Context, ranks []CategoryRank) error {
	seen := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			return invalid(ErrInvalidInput, "category name is required")
		}
		if seen[name] {
			return invalid(ErrDuplicate, "category %q listed twice", name)
		}
		if math.IsNaN(r.Rank) || math.IsInf(r.Rank, 0) {
			return invalid(ErrInvalidInput, "rank for %q must be a finite number", name)
		}
		seen[name] = true
	}
	return s.store.Update(ctx, func(d *Document) error {
		d.ItemsCategory = append([]CategoryRank(nil), ranks...)
		return nil
	})
}

func (s *inventoryService) PriceList(ctx context.Context, userID int) ([]PricedItem, error) {
	var (
		user  User
		items []CatalogItem
		ranks []CategoryRank
	)
	err := s.store.View(func(d *Document) error {
		ui := d.userIndex(userID)
		if ui < 0 {
			return notFound("customer", userID)
		}
		user = d.Users[ui]
		items = append([]CatalogItem(nil), d.Inventory...)
		ranks = d.ItemsCategory
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortCatalog(items, ranks)

	out := make([]PricedItem, 0, len(items))
	for _, it := range items {
		price, err := PriceForUser(it, user)
		if err != nil {
			log.Printf("warning: price list for %s: %v", user.Email, err)
			continue
		}
		out = append(out, PricedItem{CatalogItem: it, Price: price})
	}
	return out, nil
}
