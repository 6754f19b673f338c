package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Document is the whole persisted state of the portal. It is read and
// written as a unit; there are no partial writes.
type Document struct {
	Users         []User         `json:"users"`
	Inventory     []CatalogItem  `json:"inventory"`
	Purchases     []Purchase     `json:"purchases"`
	Vendors       []Vendor       `json:"vendors"`
	Returns       []Return       `json:"returns"`
	ItemsCategory []CategoryRank `json:"ItemsCategory"`
}

// CategoryRank orders catalog categories for display.
type CategoryRank struct {
	Category string  `json:"Category"`
	Rank     float64 `json:"Rank"`
}

// Return is a customer return logged by an administrator.
type Return struct {
	ReturnNumber   string   `json:"returnNumber"` // zero-padded, e.g. "007"
	Date           string   `json:"date"`         // YYYY-MM-DD
	Classification string   `json:"classification"`
	Damaged        bool     `json:"damaged"`
	TrackingNumber string   `json:"trackingNumber"`
	Processed      bool     `json:"processed"`
	Images         []string `json:"images"`
}

// PriceLevel selects which of the three catalog price fields applies to a
// customer. Older documents stored it as a string, so both forms decode.
type PriceLevel int

const DefaultPriceLevel PriceLevel = 3

func (l *PriceLevel) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*l = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid price level %q: %w", s, err)
	}
	*l = PriceLevel(n)
	return nil
}

// Valid reports whether l names one of the three price fields.
func (l PriceLevel) Valid() bool {
	return l >= 1 && l <= 3
}

// Normalize fills nil collections and orders category ranks so that two
// serializations of the same state are byte-identical.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	for i := range d.Users {
		if d.Users[i].Invoices == nil {
			d.Users[i].Invoices = []Invoice{}
		}
	}
	if d.Inventory == nil {
		d.Inventory = []CatalogItem{}
	}
	for i := range d.Inventory {
		if d.Inventory[i].Vendors == nil {
			d.Inventory[i].Vendors = []VendorPrice{}
		}
	}
	if d.Purchases == nil {
		d.Purchases = []Purchase{}
	}
	if d.Vendors == nil {
		d.Vendors = []Vendor{}
	}
	next := 0
	for _, v := range d.Vendors {
		if v.ID > next {
			next = v.ID
		}
	}
	for i := range d.Vendors {
		if d.Vendors[i].ID == 0 {
			next++
			d.Vendors[i].ID = next
		}
	}
	if d.Returns == nil {
		d.Returns = []Return{}
	}
	if d.ItemsCategory == nil {
		d.ItemsCategory = []CategoryRank{}
	}
	sort.SliceStable(d.ItemsCategory, func(i, j int) bool {
		a, b := d.ItemsCategory[i], d.ItemsCategory[j]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.Category < b.Category
	})
}

// Clone returns a deep copy of d.
func (d *Document) Clone() (*Document, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	return &out, nil
}

// Encode serializes d with a stable two-space layout. It does not normalize:
// published documents are shared with readers and must stay untouched.
func (d *Document) Encode() ([]byte, error) {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return append(raw, '\n'), nil
}

// DecodeDocument parses a persisted document. Empty input yields an empty document.
func DecodeDocument(raw []byte) (*Document, error) {
	var d Document
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
	}
	d.Normalize()
	return &d, nil
}

// ── Lookups ──────────────────────────────────────────────────────────────────

func (d *Document) userIndex(id int) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) itemIndex(id int) int {
	for i := range d.Inventory {
		if d.Inventory[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) itemIndexByName(name string) int {
	for i := range d.Inventory {
		if d.Inventory[i].ItemName == name {
			return i
		}
	}
	return -1
}

func (d *Document) nextUserID() int {
	max := 0
	for _, u := range d.Users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

func (d *Document) nextItemID() int {
	max := 0
	for _, it := range d.Inventory {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}
