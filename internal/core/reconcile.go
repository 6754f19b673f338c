package core

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// ── Inventory reconciliation ─────────────────────────────────────────────────

// ReconciliationWarning reports an invoice line that matched no catalog item.
// The surrounding operation still completes.
type ReconciliationWarning struct {
	Op          string `json:"op"` // "deduct" or "restore"
	ProductName string `json:"productName"`
	ItemID      *int   `json:"itemId,omitempty"`
}

func (w ReconciliationWarning) String() string {
	if w.ItemID != nil {
		return fmt.Sprintf("%s: item %d (%q) not found in inventory", w.Op, *w.ItemID, w.ProductName)
	}
	return fmt.Sprintf("%s: %q not found in inventory", w.Op, w.ProductName)
}

// matchLine finds the catalog item for an invoice line: by ItemID when the
// line carries one, else by exact name.
func (d *Document) matchLine(line InvoiceLine) int {
	if line.ItemID != nil {
		if i := d.itemIndex(*line.ItemID); i >= 0 {
			return i
		}
	}
	return d.itemIndexByName(line.ProductName)
}

// DeductInventory lowers stock for each line, flooring at zero.
func DeductInventory(d *Document, lines []InvoiceLine) []ReconciliationWarning {
	return reconcile(d, lines, "deduct", func(have, qty decimal.Decimal) decimal.Decimal {
		return decimal.Max(decimal.Zero, have.Sub(qty))
	})
}

// RestoreInventory adds each line's quantity back with no cap. A negative
// line quantity subtracts, mirroring DeductInventory.
func RestoreInventory(d *Document, lines []InvoiceLine) []ReconciliationWarning {
	return reconcile(d, lines, "restore", func(have, qty decimal.Decimal) decimal.Decimal {
		return have.Add(qty)
	})
}

func reconcile(d *Document, lines []InvoiceLine, op string, apply func(have, qty decimal.Decimal) decimal.Decimal) []ReconciliationWarning {
	var warnings []ReconciliationWarning
	for _, line := range lines {
		i := d.matchLine(line)
		if i < 0 {
			warnings = append(warnings, ReconciliationWarning{Op: op, ProductName: line.ProductName, ItemID: line.ItemID})
			continue
		}
		d.Inventory[i].Quantity = apply(d.Inventory[i].Quantity, line.Quantity)
	}
	return warnings
}

func logWarnings(context string, warnings []ReconciliationWarning) {
	for _, w := range warnings {
		log.Printf("warning: %s: %s", context, w)
	}
}
