package core

import "github.com/shopspring/decimal"

// SalesTaxRate is the fixed 6.625% sales tax.
var SalesTaxRate = decimal.RequireFromString("0.06625")

// Cart is a customer's session cart. Lines are keyed by item ID.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add puts qty of item in the cart at the user's resolved price.
// Re-adding an item increments its quantity and keeps the original price.
func (c *Cart) Add(item CatalogItem, u User, qty decimal.Decimal) error {
	if qty.Sign() <= 0 {
		return invalid(ErrInvalidInput, "quantity must be positive, got %s", qty)
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity = c.Lines[i].Quantity.Add(qty)
			return nil
		}
	}
	price, err := PriceForUser(item, u)
	if err != nil {
		return err
	}
	c.Lines = append(c.Lines, CartLine{
		ItemID:      item.ID,
		ItemName:    item.ItemName,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		Price:       price,
		Quantity:    qty,
		TaxableItem: item.Taxable,
	})
	return nil
}

// SetQuantity changes a line's quantity; zero or less removes the line.
// It reports whether the item was in the cart.
func (c *Cart) SetQuantity(itemID int, qty decimal.Decimal) bool {
	for i := range c.Lines {
		if c.Lines[i].ItemID != itemID {
			continue
		}
		if qty.Sign() <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = qty
		}
		return true
	}
	return false
}

// Remove drops an item from the cart.
func (c *Cart) Remove(itemID int) bool {
	return c.SetQuantity(itemID, decimal.Zero)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Lines) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// CartTotals folds lines into subtotal, tax and total. Tax is computed per
// line and only when both the customer and the line are taxable. Values keep
// full precision; round only for display.
func CartTotals(lines []CartLine, customerTaxable bool) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		lt := l.LineTotal()
		subtotal = subtotal.Add(lt)
		if customerTaxable && l.TaxableItem {
			tax = tax.Add(lt.Mul(SalesTaxRate))
		}
	}
	return Totals{Subtotal: subtotal, SalesTax: tax, TotalAmount: subtotal.Add(tax)}
}
