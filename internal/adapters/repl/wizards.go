package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"order-portal/internal/app"
	"order-portal/internal/core"
)

func printInvoice(ci *core.CustomerInvoice) {
	inv := ci.Invoice
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  INVOICE %s   %s   %s\n", inv.InvoiceNumber, inv.DateCreated, inv.CompanyName)
	fmt.Println(strings.Repeat("=", 70))
	for _, l := range inv.Products {
		fmt.Printf("  %-36.36s %8s x %9s = %10s\n", l.ProductName, l.Quantity.String(), l.Rate.StringFixed(2), l.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("  Subtotal %s   Tax %s   Total %s\n", inv.Subtotal.StringFixed(2), inv.SalesTax.StringFixed(2), inv.TotalAmount.StringFixed(2))
	fmt.Printf("  Cash %s   Account %s   Balance %s   Paid %t\n",
		inv.CashPayment.StringFixed(2), inv.AccountPayment.StringFixed(2), inv.TotalBalance.StringFixed(2), inv.Paid)
	if inv.Notes != "" {
		fmt.Printf("  Notes: %s\n", inv.Notes)
	}
}

func prompt(reader *bufio.Reader, label string) (string, bool) {
	fmt.Print(label)
	raw, err := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if err != nil && raw == "" {
		return "", false
	}
	if strings.EqualFold(raw, "cancel") {
		return "", false
	}
	return raw, true
}

// handlePayment shows the invoice, asks for cash and account amounts and
// records them after confirmation. Amounts are added to what was already paid.
func handlePayment(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, userID int, number string) error {
	ci, err := svc.GetInvoice(ctx, userID, number)
	if err != nil {
		return err
	}
	printInvoice(ci)
	fmt.Println("Enter amounts to add. Blank means 0, 'cancel' to abort.")

	cash, ok := prompt(reader, "  Cash: ")
	if !ok {
		fmt.Println("Payment cancelled.")
		return nil
	}
	account, ok := prompt(reader, "  Account: ")
	if !ok {
		fmt.Println("Payment cancelled.")
		return nil
	}
	choice, ok := prompt(reader, "Record this payment? (y/n): ")
	if !ok || (strings.ToLower(choice) != "y" && strings.ToLower(choice) != "yes") {
		fmt.Println("Payment cancelled.")
		return nil
	}

	inv, err := svc.RecordPayment(ctx, userID, number, app.PaymentRequest{
		Cash:    app.Amount(cash),
		Account: app.Amount(account),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Payment recorded. Balance %s, paid: %t\n", inv.TotalBalance.StringFixed(2), inv.Paid)
	return nil
}
