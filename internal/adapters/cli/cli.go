package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"order-portal/internal/app"
)

// Usage lists the one-shot commands. The REPL accepts the same commands with a leading slash.
const Usage = `Commands:
  quarters                          quarters that have invoices, latest first
  tax <quarter>                     sales tax report, e.g. tax 2025-Q1
  monthly                           trailing twelve months of sales
  range <from> <to>                 invoiced total between two dates (YYYY-MM-DD)
  products <months>                 sales by product against the previous period
  unpaid                            invoices with a balance, newest first
  customers                         customer accounts
  inventory                         catalog in display order
  export tax <quarter> <file>       sales tax report as .xlsx
  export products <months> <file>   sales by product as .xlsx
  export prices <file>              price list as .xlsx
  schema                            JSON Schema of the stored document
  ask "<question>"                  ask the sales analyst`

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	if err := Execute(ctx, svc, os.Stdout, args); err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

// Execute runs one command, writing its output to w.
func Execute(ctx context.Context, svc app.ApplicationService, w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", Usage)
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quarters", "q":
		qs, err := svc.Quarters(ctx)
		if err != nil {
			return err
		}
		printQuarters(w, qs)

	case "tax":
		if len(args) < 1 {
			return fmt.Errorf("usage: tax <quarter>")
		}
		report, err := svc.SalesTax(ctx, strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		printSalesTax(w, report)

	case "monthly":
		report, err := svc.MonthlySales(ctx)
		if err != nil {
			return err
		}
		printMonthly(w, report)

	case "range":
		if len(args) < 2 {
			return fmt.Errorf("usage: range <from> <to>")
		}
		report, err := svc.SalesRange(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s to %s: %d invoices, $%s\n", report.From, report.To, report.Invoices, report.Total.StringFixed(2))

	case "products":
		months, err := monthsArg(args, 0)
		if err != nil {
			return err
		}
		report, err := svc.SalesByProduct(ctx, months)
		if err != nil {
			return err
		}
		printProductSales(w, report)

	case "unpaid":
		result, err := svc.ListUnpaid(ctx)
		if err != nil {
			return err
		}
		printInvoices(w, "UNPAID INVOICES", result)

	case "customers":
		users, err := svc.ListCustomers(ctx)
		if err != nil {
			return err
		}
		printCustomers(w, users)

	case "inventory", "inv":
		items, err := svc.ListItems(ctx)
		if err != nil {
			return err
		}
		printInventory(w, items)

	case "export":
		return export(ctx, svc, w, args)

	case "schema":
		b, err := svc.DocumentSchema(ctx)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err

	case "ask":
		if len(args) < 1 {
			return fmt.Errorf(`usage: ask "<question>"`)
		}
		result, err := svc.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printAnswer(w, result)

	case "help":
		fmt.Fprintln(w, Usage)

	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, Usage)
	}
	return nil
}

func monthsArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("usage: products <months>")
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("months must be a whole number, got %q", args[i])
	}
	return n, nil
}

func export(ctx context.Context, svc app.ApplicationService, w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: export tax <quarter> <file> | export products <months> <file> | export prices <file>")
	}
	var (
		path   string
		render func(io.Writer) error
	)
	switch args[0] {
	case "tax":
		if len(args) < 3 {
			return fmt.Errorf("usage: export tax <quarter> <file>")
		}
		quarter := strings.ToUpper(args[1])
		path = args[2]
		render = func(out io.Writer) error { return svc.ExportSalesTax(ctx, quarter, out) }
	case "products":
		if len(args) < 3 {
			return fmt.Errorf("usage: export products <months> <file>")
		}
		months, err := monthsArg(args, 1)
		if err != nil {
			return err
		}
		path = args[2]
		render = func(out io.Writer) error { return svc.ExportSalesByProduct(ctx, months, out) }
	case "prices":
		path = args[1]
		render = func(out io.Writer) error { return svc.ExportPriceList(ctx, out) }
	default:
		return fmt.Errorf("unknown export %q", args[0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
