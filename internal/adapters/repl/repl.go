package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"order-portal/internal/adapters/cli"
	"order-portal/internal/app"
)

// Run starts the interactive admin console.
// Slash commands run the same reports as the one-shot CLI; anything else
// is sent to the sales analyst as a question.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Order Portal admin console")
	fmt.Println("Ask a question about sales, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := splitArgs(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "invoice":
			if len(args) < 2 {
				fmt.Println("Usage: /invoice <customer-id> <invoice-number>")
				return nil
			}
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("customer id must be a number, got %q", args[0])
			}
			ci, err := svc.GetInvoice(ctx, userID, args[1])
			if err != nil {
				return err
			}
			printInvoice(ci)

		case "pay":
			if len(args) < 2 {
				fmt.Println("Usage: /pay <customer-id> <invoice-number>")
				return nil
			}
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("customer id must be a number, got %q", args[0])
			}
			return handlePayment(ctx, reader, svc, userID, args[1])

		case "help", "h":
			fmt.Println(cli.Usage)
			fmt.Println("  invoice <customer-id> <number>    show one invoice")
			fmt.Println("  pay <customer-id> <number>        record a payment interactively")
			fmt.Println("  exit                              leave the console")

		case "exit", "quit":
			return errExit

		default:
			return cli.Execute(ctx, svc, os.Stdout, tokens)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		// Slash prefix → deterministic command dispatcher, no AI invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Goodbye!")
					return
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		fmt.Println("[AI] Thinking...")
		result, err := svc.Ask(ctx, input)
		if errors.Is(err, app.ErrAssistantUnavailable) {
			fmt.Println("The analyst needs OPENAI_API_KEY. Use /help for report commands.")
			continue
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Printf("\n[AI]: %s\n", result.Answer.Answer)
		for _, h := range result.Answer.Highlights {
			fmt.Printf("  - %s\n", h)
		}
		if result.Answer.Confidence < 0.5 {
			fmt.Println("WARNING: Low confidence answer.")
		}
	}
}

// splitArgs splits on whitespace but keeps double-quoted phrases together,
// so /ask "which month was best?" passes one argument.
func splitArgs(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			quote = !quote
			if !quote {
				flush()
			}
		case !quote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
