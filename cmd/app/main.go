package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"order-portal/internal/adapters/cli"
	"order-portal/internal/adapters/repl"
	"order-portal/internal/ai"
	"order-portal/internal/app"
	"order-portal/internal/core"
	"order-portal/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	backend, closeBackend, err := db.OpenBackend(ctx)
	if err != nil {
		log.Fatalf("store backend: %v", err)
	}
	defer closeBackend()

	store, err := core.OpenStore(ctx, backend)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	var analyst ai.AnalystService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		analyst = ai.NewAnalyst(apiKey)
	}

	// No notifier: the console never checks out a cart.
	svc := app.NewAppService(store, nil, analyst)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
