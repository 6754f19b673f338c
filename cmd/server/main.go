package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	webAdapter "order-portal/internal/adapters/web"
	"order-portal/internal/ai"
	"order-portal/internal/app"
	"order-portal/internal/core"
	"order-portal/internal/db"
	"order-portal/internal/notify"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	backend, closeBackend, err := db.OpenBackend(ctx)
	if err != nil {
		log.Fatalf("store backend: %v", err)
	}
	defer closeBackend()

	store, err := core.OpenStore(ctx, backend)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		if _, err := core.NewUserService(store).SeedAdmin(ctx, os.Getenv("ADMIN_EMAIL"), password); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	} else {
		log.Println("Warning: ADMIN_PASSWORD is not set; no admin account is seeded")
	}

	interval := time.Second
	if raw := os.Getenv("AUTOSAVE_INTERVAL"); raw != "" {
		if interval, err = time.ParseDuration(raw); err != nil || interval <= 0 {
			log.Fatalf("AUTOSAVE_INTERVAL %q is not a positive duration", raw)
		}
	}
	autosaveDone := make(chan struct{})
	go func() {
		defer close(autosaveDone)
		store.RunAutosave(ctx, interval)
	}()

	mailer := newMailer()
	queue := newNotifyQueue(mailer)
	go queue.Run(ctx)
	startBackups(ctx, store, mailer)

	var analyst ai.AnalystService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		analyst = ai.NewAnalyst(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set; the sales assistant is disabled")
	}

	svc := app.NewAppService(store, queue, analyst)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           webAdapter.NewHandler(ctx, svc, os.Getenv("ALLOWED_ORIGINS"), jwtSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("server starting on :%s", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}

	// RunAutosave flushes once more when ctx is cancelled.
	<-autosaveDone
	log.Println("server stopped")
}

// newMailer returns nil when SMTP_HOST is unset.
func newMailer() *notify.Mailer {
	cfg, ok := notify.MailConfigFromEnv()
	if !ok {
		log.Println("Warning: SMTP_HOST is not set; invoices are rendered but not emailed")
		return nil
	}
	return notify.NewMailer(cfg)
}

// newNotifyQueue renders invoice PDFs into INVOICE_DIR and, when a mailer
// is configured, emails them to the customer.
func newNotifyQueue(mailer *notify.Mailer) *notify.Queue {
	dir := os.Getenv("INVOICE_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	sellerName := os.Getenv("SELLER_NAME")
	if sellerName == "" {
		sellerName = "Order Portal"
	}
	var sellerLines []string
	if addr := os.Getenv("SELLER_ADDRESS"); addr != "" {
		sellerLines = strings.Split(addr, "|")
	}
	renderer := notify.NewPDFRenderer(dir, sellerName, sellerLines...)

	var sender notify.Sender
	if mailer != nil {
		sender = mailer
	}
	return notify.NewQueue(renderer, sender, 64)
}

// startBackups emails the document to BACKUP_EMAIL every BACKUP_INTERVAL (default 24h).
func startBackups(ctx context.Context, store *core.Store, mailer *notify.Mailer) {
	to := os.Getenv("BACKUP_EMAIL")
	if to == "" {
		return
	}
	if mailer == nil {
		log.Println("Warning: BACKUP_EMAIL is set but SMTP_HOST is not; backups are disabled")
		return
	}
	interval := 24 * time.Hour
	if raw := os.Getenv("BACKUP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Fatalf("BACKUP_INTERVAL %q is not a positive duration", raw)
		}
		interval = d
	}
	log.Printf("backup: emailing the document to %s every %s", to, interval)
	go notify.RunBackups(ctx, store, mailer, to, interval)
}
