package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"order-portal/internal/core"
)

// Renderer produces a document for an invoice and returns its file path.
type Renderer interface {
	Render(ctx context.Context, inv core.Invoice) (string, error)
}

// Sender delivers a rendered invoice to a customer.
type Sender interface {
	Send(ctx context.Context, customer core.User, inv core.Invoice, pdfPath string) error
}

// Task is one invoice waiting for delivery.
type Task struct {
	Invoice  core.Invoice
	Customer core.User
}

const (
	defaultLegTimeout  = 60 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
)

// Queue is the outbound task queue for invoice documents and email. It
// implements core.Notifier: enqueueing never blocks, and delivery failures
// are retried, then logged and dropped.
type Queue struct {
	tasks       chan Task
	renderer    Renderer
	sender      Sender
	legTimeout  time.Duration
	maxAttempts int
	backoff     time.Duration
}

// NewQueue creates a queue holding up to size pending tasks. sender may be
// nil, in which case invoices are only rendered.
func NewQueue(renderer Renderer, sender Sender, size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		tasks:       make(chan Task, size),
		renderer:    renderer,
		sender:      sender,
		legTimeout:  defaultLegTimeout,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// WithRetry overrides the per-leg timeout, attempt count and backoff.
func (q *Queue) WithRetry(legTimeout time.Duration, attempts int, backoff time.Duration) *Queue {
	q.legTimeout = legTimeout
	q.maxAttempts = attempts
	q.backoff = backoff
	return q
}

// InvoiceCreated enqueues delivery of inv. A full queue drops the task with a log line.
func (q *Queue) InvoiceCreated(inv core.Invoice, customer core.User) {
	select {
	case q.tasks <- Task{Invoice: inv, Customer: customer}:
	default:
		log.Printf("notify: queue full, dropping delivery of invoice %s", inv.InvoiceNumber)
	}
}

// Run processes tasks until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-q.tasks:
			q.deliver(ctx, t)
		}
	}
}

// deliver runs render then send, retrying the failed leg with backoff.
func (q *Queue) deliver(ctx context.Context, t Task) {
	number := t.Invoice.InvoiceNumber
	var pdfPath string
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		err := q.attempt(ctx, t, &pdfPath)
		if err == nil {
			log.Printf("notify: invoice %s delivered", number)
			return
		}
		log.Printf("notify: invoice %s attempt %d/%d: %v", number, attempt, q.maxAttempts, err)
		if attempt == q.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(q.backoff * time.Duration(attempt)):
		}
	}
	log.Printf("notify: giving up on invoice %s", number)
}

func (q *Queue) attempt(ctx context.Context, t Task, pdfPath *string) error {
	if *pdfPath == "" {
		rctx, cancel := context.WithTimeout(ctx, q.legTimeout)
		path, err := q.renderer.Render(rctx, t.Invoice)
		cancel()
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		*pdfPath = path
	}
	if q.sender == nil {
		return nil
	}
	sctx, cancel := context.WithTimeout(ctx, q.legTimeout)
	defer cancel()
	if err := q.sender.Send(sctx, t.Customer, t.Invoice, *pdfPath); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
