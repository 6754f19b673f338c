package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"order-portal/internal/core"
	"order-portal/internal/notify"
)

type flakyRenderer struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (r *flakyRenderer) Render(ctx context.Context, inv core.Invoice) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.failures {
		return "", errors.New("renderer busy")
	}
	return "/tmp/invoice-" + inv.InvoiceNumber + ".pdf", nil
}

func (r *flakyRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type delivery struct {
	email string
	path  string
}

type chanSender struct {
	failures int
	mu       sync.Mutex
	calls    int
	out      chan delivery
}

func (s *chanSender) Send(ctx context.Context, customer core.User, inv core.Invoice, pdfPath string) error {
	s.mu.Lock()
	s.calls++
	fail := s.calls <= s.failures
	s.mu.Unlock()
	if fail {
		return errors.New("smtp unavailable")
	}
	s.out <- delivery{email: customer.Email, path: pdfPath}
	return nil
}

func runQueue(t *testing.T, q *notify.Queue) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go q.Run(ctx)
}

func waitDelivery(t *testing.T, out chan delivery) delivery {
	t.Helper()
	select {
	case d := <-out:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	return delivery{}
}

func TestQueue_RetriesFailedLegs(t *testing.T) {
	renderer := &flakyRenderer{failures: 1}
	sender := &chanSender{failures: 1, out: make(chan delivery, 1)}
	q := notify.NewQueue(renderer, sender, 4).WithRetry(time.Second, 3, time.Millisecond)
	runQueue(t, q)

	q.InvoiceCreated(core.Invoice{InvoiceNumber: "AW01"}, core.User{Email: "buyer@acme.test"})

	d := waitDelivery(t, sender.out)
	if d.email != "buyer@acme.test" || d.path != "/tmp/invoice-AW01.pdf" {
		t.Errorf("Unexpected delivery %+v", d)
	}
	// Render failed once and succeeded once; the failed send did not re-render.
	if renderer.callCount() != 2 {
		t.Errorf("Expected 2 render calls, got %d", renderer.callCount())
	}
}

func TestQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	renderer := &flakyRenderer{failures: 10}
	q := notify.NewQueue(renderer, nil, 4).WithRetry(time.Second, 2, time.Millisecond)
	runQueue(t, q)

	q.InvoiceCreated(core.Invoice{InvoiceNumber: "AW02"}, core.User{})

	deadline := time.Now().Add(5 * time.Second)
	for renderer.callCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := renderer.callCount(); got != 2 {
		t.Errorf("Expected exactly 2 render attempts, got %d", got)
	}
}

func TestQueue_InvoiceCreatedNeverBlocks(t *testing.T) {
	q := notify.NewQueue(&flakyRenderer{}, nil, 1)

	done := make(chan struct{})
	go func() {
		// Nothing drains the queue: the second task is dropped.
		q.InvoiceCreated(core.Invoice{InvoiceNumber: "AW01"}, core.User{})
		q.InvoiceCreated(core.Invoice{InvoiceNumber: "AW02"}, core.User{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("InvoiceCreated blocked on a full queue")
	}
}
