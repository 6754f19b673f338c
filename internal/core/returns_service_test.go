package core_test

import (
	"context"
	"testing"

	"order-portal/internal/core"
)

func TestReturnService(t *testing.T) {
	ctx := context.Background()
	doc := seedDocument()
	doc.Returns = []core.Return{{ReturnNumber: "007", Date: "2025-01-02", Classification: "Damaged", Processed: true}}
	returns := core.NewReturnService(core.NewMemoryStore(doc))

	r, err := returns.CreateReturn(ctx, core.ReturnInput{
		Classification: "Wrong item",
		Date:           "02/14/2025",
		TrackingNumber: "1Z999",
	})
	if err != nil {
		t.Fatalf("CreateReturn failed: %v", err)
	}
	if r.ReturnNumber != "008" {
		t.Errorf("Expected return 008, got %s", r.ReturnNumber)
	}
	if r.Date != "2025-02-14" {
		t.Errorf("Expected date 2025-02-14, got %s", r.Date)
	}
	if r.Images == nil || r.Processed {
		t.Errorf("Expected an unprocessed return with an empty image list, got %+v", r)
	}

	list, err := returns.ListReturns(ctx)
	if err != nil {
		t.Fatalf("ListReturns failed: %v", err)
	}
	if len(list) != 2 || list[0].ReturnNumber != "008" {
		t.Errorf("Expected the open return first, got %+v", list)
	}

	done, err := returns.MarkProcessed(ctx, "008")
	if err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}
	if !done.Processed {
		t.Errorf("Expected the return to be processed")
	}

	if _, err := returns.GetReturn(ctx, "999"); !core.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
	if _, err := returns.CreateReturn(ctx, core.ReturnInput{}); !core.IsValidation(err) {
		t.Errorf("Expected a validation error without a classification, got %v", err)
	}
	if _, err := returns.CreateReturn(ctx, core.ReturnInput{Classification: "x", Date: "soon"}); !core.IsValidation(err) {
		t.Errorf("Expected a validation error for a bad date, got %v", err)
	}
}
