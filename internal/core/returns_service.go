package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ReturnInput is a newly logged return.
type ReturnInput struct {
	Date           string
	Classification string
	Damaged        bool
	TrackingNumber string
	Images         []string
}

// ReturnService logs customer returns and tracks whether they were processed.
type ReturnService interface {
	CreateReturn(ctx context.Context, in ReturnInput) (*Return, error)
	ListReturns(ctx context.Context) ([]Return, error)
	GetReturn(ctx context.Context, number string) (*Return, error)
	MarkProcessed(ctx context.Context, number string) (*Return, error)
}

type returnService struct {
	store *Store
}

// NewReturnService constructs a ReturnService over store.
func NewReturnService(store *Store) ReturnService {
	return &returnService{store: store}
}

func (d *Document) returnIndex(number string) int {
	for i := range d.Returns {
		if d.Returns[i].ReturnNumber == number {
			return i
		}
	}
	return -1
}

// nextReturnNumber is the highest existing number plus one, zero-padded to three digits.
func (d *Document) nextReturnNumber() string {
	max := 0
	for _, r := range d.Returns {
		if n, err := strconv.Atoi(r.ReturnNumber); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%03d", max+1)
}

func (s *returnService) CreateReturn(ctx context.Context, in ReturnInput) (*Return, error) {
	if strings.TrimSpace(in.Classification) == "" {
		return nil, invalid(ErrInvalidInput, "return classification is required")
	}
	date := time.Now().Format("2006-01-02")
	if in.Date != "" {
		if _, ok := ParseDate(in.Date); !ok {
			return nil, invalid(ErrInvalidInput, "date %q is not a date", in.Date)
		}
		date = CanonicalDate(in.Date)
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	var out Return
	err := s.store.Update(ctx, func(d *Document) error {
		r := Return{
			ReturnNumber:   d.nextReturnNumber(),
			Date:           date,
			Classification: in.Classification,
			Damaged:        in.Damaged,
			TrackingNumber: in.TrackingNumber,
			Images:         images,
		}
		d.Returns = append(d.Returns, r)
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReturns returns unprocessed returns first, each group by number.
func (s *returnService) ListReturns(ctx context.Context) ([]Return, error) {
	var out []Return
	_ = s.store.View(func(d *Document) error {
		out = append([]Return(nil), d.Returns...)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Processed != out[j].Processed {
			return !out[i].Processed
		}
		return out[i].ReturnNumber < out[j].ReturnNumber
	})
	return out, nil
}

func (s *returnService) GetReturn(ctx context.Context, number string) (*Return, error) {
	var out Return
	err := s.store.View(func(d *Document) error {
		i := d.returnIndex(number)
		if i < 0 {
			return notFound("return", number)
		}
		out = d.Returns[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *returnService) MarkProcessed(ctx context.Context, number string) (*Return, error) {
	var out Return
	err := s.store.Update(ctx, func(d *Document) error {
		i := d.returnIndex(number)
		if i < 0 {
			return notFound("return", number)
		}
		d.Returns[i].Processed = true
		out = d.Returns[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
