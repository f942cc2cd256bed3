package feed

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/kitchen-display/internal/domain/order"
	"github.com/oshokin/kitchen-display/internal/logger"
)

// Feed merges the delivery and manual order documents.
type Feed struct {
	// delivery lists orders from the delivery platforms. It must exist.
	delivery Source
	// manual lists counter orders. A missing document counts as empty.
	manual Source
}

// New creates a Feed over the two sources.
func New(delivery, manual Source) *Feed {
	return &Feed{
		delivery: delivery,
		manual:   manual,
	}
}

// Fetch reads both documents concurrently and returns delivery orders
// followed by manual orders. Invalid records are logged and skipped; any
// other failure aborts the whole refresh.
func (f *Feed) Fetch(ctx context.Context) ([]order.Order, error) {
	var delivery, manual []order.Order

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		orders, err := fetchDocument(groupCtx, f.delivery, false)
		if err != nil {
			return fmt.Errorf("delivery orders: %w", err)
		}

		delivery = orders

		return nil
	})

	if f.manual != nil {
		group.Go(func() error {
			orders, err := fetchDocument(groupCtx, f.manual, true)
			if err != nil {
				return fmt.Errorf("manual orders: %w", err)
			}

			manual = orders

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return append(delivery, manual...), nil
}

// fetchDocument fetches and decodes one source.
func fetchDocument(ctx context.Context, source Source, optional bool) ([]order.Order, error) {
	data, err := source.Fetch(ctx)
	if err != nil {
		if optional && errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	orders, err := Decode(data)
	if err != nil {
		if !errors.Is(err, ErrInvalidRecord) {
			return nil, err
		}

		logger.WarnKV(ctx, "Skipped invalid order records", "error", err)
	}

	return orders, nil
}
