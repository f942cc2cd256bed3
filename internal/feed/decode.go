package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/kitchen-display/internal/domain/order"
)

// ErrInvalidRecord wraps per-record decoding problems.
var ErrInvalidRecord = errors.New("invalid order record")

// localLayouts are ISO-8601 layouts without a zone, read in local time.
//
//nolint:gochecknoglobals // Read-only parsing table.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// record mirrors one JSON order as written by the feed producers.
type record struct {
	Code               string  `json:"code"`
	CustomerName       string  `json:"customerName"`
	CustomerNote       string  `json:"customerNote"`
	Platform           string  `json:"platform"`
	StartDate          *string `json:"startDate"`
	DurationMinutes    int     `json:"durationMinutes"`
	HideAfterMinutes   int     `json:"hideAfterMinutes"`
	ExpireAfterMinutes int     `json:"expireAfterMinutes"`
	Accepted           bool    `json:"accepted"`
	Completed          bool    `json:"completed"`
	Canceled           bool    `json:"canceled"`
}

// Decode parses a feed document. Records that cannot be used are left out
// and reported together in the returned error, wrapped in ErrInvalidRecord;
// the valid records are returned either way. A malformed document returns
// no orders.
func Decode(data []byte) ([]order.Order, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	var (
		orders = make([]order.Order, 0, len(records))
		errs   []error
	)

	for i := range records {
		o, err := records[i].toOrder()
		if err != nil {
			errs = append(errs, fmt.Errorf("%w #%d: %w", ErrInvalidRecord, i, err))

			continue
		}

		orders = append(orders, o)
	}

	return orders, errors.Join(errs...)
}

// toOrder converts the record into a domain order.
func (r *record) toOrder() (order.Order, error) {
	if r.Code == "" {
		return order.Order{}, errors.New("missing code")
	}

	var startDate time.Time

	if r.StartDate != nil && *r.StartDate != "" {
		parsed, err := parseStartDate(*r.StartDate)
		if err != nil {
			return order.Order{}, fmt.Errorf("order %s: %w", r.Code, err)
		}

		startDate = parsed
	}

	return order.Order{
		Code:               r.Code,
		CustomerName:       r.CustomerName,
		CustomerNote:       r.CustomerNote,
		Platform:           r.Platform,
		StartDate:          startDate,
		DurationMinutes:    r.DurationMinutes,
		HideAfterMinutes:   r.HideAfterMinutes,
		ExpireAfterMinutes: r.ExpireAfterMinutes,
		Accepted:           r.Accepted,
		Completed:          r.Completed,
		Canceled:           r.Canceled,
	}, nil
}

// parseStartDate accepts RFC 3339 and zone-less ISO-8601 timestamps.
func parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}

	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised start date %q", value)
}
