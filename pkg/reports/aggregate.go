package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/services/currency"
)

// DefaultGroup is the single group used by reports without a partitioning
// predicate.
const DefaultGroup = "total"

// Engine buckets a sequence of events by group and currency and converts
// each bucket's net amount to USD. Accumulation is commutative; event order
// does not matter.
type Engine struct {
	// Groups declares the output groups. Every declared group appears in
	// the result even when it received no events. Empty declares only
	// DefaultGroup.
	Groups []string
	// Categories declares every category key up front so each bucket
	// carries a zeroed counter set for every observed currency.
	Categories []string
	Converter  currency.Converter
}

// Aggregate partitions events into groups, accumulates currency buckets,
// and converts totals as of asOf. An event with an empty currency code is
// skipped silently; an event assigned only to undeclared groups is dropped.
// Unknown currencies convert to zero without error; any other conversion
// failure is recorded in errs and the remaining currencies still convert.
func (e *Engine) Aggregate(ctx context.Context, events []domain.Event, asOf time.Time, errs *ErrorSet) []domain.Group {
	names := e.groupNames()
	buckets := make(map[string]map[string]*domain.CurrencyBucket, len(names))
	for _, name := range names {
		buckets[name] = map[string]*domain.CurrencyBucket{}
	}

	for _, ev := range events {
		if ev.Currency == "" {
			// Incomplete source data; not bucketed, not an error.
			continue
		}
		groups := ev.Groups
		if len(groups) == 0 {
			groups = []string{DefaultGroup}
		}
		for _, name := range groups {
			byCurrency, ok := buckets[name]
			if !ok {
				continue
			}
			b, ok := byCurrency[ev.Currency]
			if !ok {
				b = e.newBucket(ev.Currency)
				byCurrency[ev.Currency] = b
			}
			e.apply(b, ev)
		}
	}

	out := make([]domain.Group, 0, len(names))
	for _, name := range names {
		byCurrency := buckets[name]
		codes := make([]string, 0, len(byCurrency))
		for code := range byCurrency {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		group := domain.Group{Name: name, Buckets: make([]domain.CurrencyBucket, 0, len(codes))}
		for _, code := range codes {
			b := byCurrency[code]
			b.ConvertedUSD = e.convert(ctx, b.Net, code, asOf, errs)
			group.TotalUSD += b.ConvertedUSD
			group.Buckets = append(group.Buckets, *b)
		}
		out = append(out, group)
	}
	return out
}

func (e *Engine) groupNames() []string {
	if len(e.Groups) == 0 {
		return []string{DefaultGroup}
	}
	return e.Groups
}

func (e *Engine) newBucket(code string) *domain.CurrencyBucket {
	b := &domain.CurrencyBucket{
		Currency: code,
		Counts:   make(map[string]int, len(e.Categories)),
		Amounts:  make(map[string]float64, len(e.Categories)),
	}
	for _, cat := range e.Categories {
		b.Counts[cat] = 0
		b.Amounts[cat] = 0
	}
	return b
}

func (e *Engine) apply(b *domain.CurrencyBucket, ev domain.Event) {
	b.Counts[ev.Category]++
	switch ev.Kind {
	case domain.KindPurchase:
		gross := ev.Gross
		if gross == 0 {
			gross = ev.Amount
		}
		b.Gross += gross
		b.Discount += ev.Discount
		b.Net += gross - ev.Discount
		b.Amounts[ev.Category] += gross - ev.Discount
	case domain.KindRefund:
		b.Refunded += ev.Amount
		b.Net -= ev.Amount
		b.Amounts[ev.Category] += ev.Amount
	case domain.KindAmount:
		b.Net += ev.Amount
		b.Amounts[ev.Category] += ev.Amount
	case domain.KindCount:
		// Counter already incremented; counts-only events carry no amount.
	}
}

func (e *Engine) convert(ctx context.Context, amount float64, code string, asOf time.Time, errs *ErrorSet) float64 {
	if code == currency.USD {
		return amount
	}
	converted, err := e.Converter.Convert(ctx, amount, code, asOf)
	if err != nil {
		if errors.Is(err, currency.ErrUnknownCurrency) {
			// Currencies without a published rate are expected.
			return 0
		}
		errs.Add("currency_conversion_failed",
			fmt.Sprintf("failed to convert %s to USD: %v", code, err))
		return 0
	}
	return converted
}
