package definitions

import (
	"context"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/models/store"
	"github.com/wc-tools/camp-reports/pkg/reports"
)

// Ticket revenue groups: gateways managed by the central organization
// versus gateways each camp manages locally, plus a combined total.
const (
	GroupManagedGateways = "wpcs"
	GroupLocalGateways   = "non_wpcs"
)

// Payment gateways whose accounts the central organization holds.
var managedGateways = map[string]bool{
	"paypal": true,
	"stripe": true,
}

// TicketRevenue summarizes ticket purchases and refunds per currency,
// split by gateway ownership.
func TicketRevenue(deps Dependencies) reports.Report {
	engine := &reports.Engine{
		Groups:     []string{GroupManagedGateways, GroupLocalGateways, reports.DefaultGroup},
		Categories: []string{"purchase", "refund"},
		Converter:  deps.Converter,
	}

	def := reports.Definition[[]store.TicketRow, []domain.Group]{
		Slug:        "ticket-revenue",
		Name:        "Ticket Revenue",
		Description: "A summary of camp ticket revenue during a given time period.",
		Group:       "finance",
		Limits:      reports.Limits{EarliestStart: earliestStart},
		Validate: func(ctx context.Context, p *reports.Params, errs *reports.ErrorSet) {
			validateScope(ctx, deps.Index, p, false, errs)
		},
		Fetch: func(ctx context.Context, p reports.Params) ([]store.TicketRow, error) {
			return deps.Index.TicketSales(ctx, p.StartDate, p.EndDate, p.ScopeSiteID)
		},
		Aggregate: func(ctx context.Context, p reports.Params, rows []store.TicketRow, errs *reports.ErrorSet) []domain.Group {
			events := make([]domain.Event, 0, len(rows))
			for _, row := range rows {
				gateway := GroupLocalGateways
				if managedGateways[row.Gateway] {
					gateway = GroupManagedGateways
				}

				ev := domain.Event{
					Timestamp: row.Timestamp,
					Currency:  row.Currency,
					Groups:    []string{gateway, reports.DefaultGroup},
				}
				if row.Type == "refund" {
					ev.Category = "refund"
					ev.Kind = domain.KindRefund
					ev.Amount = row.Amount
				} else {
					ev.Category = "purchase"
					ev.Kind = domain.KindPurchase
					ev.Gross = row.Gross
					ev.Discount = row.Discount
					ev.Amount = row.Amount
				}
				events = append(events, ev)
			}
			return engine.Aggregate(ctx, events, p.EndDate, errs)
		},
	}

	return reports.AsReport(reports.NewRunner(def, deps.Cache))
}
