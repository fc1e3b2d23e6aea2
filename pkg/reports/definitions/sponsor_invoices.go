package definitions

import (
	"context"
	"fmt"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/models/store"
	"github.com/wc-tools/camp-reports/pkg/reports"
)

// All possible sponsor invoice statuses in the index.
var invoiceStatuses = []string{
	"wcbsi_submitted",
	"wcbsi_approved",
	"wcbsi_sent",
	"wcbsi_paid",
	"wcbsi_uncollectible",
	"wcbsi_refunded",
}

// SponsorInvoicesData is the invoice listing plus per-currency totals by
// invoice status.
type SponsorInvoicesData struct {
	Invoices []store.InvoiceRow `json:"invoices"`
	Totals   []domain.Group     `json:"totals"`
}

// SponsorInvoices lists the sponsor invoices for one camp with per-status
// currency totals. The raw listing is cached; totals are recomputed per
// call.
func SponsorInvoices(deps Dependencies) reports.Report {
	engine := &reports.Engine{
		Categories: invoiceStatuses,
		Converter:  deps.Converter,
	}

	def := reports.Definition[[]store.InvoiceRow, SponsorInvoicesData]{
		Slug:        "sponsor-invoices",
		Name:        "Sponsor Invoices",
		Description: "A list of sponsor invoices for a given camp.",
		Group:       "finance",
		CacheMode:   reports.CacheRaw,
		Validate: func(ctx context.Context, p *reports.Params, errs *reports.ErrorSet) {
			validateScope(ctx, deps.Index, p, true, errs)

			// "any" means no status filter.
			if p.Status == "any" {
				p.Status = ""
			}
			if p.Status != "" && !validInvoiceStatus(p.Status) {
				errs.Add("invalid_status", fmt.Sprintf("unknown invoice status %q", p.Status))
			}
		},
		Fetch: func(ctx context.Context, p reports.Params) ([]store.InvoiceRow, error) {
			return deps.Index.SponsorInvoices(ctx, p.ScopeSiteID, p.Status)
		},
		Aggregate: func(ctx context.Context, p reports.Params, rows []store.InvoiceRow, errs *reports.ErrorSet) SponsorInvoicesData {
			events := make([]domain.Event, 0, len(rows))
			for _, row := range rows {
				events = append(events, domain.Event{
					Timestamp: row.DueDate,
					Currency:  row.Currency,
					Category:  row.Status,
					Kind:      domain.KindAmount,
					Amount:    row.Amount,
				})
			}
			return SponsorInvoicesData{
				Invoices: rows,
				Totals:   engine.Aggregate(ctx, events, p.EndDate, errs),
			}
		},
	}

	return reports.AsReport(reports.NewRunner(def, deps.Cache))
}

func validInvoiceStatus(status string) bool {
	for _, s := range invoiceStatuses {
		if s == status {
			return true
		}
	}
	return false
}
