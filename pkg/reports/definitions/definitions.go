// Package definitions wires the concrete reports into the shared report
// lifecycle: each definition pairs a data source with an aggregation
// strategy and registers under its slug.
package definitions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/wc-tools/camp-reports/pkg/models/store"
	"github.com/wc-tools/camp-reports/pkg/reports"
	"github.com/wc-tools/camp-reports/pkg/services/currency"
	"github.com/wc-tools/camp-reports/pkg/services/meetup"
	sqlstore "github.com/wc-tools/camp-reports/pkg/store/sql"
)

// earliestStart is the date of the first camp on record; no report window
// may start before it.
var earliestStart = time.Date(2007, time.November, 17, 0, 0, 0, 0, time.UTC)

// IndexSource is the local event/index source contract the reports consume.
// Implemented by the SQL index store.
type IndexSource interface {
	Camp(ctx context.Context, id int64) (*store.CampRow, error)
	PaymentIndex(ctx context.Context, start, end time.Time, siteID int64) ([]store.PaymentIndexRow, error)
	PaymentPosts(ctx context.Context, blogID int64, postIDs []int64) ([]store.PaymentRow, error)
	TicketSales(ctx context.Context, start, end time.Time, siteID int64) ([]store.TicketRow, error)
	SponsorInvoices(ctx context.Context, siteID int64, status string) ([]store.InvoiceRow, error)
	StatusChanges(ctx context.Context, start, end time.Time, status string, campID int64) ([]store.StatusChangeRow, error)
	Grants(ctx context.Context, campIDs []int64) ([]store.GrantRow, error)
}

// GroupFetcher is the remote collection fetcher contract for chapter
// groups: one call returns the complete paginated collection or an error.
type GroupFetcher interface {
	Groups(ctx context.Context, filters url.Values) ([]meetup.Group, error)
}

// Dependencies carries the collaborators shared across report definitions.
type Dependencies struct {
	Index     IndexSource
	Meetup    GroupFetcher
	Converter currency.Converter
	Cache     reports.Cache

	// CentralBlogID identifies the network's central site, whose payment
	// workflow logs approval implicitly as the first log entry.
	CentralBlogID int64
}

// RegisterAll registers every report with the registry.
func RegisterAll(reg reports.Registry, deps Dependencies) error {
	all := []reports.Report{
		TicketRevenue(deps),
		PaymentActivity(deps),
		SponsorInvoices(deps),
		MeetupGroups(deps),
		SponsorshipGrants(deps),
		CampStatus(deps),
	}
	for _, r := range all {
		if err := reg.Register(r); err != nil {
			return fmt.Errorf("register %s: %w", r.Meta().Slug, err)
		}
	}
	return nil
}

// validateScope resolves the scope camp ID and records its site ID on the
// params. When required is false a zero scope is fine.
func validateScope(ctx context.Context, src IndexSource, p *reports.Params, required bool, errs *reports.ErrorSet) {
	if p.ScopeID == 0 {
		if required {
			errs.Add("invalid_scope_id", "please provide a valid camp ID")
		}
		return
	}

	camp, err := src.Camp(ctx, p.ScopeID)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			errs.Add("invalid_scope_id", fmt.Sprintf("no camp found with ID %d", p.ScopeID))
		} else {
			errs.Add("fetch_failed", fmt.Sprintf("failed to resolve camp %d: %v", p.ScopeID, err))
		}
		return
	}
	if camp.SiteID == 0 {
		errs.Add("scope_without_site", fmt.Sprintf("camp %d does not have a site yet", p.ScopeID))
		return
	}
	p.ScopeSiteID = camp.SiteID
}
