package definitions

import (
	"context"
	"fmt"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/models/store"
	"github.com/wc-tools/camp-reports/pkg/reports"
)

// A camp officially receives its grant when its status moves to "needs
// contract to be signed".
const grantStatus = "needs-contract"

// SponsorshipGrantsData is the awarded-grant listing plus per-currency
// converted totals.
type SponsorshipGrantsData struct {
	GrantCount int              `json:"grant_count"`
	Grants     []store.GrantRow `json:"grants"`
	Totals     []domain.Group   `json:"totals"`
}

// SponsorshipGrants summarizes grant awards during the window: camps that
// reached the grant status, joined with their grant currency and amount.
// The raw grant rows are cached; totals are recomputed per call.
func SponsorshipGrants(deps Dependencies) reports.Report {
	engine := &reports.Engine{
		Categories: []string{"grant"},
		Converter:  deps.Converter,
	}

	def := reports.Definition[[]store.GrantRow, SponsorshipGrantsData]{
		Slug:        "sponsorship-grants",
		Name:        "Global Sponsorship Grants",
		Description: "A summary of sponsorship grant awards during a given time period.",
		Group:       "finance",
		Limits:      reports.Limits{EarliestStart: earliestStart},
		CacheMode:   reports.CacheRaw,
		Validate: func(ctx context.Context, p *reports.Params, errs *reports.ErrorSet) {
			validateScope(ctx, deps.Index, p, false, errs)
		},
		Fetch: func(ctx context.Context, p reports.Params) ([]store.GrantRow, error) {
			changes, err := deps.Index.StatusChanges(ctx, p.StartDate, p.EndDate, grantStatus, p.ScopeID)
			if err != nil {
				return nil, err
			}

			seen := make(map[int64]bool, len(changes))
			campIDs := make([]int64, 0, len(changes))
			for _, change := range changes {
				if !seen[change.CampID] {
					seen[change.CampID] = true
					campIDs = append(campIDs, change.CampID)
				}
			}

			grants, err := deps.Index.Grants(ctx, campIDs)
			if err != nil {
				return nil, fmt.Errorf("load grant metadata: %w", err)
			}
			return grants, nil
		},
		Aggregate: func(ctx context.Context, p reports.Params, grants []store.GrantRow, errs *reports.ErrorSet) SponsorshipGrantsData {
			events := make([]domain.Event, 0, len(grants))
			for _, g := range grants {
				events = append(events, domain.Event{
					Currency: g.Currency,
					Category: "grant",
					Kind:     domain.KindAmount,
					Amount:   g.Amount,
				})
			}
			return SponsorshipGrantsData{
				GrantCount: len(grants),
				Grants:     grants,
				Totals:     engine.Aggregate(ctx, events, p.EndDate, errs),
			}
		},
	}

	return reports.AsReport(reports.NewRunner(def, deps.Cache))
}
