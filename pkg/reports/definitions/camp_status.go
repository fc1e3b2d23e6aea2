package definitions

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wc-tools/camp-reports/pkg/models/store"
	"github.com/wc-tools/camp-reports/pkg/reports"
)

// All possible camp statuses, in workflow order.
var campStatuses = []string{
	"needs-vetting",
	"needs-orientation",
	"approved-pre-planning",
	"needs-site",
	"needs-polldaddy",
	"needs-mentor",
	"needs-budget-review",
	"budget-review-done",
	"needs-contract",
	"needs-fill-listing",
	"needs-schedule",
	"scheduled",
	"closed",
	"cancelled",
}

// StatusChange is one transition of a camp during the window.
type StatusChange struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CampStatusSummary is one camp's status activity during the window.
type CampStatusSummary struct {
	CampID       int64          `json:"camp_id"`
	Name         string         `json:"name"`
	LatestStatus string         `json:"latest_status"`
	Changes      []StatusChange `json:"changes"`
}

// CampStatusData is the per-camp status-change summary.
type CampStatusData struct {
	CampCount   int                 `json:"camp_count"`
	ChangeCount int                 `json:"change_count"`
	Camps       []CampStatusSummary `json:"camps"`
}

// CampStatus tracks camp status transitions during the window, optionally
// filtered to one status or one camp.
func CampStatus(deps Dependencies) reports.Report {
	def := reports.Definition[[]store.StatusChangeRow, CampStatusData]{
		Slug:        "camp-status",
		Name:        "Camp Status",
		Description: "A summary of camp status changes during a given time period.",
		Group:       "camp",
		Limits:      reports.Limits{EarliestStart: earliestStart},
		Validate: func(ctx context.Context, p *reports.Params, errs *reports.ErrorSet) {
			validateScope(ctx, deps.Index, p, false, errs)

			if p.Status == "any" {
				p.Status = ""
			}
			if p.Status != "" && !validCampStatus(p.Status) {
				errs.Add("invalid_status", fmt.Sprintf("unknown camp status %q", p.Status))
			}
		},
		Fetch: func(ctx context.Context, p reports.Params) ([]store.StatusChangeRow, error) {
			return deps.Index.StatusChanges(ctx, p.StartDate, p.EndDate, p.Status, p.ScopeID)
		},
		Aggregate: func(_ context.Context, _ reports.Params, rows []store.StatusChangeRow, _ *reports.ErrorSet) CampStatusData {
			byCamp := map[int64]*CampStatusSummary{}
			for _, row := range rows {
				summary, ok := byCamp[row.CampID]
				if !ok {
					summary = &CampStatusSummary{CampID: row.CampID, Name: row.Name}
					byCamp[row.CampID] = summary
				}
				summary.Changes = append(summary.Changes, StatusChange{
					Status:    row.Status,
					Timestamp: row.Timestamp,
				})
			}

			data := CampStatusData{ChangeCount: len(rows), CampCount: len(byCamp)}
			for _, summary := range byCamp {
				sort.SliceStable(summary.Changes, func(i, j int) bool {
					return summary.Changes[i].Timestamp.Before(summary.Changes[j].Timestamp)
				})
				summary.LatestStatus = summary.Changes[len(summary.Changes)-1].Status
				data.Camps = append(data.Camps, *summary)
			}
			sort.Slice(data.Camps, func(i, j int) bool { return data.Camps[i].CampID < data.Camps[j].CampID })
			return data
		},
	}

	return reports.AsReport(reports.NewRunner(def, deps.Cache))
}

func validCampStatus(status string) bool {
	for _, s := range campStatuses {
		if s == status {
			return true
		}
	}
	return false
}
