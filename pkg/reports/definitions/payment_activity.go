package definitions

import (
	"context"
	"fmt"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/models/store"
	"github.com/wc-tools/camp-reports/pkg/reports"
)

// Payment activity groups: a record joins "requests" when its approval
// fell inside the window and "payments" when its payment did. A record can
// appear in both.
const (
	GroupRequests = "requests"
	GroupPayments = "payments"
)

const (
	transitionApproved = "approved"
	transitionPaid     = "paid"

	postTypeVendorPayment = "wcp_payment_request"
	postTypeReimbursement = "wcb_reimbursement"
)

// Log-message substrings identifying lifecycle transitions. The central
// site's workflow differs: its first log entry is the approval.
var (
	paymentMatchers = []reports.TransitionMatcher{
		{Transition: transitionApproved, Substrings: []string{"request approved"}},
		{Transition: transitionPaid, Substrings: []string{"pending payment", "marked as paid"}},
	}
	centralPaymentMatchers = []reports.TransitionMatcher{
		{Transition: transitionApproved, FirstEntry: true},
		{Transition: transitionPaid, Substrings: []string{"marked as paid"}},
	}
)

// PaymentActivity summarizes vendor payments and reimbursement requests
// approved or paid during the window, bucketed per currency.
func PaymentActivity(deps Dependencies) reports.Report {
	engine := &reports.Engine{
		Groups:     []string{GroupRequests, GroupPayments},
		Categories: []string{"vendor_payment", "reimbursement"},
		Converter:  deps.Converter,
	}

	def := reports.Definition[[]store.PaymentRow, []domain.Group]{
		Slug:        "payment-activity",
		Name:        "Payment Activity",
		Description: "A summary of payment activity during a given time period.",
		Group:       "finance",
		Limits:      reports.Limits{EarliestStart: earliestStart},
		Validate: func(ctx context.Context, p *reports.Params, errs *reports.ErrorSet) {
			validateScope(ctx, deps.Index, p, false, errs)
		},
		Fetch: func(ctx context.Context, p reports.Params) ([]store.PaymentRow, error) {
			index, err := deps.Index.PaymentIndex(ctx, p.StartDate, p.EndDate, p.ScopeSiteID)
			if err != nil {
				return nil, err
			}

			byBlog := map[int64][]int64{}
			for _, entry := range index {
				byBlog[entry.BlogID] = append(byBlog[entry.BlogID], entry.PostID)
			}

			var posts []store.PaymentRow
			for blogID, postIDs := range byBlog {
				batch, err := deps.Index.PaymentPosts(ctx, blogID, postIDs)
				if err != nil {
					return nil, fmt.Errorf("load payment posts for site %d: %w", blogID, err)
				}
				posts = append(posts, batch...)
			}
			return posts, nil
		},
		Aggregate: func(ctx context.Context, p reports.Params, rows []store.PaymentRow, errs *reports.ErrorSet) []domain.Group {
			events := make([]domain.Event, 0, len(rows))
			for _, row := range rows {
				matchers := paymentMatchers
				if row.BlogID == deps.CentralBlogID {
					matchers = centralPaymentMatchers
				}
				transitions := reports.ScanLog(row.Log, matchers)

				var groups []string
				if ts, ok := transitions[transitionApproved]; ok && p.Within(ts) {
					groups = append(groups, GroupRequests)
				}
				if ts, ok := transitions[transitionPaid]; ok && p.Within(ts) {
					groups = append(groups, GroupPayments)
				}
				if len(groups) == 0 {
					// Neither lifecycle timestamp fell in the window.
					continue
				}

				category := "vendor_payment"
				if row.PostType == postTypeReimbursement {
					category = "reimbursement"
				}
				events = append(events, domain.Event{
					Currency: row.Currency,
					Category: category,
					Kind:     domain.KindAmount,
					Amount:   row.Amount,
					Groups:   groups,
				})
			}
			return engine.Aggregate(ctx, events, p.EndDate, errs)
		},
	}

	return reports.AsReport(reports.NewRunner(def, deps.Cache))
}
