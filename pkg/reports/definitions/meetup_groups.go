package definitions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wc-tools/camp-reports/pkg/reports"
	"github.com/wc-tools/camp-reports/pkg/services/meetup"
)

// MeetupGroupsData summarizes the chapter program: all groups as of the
// window's end, plus the subset that joined during the window.
type MeetupGroupsData struct {
	TotalGroups            int            `json:"total_groups"`
	TotalGroupsByCountry   map[string]int `json:"total_groups_by_country"`
	TotalMembers           int            `json:"total_members"`
	TotalMembersByCountry  map[string]int `json:"total_members_by_country"`
	JoinedGroups           int            `json:"joined_groups"`
	JoinedGroupsByCountry  map[string]int `json:"joined_groups_by_country"`
	JoinedMembers          int            `json:"joined_members"`
	JoinedMembersByCountry map[string]int `json:"joined_members_by_country"`
}

// MeetupGroups reports chapter-program group and member growth. The raw
// group collection is cached; counts are recomputed per call.
func MeetupGroups(deps Dependencies) reports.Report {
	def := reports.Definition[[]meetup.Group, MeetupGroupsData]{
		Slug:        "meetup-groups",
		Name:        "Meetup Groups",
		Description: "An analysis of chapter-program groups and their members during a given time period.",
		Group:       "meetup",
		Limits:      reports.Limits{EarliestStart: earliestStart},
		CacheMode:   reports.CacheRaw,
		Fetch: func(ctx context.Context, p reports.Params) ([]meetup.Group, error) {
			return deps.Meetup.Groups(ctx, url.Values{
				// The group service expresses join dates in milliseconds.
				"pro_join_date_max": {fmt.Sprintf("%d", p.EndDate.Unix()*1000)},
			})
		},
		Aggregate: func(_ context.Context, p reports.Params, groups []meetup.Group, _ *reports.ErrorSet) MeetupGroupsData {
			data := MeetupGroupsData{
				TotalGroupsByCountry:   map[string]int{},
				TotalMembersByCountry:  map[string]int{},
				JoinedGroupsByCountry:  map[string]int{},
				JoinedMembersByCountry: map[string]int{},
			}

			for _, g := range groups {
				data.TotalGroups++
				data.TotalMembers += g.MemberCount
				data.TotalGroupsByCountry[g.Country]++
				data.TotalMembersByCountry[g.Country] += g.MemberCount

				if p.Within(g.JoinedAt()) {
					data.JoinedGroups++
					data.JoinedMembers += g.MemberCount
					data.JoinedGroupsByCountry[g.Country]++
					data.JoinedMembersByCountry[g.Country] += g.MemberCount
				}
			}
			return data
		},
	}

	return reports.AsReport(reports.NewRunner(def, deps.Cache))
}
