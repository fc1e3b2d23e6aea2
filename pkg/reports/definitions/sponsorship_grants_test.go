package definitions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wc-tools/camp-reports/pkg/models/store"
)

func TestSponsorshipGrants_SummarizesAwards(t *testing.T) {
	idx := &stubIndex{
		changes: []store.StatusChangeRow{
			{CampID: 42, Name: "WordCamp Testville", Status: "needs-contract", Timestamp: at(t, "2024-01-10T09:00:00Z")},
			// A camp can bounce through the status twice; the grant counts
			// once.
			{CampID: 42, Name: "WordCamp Testville", Status: "needs-contract", Timestamp: at(t, "2024-01-15T09:00:00Z")},
			{CampID: 50, Name: "WordCamp Springfield", Status: "needs-contract", Timestamp: at(t, "2024-01-20T09:00:00Z")},
		},
		grants: []store.GrantRow{
			{CampID: 42, Name: "WordCamp Testville", Currency: "USD", Amount: 2500},
			{CampID: 50, Name: "WordCamp Springfield", Currency: "USD", Amount: 1500},
		},
	}

	report := SponsorshipGrants(testDeps(idx))
	result, errs := report.Run(context.Background(), testRequest())
	require.False(t, errs.HasErrors())

	data, ok := result.(SponsorshipGrantsData)
	require.True(t, ok)

	assert.Equal(t, 2, data.GrantCount)
	require.Len(t, data.Totals, 1)
	require.Len(t, data.Totals[0].Buckets, 1)

	b := data.Totals[0].Buckets[0]
	assert.Equal(t, 2, b.Counts["grant"])
	assert.Equal(t, 4000.0, b.Net)
	assert.Equal(t, 4000.0, b.ConvertedUSD)
}

func TestSponsorshipGrants_NoAwards(t *testing.T) {
	report := SponsorshipGrants(testDeps(&stubIndex{}))
	result, errs := report.Run(context.Background(), testRequest())
	require.False(t, errs.HasErrors())

	data := result.(SponsorshipGrantsData)
	assert.Equal(t, 0, data.GrantCount)
	assert.Empty(t, data.Grants)
	require.Len(t, data.Totals, 1)
	assert.Empty(t, data.Totals[0].Buckets)
}
