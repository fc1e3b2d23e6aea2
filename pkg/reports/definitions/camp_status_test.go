package definitions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wc-tools/camp-reports/pkg/models/store"
)

func TestCampStatus_GroupsChangesPerCamp(t *testing.T) {
	idx := &stubIndex{changes: []store.StatusChangeRow{
		// Deliberately interleaved and out of chronological order.
		{CampID: 50, Name: "WordCamp Springfield", Status: "needs-site", Timestamp: at(t, "2024-01-12T09:00:00Z")},
		{CampID: 42, Name: "WordCamp Testville", Status: "scheduled", Timestamp: at(t, "2024-01-20T09:00:00Z")},
		{CampID: 42, Name: "WordCamp Testville", Status: "needs-schedule", Timestamp: at(t, "2024-01-05T09:00:00Z")},
	}}

	report := CampStatus(testDeps(idx))
	result, errs := report.Run(context.Background(), testRequest())
	require.False(t, errs.HasErrors())

	data, ok := result.(CampStatusData)
	require.True(t, ok)

	assert.Equal(t, 3, data.ChangeCount)
	assert.Equal(t, 2, data.CampCount)
	require.Len(t, data.Camps, 2)

	// Camps sorted by ID, each camp's changes chronological.
	testville := data.Camps[0]
	assert.Equal(t, int64(42), testville.CampID)
	require.Len(t, testville.Changes, 2)
	assert.Equal(t, "needs-schedule", testville.Changes[0].Status)
	assert.Equal(t, "scheduled", testville.Changes[1].Status)
	assert.Equal(t, "scheduled", testville.LatestStatus)

	springfield := data.Camps[1]
	assert.Equal(t, int64(50), springfield.CampID)
	assert.Equal(t, "needs-site", springfield.LatestStatus)
}

func TestCampStatus_RejectsUnknownStatus(t *testing.T) {
	report := CampStatus(testDeps(&stubIndex{}))

	req := testRequest()
	req.Status = "wcpt-legacy"
	_, errs := report.Run(context.Background(), req)
	assert.Equal(t, []string{"invalid_status"}, errs.Codes())
}

func TestCampStatus_AnyStatusMeansNoFilter(t *testing.T) {
	report := CampStatus(testDeps(&stubIndex{}))

	req := testRequest()
	req.Status = "any"
	result, errs := report.Run(context.Background(), req)
	require.False(t, errs.HasErrors())

	data := result.(CampStatusData)
	assert.Equal(t, 0, data.CampCount)
}
