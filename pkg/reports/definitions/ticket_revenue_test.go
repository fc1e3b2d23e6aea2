package definitions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/models/store"
)

func runTicketRevenue(t *testing.T, idx *stubIndex) []domain.Group {
	t.Helper()
	report := TicketRevenue(testDeps(idx))
	result, errs := report.Run(context.Background(), testRequest())
	require.False(t, errs.HasErrors(), "unexpected errors: %s", errs)
	groups, ok := result.([]domain.Group)
	require.True(t, ok)
	return groups
}

func TestTicketRevenue_SplitsByGatewayOwnership(t *testing.T) {
	sold := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	idx := &stubIndex{tickets: []store.TicketRow{
		{Timestamp: sold, Type: "purchase", Currency: "USD", Gross: 100, Discount: 10, Amount: 90, Gateway: "stripe"},
		{Timestamp: sold, Type: "purchase", Currency: "USD", Gross: 40, Amount: 40, Gateway: "bank-transfer"},
		{Timestamp: sold, Type: "refund", Currency: "USD", Amount: 25, Gateway: "paypal"},
	}}

	groups := runTicketRevenue(t, idx)
	require.Len(t, groups, 3)

	wpcs := groups[0]
	assert.Equal(t, GroupManagedGateways, wpcs.Name)
	require.Len(t, wpcs.Buckets, 1)
	assert.Equal(t, 100.0, wpcs.Buckets[0].Gross)
	assert.Equal(t, 10.0, wpcs.Buckets[0].Discount)
	assert.Equal(t, 25.0, wpcs.Buckets[0].Refunded)
	assert.Equal(t, 65.0, wpcs.Buckets[0].Net)
	assert.Equal(t, 1, wpcs.Buckets[0].Counts["purchase"])
	assert.Equal(t, 1, wpcs.Buckets[0].Counts["refund"])

	local := groups[1]
	assert.Equal(t, GroupLocalGateways, local.Name)
	require.Len(t, local.Buckets, 1)
	assert.Equal(t, 40.0, local.Buckets[0].Net)

	total := groups[2]
	assert.Equal(t, "total", total.Name)
	require.Len(t, total.Buckets, 1)
	assert.Equal(t, 105.0, total.Buckets[0].Net)
	assert.Equal(t, 105.0, total.TotalUSD)
}

func TestTicketRevenue_SingleUSDPurchase(t *testing.T) {
	idx := &stubIndex{tickets: []store.TicketRow{
		{
			Timestamp: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			Type:      "purchase",
			Currency:  "USD",
			Amount:    50,
			Gateway:   "stripe",
		},
	}}

	groups := runTicketRevenue(t, idx)

	total := groups[2]
	require.Len(t, total.Buckets, 1)
	b := total.Buckets[0]
	assert.Equal(t, 1, b.Counts["purchase"])
	assert.Equal(t, 50.0, b.Net)
	assert.Equal(t, 50.0, b.ConvertedUSD)
}

func TestTicketRevenue_NoSalesYieldsEmptyDeclaredGroups(t *testing.T) {
	groups := runTicketRevenue(t, &stubIndex{})

	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.Empty(t, g.Buckets)
		assert.Equal(t, 0.0, g.TotalUSD)
	}
}
