package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams_ClampsDateOnlyEndToEndOfDay(t *testing.T) {
	p, errs := ParseParams(Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
	}, Limits{})

	require.False(t, errs.HasErrors())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), p.EndDate)
}

func TestParseParams_KeepsExplicitEndTime(t *testing.T) {
	p, errs := ParseParams(Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-02T12:30:00",
	}, Limits{})

	require.False(t, errs.HasErrors())
	assert.Equal(t, time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC), p.EndDate)
}

func TestParseParams_BothDatesInvalid(t *testing.T) {
	_, errs := ParseParams(Request{
		StartDate: "not-a-date",
		EndDate:   "also-bad",
	}, Limits{})

	assert.Equal(t, []string{"invalid_date", "invalid_date"}, errs.Codes())
}

func TestParseParams_StartBeforeFloor(t *testing.T) {
	floor := time.Date(2007, 11, 17, 0, 0, 0, 0, time.UTC)
	_, errs := ParseParams(Request{
		StartDate: "2005-06-01",
		EndDate:   "2005-06-30",
	}, Limits{EarliestStart: floor})

	assert.Equal(t, []string{"start_date_too_old"}, errs.Codes())
}

func TestParseParams_NegativeInterval(t *testing.T) {
	_, errs := ParseParams(Request{
		StartDate: "2024-02-01",
		EndDate:   "2024-01-01",
	}, Limits{})

	assert.Equal(t, []string{"negative_date_interval"}, errs.Codes())
}

func TestParseParams_IntervalLimit(t *testing.T) {
	limits := Limits{MaxInterval: 30 * day}

	// A 30 day window with the end clamped to 23:59:59 still fits.
	_, errs := ParseParams(Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, limits)
	assert.False(t, errs.HasErrors())

	// One day over produces exactly one error and nothing else.
	_, errs = ParseParams(Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
	}, limits)
	assert.Equal(t, []string{"exceeds_max_date_interval"}, errs.Codes())
}

func TestParamsWithin(t *testing.T) {
	p, errs := ParseParams(Request{
		StartDate: "2024-03-10",
		EndDate:   "2024-03-10",
	}, Limits{})
	require.False(t, errs.HasErrors())

	assert.True(t, p.Within(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Within(time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.Within(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Within(time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)))
}

func TestParamsCacheTTL(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

	past, errs := ParseParams(Request{StartDate: "2024-05-01", EndDate: "2024-05-31"}, Limits{})
	require.False(t, errs.HasErrors())
	assert.Equal(t, 24*time.Hour, past.CacheTTL(now))

	current, errs := ParseParams(Request{StartDate: "2024-06-01", EndDate: "2024-06-15"}, Limits{})
	require.False(t, errs.HasErrors())
	assert.Equal(t, time.Hour, current.CacheTTL(now))
}
