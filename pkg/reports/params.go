package reports

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"

	day = 24 * time.Hour
)

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// Request carries the raw, caller-supplied report parameters before
// validation.
type Request struct {
	StartDate    string
	EndDate      string
	ScopeID      int64
	Status       string
	CacheEnabled bool
	FlushCache   bool
}

// Params is the validated, immutable parameter set for one report run.
type Params struct {
	StartDate time.Time
	EndDate   time.Time

	// ScopeID restricts the report to one camp; zero means the whole
	// network. ScopeSiteID is resolved during report-specific validation.
	ScopeID     int64
	ScopeSiteID int64

	Status       string
	CacheEnabled bool
	FlushCache   bool
}

// Limits are per-report validation bounds.
type Limits struct {
	// EarliestStart is a floor for the start date; zero means no floor.
	EarliestStart time.Time
	// MaxInterval caps the window length in whole days; zero means
	// unlimited.
	MaxInterval time.Duration
}

// ParseParams validates a raw request against the report's limits,
// accumulating every discovered problem. Checks that depend on both dates
// having parsed are skipped when either date is invalid.
func ParseParams(req Request, limits Limits) (Params, *ErrorSet) {
	errs := NewErrorSet()
	p := Params{
		ScopeID:      req.ScopeID,
		Status:       req.Status,
		CacheEnabled: req.CacheEnabled,
		FlushCache:   req.FlushCache,
	}

	start, startErr := parseDate(req.StartDate)
	if startErr != nil {
		errs.Add("invalid_date", fmt.Sprintf("invalid start date %q", req.StartDate))
	}
	end, endErr := parseDate(req.EndDate)
	if endErr != nil {
		errs.Add("invalid_date", fmt.Sprintf("invalid end date %q", req.EndDate))
	}
	if startErr != nil || endErr != nil {
		return p, errs
	}

	// An end date with no time component covers the entire day.
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 {
		end = end.Add(day - time.Second)
	}

	p.StartDate = start
	p.EndDate = end

	if !limits.EarliestStart.IsZero() && start.Before(limits.EarliestStart) {
		errs.Add("start_date_too_old", fmt.Sprintf(
			"start date must be %s or later", limits.EarliestStart.Format(dateLayout)))
	}
	if start.After(end) {
		errs.Add("negative_date_interval", "start date must not be after end date")
	} else if limits.MaxInterval > 0 && end.Sub(start)/day > limits.MaxInterval/day {
		errs.Add("exceeds_max_date_interval", fmt.Sprintf(
			"date interval must not exceed %d days", int(limits.MaxInterval/day)))
	}

	return p, errs
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// Within reports whether ts falls inside the inclusive report window.
func (p Params) Within(ts time.Time) bool {
	return !ts.Before(p.StartDate) && !ts.After(p.EndDate)
}

// CacheTTL returns the expiry for cached results. Windows touching the
// current day hold volatile data and expire sooner.
func (p Params) CacheTTL(now time.Time) time.Duration {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(day - time.Second)
	if !p.EndDate.Before(dayStart) && !p.StartDate.After(dayEnd) {
		return time.Hour
	}
	return 24 * time.Hour
}
