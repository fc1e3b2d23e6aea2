package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/wc-tools/camp-reports/pkg/models/store"
)

// TransitionMatcher identifies one lifecycle transition in a record's log
// by case-insensitive substring match against the human-readable message.
// The matcher table is injected configuration; nothing ambient toggles the
// comparison strings.
type TransitionMatcher struct {
	Transition string
	Substrings []string
	// FirstEntry treats the chronologically first log entry as the match
	// regardless of its message. Some workflows log approval implicitly as
	// the first event.
	FirstEntry bool
}

// ScanLog extracts, for each matcher, the timestamp of the first
// chronologically-matching log entry. Entries with equal timestamps keep
// their original log order. Transitions that never match are absent from
// the result.
func ScanLog(log []store.LogEntry, matchers []TransitionMatcher) map[string]time.Time {
	sorted := make([]store.LogEntry, len(log))
	copy(sorted, log)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := make(map[string]time.Time, len(matchers))
	for _, m := range matchers {
		for i, entry := range sorted {
			if m.matches(i, entry.Message) {
				out[m.Transition] = entry.Timestamp
				break
			}
		}
	}
	return out
}

func (m TransitionMatcher) matches(index int, message string) bool {
	if m.FirstEntry {
		return index == 0
	}
	lower := strings.ToLower(message)
	for _, s := range m.Substrings {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
