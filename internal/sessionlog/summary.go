package sessionlog

import (
	"sort"
	"time"

	"github.com/Mavwarf/tempo/internal/schedule"
)

// DayGroup aggregates one calendar day of logged segments.
type DayGroup struct {
	Date        time.Time
	WorkSeconds int // planned seconds of completed work segments
	Completed   int // work segments completed
	Skipped     int // work segments skipped
	Sessions    int // finite sessions run to completion
}

// SummarizeByDay filters entries to the last N calendar days (local
// time), groups them by date, and returns day groups sorted descending.
// Pass days=0 to include all entries. Break segments do not contribute
// to the counts; the summary answers "how much focus time happened".
func SummarizeByDay(entries []Entry, days int) []DayGroup {
	now := time.Now()
	var cutoff time.Time
	if days > 0 {
		cutoff = DayCutoff(days)
	}

	dayMap := map[string]*DayGroup{}
	for _, e := range entries {
		local := e.Time.In(now.Location())
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, now.Location())
		if days > 0 && day.Before(cutoff) {
			continue
		}

		ds := day.Format("2006-01-02")
		dg, ok := dayMap[ds]
		if !ok {
			dg = &DayGroup{Date: day}
			dayMap[ds] = dg
		}

		switch e.Kind {
		case KindSessionComplete:
			dg.Sessions++
		case KindSegment:
			if e.Phase != schedule.Work {
				continue
			}
			switch e.Outcome {
			case Completed:
				dg.Completed++
				dg.WorkSeconds += int(e.Planned.Seconds())
			case Skipped:
				dg.Skipped++
			}
		}
	}

	groups := make([]DayGroup, 0, len(dayMap))
	for _, dg := range dayMap {
		groups = append(groups, *dg)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}
