// Package stats shapes raw per-entity counters into chart-ready series:
// alignment onto a shared timeline, top-N ranking with an "Other" bucket,
// and outlier-resistant summary statistics. All functions are pure and never
// modify their inputs.
package stats

import (
	"slices"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/samber/lo"
)

// TruncateDay returns the UTC midnight of ts.
func TruncateDay(ts int64) int64 {
	return ts - ts%domain.SecondsPerDay
}

// Align builds the sorted union of all days seen across series and returns
// every series zero-filled onto it. An entity without tuples is kept with all
// values zeroed. When an entity reports the same day twice, the first tuple
// wins.
func Align(series map[string][]domain.Point) (domain.Timeline, map[string][]domain.Point) {
	seen := make(map[int64]struct{})
	for _, points := range series {
		for _, p := range points {
			seen[p.Day] = struct{}{}
		}
	}
	timeline := domain.Timeline(lo.Keys(seen))
	slices.Sort(timeline)

	aligned := make(map[string][]domain.Point, len(series))
	for entity, points := range series {
		aligned[entity] = Fill(timeline, points)
	}
	return timeline, aligned
}

// Fill projects points onto timeline, emitting (day, 0) for missing days.
// Points outside the timeline are ignored.
func Fill(timeline domain.Timeline, points []domain.Point) []domain.Point {
	byDay := make(map[int64]float64, len(points))
	for _, p := range points {
		if _, dup := byDay[p.Day]; !dup {
			byDay[p.Day] = p.Value
		}
	}

	out := make([]domain.Point, len(timeline))
	for i, day := range timeline {
		out[i] = domain.Point{Day: day, Value: byDay[day]}
	}
	return out
}
