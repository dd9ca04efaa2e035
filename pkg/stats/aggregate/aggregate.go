// Package aggregate runs a single streaming pass over raw records, filtering
// them by time window and predicate while feeding any number of accumulators.
package aggregate

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"github.com/samber/lo"
)

// Window is an inclusive time range in epoch seconds. A zero To leaves the
// range open-ended.
type Window struct {
	From int64
	To   int64
}

// LastDays returns the window covering the days before now, open-ended.
func LastDays(now time.Time, days int) Window {
	return Window{From: now.AddDate(0, 0, -days).Unix()}
}

func (w Window) Contains(ts int64) bool {
	return ts >= w.From && (w.To == 0 || ts <= w.To)
}

type Predicate[T any] func(T) bool

// And combines predicates; nil predicates are ignored.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(record T) bool {
		for _, p := range preds {
			if p != nil && !p(record) {
				return false
			}
		}
		return true
	}
}

type Accumulator[T any] interface {
	Add(record T)
}

type AccumulatorFunc[T any] func(record T)

func (f AccumulatorFunc[T]) Add(record T) { f(record) }

// Counts reports what a pass did with its input.
type Counts struct {
	Seen     int
	Dropped  int // failed validation
	Skipped  int // outside the window or rejected by the predicate
	Accepted int
}

// Pass describes one filtering pass. Valid rejects malformed records,
// Timestamp picks the field the window applies to (nil disables window
// filtering) and Predicate applies caller filters.
type Pass[T any] struct {
	Window    Window
	Valid     func(T) bool
	Timestamp func(T) int64
	Predicate Predicate[T]
}

// Run visits every record exactly once. Malformed records are counted and
// dropped; they never stop the pass.
func (p Pass[T]) Run(records iter.Seq[T], accs ...Accumulator[T]) Counts {
	var c Counts
	for record := range records {
		c.Seen++
		if p.Valid != nil && !p.Valid(record) {
			c.Dropped++
			continue
		}
		if p.Timestamp != nil && !p.Window.Contains(p.Timestamp(record)) {
			c.Skipped++
			continue
		}
		if p.Predicate != nil && !p.Predicate(record) {
			c.Skipped++
			continue
		}
		c.Accepted++
		for _, acc := range accs {
			acc.Add(record)
		}
	}
	return c
}

// Tally counts occurrences per category.
type Tally map[string]float64

func (t Tally) Inc(category string, n float64) {
	t[category] += n
}

func (t Tally) Buckets() []domain.Bucket {
	return stats.SortedBuckets(t)
}

// Histogram counts per UTC day.
type Histogram map[int64]float64

// Add counts n at the day of ts.
func (h Histogram) Add(ts int64, n float64) {
	h[stats.TruncateDay(ts)] += n
}

// Points returns the histogram as a day-sorted series.
func (h Histogram) Points() []domain.Point {
	days := lo.Keys(h)
	slices.Sort(days)
	return lo.Map(days, func(day int64, _ int) domain.Point {
		return domain.Point{Day: day, Value: h[day]}
	})
}

// Duration accumulates a duration sample set with its total and maximum.
type Duration struct {
	Total   int64
	Longest int64
	Samples []float64
}

func (d *Duration) Add(seconds int64) {
	d.Total += seconds
	d.Longest = max(d.Longest, seconds)
	d.Samples = append(d.Samples, float64(seconds))
}

func (d *Duration) Count() int {
	return len(d.Samples)
}

// Average is the plain mean in seconds; ok is false without samples.
func (d *Duration) Average() (float64, bool) {
	return stats.Mean(d.Samples)
}

func (d *Duration) Median() (float64, bool) {
	return stats.Median(d.Samples)
}

func (d *Duration) TrimmedMean(fraction float64) (float64, bool) {
	return stats.TrimmedMean(d.Samples, fraction)
}

func compareDesc[T cmp.Ordered](a, b T) int {
	return cmp.Compare(b, a)
}
