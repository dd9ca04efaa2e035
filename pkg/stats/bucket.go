package stats

import (
	"cmp"
	"slices"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/samber/lo"
)

// TopN keeps the limit largest items and folds the rest into one otherLabel
// entry appended at the end. Ties keep their input order. The Other entry is
// only emitted when the remainder is positive, so the sum of the result
// always equals the sum of items.
func TopN(items []domain.Bucket, limit int, otherLabel string) []domain.Bucket {
	limit = max(limit, 0)
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b domain.Bucket) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if len(ranked) <= limit {
		return ranked
	}

	kept := ranked[:limit:limit]
	other := lo.SumBy(ranked[limit:], func(b domain.Bucket) float64 { return b.Value })
	if other > 0 {
		kept = append(kept, domain.Bucket{Name: otherLabel, Value: other})
	}
	return kept
}

// SortedBuckets turns a tally into buckets ordered by name, giving TopN a
// deterministic input order.
func SortedBuckets(tally map[string]float64) []domain.Bucket {
	names := lo.Keys(tally)
	slices.Sort(names)
	return lo.Map(names, func(name string, _ int) domain.Bucket {
		return domain.Bucket{Name: name, Value: tally[name]}
	})
}

// TopNSeries ranks aligned series by their total, keeps the limit largest
// verbatim and appends an otherLabel series holding, for every timeline day,
// the sum of all excluded series. Ties are broken by name. The Other series
// is omitted when the excluded series sum to zero.
func TopNSeries(
	timeline domain.Timeline,
	aligned map[string][]domain.Point,
	limit int,
	otherLabel string,
) []domain.NamedSeries {
	limit = max(limit, 0)
	all := make([]domain.NamedSeries, 0, len(aligned))
	for _, name := range sortedKeys(aligned) {
		all = append(all, domain.NamedSeries{Name: name, Points: aligned[name]})
	}
	slices.SortStableFunc(all, func(a, b domain.NamedSeries) int {
		return cmp.Compare(b.Total(), a.Total())
	})
	if len(all) <= limit {
		return all
	}

	kept := all[:limit:limit]
	other := make([]domain.Point, len(timeline))
	index := make(map[int64]int, len(timeline))
	for i, day := range timeline {
		other[i].Day = day
		index[day] = i
	}

	var total float64
	for _, s := range all[limit:] {
		for _, p := range s.Points {
			if i, ok := index[p.Day]; ok {
				other[i].Value += p.Value
				total += p.Value
			}
		}
	}
	if total > 0 {
		kept = append(kept, domain.NamedSeries{Name: otherLabel, Points: other})
	}
	return kept
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
