package reports

import (
	"fmt"
	"math"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notApplicable = "N/A"

var printer = message.NewPrinter(language.English)

// pretty formats a count with thousands separators.
func pretty(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// durationText renders seconds as e.g. "3h25m".
func durationText(seconds float64) string {
	s := int64(seconds)
	return fmt.Sprintf("%dh%dm", s/3600, s%3600/60)
}

func hoursText(seconds float64, ok bool) string {
	if !ok {
		return notApplicable
	}
	return fmt.Sprintf("%d hours", int64(math.Round(seconds/3600)))
}

func percentText(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// rankTally ranks a tally into at most limit buckets plus otherLabel. A
// category already named otherLabel is folded into the remainder rather
// than ranked.
func rankTally(tally map[string]float64, limit int, otherLabel string) []domain.Bucket {
	var folded float64
	rest := make(map[string]float64, len(tally))
	for k, v := range tally {
		if k == otherLabel {
			folded += v
			continue
		}
		rest[k] = v
	}

	buckets := stats.TopN(stats.SortedBuckets(rest), limit, otherLabel)
	if folded > 0 {
		if n := len(buckets); n > 0 && buckets[n-1].Name == otherLabel {
			buckets[n-1].Value += folded
		} else {
			buckets = append(buckets, domain.Bucket{Name: otherLabel, Value: folded})
		}
	}
	return buckets
}

// descending ranks every bucket of a tally without collapsing any.
func descending(tally map[string]float64) []domain.Bucket {
	buckets := stats.SortedBuckets(tally)
	return stats.TopN(buckets, len(buckets), "")
}
