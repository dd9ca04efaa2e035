package adapters

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/upstream"
)

// ParseUptime maps a /api/uptime response. Categories come back sorted by
// name; malformed category or host entries are dropped.
func ParseUptime(payload []byte) (domain.UptimeReport, int, error) {
	var resp upstream.UptimeResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.UptimeReport{}, 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	report := domain.UptimeReport{Hosts: map[string]domain.HostUptime{}}
	if resp.UptimeTotal != nil {
		report.Totals = domain.UptimeTotals{
			Year:  resp.UptimeTotal.Year,
			Month: resp.UptimeTotal.Month,
			Week:  resp.UptimeTotal.Week,
		}
	}

	categories := decodeEntries(resp.UptimeCollated, func(name string, raw upstream.CollatedUptime) (domain.ServiceUptime, bool) {
		return domain.ServiceUptime{
			Category:  name,
			Average:   raw.Average,
			PastMonth: raw.PastMonth,
			PastWeek:  raw.PastWeek,
			Monthly:   maps.Clone(raw.Monthly),
		}, true
	})
	report.Categories = categories.Records

	hosts := decodeEntries(resp.UptimeIndividual, func(id string, raw upstream.HostUptime) (domain.HostUptime, bool) {
		return domain.HostUptime{
			ID:       id,
			Label:    raw.Label,
			Average:  raw.UptimeAverage,
			PastWeek: raw.UptimePastWeek,
			Monthly:  maps.Clone(raw.UptimeMonthly),
		}, true
	})
	for _, h := range hosts.Records {
		report.Hosts[h.ID] = h
	}

	return report, categories.Dropped + hosts.Dropped, nil
}
