package reports

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"github.com/samber/lo"
)

const (
	topDomainsDonut    = 9
	topDomainsTimeline = 19
	timelineSnapshots  = 48
	collationWindow    = 24 * time.Hour

	otherDomains = "(other domains)"
)

type mailDriver struct{}

func NewMailDriver() Driver {
	return mailDriver{}
}

func (mailDriver) Name() string     { return "mail" }
func (mailDriver) Title() string    { return "Mail Transfer Statistics" }
func (mailDriver) Endpoint() string { return "/api/mailstats" }

func (mailDriver) FetchParams(url.Values) (url.Values, error) {
	return url.Values{}, nil
}

func (d mailDriver) Render(_ context.Context, payload []byte, q url.Values, now time.Time) (*domain.View, error) {
	host := q.Get("host")
	if host == "" {
		host = domain.CollatedHost
	}

	hosts, dropped, err := adapters.ParseMailStats(payload)
	if err != nil {
		return nil, err
	}
	if _, ok := hosts[domain.CollatedHost]; !ok && len(hosts) > 0 {
		hosts[domain.CollatedHost] = CollateQueues(hosts, now.Add(-collationWindow).Unix())
	}
	snapshots, ok := hosts[host]
	if !ok {
		return nil, invalidParam("host", host, "no mail statistics for this host")
	}

	view := &domain.View{
		Report:      d.Name(),
		Title:       fmt.Sprintf("Mail Transfer Statistics, %s", host),
		Description: "Outbound mail queue size and its breakdown by recipient and sender domain.",
		Navigation:  hostNavigation(hosts),
		Dropped:     dropped,
	}
	if len(snapshots) == 0 {
		view.Notes = append(view.Notes, "No queue snapshots are available for this host.")
		return view, nil
	}

	queue := domain.NamedSeries{Name: "Queue size"}
	timeline := make(domain.Timeline, 0, len(snapshots))
	for _, s := range snapshots {
		timeline = append(timeline, s.TS)
		queue.Points = append(queue.Points, domain.Point{Day: s.TS, Value: s.Pending})
	}
	view.TimeSeries = append(view.TimeSeries, domain.TimeSeriesChart{
		Title:    "Mail queue size, past day",
		Kind:     domain.ChartKindLine,
		Timeline: timeline,
		Series:   []domain.NamedSeries{queue},
	})

	latest := snapshots[len(snapshots)-1]
	view.Rankings = []domain.RankingChart{
		{Title: "Mail Queue by Recipient Domain", Donut: true, Buckets: rankTally(latest.ByRecipient, topDomainsDonut, otherDomains)},
		{Title: "Mail Queue by Sender Domain", Donut: true, Buckets: rankTally(latest.BySender, topDomainsDonut, otherDomains)},
	}

	recent := snapshots[max(0, len(snapshots)-timelineSnapshots):]
	view.TimeSeries = append(view.TimeSeries,
		domainTimeline("Recipients over time, top 20 recipient domains", recent,
			func(s domain.QueueSnapshot) map[string]float64 { return s.ByRecipient }),
		domainTimeline("Sender domains over time, top 20 domains", recent,
			func(s domain.QueueSnapshot) map[string]float64 { return s.BySender }),
	)

	view.Summaries = []domain.SummaryTable{{
		Title: "Latest snapshot",
		Rows: []domain.SummaryRow{
			{Name: "Taken at", Value: time.Unix(latest.TS, 0).UTC().Format(time.RFC3339)},
			{Name: "Pending messages", Value: pretty(latest.Pending)},
			{Name: "Recipient domains", Value: pretty(float64(len(latest.ByRecipient)))},
			{Name: "Sender domains", Value: pretty(float64(len(latest.BySender)))},
		},
	}}
	return view, nil
}

func domainTimeline(
	title string,
	snapshots []domain.QueueSnapshot,
	breakdown func(domain.QueueSnapshot) map[string]float64,
) domain.TimeSeriesChart {
	timeline := domain.Timeline(slices.Compact(lo.Map(snapshots, func(s domain.QueueSnapshot, _ int) int64 {
		return s.TS
	})))
	series := map[string][]domain.Point{}
	for _, s := range snapshots {
		for name, pending := range breakdown(s) {
			series[name] = append(series[name], domain.Point{Day: s.TS, Value: pending})
		}
	}
	aligned := make(map[string][]domain.Point, len(series))
	for name, points := range series {
		aligned[name] = stats.Fill(timeline, points)
	}
	return domain.TimeSeriesChart{
		Title:    title,
		Kind:     domain.ChartKindBar,
		Timeline: timeline,
		Series:   stats.TopNSeries(timeline, aligned, topDomainsTimeline, otherDomains),
	}
}

// CollateQueues sums the snapshots of every host per timestamp, ignoring
// snapshots older than since. The result is ordered by timestamp.
func CollateQueues(hosts adapters.MailStats, since int64) []domain.QueueSnapshot {
	byTS := map[int64]*domain.QueueSnapshot{}
	for host, snapshots := range hosts {
		if host == domain.CollatedHost {
			continue
		}
		for _, s := range snapshots {
			if s.TS < since {
				continue
			}
			c, ok := byTS[s.TS]
			if !ok {
				c = &domain.QueueSnapshot{
					TS:          s.TS,
					ByRecipient: map[string]float64{},
					BySender:    map[string]float64{},
				}
				byTS[s.TS] = c
			}
			c.Pending += s.Pending
			for k, v := range s.ByRecipient {
				c.ByRecipient[k] += v
			}
			for k, v := range s.BySender {
				c.BySender[k] += v
			}
		}
	}

	collated := make([]domain.QueueSnapshot, 0, len(byTS))
	for _, c := range byTS {
		collated = append(collated, *c)
	}
	slices.SortFunc(collated, func(a, b domain.QueueSnapshot) int {
		return cmp.Compare(a.TS, b.TS)
	})
	return collated
}

// hostNavigation lists the collated pseudo-host first, then real hosts.
func hostNavigation(hosts adapters.MailStats) []string {
	names := slices.Sorted(maps.Keys(hosts))
	names = slices.DeleteFunc(names, func(h string) bool { return h == domain.CollatedHost })
	return append([]string{domain.CollatedHost}, names...)
}
