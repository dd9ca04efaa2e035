package reports

import (
	"context"
	"maps"
	"net/url"
	"slices"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"github.com/samber/lo"
)

const fullUptime = 100.0

type uptimeDriver struct {
	series map[string][]string
}

// NewUptimeDriver renders uptime statistics. series maps a service category
// to the host IDs it is made of; it is only consulted when the payload has
// no pre-collated categories.
func NewUptimeDriver(series map[string][]string) Driver {
	return uptimeDriver{series: series}
}

func (uptimeDriver) Name() string     { return "uptime" }
func (uptimeDriver) Title() string    { return "Uptime Statistics" }
func (uptimeDriver) Endpoint() string { return "/api/uptime" }

func (uptimeDriver) FetchParams(url.Values) (url.Values, error) {
	return url.Values{}, nil
}

func (d uptimeDriver) Render(_ context.Context, payload []byte, _ url.Values, _ time.Time) (*domain.View, error) {
	report, dropped, err := adapters.ParseUptime(payload)
	if err != nil {
		return nil, err
	}
	if len(report.Categories) == 0 && len(report.Hosts) > 0 && len(d.series) > 0 {
		report.Categories, report.Totals = CollateUptime(report.Hosts, d.series)
	}

	view := &domain.View{
		Report: d.Name(),
		Title:  "Uptime Statistics",
		Description: "Global uptime figures are the average uptime of all services within their " +
			"respective service categories, or as a whole.",
		Dropped: dropped,
	}

	monthly := map[string][]domain.Point{}
	for _, c := range report.Categories {
		points := make([]domain.Point, 0, len(c.Monthly))
		for month, pct := range c.Monthly {
			start, err := time.Parse("2006-01", month)
			if err != nil {
				view.Dropped++
				continue
			}
			points = append(points, domain.Point{Day: start.Unix(), Value: pct})
		}
		monthly[c.Category] = points
	}
	timeline, aligned := stats.Align(monthly)
	chart := domain.TimeSeriesChart{
		Title:    "Uptime across service groups, past year",
		Kind:     domain.ChartKindLine,
		Timeline: timeline,
	}
	for _, c := range report.Categories {
		chart.Series = append(chart.Series, domain.NamedSeries{Name: c.Category, Points: aligned[c.Category]})
	}
	view.TimeSeries = []domain.TimeSeriesChart{chart}

	list := domain.ListTable{
		Title:   "Uptime quick stats across service categories",
		Columns: []string{"Service category", "Uptime, past year", "Uptime, this month", "Uptime, past week"},
	}
	for _, c := range report.Categories {
		list.Rows = append(list.Rows, []string{
			c.Category, percentText(c.Average), percentText(c.PastMonth), percentText(c.PastWeek),
		})
	}
	view.Lists = []domain.ListTable{list}

	view.Summaries = []domain.SummaryTable{{
		Title: "Overall uptime",
		Rows: []domain.SummaryRow{
			{Name: "Past year", Value: percentText(report.Totals.Year)},
			{Name: "This month", Value: percentText(report.Totals.Month)},
			{Name: "Past week", Value: percentText(report.Totals.Week)},
		},
	}}
	return view, nil
}

// CollateUptime averages host uptime into service categories. A category
// without any known host reports full uptime. The totals average every
// counted host, so a host listed in two categories counts twice.
func CollateUptime(hosts map[string]domain.HostUptime, series map[string][]string) ([]domain.ServiceUptime, domain.UptimeTotals) {
	var totals domain.UptimeTotals
	var counted int

	categories := make([]domain.ServiceUptime, 0, len(series))
	for _, name := range slices.Sorted(maps.Keys(series)) {
		var averages, months, weeks []float64
		byMonth := map[string][]float64{}
		for _, id := range series[name] {
			h, ok := hosts[id]
			if !ok {
				continue
			}
			month := fullUptime
			if keys := slices.Sorted(maps.Keys(h.Monthly)); len(keys) > 0 {
				month = h.Monthly[keys[len(keys)-1]]
			}
			averages = append(averages, h.Average)
			months = append(months, month)
			weeks = append(weeks, h.PastWeek)
			for m, pct := range h.Monthly {
				byMonth[m] = append(byMonth[m], pct)
			}

			counted++
			totals.Year += h.Average
			totals.Month += month
			totals.Week += h.PastWeek
		}

		categories = append(categories, domain.ServiceUptime{
			Category:  name,
			Average:   meanOr(averages, fullUptime),
			PastMonth: meanOr(months, fullUptime),
			PastWeek:  meanOr(weeks, fullUptime),
			Monthly: lo.MapValues(byMonth, func(values []float64, _ string) float64 {
				return meanOr(values, fullUptime)
			}),
		})
	}

	if counted == 0 {
		return categories, domain.UptimeTotals{Year: fullUptime, Month: fullUptime, Week: fullUptime}
	}
	n := float64(counted)
	return categories, domain.UptimeTotals{Year: totals.Year / n, Month: totals.Month / n, Week: totals.Week / n}
}

func meanOr(values []float64, fallback float64) float64 {
	if mean, ok := stats.Mean(values); ok {
		return mean
	}
	return fallback
}
