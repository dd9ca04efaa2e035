package reports

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"slices"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"github.com/de-tools/report-atlas/pkg/stats/aggregate"
	"github.com/de-tools/report-atlas/pkg/upstream"
)

const (
	// CostPerRunnerMinute is the list price of a hosted runner minute for
	// public repositories.
	CostPerRunnerMinute = 0.006341958

	topProjects   = 12
	otherProjects = "(other projects)"
	buildTrimFrac = 0.1
)

type buildsDriver struct{}

func NewBuildsDriver() Driver {
	return buildsDriver{}
}

func (buildsDriver) Name() string     { return "builds" }
func (buildsDriver) Title() string    { return "GitHub Actions Statistics" }
func (buildsDriver) Endpoint() string { return upstream.BuildsEndpoint }

func (buildsDriver) FetchParams(q url.Values) (url.Values, error) {
	hours, err := upstream.BuildHours(q.Get("hours"))
	if err != nil {
		return nil, invalidParam("hours", q.Get("hours"), "must be a positive number of hours")
	}
	params := url.Values{"hours": {fmt.Sprint(hours)}}
	if project := q.Get("project"); project != "" {
		if !validProject(project) {
			return nil, invalidParam("project", project, "not a valid project name")
		}
		params.Set("project", project)
	}
	if q.Get("selfhosted") == "true" {
		params.Set("selfhosted", "true")
	}
	return params, nil
}

func (d buildsDriver) Render(_ context.Context, payload []byte, q url.Values, _ time.Time) (*domain.View, error) {
	params, err := d.FetchParams(q)
	if err != nil {
		return nil, err
	}
	hours, _ := upstream.BuildHours(params.Get("hours"))
	project := params.Get("project")

	parsed, dropped, err := adapters.ParseBuilds(payload)
	if err != nil {
		return nil, err
	}
	if project != "" && len(parsed.AllProjects) > 0 && !slices.Contains(parsed.AllProjects, project) {
		return nil, invalidParam("project", project, "no builds are recorded for this project")
	}

	usage := aggregate.Tally{}
	daily := map[string]aggregate.Histogram{}
	var durations []float64
	var totalSeconds float64

	pass := aggregate.Pass[domain.Build]{
		Predicate: func(b domain.Build) bool { return project == "" || b.Project == project },
	}
	counts := pass.Run(slices.Values(parsed.Builds), aggregate.AccumulatorFunc[domain.Build](func(b domain.Build) {
		totalSeconds += b.SecondsUsed
		if b.RunFinish > b.RunStart {
			durations = append(durations, float64(b.RunFinish-b.RunStart))
		}
		if project == "" {
			usage.Inc(b.Project, b.SecondsUsed)
			addDaily(daily, b.Project, b.RunStart, b.SecondsUsed)
			return
		}
		for _, job := range b.Jobs {
			usage.Inc(job.Name, job.Duration)
			addDaily(daily, job.Name, b.RunStart, job.Duration)
		}
	}))

	subject := project
	if subject == "" {
		subject = "All projects"
	}
	window := float64(hours) * 3600
	view := &domain.View{
		Report:      d.Name(),
		Title:       fmt.Sprintf("GitHub Actions Statistics, %s", subject),
		Description: fmt.Sprintf("GitHub Actions build time used, past %s.", spanText(hours)),
		Navigation:  append([]string{"All projects"}, parsed.AllProjects...),
		Dropped:     dropped,
	}
	if counts.Accepted == 0 {
		view.Notes = append(view.Notes, "No builds were recorded in this period.")
	}

	buckets := rankTally(usage, topProjects, otherProjects)
	view.Rankings = []domain.RankingChart{{Title: "Build time used", Buckets: buckets}}

	list := domain.ListTable{
		Title:   "Build time breakdown",
		Columns: []string{"Name", "Time used", "Full-time runners", "Share"},
	}
	for _, b := range buckets {
		list.Rows = append(list.Rows, []string{
			b.Name,
			durationText(b.Value),
			fmt.Sprintf("%.0f", math.Round(b.Value/window)),
			stats.NewRatio(b.Value, totalSeconds).String(),
		})
	}
	view.Lists = []domain.ListTable{list}

	series := map[string][]domain.Point{}
	for name, h := range daily {
		series[name] = h.Points()
	}
	timeline, aligned := stats.Align(series)
	view.TimeSeries = []domain.TimeSeriesChart{{
		Title:    "Build minutes per day",
		Kind:     domain.ChartKindBar,
		Timeline: timeline,
		Series:   stats.TopNSeries(timeline, aligned, topProjects, otherProjects),
	}}

	median, medianOK := stats.Median(durations)
	trimmed, trimmedOK := stats.TrimmedMean(durations, buildTrimFrac)
	view.Summaries = []domain.SummaryTable{{
		Title: "Usage",
		Rows: []domain.SummaryRow{
			{Name: "Total usage", Value: pretty(totalSeconds/60) + " minutes"},
			{Name: "Full-time runners", Value: fmt.Sprintf("%.0f", math.Round(totalSeconds/window))},
			{Name: "Estimated credit use", Value: "$" + printer.Sprintf("%.2f", CostPerRunnerMinute*totalSeconds/60)},
			{Name: "Builds", Value: pretty(float64(counts.Accepted))},
			{Name: "Median build duration", Value: optionalDuration(median, medianOK)},
			{Name: "Typical build duration", Value: optionalDuration(trimmed, trimmedOK)},
		},
	}}
	return view, nil
}

func addDaily(daily map[string]aggregate.Histogram, key string, ts int64, seconds float64) {
	h, ok := daily[key]
	if !ok {
		h = aggregate.Histogram{}
		daily[key] = h
	}
	h.Add(ts, seconds/60)
}

func optionalDuration(seconds float64, ok bool) string {
	if !ok {
		return notApplicable
	}
	return durationText(seconds)
}

func spanText(hours int) string {
	if hours > 24 {
		return fmt.Sprintf("%d days", hours/24)
	}
	return fmt.Sprintf("%d hours", hours)
}

