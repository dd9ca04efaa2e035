package reports

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"github.com/de-tools/report-atlas/pkg/stats/aggregate"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	defaultDownloadsDuration = "60d"
	maxURILength             = 72
	uriKeep                  = 34

	topFiles      = 30
	topCountries  = 20
	topUserAgents = 10

	otherFiles     = "Other files"
	otherCountries = "(other countries)"
	otherAgents    = "Other"
)

var durationPattern = regexp.MustCompile(`^[0-9]{1,4}[dhm]$`)

type downloadsDriver struct{}

func NewDownloadsDriver() Driver {
	return downloadsDriver{}
}

func (downloadsDriver) Name() string     { return "downloads" }
func (downloadsDriver) Title() string    { return "Download Statistics" }
func (downloadsDriver) Endpoint() string { return "/api/downloads" }

func (downloadsDriver) FetchParams(q url.Values) (url.Values, error) {
	project := q.Get("project")
	if !validProject(project) {
		return nil, invalidParam("project", project,
			"enter a project name such as netbeans, or incubator/<podling> for podlings")
	}
	duration := q.Get("duration")
	if duration == "" {
		duration = defaultDownloadsDuration
	}
	if !durationPattern.MatchString(duration) {
		return nil, invalidParam("duration", duration, "expected a number followed by d, h or m")
	}
	return url.Values{"project": {project}, "duration": {duration}}, nil
}

func (d downloadsDriver) Render(ctx context.Context, payload []byte, q url.Values, _ time.Time) (*domain.View, error) {
	params, err := d.FetchParams(q)
	if err != nil {
		return nil, err
	}
	project := params.Get("project")

	parsed, err := adapters.ParseDownloads(payload)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("files", len(parsed.Records)).Int("dropped", parsed.Dropped).Msg("parsed downloads")

	view := &domain.View{
		Report:      d.Name(),
		Title:       fmt.Sprintf("Download Statistics for %s", project),
		Description: fmt.Sprintf("Downloads of %s artifacts over the past %s.", project, params.Get("duration")),
		Dropped:     parsed.Dropped,
	}
	if slices.ContainsFunc(parsed.Records, func(f domain.FileDownloads) bool { return f.Downscaled }) {
		view.Notes = append(view.Notes, "Due to the high number of different user agents downloading files "+
			"for this project, the user agent breakdown has been simplified.")
	}

	view.Navigation = lo.Uniq(lo.Map(parsed.Records, func(f domain.FileDownloads, _ int) string {
		return ShortenURI(f.URI)
	}))

	files := parsed.Records
	if target := q.Get("uri"); target != "" {
		files = slices.DeleteFunc(slices.Clone(files), func(f domain.FileDownloads) bool {
			return f.URI != target && ShortenURI(f.URI) != target
		})
		if len(files) == 0 {
			return nil, invalidParam("uri", target, "no such file in this project")
		}
	}

	// Files whose shortened names collide share one series.
	hitDays := map[string]aggregate.Histogram{}
	byteDays := map[string]aggregate.Histogram{}
	countries := map[string]float64{}
	systems := map[string]float64{}
	browsers := map[string]float64{}
	var totalHits, totalBytes, totalUnique float64
	for _, f := range files {
		name := ShortenURI(f.URI)
		totalHits += f.Hits
		totalBytes += f.Bytes
		totalUnique += f.HitsUnique
		if hitDays[name] == nil {
			hitDays[name] = aggregate.Histogram{}
			byteDays[name] = aggregate.Histogram{}
		}
		for _, day := range f.Daily {
			hitDays[name].Add(day.Day, day.Hits)
			byteDays[name].Add(day.Day, day.Bytes)
		}
		for cc, n := range f.Countries {
			countries[CountryName(cc)] += n
		}
		for agent, n := range f.UserAgents {
			system, browser := splitUserAgent(agent)
			systems[system] += n
			browsers[browser] += n
		}
	}

	hits := make(map[string][]domain.Point, len(hitDays))
	traffic := make(map[string][]domain.Point, len(byteDays))
	for name, h := range hitDays {
		hits[name] = h.Points()
		traffic[name] = byteDays[name].Points()
	}
	timeline, alignedHits := stats.Align(hits)
	_, alignedTraffic := stats.Align(traffic)
	view.TimeSeries = []domain.TimeSeriesChart{
		{
			Title:    "Downloads, past two months",
			Kind:     domain.ChartKindBar,
			Timeline: timeline,
			Series:   stats.TopNSeries(timeline, alignedHits, topFiles, otherFiles),
		},
		{
			Title:    "Downloads, past two months, by traffic volume",
			Kind:     domain.ChartKindBar,
			Timeline: timeline,
			Series:   stats.TopNSeries(timeline, alignedTraffic, topFiles, otherFiles),
		},
	}

	view.Rankings = []domain.RankingChart{
		{Title: "Downloads by Country", Donut: true, Buckets: rankTally(countries, topCountries, otherCountries)},
		{Title: "Downloads by Operating System", Donut: true, Buckets: rankTally(systems, topUserAgents, otherAgents)},
		{Title: "Downloads by Browser", Donut: true, Buckets: rankTally(browsers, topUserAgents, otherAgents)},
	}

	view.Summaries = []domain.SummaryTable{{
		Title: "At a glance",
		Rows: []domain.SummaryRow{
			{Name: "Total downloads", Value: pretty(totalHits)},
			{Name: "Total bytes transferred", Value: pretty(totalBytes)},
			{Name: "Unique user count", Value: pretty(totalUnique)},
			{Name: "Files", Value: pretty(float64(len(files)))},
			{Name: "Daily stats entries", Value: "[timestamp, downloads, unique ips, bytes]"},
		},
	}}

	ranked := slices.Clone(files)
	slices.SortStableFunc(ranked, func(a, b domain.FileDownloads) int {
		return cmp.Compare(b.Hits, a.Hits)
	})
	list := domain.ListTable{Title: "Files", Columns: []string{"File", "Downloads", "Bytes"}}
	for _, f := range ranked {
		list.Rows = append(list.Rows, []string{ShortenURI(f.URI), pretty(f.Hits), pretty(f.Bytes)})
	}
	view.Lists = []domain.ListTable{list}

	return view, nil
}

// ShortenURI keeps long URIs readable in legends: the first and last 34
// characters joined by "[...]".
func ShortenURI(uri string) string {
	if len(uri) <= maxURILength {
		return uri
	}
	return uri[:uriKeep] + "[...]" + uri[len(uri)-uriKeep:]
}

// CountryName turns an ISO 3166 alpha-2 code into "<flag> <English name>".
// Codes that are not known regions are returned unchanged.
func CountryName(cca2 string) string {
	region, err := language.ParseRegion(cca2)
	if err != nil {
		return cca2
	}
	name := display.English.Regions().Name(region)
	if name == "" {
		return cca2
	}
	if f := flag(region.String()); f != "" {
		return f + " " + name
	}
	return name
}

func flag(code string) string {
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return ""
	}
	const regionalIndicatorA = 0x1F1E6
	return string([]rune{
		rune(regionalIndicatorA + int(code[0]-'A')),
		rune(regionalIndicatorA + int(code[1]-'A')),
	})
}

func splitUserAgent(agent string) (system, browser string) {
	system, browser, found := strings.Cut(agent, " / ")
	if !found {
		return agent, "Unknown"
	}
	return system, browser
}
