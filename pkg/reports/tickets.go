package reports

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/stats"
	"github.com/de-tools/report-atlas/pkg/stats/aggregate"
	"github.com/samber/lo"
)

const (
	defaultTimespanDays = 30
	maxTimespanDays     = 3650
	topAssigneeDays     = 30
	topAssignees        = 10
	ticketTrimFrac      = 0.1

	everyone = "(Everyone)"
)

type ticketsDriver struct {
	policy     *domain.SLAPolicy
	noSLATypes []string
}

// NewTicketsDriver renders ticket SLA statistics. policy supplies limits to
// tickets that arrive without them; nil leaves such tickets outside SLA
// accounting.
func NewTicketsDriver(policy *domain.SLAPolicy, noSLATypes []string) Driver {
	if noSLATypes == nil {
		noSLATypes = aggregate.DefaultNoSLATypes
	}
	return ticketsDriver{policy: policy, noSLATypes: noSLATypes}
}

func (ticketsDriver) Name() string     { return "tickets" }
func (ticketsDriver) Title() string    { return "Jira Handling Statistics" }
func (ticketsDriver) Endpoint() string { return "/api/jira" }

func (ticketsDriver) FetchParams(q url.Values) (url.Values, error) {
	if _, err := intParam(q, "timespan", defaultTimespanDays, maxTimespanDays); err != nil {
		return nil, err
	}
	return url.Values{"action": {"stats"}}, nil
}

func (d ticketsDriver) Render(_ context.Context, payload []byte, q url.Values, now time.Time) (*domain.View, error) {
	timespan, err := intParam(q, "timespan", defaultTimespanDays, maxTimespanDays)
	if err != nil {
		return nil, err
	}
	assignee := q.Get("assignee")
	if assignee == everyone {
		assignee = ""
	}

	parsed, err := adapters.ParseTickets(payload, d.policy)
	if err != nil {
		return nil, err
	}

	b := aggregate.Tickets(slices.Values(parsed.Records), aggregate.TicketOptions{
		Window:     aggregate.LastDays(now, timespan),
		Assignee:   assignee,
		NoSLATypes: d.noSLATypes,
	})

	title := "Global Jira Handling Statistics"
	if assignee != "" {
		title = "Jira Handling Statistics for " + assignee
	}
	view := &domain.View{
		Report:      d.Name(),
		Title:       fmt.Sprintf("%s, past %d days", title, timespan),
		Description: "Ticket response and resolution times measured against their SLA limits.",
		Navigation:  append([]string{everyone}, TopAssignees(parsed.Records, now)...),
		Dropped:     parsed.Dropped + b.Counts.Dropped,
	}

	fullyDen := b.FullyDoneWithinSLA + b.FailedSLA
	resolvedDen := b.ResolvedWithinSLA + b.FailedSLAFixTime
	view.Progress = []domain.ProgressChart{
		{
			Title: "Tickets handled fully in time",
			Description: fmt.Sprintf("%d tickets were fully handled within SLA limits, out of a total of %d tickets "+
				"that were either closed in time or failed one or more SLA deadlines.", b.FullyDoneWithinSLA, fullyDen),
			Ratio: stats.NewRatio(b.FullyDoneWithinSLA, fullyDen),
		},
		{
			Title: "Tickets responded to in time",
			Description: fmt.Sprintf("%d tickets were responded to within SLA limits, out of a total of %d tickets "+
				"that were responded to.", b.RespondedWithinSLA, b.IssuesRespondedTo),
			Ratio: stats.NewRatio(b.RespondedWithinSLA, b.IssuesRespondedTo),
		},
		{
			Title: "Tickets resolved in time",
			Description: fmt.Sprintf("%d tickets were resolved within SLA limits, out of a total of %d tickets "+
				"that were either resolved in time or missed their resolution deadline.", b.ResolvedWithinSLA, resolvedDen),
			Ratio: stats.NewRatio(b.ResolvedWithinSLA, resolvedDen),
		},
	}

	view.Rankings = []domain.RankingChart{{
		Title:   "Priority Breakdown",
		Buckets: descending(b.Priorities),
	}}

	openedLabel := "Issues created"
	if assignee != "" {
		openedLabel = "New issues assigned to self"
	}
	respondAvg, respondAvgOK := b.Respond.TrimmedMean(ticketTrimFrac)
	respondMedian, respondMedianOK := b.Respond.Median()
	resolveAvg, resolveAvgOK := b.Resolve.TrimmedMean(ticketTrimFrac)
	resolveMedian, resolveMedianOK := b.Resolve.Median()
	view.Summaries = []domain.SummaryTable{{
		Title: "Quick Stats",
		Rows: []domain.SummaryRow{
			{Name: openedLabel, Value: pretty(float64(b.IssuesOpened))},
			{Name: "Issues responded to", Value: pretty(float64(b.IssuesRespondedTo))},
			{Name: "Average time to respond", Value: hoursText(respondAvg, respondAvgOK)},
			{Name: "Median time to respond", Value: hoursText(respondMedian, respondMedianOK)},
			{Name: "Longest time to respond", Value: hoursText(float64(b.Respond.Longest), b.Respond.Count() > 0)},
			{Name: "Issues resolved", Value: pretty(float64(b.IssuesResolved))},
			{Name: "Average time to resolve", Value: hoursText(resolveAvg, resolveAvgOK)},
			{Name: "Median time to resolve", Value: hoursText(resolveMedian, resolveMedianOK)},
			{Name: "Issues touched", Value: pretty(float64(b.IssuesTouched))},
		},
	}}

	timeline, aligned := stats.Align(map[string][]domain.Point{
		"Opened":   b.OpenedPerDay.Points(),
		"Resolved": b.ResolvedPerDay.Points(),
	})
	view.TimeSeries = []domain.TimeSeriesChart{{
		Title:    "Tickets opened and resolved per day",
		Kind:     domain.ChartKindBar,
		Timeline: timeline,
		Series: []domain.NamedSeries{
			{Name: "Opened", Points: aligned["Opened"]},
			{Name: "Resolved", Points: aligned["Resolved"]},
		},
	}}

	tableTitle := fmt.Sprintf("Currently open tickets (%d, %d unassigned)", b.OpenIssues, b.UnassignedIssues)
	if assignee != "" {
		tableTitle = fmt.Sprintf("Currently open tickets (%d)", b.OpenIssues)
	}
	open := domain.ListTable{
		Title:   tableTitle,
		Columns: []string{"Waiting for", "Ticket", "Time to respond", "Time to resolve", "Assignee"},
	}
	for _, t := range b.Open {
		open.Rows = append(open.Rows, openTicketRow(t))
	}
	view.Lists = []domain.ListTable{open}

	return view, nil
}

func openTicketRow(t domain.OpenTicket) []string {
	respondText, resolveText := notApplicable, notApplicable
	if t.SLA != nil && t.Class != domain.StatusPlanned {
		response := t.ResponseTime
		if t.FirstResponse == 0 {
			response = t.SLATimeCounted
		}
		respondText = slaText(response, t.SLA.Respond, t.RespondLate)
		resolveText = slaText(t.SLATimeCounted, t.SLA.Resolve, t.ResolveLate)
	}
	assignee := t.Assignee
	if assignee == "" {
		assignee = "Unassigned"
	}
	return []string{
		t.Class.String(),
		t.Key + ": " + t.Summary,
		respondText,
		resolveText,
		assignee,
	}
}

func slaText(seconds int64, limitHours float64, late bool) string {
	text := fmt.Sprintf("%d / %g hours", int64(math.Round(float64(seconds)/3600)), limitHours)
	if late {
		text += " (overdue)"
	}
	return text
}

// TopAssignees returns up to ten assignees ranked by the number of tickets
// created in the 30 days before now. Ties are broken by name.
func TopAssignees(tickets []domain.Ticket, now time.Time) []string {
	since := aggregate.LastDays(now, topAssigneeDays).From
	counts := map[string]int{}
	for _, t := range tickets {
		if t.CreatedAt > 0 && t.Assignee != "" && t.CreatedAt >= since {
			counts[t.Assignee]++
		}
	}

	names := lo.Keys(counts)
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return names[:min(len(names), topAssignees)]
}
