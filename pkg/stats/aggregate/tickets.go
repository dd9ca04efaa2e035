package aggregate

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

const secondsPerHour = 3600

// DefaultNoSLATypes lists issue types that are never measured against an SLA.
var DefaultNoSLATypes = []string{"Planned Work"}

var priorityRank = map[string]int{
	"blocker":  5,
	"critical": 4,
	"major":    3,
	"minor":    2,
	"trivial":  1,
}

type TicketOptions struct {
	// Window drops tickets closed before Window.From. Open tickets are
	// always in range.
	Window Window
	// Assignee restricts the breakdown to one assignee when set.
	Assignee   string
	NoSLATypes []string
}

// TicketBreakdown is the result of one pass over tickets. The SLA counters
// are kept apart: a ticket may be responded to in time and still fail its
// resolution deadline.
type TicketBreakdown struct {
	IssuesOpened      int
	IssuesRespondedTo int
	IssuesResolved    int
	IssuesTouched     int

	Respond Duration
	Resolve Duration

	RespondedWithinSLA int
	ResolvedWithinSLA  int
	FullyDoneWithinSLA int
	FailedSLA          int
	FailedSLAFixTime   int

	OpenIssues       int
	UnassignedIssues int

	Priorities     Tally
	Statuses       Tally
	OpenedPerDay   Histogram
	ResolvedPerDay Histogram

	Open   []domain.OpenTicket
	Counts Counts
}

// SLAVerdict is the outcome of evaluating one ticket against its SLA.
type SLAVerdict struct {
	Applies     bool
	RespondedOK bool
	ResolvedOK  bool
	RespondLate bool
	ResolveLate bool
}

func (v SLAVerdict) FullyCompliant() bool {
	return v.RespondedOK && v.ResolvedOK
}

func (v SLAVerdict) Failed() bool {
	return v.RespondLate || v.ResolveLate
}

// EvaluateSLA checks a ticket against its response and resolution limits.
// An open ticket whose counted SLA time already exceeds a limit has missed
// that deadline. A closed ticket without a resolve time is neither in time
// nor late for resolution.
func EvaluateSLA(t domain.Ticket, noSLATypes []string) SLAVerdict {
	if t.SLA == nil || slices.Contains(noSLATypes, t.IssueType) {
		return SLAVerdict{}
	}
	respondLimit := int64(t.SLA.Respond * secondsPerHour)
	resolveLimit := int64(t.SLA.Resolve * secondsPerHour)

	v := SLAVerdict{Applies: true}
	if t.ResponseTime > 0 {
		v.RespondedOK = t.ResponseTime <= respondLimit
		v.RespondLate = !v.RespondedOK
	} else {
		v.RespondLate = t.SLATimeCounted > respondLimit
	}
	switch {
	case t.Closed && t.ResolveTime > 0:
		v.ResolvedOK = t.ResolveTime <= resolveLimit
		v.ResolveLate = !v.ResolvedOK
	case t.Closed:
		// no resolve time recorded
	default:
		v.ResolveLate = t.SLATimeCounted > resolveLimit
	}
	return v
}

type ticketAccumulator struct {
	b    *TicketBreakdown
	opts TicketOptions
}

func (a ticketAccumulator) Add(t domain.Ticket) {
	b := a.b
	from := a.opts.Window.From

	if t.Closed {
		b.IssuesResolved++
		b.ResolvedPerDay.Add(t.ClosedAt, 1)
		if t.ResolveTime > 0 {
			b.Resolve.Add(t.ResolveTime)
		}
	}
	if t.CreatedAt >= from {
		b.IssuesOpened++
		b.OpenedPerDay.Add(t.CreatedAt, 1)
	}
	if t.ResponseTime > 0 {
		b.IssuesRespondedTo++
		b.Respond.Add(t.ResponseTime)
	}
	if t.Closed || t.CreatedAt >= from {
		b.IssuesTouched++
	}

	verdict := EvaluateSLA(t, a.opts.NoSLATypes)
	if verdict.Applies {
		if verdict.RespondedOK {
			b.RespondedWithinSLA++
		}
		if verdict.ResolvedOK {
			b.ResolvedWithinSLA++
		}
		if verdict.FullyCompliant() {
			b.FullyDoneWithinSLA++
		}
		if verdict.Failed() {
			b.FailedSLA++
			if verdict.ResolveLate {
				b.FailedSLAFixTime++
			}
		}
	}

	if t.Priority != "" {
		b.Priorities.Inc(t.Priority, 1)
	}
	if t.Status != "" {
		b.Statuses.Inc(t.Status, 1)
	}

	if !t.Closed {
		b.OpenIssues++
		if t.Assignee == "" {
			b.UnassignedIssues++
		}
		b.Open = append(b.Open, domain.OpenTicket{
			Ticket:      t,
			Class:       statusClass(t, a.opts.NoSLATypes),
			RespondLate: verdict.RespondLate,
			ResolveLate: verdict.ResolveLate,
		})
	}
}

// Tickets aggregates tickets in one pass. Tickets without a creation time
// are dropped.
func Tickets(tickets iter.Seq[domain.Ticket], opts TicketOptions) TicketBreakdown {
	if opts.NoSLATypes == nil {
		opts.NoSLATypes = DefaultNoSLATypes
	}
	b := TicketBreakdown{
		Priorities:     Tally{},
		Statuses:       Tally{},
		OpenedPerDay:   Histogram{},
		ResolvedPerDay: Histogram{},
	}

	pass := Pass[domain.Ticket]{
		Window: opts.Window,
		Valid:  func(t domain.Ticket) bool { return t.CreatedAt > 0 },
		Timestamp: func(t domain.Ticket) int64 {
			if !t.Closed {
				return opts.Window.From
			}
			return t.ClosedAt
		},
	}
	if opts.Assignee != "" {
		pass.Predicate = func(t domain.Ticket) bool { return t.Assignee == opts.Assignee }
	}

	b.Counts = pass.Run(tickets, ticketAccumulator{b: &b, opts: opts})
	SortOpenTickets(b.Open)
	return b
}

// SortOpenTickets orders open tickets for display. Tickets are grouped by
// assignee (unassigned first) ahead of the status class, descending priority
// and descending title ordering, so each person's queue reads as one block.
func SortOpenTickets(open []domain.OpenTicket) {
	slices.SortStableFunc(open, func(a, b domain.OpenTicket) int {
		// "" sorts first, so unassigned tickets lead.
		if c := strings.Compare(a.Assignee, b.Assignee); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Class, b.Class); c != 0 {
			return c
		}
		if c := compareDesc(PriorityRank(a.Priority), PriorityRank(b.Priority)); c != 0 {
			return c
		}
		return compareDesc(title(a), title(b))
	})
}

// PriorityRank maps a priority name to a sortable rank; unknown names rank
// lowest.
func PriorityRank(priority string) int {
	return priorityRank[strings.ToLower(priority)]
}

func statusClass(t domain.Ticket, noSLATypes []string) domain.StatusClass {
	switch {
	case slices.Contains(noSLATypes, t.IssueType):
		return domain.StatusPlanned
	case t.Paused:
		return domain.StatusWaitingForUser
	default:
		return domain.StatusWaitingForInfra
	}
}

func title(t domain.OpenTicket) string {
	return t.Key + ": " + t.Summary
}
