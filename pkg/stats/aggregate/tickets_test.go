package aggregate

import (
	"slices"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hour     = int64(3600)
	deadline = int64(1_700_000_000)
)

var standardSLA = &domain.SLA{Respond: 48, Resolve: 120}

func TestEvaluateSLA(t *testing.T) {
	tests := []struct {
		name     string
		ticket   domain.Ticket
		expected SLAVerdict
	}{
		{
			name: "responded and resolved in time",
			ticket: domain.Ticket{
				SLA: standardSLA, Closed: true, ResponseTime: 10 * hour, ResolveTime: 100 * hour,
			},
			expected: SLAVerdict{Applies: true, RespondedOK: true, ResolvedOK: true},
		},
		{
			name: "responded in time but resolved late",
			ticket: domain.Ticket{
				SLA: standardSLA, Closed: true, ResponseTime: 10 * hour, ResolveTime: 130 * hour,
			},
			expected: SLAVerdict{Applies: true, RespondedOK: true, ResolveLate: true},
		},
		{
			name: "open ticket past resolve limit",
			ticket: domain.Ticket{
				SLA: standardSLA, ResponseTime: 1 * hour, SLATimeCounted: 121 * hour,
			},
			expected: SLAVerdict{Applies: true, RespondedOK: true, ResolveLate: true},
		},
		{
			name: "open ticket never responded past respond limit",
			ticket: domain.Ticket{
				SLA: standardSLA, SLATimeCounted: 50 * hour,
			},
			expected: SLAVerdict{Applies: true, RespondLate: true},
		},
		{
			name: "closed without a resolve time",
			ticket: domain.Ticket{
				SLA: standardSLA, Closed: true, ResponseTime: 1 * hour,
			},
			expected: SLAVerdict{Applies: true, RespondedOK: true},
		},
		{
			name:     "planned work is exempt",
			ticket:   domain.Ticket{SLA: standardSLA, IssueType: "Planned Work", SLATimeCounted: 500 * hour},
			expected: SLAVerdict{},
		},
		{
			name:     "no sla",
			ticket:   domain.Ticket{Closed: true, ResolveTime: 1},
			expected: SLAVerdict{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateSLA(tt.ticket, DefaultNoSLATypes))
		})
	}
}

func TestTickets_SLACountersStayDistinct(t *testing.T) {
	tickets := []domain.Ticket{
		{
			Key: "INFRA-1", CreatedAt: deadline + 10, Closed: true, ClosedAt: deadline + 200*hour,
			ResponseTime: 2 * hour, ResolveTime: 150 * hour, SLA: standardSLA,
		},
	}

	b := Tickets(slices.Values(tickets), TicketOptions{Window: Window{From: deadline}})

	assert.Equal(t, 1, b.RespondedWithinSLA)
	assert.Equal(t, 1, b.FailedSLA)
	assert.Equal(t, 1, b.FailedSLAFixTime)
	assert.Equal(t, 0, b.ResolvedWithinSLA)
	assert.Equal(t, 0, b.FullyDoneWithinSLA)
}

func TestTickets_MissingResolveTimeIsNotInTime(t *testing.T) {
	tickets := []domain.Ticket{
		{
			Key: "INFRA-1", CreatedAt: deadline + 10, Closed: true, ClosedAt: deadline + 3*hour,
			ResponseTime: 1 * hour, SLA: standardSLA,
		},
	}

	b := Tickets(slices.Values(tickets), TicketOptions{Window: Window{From: deadline}})

	assert.Equal(t, 1, b.RespondedWithinSLA)
	assert.Equal(t, 0, b.ResolvedWithinSLA)
	assert.Equal(t, 0, b.FullyDoneWithinSLA)
	assert.Equal(t, 0, b.FailedSLA)
	assert.Equal(t, 0, b.Resolve.Count())
}

func TestTickets_Breakdown(t *testing.T) {
	tickets := []domain.Ticket{
		{ // closed in window, fully compliant
			Key: "INFRA-1", Assignee: "alice", Priority: "Major", Status: "Closed",
			CreatedAt: deadline + hour, Closed: true, ClosedAt: deadline + 5*hour,
			ResponseTime: 1 * hour, ResolveTime: 4 * hour, SLA: standardSLA,
		},
		{ // closed before the window
			Key: "INFRA-2", Assignee: "alice", CreatedAt: deadline - 100*hour,
			Closed: true, ClosedAt: deadline - hour, SLA: standardSLA,
		},
		{ // closed without a close time
			Key: "INFRA-3", Assignee: "alice", CreatedAt: deadline + hour, Closed: true,
		},
		{ // malformed: no creation time
			Key: "INFRA-4", Assignee: "alice",
		},
		{ // old open ticket, unassigned, failing resolve
			Key: "INFRA-5", Summary: "disk full", Priority: "Critical", Status: "Waiting for Infra",
			CreatedAt: deadline - 300*hour, ResponseTime: 2 * hour, SLATimeCounted: 200 * hour, SLA: standardSLA,
		},
		{ // new open ticket waiting for user
			Key: "INFRA-6", Summary: "access", Assignee: "bob", Priority: "Minor", Status: "Waiting for user",
			CreatedAt: deadline + 2*hour, Paused: true, SLA: standardSLA,
		},
		{ // planned work
			Key: "INFRA-7", Summary: "upgrade", Assignee: "bob", IssueType: "Planned Work",
			CreatedAt: deadline + 3*hour, SLATimeCounted: 900 * hour, SLA: standardSLA,
		},
	}

	b := Tickets(slices.Values(tickets), TicketOptions{Window: Window{From: deadline}})

	assert.Equal(t, Counts{Seen: 7, Dropped: 1, Skipped: 2, Accepted: 4}, b.Counts)
	assert.Equal(t, 1, b.IssuesResolved)
	assert.Equal(t, 3, b.IssuesOpened)
	assert.Equal(t, 2, b.IssuesRespondedTo)
	assert.Equal(t, 3, b.IssuesTouched)
	assert.Equal(t, int64(3*hour), b.Respond.Total)
	assert.Equal(t, int64(2*hour), b.Respond.Longest)
	assert.Equal(t, int64(4*hour), b.Resolve.Total)

	assert.Equal(t, 2, b.RespondedWithinSLA)
	assert.Equal(t, 1, b.ResolvedWithinSLA)
	assert.Equal(t, 1, b.FullyDoneWithinSLA)
	assert.Equal(t, 1, b.FailedSLA)
	assert.Equal(t, 1, b.FailedSLAFixTime)

	assert.Equal(t, 3, b.OpenIssues)
	assert.Equal(t, 1, b.UnassignedIssues)
	assert.Equal(t, Tally{"Major": 1, "Critical": 1, "Minor": 1}, b.Priorities)

	require.Len(t, b.Open, 3)
	assert.Equal(t, "INFRA-5", b.Open[0].Key)
	assert.True(t, b.Open[0].ResolveLate)
	assert.Equal(t, "INFRA-6", b.Open[1].Key)
	assert.Equal(t, domain.StatusWaitingForUser, b.Open[1].Class)
	assert.Equal(t, "INFRA-7", b.Open[2].Key)
	assert.Equal(t, domain.StatusPlanned, b.Open[2].Class)

	assert.Equal(t, []domain.Point{
		{Day: 1699920000, Value: 1},
		{Day: 1700006400, Value: 2},
	}, b.OpenedPerDay.Points())
}

func TestTickets_AssigneeFilter(t *testing.T) {
	tickets := []domain.Ticket{
		{Key: "A-1", Assignee: "alice", CreatedAt: deadline + 1},
		{Key: "A-2", Assignee: "bob", CreatedAt: deadline + 1},
	}

	b := Tickets(slices.Values(tickets), TicketOptions{Window: Window{From: deadline}, Assignee: "bob"})

	assert.Equal(t, 1, b.OpenIssues)
	require.Len(t, b.Open, 1)
	assert.Equal(t, "A-2", b.Open[0].Key)
}

func TestSortOpenTickets(t *testing.T) {
	open := []domain.OpenTicket{
		{Ticket: domain.Ticket{Key: "X-1", Assignee: "bob", Priority: "Minor"}},
		{Ticket: domain.Ticket{Key: "X-2", Assignee: "alice", Priority: "Minor"}, Class: domain.StatusWaitingForUser},
		{Ticket: domain.Ticket{Key: "X-3", Assignee: "alice", Priority: "Minor"}},
		{Ticket: domain.Ticket{Key: "X-4", Assignee: "alice", Priority: "Blocker"}},
		{Ticket: domain.Ticket{Key: "X-5", Priority: "Trivial"}},
		{Ticket: domain.Ticket{Key: "X-6", Assignee: "alice", Priority: "Minor"}},
	}

	SortOpenTickets(open)

	keys := make([]string, len(open))
	for i, o := range open {
		keys[i] = o.Key
	}
	assert.Equal(t, []string{"X-5", "X-4", "X-6", "X-3", "X-2", "X-1"}, keys)
}
