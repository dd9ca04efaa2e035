package domain

import "strings"

// SLA holds the response and resolution limits of a ticket, in hours.
type SLA struct {
	Respond float64
	Resolve float64
}

// Ticket is a validated ticket record. Times are epoch seconds; durations
// are seconds of counted SLA time. A zero value means "not happened yet".
type Ticket struct {
	Key            string
	Summary        string
	URL            string
	Assignee       string
	Status         string
	Priority       string
	IssueType      string
	Closed         bool
	Paused         bool
	CreatedAt      int64
	ClosedAt       int64
	FirstResponse  int64
	ResponseTime   int64
	ResolveTime    int64
	SLATimeCounted int64
	SLA            *SLA
}

// StatusClass tells who an open ticket is waiting for.
type StatusClass int

const (
	StatusWaitingForInfra StatusClass = iota
	StatusWaitingForUser
	StatusPlanned
)

func (s StatusClass) String() string {
	switch s {
	case StatusWaitingForUser:
		return "User"
	case StatusPlanned:
		return "Planned"
	default:
		return "Infra"
	}
}

// OpenTicket is an open ticket prepared for tabular display.
type OpenTicket struct {
	Ticket
	Class       StatusClass
	RespondLate bool
	ResolveLate bool
}

// SLAPolicy assigns SLA limits to tickets that carry none, by priority.
type SLAPolicy struct {
	ByPriority map[string]SLA
	Default    SLA
}

// For returns the limits of a priority, matched case-insensitively.
func (p SLAPolicy) For(priority string) SLA {
	if sla, ok := p.ByPriority[strings.ToLower(priority)]; ok {
		return sla
	}
	return p.Default
}
