package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/upstream"
)

// ParseTickets maps a /api/jira response, either an array of tickets or an
// object keyed by ticket key. When policy is set, tickets without SLA limits
// receive the limits of their priority.
func ParseTickets(payload []byte, policy *domain.SLAPolicy) (Parsed[domain.Ticket], error) {
	mapper := func(key string, raw upstream.Ticket) (domain.Ticket, bool) {
		return MapTicketToDomain(key, raw, policy), true
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return Parsed[domain.Ticket]{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		var out Parsed[domain.Ticket]
		for _, entry := range entries {
			var raw upstream.Ticket
			if err := json.Unmarshal(entry, &raw); err != nil {
				out.Dropped++
				continue
			}
			ticket, _ := mapper("", raw)
			out.Records = append(out.Records, ticket)
		}
		return out, nil
	}

	entries, err := decodeObject(payload)
	if err != nil {
		return Parsed[domain.Ticket]{}, err
	}
	return decodeEntries(entries, mapper), nil
}

// MapTicketToDomain converts one ticket. fallbackKey names tickets that lack
// a key of their own.
func MapTicketToDomain(fallbackKey string, raw upstream.Ticket, policy *domain.SLAPolicy) domain.Ticket {
	t := domain.Ticket{
		Key:            raw.Key,
		Summary:        raw.Summary,
		URL:            raw.URL,
		Assignee:       raw.Assignee,
		Status:         raw.Status,
		Priority:       raw.Priority,
		IssueType:      raw.IssueType,
		Closed:         raw.Closed,
		Paused:         raw.Paused,
		CreatedAt:      int64(raw.CreatedAt),
		ClosedAt:       int64(raw.ClosedAt),
		FirstResponse:  int64(raw.FirstResponse),
		ResponseTime:   int64(raw.ResponseTime),
		ResolveTime:    int64(raw.ResolveTime),
		SLATimeCounted: int64(raw.SLATimeCounted),
	}
	if t.Key == "" {
		t.Key = fallbackKey
	}
	switch {
	case raw.SLA != nil:
		t.SLA = &domain.SLA{Respond: raw.SLA.Respond, Resolve: raw.SLA.Resolve}
	case policy != nil:
		sla := policy.For(raw.Priority)
		t.SLA = &sla
	}
	return t
}
