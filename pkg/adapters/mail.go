package adapters

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/upstream"
)

// MailStats maps host names to their queue snapshots, oldest first.
type MailStats map[string][]domain.QueueSnapshot

// ParseMailStats maps a /api/mailstats response. Each snapshot is decoded
// independently; a host whose value is not a list is dropped entirely.
func ParseMailStats(payload []byte) (MailStats, int, error) {
	hosts, err := decodeObject(payload)
	if err != nil {
		return nil, 0, err
	}

	stats := MailStats{}
	var dropped int
	for host, rawList := range hosts {
		var entries []json.RawMessage
		if err := json.Unmarshal(rawList, &entries); err != nil {
			dropped++
			continue
		}
		snapshots := make([]domain.QueueSnapshot, 0, len(entries))
		for _, entry := range entries {
			var raw upstream.QueueSnapshot
			if err := json.Unmarshal(entry, &raw); err != nil || raw.TS <= 0 {
				dropped++
				continue
			}
			snapshots = append(snapshots, MapQueueSnapshotToDomain(raw))
		}
		slices.SortStableFunc(snapshots, func(a, b domain.QueueSnapshot) int {
			return cmp.Compare(a.TS, b.TS)
		})
		stats[host] = snapshots
	}
	return stats, dropped, nil
}

func MapQueueSnapshotToDomain(raw upstream.QueueSnapshot) domain.QueueSnapshot {
	s := domain.QueueSnapshot{
		TS:          int64(raw.TS),
		Pending:     raw.Pending,
		ByRecipient: maps.Clone(raw.PendingByRecipient),
		BySender:    maps.Clone(raw.PendingBySender),
	}
	if s.ByRecipient == nil {
		s.ByRecipient = map[string]float64{}
	}
	if s.BySender == nil {
		s.BySender = map[string]float64{}
	}
	return s
}
