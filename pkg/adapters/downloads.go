package adapters

import (
	"maps"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/upstream"
)

// ParseDownloads maps a /api/downloads response, a JSON object keyed by
// URI, to per-file statistics sorted by URI.
func ParseDownloads(payload []byte) (Parsed[domain.FileDownloads], error) {
	entries, err := decodeObject(payload)
	if err != nil {
		return Parsed[domain.FileDownloads]{}, err
	}
	return decodeEntries(entries, MapFileStatsToDomain), nil
}

// MapFileStatsToDomain converts one URI entry. Daily tuples shorter than
// four elements are skipped.
func MapFileStatsToDomain(uri string, raw upstream.FileStats) (domain.FileDownloads, bool) {
	if uri == "" {
		return domain.FileDownloads{}, false
	}
	file := domain.FileDownloads{
		URI:        uri,
		Hits:       raw.Hits,
		Bytes:      raw.Bytes,
		HitsUnique: raw.HitsUnique,
		Countries:  maps.Clone(raw.CCA2),
		UserAgents: maps.Clone(raw.UserAgents),
		Downscaled: raw.Downscaled,
	}
	for _, tuple := range raw.DailyStats {
		if len(tuple) < 4 {
			continue
		}
		file.Daily = append(file.Daily, domain.DailyDownloads{
			Day:    int64(tuple[0]),
			Hits:   tuple[1],
			Unique: tuple[2],
			Bytes:  tuple[3],
		})
	}
	return file, true
}
