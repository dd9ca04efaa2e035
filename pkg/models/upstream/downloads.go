package upstream

// FileStats is one URI entry of the /api/downloads response.
type FileStats struct {
	Hits       float64            `json:"hits"`
	Bytes      float64            `json:"bytes"`
	HitsUnique float64            `json:"hits_unique"`
	DailyStats [][]float64        `json:"daily_stats"` // [day, hits, unique, bytes]
	CCA2       map[string]float64 `json:"cca2"`
	UserAgents map[string]float64 `json:"useragents"`
	Downscaled bool               `json:"downscaled,omitempty"`
}
