package domain

// DailyDownloads is one [day, hits, unique clients, bytes] tuple.
type DailyDownloads struct {
	Day    int64
	Hits   float64
	Unique float64
	Bytes  float64
}

// FileDownloads holds the download statistics of one artifact URI.
type FileDownloads struct {
	URI        string
	Hits       float64
	Bytes      float64
	HitsUnique float64
	Daily      []DailyDownloads
	Countries  map[string]float64
	UserAgents map[string]float64
	Downscaled bool
}
