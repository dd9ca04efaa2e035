package upstream

// QueueSnapshot is one entry of a host's list in the /api/mailstats response.
type QueueSnapshot struct {
	TS                 float64            `json:"ts"`
	Pending            float64            `json:"pending"`
	PendingByRecipient map[string]float64 `json:"pending_by_recipient"`
	PendingBySender    map[string]float64 `json:"pending_by_sender"`
}
