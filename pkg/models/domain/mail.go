package domain

// QueueSnapshot is the mail queue state of one host at one point in time.
type QueueSnapshot struct {
	TS          int64
	Pending     float64
	ByRecipient map[string]float64
	BySender    map[string]float64
}

// CollatedHost is the pseudo-host summing every real host.
const CollatedHost = "collated"
