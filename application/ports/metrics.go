package ports

// LedgerMetrics receives business counters from the application layer
type LedgerMetrics interface {
	VoteCast(direction string)
	TipRecorded(amountDrops int64)
	DuplicateTipRejected()
	KarmaRecalculationFailed()
	EventPublishFailed(eventType string)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) VoteCast(string)           {}
func (NopMetrics) TipRecorded(int64)         {}
func (NopMetrics) DuplicateTipRejected()     {}
func (NopMetrics) KarmaRecalculationFailed() {}
func (NopMetrics) EventPublishFailed(string) {}
