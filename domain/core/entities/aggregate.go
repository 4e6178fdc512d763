package entities

import "agentxrp-backend/domain/events"

// eventRecorder collects events raised during an aggregate's lifetime.
// Handlers publish them only after the surrounding transaction commits.
type eventRecorder struct {
	events []events.DomainEvent
}

// GetUncommittedEvents returns events not yet published
func (r *eventRecorder) GetUncommittedEvents() []events.DomainEvent {
	return r.events
}

// MarkEventsAsCommitted clears the pending events
func (r *eventRecorder) MarkEventsAsCommitted() {
	r.events = nil
}

func (r *eventRecorder) addEvent(event events.DomainEvent) {
	r.events = append(r.events, event)
}
