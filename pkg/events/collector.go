package events

// EventCollector is embedded in aggregates to buffer events raised during a
// state change until the application layer drains and publishes them.
type EventCollector struct {
	pending []DomainEvent
}

// Record buffers one or more events in the order they were raised.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Events returns the buffered events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.pending
}

// ClearEvents returns the buffered events and empties the buffer.
func (c *EventCollector) ClearEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
