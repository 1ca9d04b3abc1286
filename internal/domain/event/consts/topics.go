package consts

// Topic suffixes; the publisher prepends the configured prefix.
const (
	TopicEventCreated = "event.created"
	TopicEventClosed  = "event.closed"
)

// Close reasons
const (
	ClosedByInitiator = "initiator"
	ClosedByPolicy    = "policy"
)
