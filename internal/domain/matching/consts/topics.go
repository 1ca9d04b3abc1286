package consts

// Topic suffixes; the publisher prepends the configured prefix.
const (
	TopicMatchPromoted = "match.promoted"
	TopicMatchBlocked  = "match.blocked"
)

// Operation labels used in logs and metrics
const (
	OpExpressInterest = "express_interest"
	OpReciprocate     = "reciprocate"
	OpInvite          = "invite"
	OpBlock           = "block"
)
