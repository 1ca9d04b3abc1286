package consts

// TopicMessageAppended is the topic suffix for accepted messages.
const TopicMessageAppended = "chat.message"

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 100
