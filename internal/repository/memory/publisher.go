package memory

import (
	"context"
	"sync"
)

// Message is one recorded publication.
type Message struct {
	Topic   string
	Key     string
	Payload any
}

// Publisher records publications instead of sending them.
type Publisher struct {
	mu       sync.Mutex
	messages []Message
	// Err, when set, is returned from every Publish call.
	Err error
}

func (p *Publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, Message{Topic: topic, Key: key, Payload: payload})
	return nil
}

// Messages returns the publications recorded on topic, or all of them when topic is empty.
func (p *Publisher) Messages(topic string) []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Message
	for _, m := range p.messages {
		if topic == "" || m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}
