package events

import "context"

// Channels
const (
	ChannelAccess = "events:access"
)

// Event types
const (
	EventAccessLogAppended = "access_log_appended"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }

// NopSubscriber never delivers anything.
type NopSubscriber struct{}

func (NopSubscriber) Subscribe(context.Context, string, func(Event)) error { return nil }
