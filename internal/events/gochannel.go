package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// goChannelPublisher is the default in-process event bus. A background
// subscriber drains the topic and logs every event, so the trail is visible
// without any external broker.
type goChannelPublisher struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

func NewGoChannelPublisher(logger *slog.Logger) (EventPublisher, error) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	messages, err := pubsub.Subscribe(context.Background(), Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", Topic, err)
	}

	p := &goChannelPublisher{pubsub: pubsub, logger: logger}
	go p.consume(messages)

	return p, nil
}

func (p *goChannelPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", event.Type)
	msg.Metadata.Set("source", event.Source)

	if err := p.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (p *goChannelPublisher) consume(messages <-chan *message.Message) {
	for msg := range messages {
		p.logger.Info("event published",
			"event_id", msg.UUID,
			"type", msg.Metadata.Get("type"))
		msg.Ack()
	}
}

func (p *goChannelPublisher) Close() error {
	return p.pubsub.Close()
}
