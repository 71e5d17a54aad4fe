package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

// EventMessageCreated is published after a contact message is stored.
const EventMessageCreated = "contact.message.created"

const eventTypeAttribute = "event_type"

// Envelope wraps every published event.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// CreatedPayload is the data of EventMessageCreated.
type CreatedPayload struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	UserID    string `json:"user_id,omitempty"`
}

func newCreatedEnvelope(msg Message, now time.Time) (Envelope, error) {
	data, err := json.Marshal(CreatedPayload{
		MessageID: msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		UserID:    msg.UserID,
	})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  EventMessageCreated,
		OccurredAt: now.UTC(),
		Data:       data,
	}, nil
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// PubSubPublisher publishes envelopes to a Pub/Sub topic and waits for the server ack.
type PubSubPublisher struct {
	publisher *pubsub.Publisher
}

func NewPubSubPublisher(publisher *pubsub.Publisher) (*PubSubPublisher, error) {
	if publisher == nil {
		return nil, errors.New("pubsub publisher is required")
	}
	return &PubSubPublisher{publisher: publisher}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{eventTypeAttribute: env.EventType},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing %s: %w", env.EventType, err)
	}
	return nil
}

// Stop flushes pending messages.
func (p *PubSubPublisher) Stop() {
	p.publisher.Stop()
}
