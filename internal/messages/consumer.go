package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/fireplay/fireplay-backend/pkg/idempotency"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/mail"
	"github.com/google/uuid"
)

const ackEmailConsumer = "contact-ack-email"

// Consumer sends an acknowledgement email for every stored contact message.
type Consumer struct {
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	sender       mail.Sender
	logg         *logger.Logger
}

func NewConsumer(subscription *pubsub.Subscriber, manager *idempotency.Manager, sender mail.Sender, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("contact subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		idempotency:  manager,
		sender:       sender,
		logg:         logg,
	}, nil
}

// Run receives until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes[eventTypeAttribute]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != EventMessageCreated {
		c.logg.Info(logCtx, "skipping unrelated event")
		return processResult{ack: true}
	}

	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}
	if _, err := uuid.Parse(env.EventID); err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	var payload CreatedPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil || strings.TrimSpace(payload.Email) == "" {
		if err == nil {
			err = fmt.Errorf("recipient email missing")
		}
		c.logg.Error(logCtx, "invalid payload", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, ackEmailConsumer, env.EventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.sender.Send(ctx, acknowledgement(payload)); err != nil {
		c.logg.Error(logCtx, "acknowledgement email failed", err)
		if relErr := c.idempotency.Release(ctx, ackEmailConsumer, env.EventID); relErr != nil {
			c.logg.Warn(c.logg.WithField(logCtx, "error", relErr.Error()), "idempotency release failed")
		}
		return processResult{nack: true}
	}

	c.logg.Info(c.logg.WithField(logCtx, "contact_message_id", payload.MessageID), "acknowledgement email sent")
	return processResult{ack: true}
}

func acknowledgement(p CreatedPayload) mail.Message {
	name := strings.TrimSpace(p.Name)
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	return mail.Message{
		ToName:  name,
		ToEmail: p.Email,
		Subject: "We received your message",
		Body: fmt.Sprintf("%s,\n\nThanks for contacting FirePlay. We received your message (reference %s) and will get back to you soon.\n\nThe FirePlay team",
			greeting, p.MessageID),
	}
}
