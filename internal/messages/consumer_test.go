package messages

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/fireplay/fireplay-backend/pkg/idempotency"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/mail"
)

type fakeIdempotencyStore struct {
	keys map[string]bool
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.keys, k)
	}
	return nil
}

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func newTestConsumer(t *testing.T, sender mail.Sender) (*Consumer, *fakeIdempotencyStore) {
	t.Helper()
	store := &fakeIdempotencyStore{keys: map[string]bool{}}
	manager, err := idempotency.NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &Consumer{idempotency: manager, sender: sender, logg: logger.Nop()}, store
}

func createdMessage(t *testing.T) *pubsub.Message {
	t.Helper()
	env, err := newCreatedEnvelope(Message{ID: "msg-9", Name: "Ana", Email: "ana@example.com"}, time.Now())
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	data, _ := json.Marshal(env)
	return &pubsub.Message{ID: "ps-1", Data: data, Attributes: map[string]string{eventTypeAttribute: EventMessageCreated}}
}

func TestConsumerSendsAcknowledgementOnce(t *testing.T) {
	sender := &recordingSender{}
	c, _ := newTestConsumer(t, sender)
	msg := createdMessage(t)

	if res := c.process(context.Background(), msg); !res.ack {
		t.Fatalf("expected ack, got %+v", res)
	}
	if res := c.process(context.Background(), msg); !res.ack {
		t.Fatalf("expected ack for redelivery, got %+v", res)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	if sender.sent[0].ToEmail != "ana@example.com" || sender.sent[0].ToName != "Ana" {
		t.Fatalf("unexpected email %+v", sender.sent[0])
	}
}

func TestConsumerNacksAndReleasesOnSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("sendgrid down")}
	c, store := newTestConsumer(t, sender)

	if res := c.process(context.Background(), createdMessage(t)); !res.nack {
		t.Fatalf("expected nack, got %+v", res)
	}
	if len(store.keys) != 0 {
		t.Fatalf("processed mark should be released, got %v", store.keys)
	}
}

func TestConsumerAcksUnprocessableMessages(t *testing.T) {
	sender := &recordingSender{}
	c, _ := newTestConsumer(t, sender)

	other := &pubsub.Message{Data: []byte(`{}`), Attributes: map[string]string{eventTypeAttribute: "order.created"}}
	garbage := &pubsub.Message{Data: []byte(`not json`), Attributes: map[string]string{eventTypeAttribute: EventMessageCreated}}
	badID := &pubsub.Message{Data: []byte(`{"event_id":"x","data":{}}`), Attributes: map[string]string{eventTypeAttribute: EventMessageCreated}}

	for _, msg := range []*pubsub.Message{other, garbage, badID} {
		if res := c.process(context.Background(), msg); !res.ack {
			t.Fatalf("expected ack for %s, got %+v", msg.Data, res)
		}
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no email expected, got %d", len(sender.sent))
	}
}

func TestNewConsumerValidation(t *testing.T) {
	if _, err := NewConsumer(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
