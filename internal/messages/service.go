package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/fireplay/fireplay-backend/internal/identity"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/validation"
)

type Service interface {
	Submit(ctx context.Context, id identity.Identity, in SubmitInput) (Message, error)
	ListForUser(ctx context.Context, id identity.Identity) ([]Message, error)
}

type service struct {
	repo      Repository
	publisher Publisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the contact service. A nil publisher disables event publishing.
func NewService(repo Repository, publisher Publisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, publisher: publisher, logg: logg, now: time.Now}, nil
}

// Submit stores the message and then announces it. A publish failure is logged; the
// stored message is still returned.
func (s *service) Submit(ctx context.Context, id identity.Identity, in SubmitInput) (Message, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return Message{}, err
	}

	msg := Message{
		Name:   in.Name,
		Email:  in.Email,
		Body:   in.Message,
		UserID: id.AccountID(),
	}
	if err := s.repo.Create(ctx, &msg); err != nil {
		return Message{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store message failed")
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}

	logCtx := s.logg.WithField(ctx, "message_id", msg.ID)
	s.logg.Info(logCtx, "contact message stored")

	if s.publisher != nil {
		env, err := newCreatedEnvelope(msg, s.now())
		if err == nil {
			err = s.publisher.Publish(ctx, env)
		}
		if err != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "contact event publish failed")
		}
	}
	return msg, nil
}

func (s *service) ListForUser(ctx context.Context, id identity.Identity) ([]Message, error) {
	if id.IsAnonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view messages")
	}
	msgs, err := s.repo.ListByUser(ctx, id.AccountID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages failed")
	}
	return msgs, nil
}
