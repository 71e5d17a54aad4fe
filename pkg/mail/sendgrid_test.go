package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	if _, err := NewSendGridSender(config.SendgridConfig{DefaultFrom: "a@b.c"}, nil); err == nil {
		t.Fatal("expected api key error")
	}
	if _, err := NewSendGridSender(config.SendgridConfig{APIKey: "k"}, nil); err == nil {
		t.Fatal("expected from error")
	}
}

func TestSendBuildsEmail(t *testing.T) {
	var captured *sgmail.SGMailV3
	sender := &SendGridSender{
		fromName:  "FirePlay",
		fromEmail: "info@fireplay.com",
		send: func(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error) {
			captured = email
			return &rest.Response{StatusCode: 202}, nil
		},
	}

	err := sender.Send(context.Background(), Message{ToName: "Ada", ToEmail: "ada@example.com", Subject: "Thanks", Body: "<hi>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured == nil || captured.Subject != "Thanks" || captured.From.Address != "info@fireplay.com" {
		t.Fatalf("unexpected email: %+v", captured)
	}
	if len(captured.Personalizations) != 1 || captured.Personalizations[0].To[0].Address != "ada@example.com" {
		t.Fatalf("unexpected recipients: %+v", captured.Personalizations)
	}
	html := captured.Content[1].Value
	if !strings.Contains(html, "&lt;hi&gt;") {
		t.Fatalf("expected escaped html body, got %s", html)
	}
}

func TestSendSurfacesFailures(t *testing.T) {
	sender := &SendGridSender{
		fromEmail: "info@fireplay.com",
		send: func(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error) {
			return &rest.Response{StatusCode: 401, Body: "unauthorized"}, nil
		},
	}
	if err := sender.Send(context.Background(), Message{ToEmail: "x@example.com"}); err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}

	sender.send = func(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error) {
		return nil, errors.New("network down")
	}
	if err := sender.Send(context.Background(), Message{ToEmail: "x@example.com"}); err == nil {
		t.Fatal("expected transport error")
	}
	if err := sender.Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected missing recipient error")
	}
}
