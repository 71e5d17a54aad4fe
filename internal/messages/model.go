package messages

import (
	"strings"
	"time"
)

// Message is a contact form submission stored in the messages collection.
type Message struct {
	ID        string    `firestore:"-" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	Email     string    `firestore:"email" json:"email"`
	Body      string    `firestore:"message" json:"message"`
	UserID    string    `firestore:"userId,omitempty" json:"user_id,omitempty"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"created_at"`
}

// SubmitInput is the contact form payload.
type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (in SubmitInput) normalized() SubmitInput {
	return SubmitInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Message: strings.TrimSpace(in.Message),
	}
}
