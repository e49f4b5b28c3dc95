package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

const Collection = "messages"

// Message is a direct message from an investor to a prototype creator.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	ReceiverID  string    `json:"receiverId"`
	Body        string    `json:"message"`
	PrototypeID string    `json:"prototypeId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository handles the messages collection.
type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Create(ctx context.Context, m Message) (Message, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	doc := docstore.Document{
		"senderId":    m.SenderID,
		"receiverId":  m.ReceiverID,
		"message":     m.Body,
		"prototypeId": m.PrototypeID,
		"createdAt":   m.CreatedAt.Format(time.RFC3339),
	}
	if err := r.store.Set(ctx, Collection, m.ID, doc, false); err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}
