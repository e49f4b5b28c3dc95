package domain

import (
	"errors"
	"time"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

var ErrHackathonNotFound = errors.New("hackathon not found")

type Type string

const (
	TypeOpen    Type = "open"
	TypeCollege Type = "college"
)

// Hackathon is a scheduled event with slot bookings kept in a
// subcollection keyed by user and slot.
type Hackathon struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Type         Type     `json:"type"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
	// Results holds the winner announcement once the jury submits it.
	Results string `json:"results,omitempty"`
}

// HasParticipant reports whether uid has already booked into the event.
func (h Hackathon) HasParticipant(uid string) bool {
	for _, p := range h.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Booking is a single slot reservation.
type Booking struct {
	UserID   string    `json:"userId"`
	Slot     string    `json:"slot"`
	BookedAt time.Time `json:"bookedAt"`
}

func FromDocument(id string, doc docstore.Document) Hackathon {
	return Hackathon{
		ID:           id,
		Title:        stringField(doc, "title"),
		Date:         stringField(doc, "date"),
		Type:         Type(stringField(doc, "type")),
		Description:  stringField(doc, "description"),
		Participants: stringSlice(doc, "participants"),
		Results:      stringField(doc, "results"),
	}
}

func stringField(doc docstore.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func stringSlice(doc docstore.Document, key string) []string {
	raw, ok := doc[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
