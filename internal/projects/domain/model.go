package domain

import (
	"errors"
	"time"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

var ErrProjectNotFound = errors.New("project not found")

type Stage string

const (
	StageIdea           Stage = "idea"
	StageMVP            Stage = "mvp"
	StageImplementation Stage = "implementation"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Project is a student startup project. The creator is always a team
// member; join and leave preserve that invariant.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Domain       string    `json:"domain"`
	DurationDays int       `json:"durationDays"`
	Skills       []string  `json:"skills"`
	Stage        Stage     `json:"stage"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatorID    string    `json:"creatorId"`
	CreatorName  string    `json:"creatorName"`
	Team         []string  `json:"team"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasMember reports whether uid is on the project team.
func (p Project) HasMember(uid string) bool {
	for _, m := range p.Team {
		if m == uid {
			return true
		}
	}
	return false
}

// FromDocument maps a raw project document to a Project, applying the
// defaulting that used to be scattered per page.
func FromDocument(id string, doc docstore.Document) Project {
	p := Project{
		ID:           id,
		Title:        stringOr(doc, "title", "Untitled Project"),
		Description:  stringOr(doc, "description", "No description available"),
		Domain:       stringOr(doc, "domain", "Unknown"),
		DurationDays: intField(doc, "durationDays"),
		Skills:       stringSlice(doc, "skills"),
		Stage:        Stage(stringOr(doc, "stage", string(StageIdea))),
		ImageURL:     stringOr(doc, "imageUrl", ""),
		CreatorID:    stringOr(doc, "creatorId", ""),
		CreatorName:  stringOr(doc, "creatorName", "Unknown"),
		Team:         stringSlice(doc, "team"),
		Status:       Status(stringOr(doc, "status", string(StatusActive))),
	}
	if ts, ok := doc["createdAt"].(time.Time); ok {
		p.CreatedAt = ts
	} else if s, ok := doc["createdAt"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			p.CreatedAt = parsed
		}
	}
	return p
}

// ToDocument maps a Project back to its stored form.
func (p Project) ToDocument() docstore.Document {
	skills := make([]any, 0, len(p.Skills))
	for _, s := range p.Skills {
		skills = append(skills, s)
	}
	team := make([]any, 0, len(p.Team))
	for _, m := range p.Team {
		team = append(team, m)
	}
	return docstore.Document{
		"title":        p.Title,
		"description":  p.Description,
		"domain":       p.Domain,
		"durationDays": p.DurationDays,
		"skills":       skills,
		"stage":        string(p.Stage),
		"imageUrl":     p.ImageURL,
		"creatorId":    p.CreatorID,
		"creatorName":  p.CreatorName,
		"team":         team,
		"status":       string(p.Status),
		"createdAt":    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func stringOr(doc docstore.Document, key, fallback string) string {
	if v, ok := doc[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intField(doc docstore.Document, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
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
