package domain

import (
	"errors"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

var ErrPrototypeNotFound = errors.New("prototype not found")

// Prototype is a demo uploaded for a project, browsable by investors.
type Prototype struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DemoLink    string `json:"demoLink"`
	CreatorID   string `json:"creatorId"`
	CreatorName string `json:"creatorName"`
	ProjectID   string `json:"projectId"`
	Domain      string `json:"domain"`
}

func FromDocument(id string, doc docstore.Document) Prototype {
	return Prototype{
		ID:          id,
		Title:       stringField(doc, "title"),
		Description: stringField(doc, "description"),
		DemoLink:    stringField(doc, "demoLink"),
		CreatorID:   stringField(doc, "creatorId"),
		CreatorName: stringField(doc, "creatorName"),
		ProjectID:   stringField(doc, "projectId"),
		Domain:      stringField(doc, "domain"),
	}
}

func (p Prototype) ToDocument() docstore.Document {
	return docstore.Document{
		"title":       p.Title,
		"description": p.Description,
		"demoLink":    p.DemoLink,
		"creatorId":   p.CreatorID,
		"creatorName": p.CreatorName,
		"projectId":   p.ProjectID,
		"domain":      p.Domain,
	}
}

func stringField(doc docstore.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
