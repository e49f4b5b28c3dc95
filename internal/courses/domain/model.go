package domain

import (
	"errors"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

var ErrCourseNotFound = errors.New("course not found")

// Course is a catalog entry; enrollment lives on the user document as a
// set of course ids.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
}

func FromDocument(id string, doc docstore.Document) Course {
	return Course{
		ID:          id,
		Title:       stringField(doc, "title"),
		Description: stringField(doc, "description"),
		Content:     stringField(doc, "content"),
	}
}

func stringField(doc docstore.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
