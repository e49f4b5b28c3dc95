// Package docstore defines the collection/document persistence collaborator.
// The platform treats storage as a black box: get-by-id, set (optionally
// merging), partial update with atomic array membership changes, delete,
// list-all and subcollection appends. The production implementation is
// Firestore; an in-memory implementation backs tests and local development.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document id has no document.
var ErrNotFound = errors.New("document not found")

// Document is the raw field map of a single document.
type Document map[string]any

// Snapshot pairs a document with its id, as returned by ListAll.
type Snapshot struct {
	ID   string
	Data Document
}

// Update is a single partial-update instruction. Value may be a plain value
// or one of the ArrayUnion/ArrayRemove/DeleteField sentinels.
type Update struct {
	Path  string
	Value any
}

type arrayUnion struct{ elems []any }
type arrayRemove struct{ elems []any }
type deleteField struct{}

// ArrayUnion adds elements to an array field with set semantics: elements
// already present are not duplicated.
func ArrayUnion(elems ...any) any { return arrayUnion{elems: elems} }

// ArrayRemove removes all occurrences of the given elements from an array field.
func ArrayRemove(elems ...any) any { return arrayRemove{elems: elems} }

// DeleteField clears a field from the document.
func DeleteField() any { return deleteField{} }

// Store is the Document Store collaborator.
type Store interface {
	// Get returns the document data for id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes the full document. With merge, existing fields not present
	// in doc are preserved; without it the document is replaced.
	Set(ctx context.Context, collection, id string, doc Document, merge bool) error

	// Update applies partial field updates to an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, updates []Update) error

	// Delete removes the document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// ListAll returns every document in the collection.
	ListAll(ctx context.Context, collection string) ([]Snapshot, error)

	// AppendToSubcollection adds a document with a generated id to a
	// subcollection of the given document and returns the new id.
	AppendToSubcollection(ctx context.Context, collection, id, subcollection string, doc Document) (string, error)
}
