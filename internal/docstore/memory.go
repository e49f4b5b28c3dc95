package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It mirrors Firestore semantics for merge sets and array union/remove.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]Document
	subs map[string]map[string]Document // key: collection/id/subcollection

	// FailUpdate, when set, makes the next Update on the matching
	// collection/id fail. Used to exercise partial-write paths.
	FailUpdate func(collection, id string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cols: make(map[string]map[string]Document),
		subs: make(map[string]map[string]Document),
	}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.cols[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, doc Document, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cols[collection] == nil {
		s.cols[collection] = make(map[string]Document)
	}

	existing, ok := s.cols[collection][id]
	if merge && ok {
		merged := cloneDoc(existing)
		for k, v := range doc {
			merged[k] = v
		}
		s.cols[collection][id] = merged
		return nil
	}

	s.cols[collection][id] = cloneDoc(doc)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, updates []Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpdate != nil {
		if err := s.FailUpdate(collection, id); err != nil {
			return err
		}
	}

	doc, ok := s.cols[collection][id]
	if !ok {
		return ErrNotFound
	}

	updated := cloneDoc(doc)
	for _, u := range updates {
		switch v := u.Value.(type) {
		case arrayUnion:
			updated[u.Path] = unionInto(asSlice(updated[u.Path]), v.elems)
		case arrayRemove:
			updated[u.Path] = removeFrom(asSlice(updated[u.Path]), v.elems)
		case deleteField:
			delete(updated, u.Path)
		default:
			updated[u.Path] = v
		}
	}
	s.cols[collection][id] = updated
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cols[collection], id)
	return nil
}

func (s *MemoryStore) ListAll(_ context.Context, collection string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.cols[collection]))
	for id := range s.cols[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, Snapshot{ID: id, Data: cloneDoc(s.cols[collection][id])})
	}
	return out, nil
}

func (s *MemoryStore) AppendToSubcollection(_ context.Context, collection, id, subcollection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s/%s/%s", collection, id, subcollection)
	if s.subs[key] == nil {
		s.subs[key] = make(map[string]Document)
	}

	docID := uuid.New().String()
	s.subs[key][docID] = cloneDoc(doc)
	return docID, nil
}

// Subcollection returns the documents appended under collection/id/sub.
// Test helper; not part of the Store interface.
func (s *MemoryStore) Subcollection(collection, id, subcollection string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := fmt.Sprintf("%s/%s/%s", collection, id, subcollection)
	out := make([]Document, 0, len(s.subs[key]))
	for _, doc := range s.subs[key] {
		out = append(out, cloneDoc(doc))
	}
	return out
}

func cloneDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if vs, ok := v.([]any); ok {
			cp := make([]any, len(vs))
			copy(cp, vs)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

func asSlice(v any) []any {
	if vs, ok := v.([]any); ok {
		return vs
	}
	return nil
}

func unionInto(existing []any, elems []any) []any {
	out := append([]any(nil), existing...)
	for _, e := range elems {
		found := false
		for _, x := range out {
			if x == e {
				found = true
				break
			}
		}
		if !found {
			out = append(out, e)
		}
	}
	return out
}

func removeFrom(existing []any, elems []any) []any {
	out := make([]any, 0, len(existing))
	for _, x := range existing {
		keep := true
		for _, e := range elems {
			if x == e {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, x)
		}
	}
	return out
}
