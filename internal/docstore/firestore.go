package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on top of Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Document(snap.Data()), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, doc Document, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)

	var err error
	if merge {
		_, err = ref.Set(ctx, map[string]any(doc), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, map[string]any(doc))
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	fsUpdates := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: u.Path, Value: translateValue(u.Value)})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) ListAll(ctx context.Context, collection string) ([]Snapshot, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var out []Snapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		out = append(out, Snapshot{ID: snap.Ref.ID, Data: Document(snap.Data())})
	}
	return out, nil
}

func (s *FirestoreStore) AppendToSubcollection(ctx context.Context, collection, id, subcollection string, doc Document) (string, error) {
	ref, _, err := s.client.Collection(collection).Doc(id).Collection(subcollection).Add(ctx, map[string]any(doc))
	if err != nil {
		return "", fmt.Errorf("append %s/%s/%s: %w", collection, id, subcollection, err)
	}
	return ref.ID, nil
}

func translateValue(v any) any {
	switch sv := v.(type) {
	case arrayUnion:
		return firestore.ArrayUnion(sv.elems...)
	case arrayRemove:
		return firestore.ArrayRemove(sv.elems...)
	case deleteField:
		return firestore.Delete
	default:
		return v
	}
}
