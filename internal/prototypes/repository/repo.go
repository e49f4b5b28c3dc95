package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/prototypes/domain"
)

const Collection = "prototypes"

// Repository handles the prototypes collection.
type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Prototype, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Prototype{}, domain.ErrPrototypeNotFound
	}
	if err != nil {
		return domain.Prototype{}, fmt.Errorf("get prototype %s: %w", id, err)
	}
	return domain.FromDocument(id, doc), nil
}

func (r *Repository) Create(ctx context.Context, p domain.Prototype) error {
	return r.store.Set(ctx, Collection, p.ID, p.ToDocument(), false)
}

func (r *Repository) List(ctx context.Context) ([]domain.Prototype, error) {
	snaps, err := r.store.ListAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list prototypes: %w", err)
	}
	out := make([]domain.Prototype, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.FromDocument(s.ID, s.Data))
	}
	return out, nil
}
