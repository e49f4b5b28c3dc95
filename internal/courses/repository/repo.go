package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslaunch/campus-launch-backend/internal/courses/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

const Collection = "courses"

// Repository handles the courses collection.
type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Course, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return domain.FromDocument(id, doc), nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Course, error) {
	snaps, err := r.store.ListAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]domain.Course, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.FromDocument(s.ID, s.Data))
	}
	return out, nil
}
