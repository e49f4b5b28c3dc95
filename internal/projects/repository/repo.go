package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/domain"
)

const Collection = "projects"

// Repository handles the projects collection in the document store.
type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Project, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("get project %s: %w", id, err)
	}
	return domain.FromDocument(id, doc), nil
}

func (r *Repository) Create(ctx context.Context, p domain.Project) error {
	return r.store.Set(ctx, Collection, p.ID, p.ToDocument(), false)
}

func (r *Repository) List(ctx context.Context) ([]domain.Project, error) {
	snaps, err := r.store.ListAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]domain.Project, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.FromDocument(s.ID, s.Data))
	}
	return out, nil
}

// UpdateDetails applies a creator's edit to the mutable project fields.
func (r *Repository) UpdateDetails(ctx context.Context, id string, p domain.Project) error {
	skills := make([]any, 0, len(p.Skills))
	for _, s := range p.Skills {
		skills = append(skills, s)
	}
	err := r.store.Update(ctx, Collection, id, []docstore.Update{
		{Path: "title", Value: p.Title},
		{Path: "description", Value: p.Description},
		{Path: "domain", Value: p.Domain},
		{Path: "durationDays", Value: p.DurationDays},
		{Path: "skills", Value: skills},
		{Path: "stage", Value: string(p.Stage)},
		{Path: "imageUrl", Value: p.ImageURL},
		{Path: "status", Value: string(p.Status)},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrProjectNotFound
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}

// AddTeamMember appends uid to the team with set semantics.
func (r *Repository) AddTeamMember(ctx context.Context, id, uid string) error {
	err := r.store.Update(ctx, Collection, id, []docstore.Update{
		{Path: "team", Value: docstore.ArrayUnion(uid)},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrProjectNotFound
	}
	return err
}

// RemoveTeamMember removes uid from the team.
func (r *Repository) RemoveTeamMember(ctx context.Context, id, uid string) error {
	err := r.store.Update(ctx, Collection, id, []docstore.Update{
		{Path: "team", Value: docstore.ArrayRemove(uid)},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrProjectNotFound
	}
	return err
}
