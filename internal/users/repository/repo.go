package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

const Collection = "users"

// Repository handles the users collection in the document store.
type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// GetProfile returns the raw profile document for uid, or
// domain.ErrProfileNotFound.
func (r *Repository) GetProfile(ctx context.Context, uid string) (docstore.Document, error) {
	doc, err := r.store.Get(ctx, Collection, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}
	return doc, nil
}

// CreateProfile writes a full profile document for a fresh sign-up.
func (r *Repository) CreateProfile(ctx context.Context, uid string, p domain.Profile, email string) error {
	role := p.Role
	if role == "" {
		role = domain.RoleUser
	}
	doc := docstore.Document{
		"name":              p.Name,
		"email":             email,
		"college":           p.College,
		"domain":            p.Domain,
		"currentProject":    nil,
		"enrolledCourses":   []any{},
		"completedProjects": []any{},
		"role":              string(role),
	}
	return r.store.Set(ctx, Collection, uid, doc, false)
}

// EnsureProfile creates the default profile document if none exists.
// Merge semantics guarantee an existing profile is never clobbered.
func (r *Repository) EnsureProfile(ctx context.Context, uid, name, email string) error {
	_, err := r.store.Get(ctx, Collection, uid)
	if err == nil {
		return nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("ensure profile %s: %w", uid, err)
	}
	return r.store.Set(ctx, Collection, uid, domain.DefaultProfileDoc(name, email), true)
}

// UpdateProfile applies a partial profile edit.
func (r *Repository) UpdateProfile(ctx context.Context, uid string, p domain.Profile) error {
	updates := []docstore.Update{
		{Path: "name", Value: p.Name},
		{Path: "college", Value: p.College},
		{Path: "domain", Value: p.Domain},
	}
	err := r.store.Update(ctx, Collection, uid, updates)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrProfileNotFound
	}
	return err
}

// SetCurrentProject records the user's single active project membership.
func (r *Repository) SetCurrentProject(ctx context.Context, uid, projectID string) error {
	return r.store.Update(ctx, Collection, uid, []docstore.Update{
		{Path: "currentProject", Value: projectID},
	})
}

// ClearCurrentProject removes the active project membership.
func (r *Repository) ClearCurrentProject(ctx context.Context, uid string) error {
	return r.store.Update(ctx, Collection, uid, []docstore.Update{
		{Path: "currentProject", Value: nil},
	})
}

// EnrollCourse adds a course id to the user's enrolled set. Array union
// makes repeat enrollment a no-op.
func (r *Repository) EnrollCourse(ctx context.Context, uid, courseID string) error {
	return r.store.Update(ctx, Collection, uid, []docstore.Update{
		{Path: "enrolledCourses", Value: docstore.ArrayUnion(courseID)},
	})
}

// MarkProjectCreated flags a project id on the creator's document.
func (r *Repository) MarkProjectCreated(ctx context.Context, uid, projectID string, created bool) error {
	return r.store.Update(ctx, Collection, uid, []docstore.Update{
		{Path: "createdProjects." + projectID, Value: created},
	})
}
