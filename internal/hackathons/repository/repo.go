package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/hackathons/domain"
)

const (
	Collection            = "hackathons"
	BookingsSubcollection = "bookings"
)

// Repository handles the hackathons collection and its bookings
// subcollection.
type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Hackathon, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Hackathon{}, domain.ErrHackathonNotFound
	}
	if err != nil {
		return domain.Hackathon{}, fmt.Errorf("get hackathon %s: %w", id, err)
	}
	return domain.FromDocument(id, doc), nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Hackathon, error) {
	snaps, err := r.store.ListAll(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list hackathons: %w", err)
	}
	out := make([]domain.Hackathon, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, domain.FromDocument(s.ID, s.Data))
	}
	return out, nil
}

// AppendBooking records a slot reservation in the bookings subcollection.
func (r *Repository) AppendBooking(ctx context.Context, id string, b domain.Booking) (string, error) {
	return r.store.AppendToSubcollection(ctx, Collection, id, BookingsSubcollection, docstore.Document{
		"userId":   b.UserID,
		"slot":     b.Slot,
		"bookedAt": b.BookedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// AddParticipant appends uid to the participants set.
func (r *Repository) AddParticipant(ctx context.Context, id, uid string) error {
	err := r.store.Update(ctx, Collection, id, []docstore.Update{
		{Path: "participants", Value: docstore.ArrayUnion(uid)},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrHackathonNotFound
	}
	return err
}

// SetResults writes the winner announcement.
func (r *Repository) SetResults(ctx context.Context, id, winner string) error {
	err := r.store.Update(ctx, Collection, id, []docstore.Update{
		{Path: "results", Value: winner},
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrHackathonNotFound
	}
	return err
}
