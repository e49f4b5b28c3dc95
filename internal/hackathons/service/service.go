package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/hackathons/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/hackathons/repository"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

// HackathonService coordinates bookings and jury results. Booking is a
// composite write (subcollection entry plus participants union) with no
// atomicity; a half-landed pair becomes a PartialWriteError.
type HackathonService struct {
	repo     *repository.Repository
	recorder audit.Recorder
	log      zerolog.Logger
}

func NewHackathonService(repo *repository.Repository, recorder audit.Recorder, log zerolog.Logger) *HackathonService {
	return &HackathonService{
		repo:     repo,
		recorder: recorder,
		log:      log.With().Str("component", "hackathons").Logger(),
	}
}

func (s *HackathonService) Get(ctx context.Context, id string) (domain.Hackathon, error) {
	return s.repo.Get(ctx, id)
}

func (s *HackathonService) List(ctx context.Context) ([]domain.Hackathon, error) {
	return s.repo.List(ctx)
}

// BookSlot reserves a slot for the user and registers them as a
// participant.
func (s *HackathonService) BookSlot(ctx context.Context, u userdomain.UserView, id, slot string) error {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.ForHackathon(u, h, policy.HackathonBookSlot).Err(policy.HackathonBookSlot); err != nil {
		return err
	}

	if _, err := s.repo.AppendBooking(ctx, id, domain.Booking{
		UserID:   u.ID,
		Slot:     slot,
		BookedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("book slot on %s: %w", id, err)
	}

	if err := s.repo.AddParticipant(ctx, id, u.ID); err != nil {
		s.recorder.RecordPartialWrite(ctx, audit.Record{
			Entity:     "hackathon",
			EntityID:   id,
			UserID:     u.ID,
			FailedStep: "participants",
			Detail:     err.Error(),
		})
		return &audit.PartialWriteError{Entity: "hackathon", EntityID: id, FailedStep: "participants", Err: err}
	}

	return nil
}

// SubmitResults records the winner. Jury admins only.
func (s *HackathonService) SubmitResults(ctx context.Context, u userdomain.UserView, id, winner string) error {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.ForHackathon(u, h, policy.HackathonSubmitResults).Err(policy.HackathonSubmitResults); err != nil {
		return err
	}

	if err := s.repo.SetResults(ctx, id, winner); err != nil {
		return fmt.Errorf("submit results for %s: %w", id, err)
	}

	s.log.Info().Str("hackathon", id).Str("admin", u.ID).Msg("results submitted")
	return nil
}
