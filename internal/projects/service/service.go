package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/projects/repository"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

// CacheInvalidator drops cached profile documents after user-document
// writes. Satisfied by the identity resolver; may be nil.
type CacheInvalidator interface {
	InvalidateProfile(ctx context.Context, uid string)
}

// ProjectService coordinates project mutations: policy first, then the
// document-store writes. Composite operations are two independent
// writes and are not atomic; a half-landed pair is surfaced as a
// PartialWriteError and recorded in the audit ledger.
type ProjectService struct {
	repo     *repository.Repository
	users    *usersrepo.Repository
	recorder audit.Recorder
	cache    CacheInvalidator
	log      zerolog.Logger
}

func NewProjectService(repo *repository.Repository, users *usersrepo.Repository, recorder audit.Recorder, cache CacheInvalidator, log zerolog.Logger) *ProjectService {
	return &ProjectService{
		repo:     repo,
		users:    users,
		recorder: recorder,
		cache:    cache,
		log:      log.With().Str("component", "projects").Logger(),
	}
}

// CreateInput carries the creator-editable project fields.
type CreateInput struct {
	Title        string
	Description  string
	Domain       string
	DurationDays int
	Skills       []string
	Stage        domain.Stage
	ImageURL     string
}

// Create writes the project with the creator on the team, then flags it
// on the creator's document.
func (s *ProjectService) Create(ctx context.Context, u userdomain.UserView, in CreateInput) (domain.Project, error) {
	stage := in.Stage
	if stage == "" {
		stage = domain.StageIdea
	}

	creatorName := u.Name
	if creatorName == "" {
		creatorName = u.Email
	}

	p := domain.Project{
		ID:           "proj_" + uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		Domain:       in.Domain,
		DurationDays: in.DurationDays,
		Skills:       in.Skills,
		Stage:        stage,
		ImageURL:     in.ImageURL,
		CreatorID:    u.ID,
		CreatorName:  creatorName,
		Team:         []string{u.ID},
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Project{}, fmt.Errorf("create project: %w", err)
	}

	if err := s.users.MarkProjectCreated(ctx, u.ID, p.ID, true); err != nil {
		s.recorder.RecordPartialWrite(ctx, audit.Record{
			Entity:     "project",
			EntityID:   p.ID,
			UserID:     u.ID,
			FailedStep: "users.createdProjects",
			Detail:     err.Error(),
		})
		return p, &audit.PartialWriteError{Entity: "project", EntityID: p.ID, FailedStep: "users.createdProjects", Err: err}
	}

	s.invalidate(ctx, u.ID)
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (domain.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

// Join adds the user to the team and points their currentProject at it.
func (s *ProjectService) Join(ctx context.Context, u userdomain.UserView, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.ForProject(u, p, policy.ProjectJoin).Err(policy.ProjectJoin); err != nil {
		return err
	}

	if err := s.repo.AddTeamMember(ctx, id, u.ID); err != nil {
		return fmt.Errorf("join project %s: %w", id, err)
	}

	if err := s.users.SetCurrentProject(ctx, u.ID, id); err != nil {
		s.recorder.RecordPartialWrite(ctx, audit.Record{
			Entity:     "project",
			EntityID:   id,
			UserID:     u.ID,
			FailedStep: "users.currentProject",
			Detail:     err.Error(),
		})
		return &audit.PartialWriteError{Entity: "project", EntityID: id, FailedStep: "users.currentProject", Err: err}
	}

	s.invalidate(ctx, u.ID)
	return nil
}

// Leave removes the user from the team and clears their currentProject.
func (s *ProjectService) Leave(ctx context.Context, u userdomain.UserView, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.ForProject(u, p, policy.ProjectLeave).Err(policy.ProjectLeave); err != nil {
		return err
	}

	if err := s.repo.RemoveTeamMember(ctx, id, u.ID); err != nil {
		return fmt.Errorf("leave project %s: %w", id, err)
	}

	if err := s.users.ClearCurrentProject(ctx, u.ID); err != nil {
		s.recorder.RecordPartialWrite(ctx, audit.Record{
			Entity:     "project",
			EntityID:   id,
			UserID:     u.ID,
			FailedStep: "users.currentProject",
			Detail:     err.Error(),
		})
		return &audit.PartialWriteError{Entity: "project", EntityID: id, FailedStep: "users.currentProject", Err: err}
	}

	s.invalidate(ctx, u.ID)
	return nil
}

// Edit applies the creator's changes.
func (s *ProjectService) Edit(ctx context.Context, u userdomain.UserView, id string, in CreateInput, status domain.Status) (domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	if err := policy.ForProject(u, p, policy.ProjectEdit).Err(policy.ProjectEdit); err != nil {
		return domain.Project{}, err
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Domain = in.Domain
	p.DurationDays = in.DurationDays
	p.Skills = in.Skills
	if in.Stage != "" {
		p.Stage = in.Stage
	}
	p.ImageURL = in.ImageURL
	if status != "" {
		p.Status = status
	}

	if err := s.repo.UpdateDetails(ctx, id, p); err != nil {
		return domain.Project{}, fmt.Errorf("edit project %s: %w", id, err)
	}
	return p, nil
}

// Delete removes the project and unflags it on the creator's document.
func (s *ProjectService) Delete(ctx context.Context, u userdomain.UserView, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.ForProject(u, p, policy.ProjectDelete).Err(policy.ProjectDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}

	if err := s.users.MarkProjectCreated(ctx, u.ID, id, false); err != nil {
		s.recorder.RecordPartialWrite(ctx, audit.Record{
			Entity:     "project",
			EntityID:   id,
			UserID:     u.ID,
			FailedStep: "users.createdProjects",
			Detail:     err.Error(),
		})
		return &audit.PartialWriteError{Entity: "project", EntityID: id, FailedStep: "users.createdProjects", Err: err}
	}

	s.invalidate(ctx, u.ID)
	return nil
}

func (s *ProjectService) invalidate(ctx context.Context, uid string) {
	if s.cache != nil {
		s.cache.InvalidateProfile(ctx, uid)
	}
}
