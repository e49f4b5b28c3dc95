package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	msgrepo "github.com/campuslaunch/campus-launch-backend/internal/messages/repository"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	"github.com/campuslaunch/campus-launch-backend/internal/prototypes/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/prototypes/repository"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
)

// PrototypeService handles prototype uploads and investor contact.
type PrototypeService struct {
	repo     *repository.Repository
	messages *msgrepo.Repository
	log      zerolog.Logger
}

func NewPrototypeService(repo *repository.Repository, messages *msgrepo.Repository, log zerolog.Logger) *PrototypeService {
	return &PrototypeService{
		repo:     repo,
		messages: messages,
		log:      log.With().Str("component", "prototypes").Logger(),
	}
}

// UploadInput carries the uploader-provided prototype fields.
type UploadInput struct {
	Title       string
	Description string
	DemoLink    string
	ProjectID   string
}

// Upload stores a prototype with creator fields denormalized from the
// uploader's view.
func (s *PrototypeService) Upload(ctx context.Context, u userdomain.UserView, in UploadInput) (domain.Prototype, error) {
	creatorName := u.Name
	if creatorName == "" {
		creatorName = u.Email
	}

	p := domain.Prototype{
		ID:          "proto_" + uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		DemoLink:    in.DemoLink,
		CreatorID:   u.ID,
		CreatorName: creatorName,
		ProjectID:   in.ProjectID,
		Domain:      u.Domain,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Prototype{}, fmt.Errorf("upload prototype: %w", err)
	}
	return p, nil
}

func (s *PrototypeService) Get(ctx context.Context, id string) (domain.Prototype, error) {
	return s.repo.Get(ctx, id)
}

func (s *PrototypeService) List(ctx context.Context) ([]domain.Prototype, error) {
	return s.repo.List(ctx)
}

// ContactCreator sends an investor's message to the prototype creator.
func (s *PrototypeService) ContactCreator(ctx context.Context, u userdomain.UserView, id, body string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.ForPrototype(u, p, policy.PrototypeContactCreator).Err(policy.PrototypeContactCreator); err != nil {
		return err
	}

	if _, err := s.messages.Create(ctx, msgrepo.Message{
		SenderID:    u.ID,
		ReceiverID:  p.CreatorID,
		Body:        body,
		PrototypeID: id,
	}); err != nil {
		return fmt.Errorf("contact creator of %s: %w", id, err)
	}
	return nil
}
