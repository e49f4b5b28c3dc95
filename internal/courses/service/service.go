package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/courses/domain"
	"github.com/campuslaunch/campus-launch-backend/internal/courses/repository"
	"github.com/campuslaunch/campus-launch-backend/internal/policy"
	userdomain "github.com/campuslaunch/campus-launch-backend/internal/users/domain"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

// CacheInvalidator drops cached profile documents after user-document
// writes. May be nil.
type CacheInvalidator interface {
	InvalidateProfile(ctx context.Context, uid string)
}

// CourseService handles the catalog and enrollment. Enrollment lives on
// the user document as a set, so enrolling twice is a no-op.
type CourseService struct {
	repo  *repository.Repository
	users *usersrepo.Repository
	cache CacheInvalidator
	log   zerolog.Logger
}

func NewCourseService(repo *repository.Repository, users *usersrepo.Repository, cache CacheInvalidator, log zerolog.Logger) *CourseService {
	return &CourseService{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log.With().Str("component", "courses").Logger(),
	}
}

func (s *CourseService) Get(ctx context.Context, id string) (domain.Course, error) {
	return s.repo.Get(ctx, id)
}

func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.repo.List(ctx)
}

// Enroll adds the course to the user's enrolled set.
func (s *CourseService) Enroll(ctx context.Context, u userdomain.UserView, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	if err := policy.ForCourse(u, policy.CourseEnroll).Err(policy.CourseEnroll); err != nil {
		return err
	}

	if err := s.users.EnrollCourse(ctx, u.ID, id); err != nil {
		return fmt.Errorf("enroll in %s: %w", id, err)
	}

	if s.cache != nil {
		s.cache.InvalidateProfile(ctx, u.ID)
	}
	return nil
}
