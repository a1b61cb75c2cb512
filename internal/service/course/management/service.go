package management

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxSlugAttempts = 50

type courseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) error
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

type searchRepo interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CourseManagementService struct {
	log        logger.Log
	courseRepo courseRepo
	searchRepo searchRepo
}

func NewCourseManagementService(log logger.Log, c courseRepo, s searchRepo) *CourseManagementService {
	return &CourseManagementService{
		log:        log,
		courseRepo: c,
		searchRepo: s,
	}
}

// CourseInput carries the editable catalog fields. Nil pointers leave the
// stored value untouched on update.
type CourseInput struct {
	Title        *string
	Description  *string
	Level        *string
	Price        *int64
	ThumbnailURL *string
}

func (in CourseInput) apply(course *models.Course) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return app_errors.Validation("title is required")
		}
		course.Title = title
	}
	if in.Description != nil {
		course.Description = strings.TrimSpace(*in.Description)
	}
	if in.Level != nil {
		if !models.ValidLevel(*in.Level) {
			return app_errors.Validation("level must be one of [beginner intermediate advanced]")
		}
		course.Level = *in.Level
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return app_errors.Validation("price must not be negative")
		}
		course.Price = *in.Price
	}
	if in.ThumbnailURL != nil {
		course.ThumbnailURL = strings.TrimSpace(*in.ThumbnailURL)
	}
	return nil
}

// CreateCourse stores an unpublished course under the first free slug
// derived from its title.
func (s *CourseManagementService) CreateCourse(ctx context.Context, in CourseInput) (*models.Course, error) {
	if in.Title == nil {
		return nil, app_errors.Validation("title is required")
	}
	course := &models.Course{Level: models.LevelBeginner}
	if err := in.apply(course); err != nil {
		return nil, err
	}

	base := models.BaseSlug(course.Title)
	for n := 1; n <= maxSlugAttempts; n++ {
		course.Slug = models.SlugCandidate(base, n)
		err := s.courseRepo.NewCourse(ctx, course)
		if err == nil {
			s.log.Info("course created", "course_id", course.ID, "slug", course.Slug)
			return course, nil
		}
		if !errors.Is(err, app_errors.ErrSlugTaken) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", app_errors.ErrSlugTaken, maxSlugAttempts)
}

func (s *CourseManagementService) UpdateCourse(ctx context.Context, id uuid.UUID, in CourseInput) (*models.Course, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(course); err != nil {
		return nil, err
	}
	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	if course.IsPublished {
		if err := s.searchRepo.Index(ctx, *course); err != nil {
			s.log.ErrorErr("error re-indexing course", err, "course_id", id)
		}
	}
	return course, nil
}

// Publish makes the course visible in the catalog. The search index is
// updated best effort.
func (s *CourseManagementService) Publish(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.SetPublished(ctx, id, true); err != nil {
		return nil, err
	}
	course.IsPublished = true
	if err := s.searchRepo.Index(ctx, *course); err != nil {
		s.log.ErrorErr("error indexing course", err, "course_id", id)
	}
	return course, nil
}

func (s *CourseManagementService) Unpublish(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.courseRepo.CourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.SetPublished(ctx, id, false); err != nil {
		return nil, err
	}
	course.IsPublished = false
	if err := s.searchRepo.Delete(ctx, id); err != nil {
		s.log.ErrorErr("error removing course from index", err, "course_id", id)
	}
	return course, nil
}
