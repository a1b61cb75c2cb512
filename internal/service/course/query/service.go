package query

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"fmt"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseBySlug(ctx context.Context, slug string) (*models.Course, error)
	CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
	ListCourses(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Course, error)
	CountCourses(ctx context.Context, publishedOnly bool) (int, error)
}

type enrollmentRepo interface {
	HasApproved(ctx context.Context, userID string, courseID uuid.UUID) (bool, error)
}

type searchRepo interface {
	Search(ctx context.Context, query string, from, size int) ([]uuid.UUID, int, error)
}

type CourseQueryService struct {
	log            logger.Log
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	searchRepo     searchRepo
}

func NewCourseQueryService(log logger.Log, c courseRepo, e enrollmentRepo, s searchRepo) *CourseQueryService {
	return &CourseQueryService{
		log:            log,
		courseRepo:     c,
		enrollmentRepo: e,
		searchRepo:     s,
	}
}

// Viewer is the caller a course is rendered for. The zero value is an
// anonymous visitor.
type Viewer struct {
	UserID string
	Admin  bool
}

func (s *CourseQueryService) CoursesPreview(ctx context.Context, viewer Viewer, count, offset int) ([]models.CoursePreview, int, error) {
	publishedOnly := !viewer.Admin
	courses, err := s.courseRepo.ListCourses(ctx, publishedOnly, count, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.courseRepo.CountCourses(ctx, publishedOnly)
	if err != nil {
		return nil, 0, err
	}

	previews := make([]models.CoursePreview, 0, len(courses))
	for i := range courses {
		previews = append(previews, courses[i].Preview())
	}
	return previews, total, nil
}

// CourseBySlug returns the course with its curriculum filtered for viewer.
// Unpublished courses are hidden from everyone but admins.
func (s *CourseQueryService) CourseBySlug(ctx context.Context, viewer Viewer, slug string) (*models.Course, error) {
	course, err := s.courseRepo.CourseBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && !viewer.Admin {
		return nil, app_errors.ErrCourseNotFound
	}

	enrolled := false
	if viewer.UserID != "" && !viewer.Admin {
		enrolled, err = s.enrollmentRepo.HasApproved(ctx, viewer.UserID, course.ID)
		if err != nil {
			s.log.ErrorErr("CourseBySlug: failed to check enrollment", err, "course_id", course.ID)
			enrolled = false
		}
	}
	course.Curriculum = course.Curriculum.View(viewer.Admin, enrolled)
	return course, nil
}

// SearchCoursesPreview pages through search hits. Hits whose course has
// been unpublished or deleted since indexing are dropped.
func (s *CourseQueryService) SearchCoursesPreview(ctx context.Context, query string, count, offset int) ([]models.CoursePreview, int, error) {
	ids, total, err := s.searchRepo.Search(ctx, query, offset, count)
	if err != nil {
		return nil, 0, fmt.Errorf("search preview: elastic search failed: %w", err)
	}
	if len(ids) == 0 {
		return []models.CoursePreview{}, total, nil
	}

	courses, err := s.courseRepo.CoursesByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]*models.Course, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
	}

	previews := make([]models.CoursePreview, 0, len(ids))
	for _, id := range ids {
		course, ok := byID[id]
		if !ok || !course.IsPublished {
			s.log.Warn("search preview: stale search hit", "course_id", id)
			continue
		}
		previews = append(previews, course.Preview())
	}
	return previews, total, nil
}
