package query

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourseRepo struct {
	courses []models.Course
}

func (r *fakeCourseRepo) CourseBySlug(_ context.Context, slug string) (*models.Course, error) {
	for i := range r.courses {
		if r.courses[i].Slug == slug {
			c := r.courses[i]
			return &c, nil
		}
	}
	return nil, app_errors.ErrCourseNotFound
}

func (r *fakeCourseRepo) CoursesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		for i := range r.courses {
			if r.courses[i].ID == id {
				out = append(out, r.courses[i])
			}
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) visible(publishedOnly bool) []models.Course {
	var out []models.Course
	for _, c := range r.courses {
		if !publishedOnly || c.IsPublished {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeCourseRepo) ListCourses(_ context.Context, publishedOnly bool, limit, offset int) ([]models.Course, error) {
	all := r.visible(publishedOnly)
	if offset >= len(all) {
		return []models.Course{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *fakeCourseRepo) CountCourses(_ context.Context, publishedOnly bool) (int, error) {
	return len(r.visible(publishedOnly)), nil
}

type fakeEnrollmentRepo struct {
	approved map[string]bool
	failing  error
}

func (r *fakeEnrollmentRepo) HasApproved(_ context.Context, userID string, _ uuid.UUID) (bool, error) {
	if r.failing != nil {
		return false, r.failing
	}
	return r.approved[userID], nil
}

type fakeSearchRepo struct {
	hits  []uuid.UUID
	total int
}

func (s *fakeSearchRepo) Search(_ context.Context, _ string, _, _ int) ([]uuid.UUID, int, error) {
	return s.hits, s.total, nil
}

func sampleCurriculum() models.Curriculum {
	return models.Curriculum{Modules: []models.Module{
		{Name: "Hiragana", Order: 0, IsPublished: true, Items: []models.Item{
			{Title: "Chart", Type: models.ItemTypeLink, IsPublished: true, Link: &models.LinkItem{URL: "https://a.example"}},
		}},
		{Name: "Draft", Order: 1},
	}}
}

func newTestService() (*CourseQueryService, *fakeCourseRepo, *fakeEnrollmentRepo, *fakeSearchRepo) {
	courses := &fakeCourseRepo{courses: []models.Course{
		{ID: uuid.New(), Slug: "n5", Title: "N5", IsPublished: true, Curriculum: sampleCurriculum()},
		{ID: uuid.New(), Slug: "n4", Title: "N4", Curriculum: sampleCurriculum()},
	}}
	enrollments := &fakeEnrollmentRepo{approved: map[string]bool{"user_enrolled": true}}
	search := &fakeSearchRepo{}
	return NewCourseQueryService(logger.Discard(), courses, enrollments, search), courses, enrollments, search
}

func TestCoursesPreview_HidesDraftsFromStudents(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	previews, total, err := svc.CoursesPreview(ctx, Viewer{UserID: "user_1"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, previews, 1)
	assert.Equal(t, "n5", previews[0].Slug)
	assert.Equal(t, 2, previews[0].ModuleCount)

	_, total, err = svc.CoursesPreview(ctx, Viewer{UserID: "admin", Admin: true}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCourseBySlug(t *testing.T) {
	svc, _, enrollments, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CourseBySlug(ctx, Viewer{}, "n4")
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)

	draft, err := svc.CourseBySlug(ctx, Viewer{Admin: true}, "n4")
	require.NoError(t, err)
	assert.Len(t, draft.Curriculum.Modules, 2)

	guest, err := svc.CourseBySlug(ctx, Viewer{}, "n5")
	require.NoError(t, err)
	require.Len(t, guest.Curriculum.Modules, 1)
	assert.Nil(t, guest.Curriculum.Modules[0].Items[0].Link)

	student, err := svc.CourseBySlug(ctx, Viewer{UserID: "user_enrolled"}, "n5")
	require.NoError(t, err)
	assert.NotNil(t, student.Curriculum.Modules[0].Items[0].Link)

	// a failed enrollment lookup degrades to the guest view
	enrollments.failing = errors.New("db down")
	degraded, err := svc.CourseBySlug(ctx, Viewer{UserID: "user_enrolled"}, "n5")
	require.NoError(t, err)
	assert.Nil(t, degraded.Curriculum.Modules[0].Items[0].Link)
}

func TestSearchCoursesPreview_DropsStaleHits(t *testing.T) {
	svc, courses, _, search := newTestService()
	search.hits = []uuid.UUID{courses.courses[1].ID, uuid.New(), courses.courses[0].ID}
	search.total = 3

	previews, total, err := svc.SearchCoursesPreview(context.Background(), "n", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, previews, 1)
	assert.Equal(t, "n5", previews[0].Slug)
}

func TestSearchCoursesPreview_NoHits(t *testing.T) {
	svc, _, _, _ := newTestService()
	previews, total, err := svc.SearchCoursesPreview(context.Background(), "kanji", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, previews)
	assert.Empty(t, previews)
}
