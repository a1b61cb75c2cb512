package management

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
	courses map[uuid.UUID]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{}}
}

func (r *fakeCourseRepo) NewCourse(_ context.Context, course *models.Course) error {
	for _, c := range r.courses {
		if c.Slug == course.Slug {
			return app_errors.ErrSlugTaken
		}
	}
	course.ID = uuid.New()
	stored := *course
	r.courses[course.ID] = &stored
	return nil
}

func (r *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) UpdateCourse(_ context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return app_errors.ErrCourseNotFound
	}
	stored := *course
	r.courses[course.ID] = &stored
	return nil
}

func (r *fakeCourseRepo) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	c, ok := r.courses[id]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	c.IsPublished = published
	return nil
}

type fakeSearchRepo struct {
	indexed map[uuid.UUID]string
	failing error
}

func (s *fakeSearchRepo) Index(_ context.Context, course models.Course) error {
	if s.failing != nil {
		return s.failing
	}
	s.indexed[course.ID] = course.Title
	return nil
}

func (s *fakeSearchRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.failing != nil {
		return s.failing
	}
	delete(s.indexed, id)
	return nil
}

func newTestService() (*CourseManagementService, *fakeCourseRepo, *fakeSearchRepo) {
	courses := newFakeCourseRepo()
	search := &fakeSearchRepo{indexed: map[uuid.UUID]string{}}
	return NewCourseManagementService(logger.Discard(), courses, search), courses, search
}

func ptr[T any](v T) *T { return &v }

func TestCreateCourse_PicksFreeSlug(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.CreateCourse(ctx, CourseInput{Title: ptr("JLPT N5 Grammar"), Price: ptr(int64(1500))})
	require.NoError(t, err)
	assert.Equal(t, "jlpt-n5-grammar", first.Slug)
	assert.Equal(t, models.LevelBeginner, first.Level)
	assert.False(t, first.IsPublished)

	second, err := svc.CreateCourse(ctx, CourseInput{Title: ptr("JLPT N5 grammar!")})
	require.NoError(t, err)
	assert.Equal(t, "jlpt-n5-grammar-2", second.Slug)
}

func TestCreateCourse_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name string
		in   CourseInput
	}{
		{name: "missing title", in: CourseInput{}},
		{name: "blank title", in: CourseInput{Title: ptr("  ")}},
		{name: "unknown level", in: CourseInput{Title: ptr("Kanji"), Level: ptr("expert")}},
		{name: "negative price", in: CourseInput{Title: ptr("Kanji"), Price: ptr(int64(-1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCourse(context.Background(), tt.in)
			assert.ErrorIs(t, err, app_errors.ErrValidation)
		})
	}
}

func TestUpdateCourse_KeepsUnsetFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	created, err := svc.CreateCourse(ctx, CourseInput{Title: ptr("Kana"), Description: ptr("hiragana and katakana")})
	require.NoError(t, err)

	updated, err := svc.UpdateCourse(ctx, created.ID, CourseInput{Level: ptr(models.LevelIntermediate)})
	require.NoError(t, err)
	assert.Equal(t, "Kana", updated.Title)
	assert.Equal(t, "hiragana and katakana", updated.Description)
	assert.Equal(t, models.LevelIntermediate, updated.Level)

	_, err = svc.UpdateCourse(ctx, uuid.New(), CourseInput{})
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestPublishAndUnpublish_MaintainIndex(t *testing.T) {
	svc, courses, search := newTestService()
	ctx := context.Background()
	created, err := svc.CreateCourse(ctx, CourseInput{Title: ptr("Keigo")})
	require.NoError(t, err)

	published, err := svc.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.True(t, courses.courses[created.ID].IsPublished)
	assert.Contains(t, search.indexed, created.ID)

	unpublished, err := svc.Unpublish(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
	assert.NotContains(t, search.indexed, created.ID)
}

func TestPublish_SearchFailureIsNotFatal(t *testing.T) {
	svc, courses, search := newTestService()
	ctx := context.Background()
	created, err := svc.CreateCourse(ctx, CourseInput{Title: ptr("Keigo")})
	require.NoError(t, err)

	search.failing = errors.New("cluster red")
	_, err = svc.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, courses.courses[created.ID].IsPublished)
}
