package progress

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	certs map[string]*models.Certificate
	top   []models.User
	limit int
}

func (r *fakeUserRepo) UserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateEnrollment(_ context.Context, userID string, courseID uuid.UUID, fn func(e *models.EnrolledCourse) (int, error)) (*models.EnrolledCourse, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, app_errors.ErrNotEnrolled
	}
	stored := u.Enrollment(courseID)
	if stored == nil {
		return nil, app_errors.ErrNotEnrolled
	}
	e := *stored
	xp, err := fn(&e)
	if err != nil {
		return nil, err
	}
	*stored = e
	u.XP += xp
	return &e, nil
}

// IncrementStreak applies the day check and the bump atomically, like the
// conditional UPDATE in postgres.
func (r *fakeUserRepo) IncrementStreak(_ context.Context, userID string, at time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	if u.LastActivityDate == nil || utcDay(*u.LastActivityDate).Before(utcDay(at)) {
		u.Streak++
		u.LastActivityDate = &at
	}
	cp := *u
	return &cp, nil
}

func utcDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func (r *fakeUserRepo) ResetStreak(_ context.Context, userID string, at time.Time) (*models.User, error) {
	u := r.users[userID]
	u.Streak = 0
	u.LastActivityDate = &at
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) TopUsers(_ context.Context, limit int) ([]models.User, error) {
	r.limit = limit
	return r.top, nil
}

func (r *fakeUserRepo) CertificateByID(_ context.Context, certificateID string) (*models.Certificate, error) {
	c, ok := r.certs[certificateID]
	if !ok {
		return nil, app_errors.ErrCertificateNotFound
	}
	return c, nil
}

func newService(courseID uuid.UUID, progress float64) (*ProgressService, *fakeUserRepo) {
	repo := &fakeUserRepo{
		users: map[string]*models.User{
			"hana": {
				ID: "hana",
				EnrolledCourses: []models.EnrolledCourse{
					{CourseID: courseID, Progress: models.Progress{ProgressPercentage: progress}},
				},
			},
		},
		certs: map[string]*models.Certificate{},
	}
	return NewProgressService(logger.Discard(), repo), repo
}

func TestUpdateProgress_AwardsXPForGain(t *testing.T) {
	courseID := uuid.New()
	svc, repo := newService(courseID, 0)
	ctx := context.Background()

	res, err := svc.UpdateProgress(ctx, "hana", courseID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, res.XPAwarded)
	assert.Equal(t, 40.0, res.Enrollment.Progress.ProgressPercentage)

	res, err = svc.UpdateProgress(ctx, "hana", courseID, 25)
	require.NoError(t, err)
	assert.Zero(t, res.XPAwarded)
	assert.Equal(t, 40.0, res.Enrollment.Progress.ProgressPercentage)

	res, err = svc.UpdateProgress(ctx, "hana", courseID, 150)
	require.NoError(t, err)
	assert.Equal(t, 60, res.XPAwarded)
	assert.Equal(t, 100.0, res.Enrollment.Progress.ProgressPercentage)
	assert.Equal(t, 100, repo.users["hana"].XP)
}

func TestUpdateProgress_NotEnrolled(t *testing.T) {
	svc, _ := newService(uuid.New(), 0)
	_, err := svc.UpdateProgress(context.Background(), "hana", uuid.New(), 10)
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
}

func TestMarkComplete_RequiresFullProgress(t *testing.T) {
	courseID := uuid.New()
	svc, repo := newService(courseID, 80)

	_, err := svc.MarkComplete(context.Background(), "hana", courseID)
	require.Error(t, err)
	assert.ErrorIs(t, err, app_errors.ErrPreconditionFailed)

	var incomplete *app_errors.ProgressIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 80.0, incomplete.Percentage)
	assert.Nil(t, repo.users["hana"].EnrolledCourses[0].CompletedAt)
}

func TestMarkComplete_Idempotent(t *testing.T) {
	courseID := uuid.New()
	svc, _ := newService(courseID, 100)
	stamp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	first, err := svc.MarkComplete(context.Background(), "hana", courseID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, stamp, first.CompletedAt)
	assert.Regexp(t, `^JS-[0-9A-F]{12}$`, first.CertificateID)

	svc.now = func() time.Time { return stamp.Add(48 * time.Hour) }
	second, err := svc.MarkComplete(context.Background(), "hana", courseID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
	assert.Equal(t, first.CertificateID, second.CertificateID)
}

func TestVerifyCertificate_NormalizesID(t *testing.T) {
	svc, repo := newService(uuid.New(), 0)
	repo.certs["JS-ABC123ABC123"] = &models.Certificate{CertificateID: "JS-ABC123ABC123", StudentName: "Hana Sato"}

	cert, err := svc.VerifyCertificate(context.Background(), "  js-abc123abc123 ")
	require.NoError(t, err)
	assert.Equal(t, "Hana Sato", cert.StudentName)

	_, err = svc.VerifyCertificate(context.Background(), "")
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
	_, err = svc.VerifyCertificate(context.Background(), "JS-000000000000")
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
}

func TestIncrementStreak_OncePerDay(t *testing.T) {
	svc, _ := newService(uuid.New(), 0)
	ctx := context.Background()
	day := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return day }
	u, err := svc.IncrementStreak(ctx, "hana")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Streak)

	svc.now = func() time.Time { return day.Add(10 * time.Hour) }
	u, err = svc.IncrementStreak(ctx, "hana")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Streak)

	svc.now = func() time.Time { return day.Add(24 * time.Hour) }
	u, err = svc.IncrementStreak(ctx, "hana")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Streak)

	u, err = svc.ResetStreak(ctx, "hana")
	require.NoError(t, err)
	assert.Zero(t, u.Streak)
}

func TestIncrementStreak_ConcurrentCallsCountOnce(t *testing.T) {
	svc, repo := newService(uuid.New(), 0)
	day := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IncrementStreak(context.Background(), "hana")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, repo.users["hana"].Streak)

	_, err := svc.IncrementStreak(context.Background(), "nobody")
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestLeaderboard(t *testing.T) {
	svc, repo := newService(uuid.New(), 0)
	repo.top = []models.User{
		{ID: "a", FirstName: "Aiko", LastName: "Tanaka", Email: "aiko@example.com", XP: 300, Streak: 4},
		{ID: "b", Email: "secret@example.com", XP: 120},
	}

	entries, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, defaultLeaderboardSize, repo.limit)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Aiko Tanaka", entries[0].Name)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Anonymous", entries[1].Name)

	_, err = svc.Leaderboard(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, maxLeaderboardSize, repo.limit)
}
