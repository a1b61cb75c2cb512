package progress

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type userRepo interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpdateEnrollment(ctx context.Context, userID string, courseID uuid.UUID, fn func(e *models.EnrolledCourse) (int, error)) (*models.EnrolledCourse, error)
	IncrementStreak(ctx context.Context, userID string, at time.Time) (*models.User, error)
	ResetStreak(ctx context.Context, userID string, at time.Time) (*models.User, error)
	TopUsers(ctx context.Context, limit int) ([]models.User, error)
	CertificateByID(ctx context.Context, certificateID string) (*models.Certificate, error)
}

type ProgressService struct {
	log      logger.Log
	userRepo userRepo
	now      func() time.Time
}

func NewProgressService(log logger.Log, u userRepo) *ProgressService {
	return &ProgressService{
		log:      log,
		userRepo: u,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type ProgressResult struct {
	Enrollment *models.EnrolledCourse `json:"enrollment"`
	XPAwarded  int                    `json:"xp_awarded"`
}

type CompletionResult struct {
	CompletedAt      time.Time `json:"completed_at"`
	CertificateID    string    `json:"certificate_id"`
	AlreadyCompleted bool      `json:"already_completed"`
}

func (s *ProgressService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.UserByID(ctx, userID)
}

// UpdateProgress raises the course progress. Progress never decreases and
// every whole percentage point gained is worth one XP.
func (s *ProgressService) UpdateProgress(ctx context.Context, userID string, courseID uuid.UUID, percentage float64) (*ProgressResult, error) {
	var xp int
	enrollment, err := s.userRepo.UpdateEnrollment(ctx, userID, courseID, func(e *models.EnrolledCourse) (int, error) {
		xp = e.ApplyProgress(percentage)
		return xp, nil
	})
	if err != nil {
		return nil, err
	}
	return &ProgressResult{Enrollment: enrollment, XPAwarded: xp}, nil
}

// MarkComplete stamps the course completion and issues the certificate id.
// Repeated calls return the original stamp.
func (s *ProgressService) MarkComplete(ctx context.Context, userID string, courseID uuid.UUID) (*CompletionResult, error) {
	var (
		completedAt time.Time
		changed     bool
	)
	enrollment, err := s.userRepo.UpdateEnrollment(ctx, userID, courseID, func(e *models.EnrolledCourse) (int, error) {
		var err error
		completedAt, changed, err = e.Complete(s.now(), models.NewCertificateID())
		return 0, err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info("course completed", "user_id", userID, "course_id", courseID, "certificate_id", enrollment.CertificateID)
	}
	return &CompletionResult{
		CompletedAt:      completedAt,
		CertificateID:    enrollment.CertificateID,
		AlreadyCompleted: !changed,
	}, nil
}

func (s *ProgressService) VerifyCertificate(ctx context.Context, certificateID string) (*models.Certificate, error) {
	certificateID = strings.ToUpper(strings.TrimSpace(certificateID))
	if certificateID == "" {
		return nil, app_errors.ErrCertificateNotFound
	}
	return s.userRepo.CertificateByID(ctx, certificateID)
}

// IncrementStreak counts one day of activity. Calls on a UTC day that
// already counted leave the streak as it is; the repo checks the day in the
// same statement that bumps the streak.
func (s *ProgressService) IncrementStreak(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.IncrementStreak(ctx, userID, s.now())
}

func (s *ProgressService) ResetStreak(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.ResetStreak(ctx, userID, s.now())
}

// Leaderboard ranks students by XP, then streak, then id.
func (s *ProgressService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	users, err := s.userRepo.TopUsers(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		// Public board: never fall back to the email address.
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = "Anonymous"
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   u.ID,
			Name:     name,
			ImageURL: u.ImageURL,
			XP:       u.XP,
			Streak:   u.Streak,
		})
	}
	return entries, nil
}
