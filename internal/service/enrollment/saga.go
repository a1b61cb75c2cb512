package enrollment

import (
	"JapaneseShikhi/internal/models"
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	warnEnrollPending   = "enrollment request approved, but the course could not be added to the student's account yet; it has been queued for reconciliation"
	warnUnenrollPending = "enrollment request deleted, but the course could not be removed from the student's account yet; it has been queued for reconciliation"
)

// RetryPolicy bounds the retries of the user-side write that follows a
// committed enrollment request change.
type RetryPolicy struct {
	Attempts        uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.Attempts), ctx)
}

// followUp runs the secondary write of a workflow step. When it keeps
// failing, a reconciliation task is recorded and a warning for the caller
// is returned. An empty warning means the write went through.
func (s *EnrollmentService) followUp(ctx context.Context, kind models.ReconcileKind, req *models.EnrollmentRequest, op func(ctx context.Context) error) string {
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		return op(ctx)
	}, s.retry.backOff(ctx))
	if err == nil {
		return ""
	}

	log := s.log.With("kind", string(kind), "request_id", req.ID, "user_id", req.UserID, "course_id", req.CourseID)
	log.ErrorErr("enrollment follow-up write failed", err, "attempts", attempts)

	task := &models.ReconciliationTask{
		Kind:      kind,
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		RequestID: req.ID,
		Attempts:  attempts,
		LastError: err.Error(),
	}
	// The caller's context may be the reason the write failed.
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if terr := s.taskRepo.CreateTask(taskCtx, task); terr != nil {
		log.ErrorErr("failed to record reconciliation task", terr)
	}

	if kind == models.ReconcileEnroll {
		return warnEnrollPending
	}
	return warnUnenrollPending
}
