package reconcile

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const (
	taskBatchSize = 100
	runTimeout    = 4 * time.Minute
)

type taskRepo interface {
	OpenTasks(ctx context.Context, limit int) ([]models.ReconciliationTask, error)
	ResolveTask(ctx context.Context, id uuid.UUID, at time.Time) error
	FailTask(ctx context.Context, id uuid.UUID, reason string) error
	ApprovedWithoutEnrollment(ctx context.Context) ([]models.EnrollmentRef, error)
	EnrollmentsWithoutApproval(ctx context.Context) ([]models.EnrollmentRef, error)
}

type enrollmentRepo interface {
	HasApproved(ctx context.Context, userID string, courseID uuid.UUID) (bool, error)
}

type userRepo interface {
	AddEnrolledCourse(ctx context.Context, userID string, courseID uuid.UUID, at time.Time) error
	RemoveEnrolledCourse(ctx context.Context, userID string, courseID uuid.UUID) error
}

// Reconciler repairs enrolled-course lists that drifted from the approved
// enrollment requests because a follow-up write failed.
type Reconciler struct {
	log            logger.Log
	taskRepo       taskRepo
	enrollmentRepo enrollmentRepo
	userRepo       userRepo
	now            func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewReconciler(log logger.Log, t taskRepo, e enrollmentRepo, u userRepo) *Reconciler {
	return &Reconciler{
		log:            log,
		taskRepo:       t,
		enrollmentRepo: e,
		userRepo:       u,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Run re-drives open tasks and then sweeps for drift the tasks missed.
// Only one run happens at a time.
func (r *Reconciler) Run(ctx context.Context) (*models.ReconcileReport, error) {
	if !r.mu.TryLock() {
		return nil, app_errors.ErrReconcileRunning
	}
	defer r.mu.Unlock()

	report := &models.ReconcileReport{}
	if err := r.redriveTasks(ctx, report); err != nil {
		return report, err
	}
	if err := r.sweep(ctx, report); err != nil {
		return report, err
	}
	r.log.Info("reconciliation finished",
		"tasks_resolved", report.TasksResolved,
		"tasks_failed", report.TasksFailed,
		"enrolled", report.Enrolled,
		"pulled", report.Pulled,
	)
	return report, nil
}

func (r *Reconciler) redriveTasks(ctx context.Context, report *models.ReconcileReport) error {
	tasks, err := r.taskRepo.OpenTasks(ctx, taskBatchSize)
	if err != nil {
		return fmt.Errorf("reconcile: load tasks: %w", err)
	}
	for _, task := range tasks {
		log := r.log.With("task_id", task.ID, "kind", string(task.Kind), "user_id", task.UserID, "course_id", task.CourseID)
		if err := r.apply(ctx, task); err != nil {
			report.TasksFailed++
			log.ErrorErr("reconcile: task failed again", err)
			if ferr := r.taskRepo.FailTask(ctx, task.ID, err.Error()); ferr != nil {
				log.ErrorErr("reconcile: failed to record task failure", ferr)
			}
			continue
		}
		if err := r.taskRepo.ResolveTask(ctx, task.ID, r.now()); err != nil {
			log.ErrorErr("reconcile: failed to resolve task", err)
			continue
		}
		report.TasksResolved++
	}
	return nil
}

// apply brings the enrolled list in line with the current request state.
// A task is only a hint: the request may have changed since it was recorded.
func (r *Reconciler) apply(ctx context.Context, task models.ReconciliationTask) error {
	approved, err := r.enrollmentRepo.HasApproved(ctx, task.UserID, task.CourseID)
	if err != nil {
		return err
	}
	if approved {
		return r.userRepo.AddEnrolledCourse(ctx, task.UserID, task.CourseID, r.now())
	}
	return r.userRepo.RemoveEnrolledCourse(ctx, task.UserID, task.CourseID)
}

func (r *Reconciler) sweep(ctx context.Context, report *models.ReconcileReport) error {
	missing, err := r.taskRepo.ApprovedWithoutEnrollment(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: find missing enrollments: %w", err)
	}
	for _, ref := range missing {
		if err := r.userRepo.AddEnrolledCourse(ctx, ref.UserID, ref.CourseID, r.now()); err != nil {
			r.log.ErrorErr("reconcile: failed to add enrollment", err, "user_id", ref.UserID, "course_id", ref.CourseID)
			continue
		}
		report.Enrolled++
	}

	orphans, err := r.taskRepo.EnrollmentsWithoutApproval(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: find orphaned enrollments: %w", err)
	}
	for _, ref := range orphans {
		if err := r.userRepo.RemoveEnrolledCourse(ctx, ref.UserID, ref.CourseID); err != nil {
			r.log.ErrorErr("reconcile: failed to pull enrollment", err, "user_id", ref.UserID, "course_id", ref.CourseID)
			continue
		}
		report.Pulled++
	}
	return nil
}

// Start runs the reconciler on schedule until Stop is called.
func (r *Reconciler) Start(schedule string) error {
	l := cronLogger{log: r.log.With("component", "reconciler")}
	c := cron.New(cron.WithLogger(l), cron.WithChain(cron.SkipIfStillRunning(l)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.log.ErrorErr("scheduled reconciliation failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("reconcile: invalid schedule %q: %w", schedule, err)
	}
	c.Start()
	r.cron = c
	r.log.Info("reconciler started", "schedule", schedule)
	return nil
}

func (r *Reconciler) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
