package postgres

import (
	"JapaneseShikhi/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReconcilePostgres struct {
	db *pgxpool.Pool
}

func NewReconcilePostgres(db *pgxpool.Pool) *ReconcilePostgres {
	return &ReconcilePostgres{db: db}
}

func (r *ReconcilePostgres) CreateTask(ctx context.Context, task *models.ReconciliationTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO reconciliation_tasks (id, kind, user_id, course_id, request_id, attempts, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.Kind, task.UserID, task.CourseID, task.RequestID,
		task.Attempts, task.LastError, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record reconciliation task: %w", err)
	}
	return nil
}

func (r *ReconcilePostgres) OpenTasks(ctx context.Context, limit int) ([]models.ReconciliationTask, error) {
	query := `
		SELECT id, kind, user_id, course_id, request_id, attempts, last_error, created_at, resolved_at
		  FROM reconciliation_tasks
		 WHERE resolved_at IS NULL
		 ORDER BY created_at
		 LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.ReconciliationTask, 0)
	for rows.Next() {
		var t models.ReconciliationTask
		if err := rows.Scan(&t.ID, &t.Kind, &t.UserID, &t.CourseID, &t.RequestID, &t.Attempts,
			&t.LastError, &t.CreatedAt, &t.ResolvedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *ReconcilePostgres) ResolveTask(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE reconciliation_tasks SET resolved_at = $2, attempts = attempts + 1 WHERE id = $1`, id, at)
	return err
}

func (r *ReconcilePostgres) FailTask(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.Exec(ctx, `UPDATE reconciliation_tasks SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, reason)
	return err
}

// ApprovedWithoutEnrollment finds approved requests whose course is missing
// from the student's list.
func (r *ReconcilePostgres) ApprovedWithoutEnrollment(ctx context.Context) ([]models.EnrollmentRef, error) {
	query := `
		SELECT er.user_id, er.course_id
		  FROM enrollment_requests er
		  JOIN users u ON u.id = er.user_id
		 WHERE er.status = 'approved'
		   AND NOT EXISTS (
		       SELECT 1 FROM enrolled_courses ec WHERE ec.user_id = er.user_id AND ec.course_id = er.course_id
		   )
	`
	return r.refs(ctx, query)
}

// EnrollmentsWithoutApproval finds listed courses that no approved request backs.
func (r *ReconcilePostgres) EnrollmentsWithoutApproval(ctx context.Context) ([]models.EnrollmentRef, error) {
	query := `
		SELECT ec.user_id, ec.course_id
		  FROM enrolled_courses ec
		 WHERE NOT EXISTS (
		       SELECT 1 FROM enrollment_requests er
		        WHERE er.user_id = ec.user_id AND er.course_id = ec.course_id AND er.status = 'approved'
		   )
	`
	return r.refs(ctx, query)
}

func (r *ReconcilePostgres) refs(ctx context.Context, query string) ([]models.EnrollmentRef, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollment drift: %w", err)
	}
	refs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.EnrollmentRef])
	if err != nil {
		return nil, fmt.Errorf("failed to read enrollment drift: %w", err)
	}
	return refs, nil
}
