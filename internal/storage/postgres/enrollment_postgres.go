package postgres

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const enrollmentColumns = `
	id, user_id, student_name, student_email, course_id, course_name, course_price,
	payment_method, transaction_id, sender_number, screenshot_url, status,
	approved_by, approved_at, rejection_reason, rejected_at, created_at, updated_at`

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

func scanEnrollment(row pgx.Row) (*models.EnrollmentRequest, error) {
	var r models.EnrollmentRequest
	err := row.Scan(
		&r.ID, &r.UserID, &r.StudentName, &r.StudentEmail, &r.CourseID, &r.CourseName, &r.CoursePrice,
		&r.PaymentMethod, &r.TransactionID, &r.SenderNumber, &r.ScreenshotURL, &r.Status,
		&r.ApprovedBy, &r.ApprovedAt, &r.RejectionReason, &r.RejectedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *EnrollmentPostgres) Create(ctx context.Context, req *models.EnrollmentRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := time.Now().UTC()
	req.Status = models.EnrollmentPending
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
		INSERT INTO enrollment_requests (
			id, user_id, student_name, student_email, course_id, course_name, course_price,
			payment_method, transaction_id, sender_number, screenshot_url, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.UserID, req.StudentName, req.StudentEmail, req.CourseID, req.CourseName, req.CoursePrice,
		req.PaymentMethod, req.TransactionID, req.SenderNumber, req.ScreenshotURL, req.Status,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "enrollment_requests_open_key") {
			return app_errors.ErrAlreadyRequested
		}
		return fmt.Errorf("failed to create enrollment request: %w", err)
	}
	return nil
}

func (r *EnrollmentPostgres) ByID(ctx context.Context, id uuid.UUID) (*models.EnrollmentRequest, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollment_requests WHERE id = $1`
	return scanEnrollment(r.db.QueryRow(ctx, query, id))
}

// List returns requests newest first. An empty status returns every request.
func (r *EnrollmentPostgres) List(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentRequest, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		  FROM enrollment_requests
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC
	`
	return r.query(ctx, query, string(status))
}

func (r *EnrollmentPostgres) ByUser(ctx context.Context, userID string) ([]models.EnrollmentRequest, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		  FROM enrollment_requests
		 WHERE user_id = $1
		 ORDER BY created_at DESC
	`
	return r.query(ctx, query, userID)
}

func (r *EnrollmentPostgres) query(ctx context.Context, query string, args ...any) ([]models.EnrollmentRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollment requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.EnrollmentRequest, 0)
	for rows.Next() {
		req, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// Transition locks the request, lets fn move it to its next state and
// persists the result in one transaction.
func (r *EnrollmentPostgres) Transition(ctx context.Context, id uuid.UUID, fn func(req *models.EnrollmentRequest) error) (*models.EnrollmentRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + enrollmentColumns + ` FROM enrollment_requests WHERE id = $1 FOR UPDATE`
	req, err := scanEnrollment(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := fn(req); err != nil {
		return nil, err
	}

	update := `
		UPDATE enrollment_requests
		   SET status = $2, approved_by = $3, approved_at = $4,
		       rejection_reason = $5, rejected_at = $6, updated_at = $7
		 WHERE id = $1
	`
	_, err = tx.Exec(ctx, update, req.ID, req.Status, req.ApprovedBy, req.ApprovedAt,
		req.RejectionReason, req.RejectedAt, req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment request: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *EnrollmentPostgres) Delete(ctx context.Context, id uuid.UUID) (*models.EnrollmentRequest, error) {
	query := `DELETE FROM enrollment_requests WHERE id = $1 RETURNING ` + enrollmentColumns
	return scanEnrollment(r.db.QueryRow(ctx, query, id))
}

// HasApproved reports whether the user holds an approved request for the course.
func (r *EnrollmentPostgres) HasApproved(ctx context.Context, userID string, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS(
            SELECT 1 FROM enrollment_requests WHERE user_id = $1 AND course_id = $2 AND status = 'approved'
        )
    `, userID, courseID).Scan(&exists)
	return exists, err
}
