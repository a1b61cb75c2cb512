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

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

// SyncUser stores the profile asserted by the identity provider, creating
// the user on first sight.
func (r *UserPostgres) SyncUser(ctx context.Context, identity models.Identity, isAdmin bool) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, first_name, last_name, image_url, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		   SET email      = EXCLUDED.email,
		       first_name = EXCLUDED.first_name,
		       last_name  = EXCLUDED.last_name,
		       image_url  = EXCLUDED.image_url,
		       is_admin   = EXCLUDED.is_admin,
		       updated_at = CASE
		           WHEN (users.email, users.first_name, users.last_name, users.image_url, users.is_admin)
		                IS DISTINCT FROM
		                (EXCLUDED.email, EXCLUDED.first_name, EXCLUDED.last_name, EXCLUDED.image_url, EXCLUDED.is_admin)
		           THEN NOW() ELSE users.updated_at END
	`
	_, err := r.db.Exec(ctx, query, identity.UserID, identity.Email, identity.FirstName,
		identity.LastName, identity.ImageURL, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}
	return r.UserByID(ctx, identity.UserID)
}

func (r *UserPostgres) UserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, first_name, last_name, image_url, is_admin,
		       streak, xp, last_activity_date, created_at, updated_at
		  FROM users
		 WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.ImageURL, &user.IsAdmin,
		&user.Streak, &user.XP, &user.LastActivityDate, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}

	enrolled, err := r.EnrolledCourses(ctx, id)
	if err != nil {
		return nil, err
	}
	user.EnrolledCourses = enrolled
	return &user, nil
}

func (r *UserPostgres) EnrolledCourses(ctx context.Context, userID string) ([]models.EnrolledCourse, error) {
	query := `
		SELECT course_id, enrolled_at, progress_percentage, completed_at, COALESCE(certificate_id, '')
		  FROM enrolled_courses
		 WHERE user_id = $1
		 ORDER BY enrolled_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	enrolled := make([]models.EnrolledCourse, 0)
	for rows.Next() {
		var e models.EnrolledCourse
		if err := rows.Scan(&e.CourseID, &e.EnrolledAt, &e.Progress.ProgressPercentage, &e.CompletedAt, &e.CertificateID); err != nil {
			return nil, err
		}
		enrolled = append(enrolled, e)
	}
	return enrolled, rows.Err()
}

// AddEnrolledCourse appends the course to the user's list. Adding a course
// that is already listed is a no-op, so retries are safe.
func (r *UserPostgres) AddEnrolledCourse(ctx context.Context, userID string, courseID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO enrolled_courses (user_id, course_id, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, courseID, at); err != nil {
		return fmt.Errorf("failed to add enrolled course: %w", err)
	}
	return nil
}

// RemoveEnrolledCourse pulls the course from the user's list. Missing
// entries are not an error.
func (r *UserPostgres) RemoveEnrolledCourse(ctx context.Context, userID string, courseID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM enrolled_courses WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to remove enrolled course: %w", err)
	}
	return nil
}

// UpdateEnrollment runs fn on the locked enrollment row and stores the
// result. fn returns the XP the user earned by the change.
func (r *UserPostgres) UpdateEnrollment(ctx context.Context, userID string, courseID uuid.UUID, fn func(e *models.EnrolledCourse) (int, error)) (*models.EnrolledCourse, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT course_id, enrolled_at, progress_percentage, completed_at, COALESCE(certificate_id, '')
		  FROM enrolled_courses
		 WHERE user_id = $1 AND course_id = $2
		   FOR UPDATE
	`
	var e models.EnrolledCourse
	err = tx.QueryRow(ctx, query, userID, courseID).Scan(
		&e.CourseID, &e.EnrolledAt, &e.Progress.ProgressPercentage, &e.CompletedAt, &e.CertificateID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrNotEnrolled
		}
		return nil, err
	}

	xp, err := fn(&e)
	if err != nil {
		return nil, err
	}

	var certificateID *string
	if e.CertificateID != "" {
		certificateID = &e.CertificateID
	}
	update := `
		UPDATE enrolled_courses
		   SET progress_percentage = $3, completed_at = $4, certificate_id = $5
		 WHERE user_id = $1 AND course_id = $2
	`
	if _, err = tx.Exec(ctx, update, userID, courseID, e.Progress.ProgressPercentage, e.CompletedAt, certificateID); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	if xp > 0 {
		if _, err = tx.Exec(ctx, `UPDATE users SET xp = xp + $2, updated_at = NOW() WHERE id = $1`, userID, xp); err != nil {
			return nil, fmt.Errorf("failed to award xp: %w", err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &e, nil
}

// IncrementStreak bumps the streak once per UTC day. A call on a day that
// already counted matches no row and returns the user unchanged.
func (r *UserPostgres) IncrementStreak(ctx context.Context, userID string, at time.Time) (*models.User, error) {
	query := `
		UPDATE users
		   SET streak = streak + 1, last_activity_date = $2, updated_at = NOW()
		 WHERE id = $1
		   AND (last_activity_date IS NULL
		        OR (last_activity_date AT TIME ZONE 'UTC')::date < ($2::timestamptz AT TIME ZONE 'UTC')::date)
	`
	if _, err := r.db.Exec(ctx, query, userID, at); err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}
	return r.UserByID(ctx, userID)
}

func (r *UserPostgres) ResetStreak(ctx context.Context, userID string, at time.Time) (*models.User, error) {
	query := `UPDATE users SET streak = 0, last_activity_date = $2, updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, userID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, app_errors.ErrUserNotFound
	}
	return r.UserByID(ctx, userID)
}

func (r *UserPostgres) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	query := `
		SELECT id, email, first_name, last_name, image_url, streak, xp
		  FROM users
		 WHERE NOT is_admin
		 ORDER BY xp DESC, streak DESC, id
		 LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ImageURL, &u.Streak, &u.XP); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserPostgres) CertificateByID(ctx context.Context, certificateID string) (*models.Certificate, error) {
	query := `
		SELECT ec.certificate_id, u.first_name, u.last_name, u.email, c.title,
		       ec.completed_at, ec.progress_percentage
		  FROM enrolled_courses ec
		  JOIN users u ON u.id = ec.user_id
		  JOIN courses c ON c.id = ec.course_id
		 WHERE ec.certificate_id = $1 AND ec.completed_at IS NOT NULL
	`
	var (
		cert    models.Certificate
		student models.User
	)
	err := r.db.QueryRow(ctx, query, certificateID).Scan(
		&cert.CertificateID, &student.FirstName, &student.LastName, &student.Email,
		&cert.CourseName, &cert.CompletedAt, &cert.ProgressPercentage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCertificateNotFound
		}
		return nil, err
	}
	cert.StudentName = student.FullName()
	return &cert, nil
}
