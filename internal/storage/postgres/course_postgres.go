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

const courseColumns = `
	id, title, slug, description, level, price, thumbnail_url,
	is_published, curriculum, average_rating, total_ratings, created_at, updated_at`

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Slug,
		&course.Description,
		&course.Level,
		&course.Price,
		&course.ThumbnailURL,
		&course.IsPublished,
		&course.Curriculum,
		&course.AverageRating,
		&course.TotalRatings,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Curriculum.Modules == nil {
		course.Curriculum.Modules = []models.Module{}
	}
	return course, nil
}

func (r *CoursePostgres) NewCourse(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.Curriculum.Modules == nil {
		course.Curriculum.Modules = []models.Module{}
	}
	query := `
		INSERT INTO courses (
			id, title, slug, description, level, price, thumbnail_url,
			is_published, curriculum, average_rating, total_ratings, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, 0, 0, $10, $11
		)
	`
	_, err := r.db.Exec(
		ctx,
		query,
		course.ID,
		course.Title,
		course.Slug,
		course.Description,
		course.Level,
		course.Price,
		course.ThumbnailURL,
		course.IsPublished,
		course.Curriculum,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "courses_slug_key") {
			return app_errors.ErrSlugTaken
		}
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRow(ctx, query, id))
}

func (r *CoursePostgres) CourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE slug = $1`
	return scanCourse(r.db.QueryRow(ctx, query, slug))
}

func (r *CoursePostgres) CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`
	return r.queryCourses(ctx, query, ids)
}

func (r *CoursePostgres) ListCourses(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		  FROM courses
		 WHERE ($1 = FALSE OR is_published)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
	`
	return r.queryCourses(ctx, query, publishedOnly, limit, offset)
}

func (r *CoursePostgres) CountCourses(ctx context.Context, publishedOnly bool) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM courses WHERE ($1 = FALSE OR is_published)`
	if err := r.db.QueryRow(ctx, query, publishedOnly).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return total, nil
}

func (r *CoursePostgres) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *CoursePostgres) UpdateCourse(ctx context.Context, course *models.Course) error {
	const query = `
        UPDATE courses
           SET title         = $2,
               description   = $3,
               level         = $4,
               price         = $5,
               thumbnail_url = $6,
               updated_at    = $7
         WHERE id = $1
    `
	course.UpdatedAt = time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx, query, course.ID, course.Title, course.Description,
		course.Level, course.Price, course.ThumbnailURL, course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	const query = `
        UPDATE courses
           SET is_published = $2,
               updated_at   = NOW()
         WHERE id = $1
    `
	cmdTag, err := r.db.Exec(ctx, query, id, published)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

// UpdateCurriculum runs fn on the course with its row locked and stores the
// resulting curriculum. Concurrent editors of one course are serialized.
func (r *CoursePostgres) UpdateCurriculum(ctx context.Context, id uuid.UUID, fn func(c *models.Course) error) (*models.Course, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 FOR UPDATE`
	course, err := scanCourse(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := fn(course); err != nil {
		return nil, err
	}

	course.UpdatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `UPDATE courses SET curriculum = $2, updated_at = $3 WHERE id = $1`,
		id, course.Curriculum, course.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store curriculum: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return course, nil
}
