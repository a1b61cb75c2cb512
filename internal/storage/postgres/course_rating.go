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

type CourseRatingPostgres struct {
	db *pgxpool.Pool
}

func NewCourseRatingPostgres(db *pgxpool.Pool) *CourseRatingPostgres {
	return &CourseRatingPostgres{db: db}
}

func (r *CourseRatingPostgres) RatingByID(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.QueryRow(ctx, `
        SELECT id, user_id, course_id, rating, review, created_at FROM ratings WHERE id = $1
    `, id).Scan(&rating.ID, &rating.UserID, &rating.CourseID, &rating.Rating, &rating.Review, &rating.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *CourseRatingPostgres) RatingsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Rating, error) {
	rows, err := r.db.Query(ctx, `
        SELECT r.id, r.user_id, COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), ''),
               r.course_id, r.rating, r.review, r.created_at
          FROM ratings r
          LEFT JOIN users u ON u.id = r.user_id
         WHERE r.course_id = $1
         ORDER BY r.created_at DESC
    `, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.UserName, &rt.CourseID, &rt.Rating, &rt.Review, &rt.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// AddRating inserts the rating and recomputes the course summary in the
// same transaction, with the course row locked.
func (r *CourseRatingPostgres) AddRating(ctx context.Context, rating *models.Rating) (*models.RatingSummary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockCourse(ctx, tx, rating.CourseID); err != nil {
		return nil, err
	}

	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	rating.CreatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `
        INSERT INTO ratings (id, user_id, course_id, rating, review, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, rating.ID, rating.UserID, rating.CourseID, rating.Rating, rating.Review, rating.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "ratings_user_course_key") {
			return nil, app_errors.ErrAlreadyRated
		}
		return nil, fmt.Errorf("failed to insert rating: %w", err)
	}

	summary, err := recomputeSummary(ctx, tx, rating.CourseID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

// DeleteRating removes the rating and recomputes the owning course's summary
// before committing, so readers never see a count that disagrees with the
// ratings table.
func (r *CourseRatingPostgres) DeleteRating(ctx context.Context, id uuid.UUID) (*models.RatingSummary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var courseID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT course_id FROM ratings WHERE id = $1`, id).Scan(&courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrRatingNotFound
		}
		return nil, err
	}
	if err := lockCourse(ctx, tx, courseID); err != nil {
		return nil, err
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete rating: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, app_errors.ErrRatingNotFound
	}

	summary, err := recomputeSummary(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

func lockCourse(ctx context.Context, tx pgx.Tx, courseID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`, courseID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return app_errors.ErrCourseNotFound
	}
	return err
}

func recomputeSummary(ctx context.Context, tx pgx.Tx, courseID uuid.UUID) (*models.RatingSummary, error) {
	rows, err := tx.Query(ctx, `SELECT rating FROM ratings WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}

	summary := models.SummarizeRatings(values)
	_, err = tx.Exec(ctx, `
        UPDATE courses SET average_rating = $2, total_ratings = $3, updated_at = NOW() WHERE id = $1
    `, courseID, summary.AverageRating, summary.TotalRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to update rating summary: %w", err)
	}
	return &summary, nil
}
