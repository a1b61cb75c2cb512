package rating

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxReviewLen = 1000

type courseRepo interface {
	CourseBySlug(ctx context.Context, slug string) (*models.Course, error)
}

type enrollmentRepo interface {
	HasApproved(ctx context.Context, userID string, courseID uuid.UUID) (bool, error)
}

type ratingRepo interface {
	RatingByID(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	RatingsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Rating, error)
	AddRating(ctx context.Context, rating *models.Rating) (*models.RatingSummary, error)
	DeleteRating(ctx context.Context, id uuid.UUID) (*models.RatingSummary, error)
}

type CourseRatingService struct {
	log            logger.Log
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	ratingRepo     ratingRepo
}

func NewCourseRatingService(log logger.Log, c courseRepo, e enrollmentRepo, r ratingRepo) *CourseRatingService {
	return &CourseRatingService{
		log:            log,
		courseRepo:     c,
		enrollmentRepo: e,
		ratingRepo:     r,
	}
}

type RatingResult struct {
	Rating  *models.Rating        `json:"rating,omitempty"`
	Summary *models.RatingSummary `json:"summary"`
}

// RateCourse records the caller's single rating for the course. Only students
// with an approved enrollment may rate.
func (s *CourseRatingService) RateCourse(ctx context.Context, caller models.Identity, slug string, value int, review string) (*RatingResult, error) {
	if value < 1 || value > 5 {
		return nil, app_errors.Validation("rating must be between 1 and 5")
	}
	review = strings.TrimSpace(review)
	if utf8.RuneCountInString(review) > maxReviewLen {
		return nil, app_errors.Validation("review must be at most %d characters", maxReviewLen)
	}

	course, err := s.visibleCourse(ctx, caller, slug)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrollmentRepo.HasApproved(ctx, caller.UserID, course.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, app_errors.ErrNotEnrolled
	}

	rating := &models.Rating{
		UserID:   caller.UserID,
		CourseID: course.ID,
		Rating:   value,
		Review:   review,
	}
	summary, err := s.ratingRepo.AddRating(ctx, rating)
	if err != nil {
		return nil, err
	}
	return &RatingResult{Rating: rating, Summary: summary}, nil
}

// DeleteRating removes a rating. Owners may delete their own, admins any.
func (s *CourseRatingService) DeleteRating(ctx context.Context, caller models.Identity, ratingID uuid.UUID) (*RatingResult, error) {
	rating, err := s.ratingRepo.RatingByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.UserID != caller.UserID && !caller.Has(models.CapabilityAdmin) {
		return nil, app_errors.ErrNotRatingOwner
	}
	summary, err := s.ratingRepo.DeleteRating(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	s.log.Info("rating deleted", "rating_id", ratingID, "course_id", rating.CourseID, "by", caller.UserID)
	return &RatingResult{Summary: summary}, nil
}

// Ratings lists the course's ratings. The zero Identity is an anonymous
// visitor.
func (s *CourseRatingService) Ratings(ctx context.Context, caller models.Identity, slug string) ([]models.Rating, error) {
	course, err := s.visibleCourse(ctx, caller, slug)
	if err != nil {
		return nil, err
	}
	return s.ratingRepo.RatingsByCourse(ctx, course.ID)
}

// visibleCourse hides unpublished courses from everyone but admins.
func (s *CourseRatingService) visibleCourse(ctx context.Context, caller models.Identity, slug string) (*models.Course, error) {
	course, err := s.courseRepo.CourseBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished && !caller.Has(models.CapabilityAdmin) {
		return nil, app_errors.ErrCourseNotFound
	}
	return course, nil
}
