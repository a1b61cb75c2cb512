package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Rating struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	CourseID  uuid.UUID `json:"course_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// SummarizeRatings computes the arithmetic mean rounded to one decimal and
// the count. No ratings gives a zero summary.
func SummarizeRatings(values []int) RatingSummary {
	if len(values) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return RatingSummary{
		AverageRating: math.Round(mean*10) / 10,
		TotalRatings:  len(values),
	}
}
