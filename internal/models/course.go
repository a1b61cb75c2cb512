package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Level         string     `json:"level"`
	Price         int64      `json:"price"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	IsPublished   bool       `json:"is_published"`
	Curriculum    Curriculum `json:"curriculum"`
	AverageRating float64    `json:"average_rating"`
	TotalRatings  int        `json:"total_ratings"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CoursePreview struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Level         string    `json:"level"`
	Price         int64     `json:"price"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	IsPublished   bool      `json:"is_published"`
	ModuleCount   int       `json:"module_count"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
}

func (c *Course) Preview() CoursePreview {
	desc := c.Description
	if r := []rune(desc); len(r) > 200 {
		desc = string(r[:200]) + "…"
	}
	return CoursePreview{
		ID:            c.ID,
		Title:         c.Title,
		Slug:          c.Slug,
		Description:   desc,
		Level:         c.Level,
		Price:         c.Price,
		ThumbnailURL:  c.ThumbnailURL,
		IsPublished:   c.IsPublished,
		ModuleCount:   len(c.Curriculum.Modules),
		AverageRating: c.AverageRating,
		TotalRatings:  c.TotalRatings,
	}
}

func ValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

var (
	nonWordChars = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	spaceRuns    = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases the title, drops every character that is not an ASCII
// word character and joins the remaining words with '-'. Titles written
// entirely in kana/kanji produce an empty slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWordChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BaseSlug is Slugify with a random fallback for titles that slugify to nothing.
func BaseSlug(title string) string {
	if s := Slugify(title); s != "" {
		return s
	}
	return "course-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SlugCandidate returns the n-th slug to try: base first, then base-2, base-3...
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
