package models

import (
	"JapaneseShikhi/internal/app_errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CapabilityAdmin is the capability admin-only routes require.
const CapabilityAdmin = "admin"

// User mirrors the identity provider's profile; ID is the provider's user id.
type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	ImageURL         string           `json:"image_url,omitempty"`
	IsAdmin          bool             `json:"is_admin"`
	EnrolledCourses  []EnrolledCourse `json:"enrolled_courses"`
	Streak           int              `json:"streak"`
	XP               int              `json:"xp"`
	LastActivityDate *time.Time       `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func (u *User) Enrollment(courseID uuid.UUID) *EnrolledCourse {
	for i := range u.EnrolledCourses {
		if u.EnrolledCourses[i].CourseID == courseID {
			return &u.EnrolledCourses[i]
		}
	}
	return nil
}

type Progress struct {
	ProgressPercentage float64 `json:"progress_percentage"`
}

type EnrolledCourse struct {
	CourseID      uuid.UUID  `json:"course_id"`
	EnrolledAt    time.Time  `json:"enrolled_at"`
	Progress      Progress   `json:"progress"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CertificateID string     `json:"certificate_id,omitempty"`
}

// ApplyProgress raises the progress to percentage (clamped to 0..100) and
// returns the whole percentage points gained. Progress never goes down.
func (e *EnrolledCourse) ApplyProgress(percentage float64) int {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	prev := e.Progress.ProgressPercentage
	if percentage <= prev {
		return 0
	}
	e.Progress.ProgressPercentage = percentage
	return int(percentage) - int(prev)
}

// Complete stamps the completion once. The second return value reports
// whether anything changed; an already completed course keeps its stamp.
func (e *EnrolledCourse) Complete(now time.Time, certificateID string) (time.Time, bool, error) {
	if e.CompletedAt != nil {
		return *e.CompletedAt, false, nil
	}
	if e.Progress.ProgressPercentage < 100 {
		return time.Time{}, false, &app_errors.ProgressIncompleteError{Percentage: e.Progress.ProgressPercentage}
	}
	e.CompletedAt = &now
	e.CertificateID = certificateID
	return now, true, nil
}

// NewCertificateID returns an identifier like "JS-3F2A9C1B7D4E".
func NewCertificateID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "JS-" + raw[:12]
}

type Certificate struct {
	CertificateID      string    `json:"certificate_id"`
	StudentName        string    `json:"student_name"`
	CourseName         string    `json:"course_name"`
	CompletedAt        time.Time `json:"completed_at"`
	ProgressPercentage float64   `json:"progress_percentage"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	XP       int    `json:"xp"`
	Streak   int    `json:"streak"`
}
