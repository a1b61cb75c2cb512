package models

import (
	"time"

	"github.com/google/uuid"
)

type ReconcileKind string

const (
	ReconcileEnroll   ReconcileKind = "enroll"
	ReconcileUnenroll ReconcileKind = "unenroll"
)

// ReconciliationTask records a secondary write of the enrollment workflow
// that failed after its primary write committed.
type ReconciliationTask struct {
	ID         uuid.UUID     `json:"id"`
	Kind       ReconcileKind `json:"kind"`
	UserID     string        `json:"user_id"`
	CourseID   uuid.UUID     `json:"course_id"`
	RequestID  uuid.UUID     `json:"request_id"`
	Attempts   int           `json:"attempts"`
	LastError  string        `json:"last_error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
}

type ReconcileReport struct {
	TasksResolved int `json:"tasks_resolved"`
	TasksFailed   int `json:"tasks_failed"`
	Enrolled      int `json:"enrolled"`
	Pulled        int `json:"pulled"`
}

// EnrollmentRef identifies one (user, course) pair found out of sync.
type EnrollmentRef struct {
	UserID   string
	CourseID uuid.UUID
}
