package app_errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps one of these so
// the delivery layer can pick a status code with errors.Is.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
)

var ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
var ErrCourseNotFound = fmt.Errorf("course %w", ErrNotFound)
var ErrModuleNotFound = fmt.Errorf("module %w", ErrNotFound)
var ErrEnrollmentNotFound = fmt.Errorf("enrollment request %w", ErrNotFound)
var ErrNotEnrolled = fmt.Errorf("course enrollment %w", ErrNotFound)
var ErrRatingNotFound = fmt.Errorf("rating %w", ErrNotFound)
var ErrMessageNotFound = fmt.Errorf("message %w", ErrNotFound)
var ErrCertificateNotFound = fmt.Errorf("certificate %w", ErrNotFound)

var ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)
var ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)

var ErrNotRatingOwner = fmt.Errorf("%w: you can only delete your own rating", ErrForbidden)
var ErrNotMessageReceiver = fmt.Errorf("%w: only the receiver can mark a message as read", ErrForbidden)
var ErrStudentToStudent = fmt.Errorf("%w: students can only message an admin", ErrForbidden)

var ErrAlreadyRequested = fmt.Errorf("%w: an enrollment request for this course is already pending or approved", ErrConflict)
var ErrRequestFinalized = fmt.Errorf("%w: enrollment request is already finalized", ErrConflict)
var ErrAlreadyRated = fmt.Errorf("%w: course already rated", ErrConflict)
var ErrDuplicateModule = fmt.Errorf("%w: module with this order already exists in the course", ErrConflict)
var ErrSlugTaken = fmt.Errorf("%w: slug already taken", ErrConflict)
var ErrCourseNotPublished = fmt.Errorf("%w: course not published", ErrConflict)
var ErrReconcileRunning = fmt.Errorf("%w: reconciliation is already running", ErrConflict)

var ErrFileSize = fmt.Errorf("%w: file too large", ErrValidation)
var ErrFileType = fmt.Errorf("%w: file type not allowed", ErrValidation)

// Validation builds a ValidationError whose message is shown to the caller as-is.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ProgressIncompleteError is returned when completion is requested before
// the course progress reached 100%.
type ProgressIncompleteError struct {
	Percentage float64
}

func (e *ProgressIncompleteError) Error() string {
	return fmt.Sprintf("course progress is %.0f%%, it must reach 100%% before completion", e.Percentage)
}

func (e *ProgressIncompleteError) Unwrap() error {
	return ErrPreconditionFailed
}
