package enrollment

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type enrollmentRepo interface {
	Create(ctx context.Context, req *models.EnrollmentRequest) error
	ByID(ctx context.Context, id uuid.UUID) (*models.EnrollmentRequest, error)
	List(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentRequest, error)
	ByUser(ctx context.Context, userID string) ([]models.EnrollmentRequest, error)
	Transition(ctx context.Context, id uuid.UUID, fn func(req *models.EnrollmentRequest) error) (*models.EnrollmentRequest, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.EnrollmentRequest, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	AddEnrolledCourse(ctx context.Context, userID string, courseID uuid.UUID, at time.Time) error
	RemoveEnrolledCourse(ctx context.Context, userID string, courseID uuid.UUID) error
}

type taskRepo interface {
	CreateTask(ctx context.Context, task *models.ReconciliationTask) error
}

type EnrollmentService struct {
	log            logger.Log
	enrollmentRepo enrollmentRepo
	courseRepo     courseRepo
	userRepo       userRepo
	taskRepo       taskRepo
	retry          RetryPolicy
	now            func() time.Time
}

func NewEnrollmentService(log logger.Log, e enrollmentRepo, c courseRepo, u userRepo, t taskRepo, retry RetryPolicy) *EnrollmentService {
	return &EnrollmentService{
		log:            log,
		enrollmentRepo: e,
		courseRepo:     c,
		userRepo:       u,
		taskRepo:       t,
		retry:          retry,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

type SubmitInput struct {
	CourseID      uuid.UUID
	PaymentMethod models.PaymentMethod
	TransactionID string
	SenderNumber  string
	ScreenshotURL string
}

func (in *SubmitInput) validate() error {
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	in.SenderNumber = strings.TrimSpace(in.SenderNumber)
	in.ScreenshotURL = strings.TrimSpace(in.ScreenshotURL)
	switch {
	case in.CourseID == uuid.Nil:
		return app_errors.Validation("course_id is required")
	case in.PaymentMethod == "":
		return app_errors.Validation("payment_method is required")
	case !in.PaymentMethod.Valid():
		return app_errors.Validation("payment_method must be one of [bkash nagad upay rocket]")
	case in.TransactionID == "":
		return app_errors.Validation("transaction_id is required")
	case in.SenderNumber == "":
		return app_errors.Validation("sender_number is required")
	}
	return nil
}

// Submit files a pending enrollment request for a published course. A
// student holds at most one pending or approved request per course.
func (s *EnrollmentService) Submit(ctx context.Context, userID string, in SubmitInput) (*models.EnrollmentRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.CourseByID(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, app_errors.ErrCourseNotPublished
	}
	student, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &models.EnrollmentRequest{
		UserID:        student.ID,
		StudentName:   student.FullName(),
		StudentEmail:  student.Email,
		CourseID:      course.ID,
		CourseName:    course.Title,
		CoursePrice:   course.Price,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		SenderNumber:  in.SenderNumber,
		ScreenshotURL: in.ScreenshotURL,
	}
	if err := s.enrollmentRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.log.Info("enrollment request submitted", "request_id", req.ID, "user_id", userID, "course_id", course.ID)
	return req, nil
}

// Approve moves a pending request to approved and then adds the course to
// the student's enrolled list.
func (s *EnrollmentService) Approve(ctx context.Context, adminID string, id uuid.UUID) (*models.EnrollmentResult, error) {
	now := s.now()
	req, err := s.enrollmentRepo.Transition(ctx, id, func(r *models.EnrollmentRequest) error {
		return r.Approve(adminID, now)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("enrollment request approved", "request_id", id, "admin_id", adminID)

	warning := s.followUp(ctx, models.ReconcileEnroll, req, func(ctx context.Context) error {
		return s.userRepo.AddEnrolledCourse(ctx, req.UserID, req.CourseID, now)
	})
	return &models.EnrollmentResult{Request: req, Warning: warning}, nil
}

func (s *EnrollmentService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.EnrollmentRequest, error) {
	now := s.now()
	req, err := s.enrollmentRepo.Transition(ctx, id, func(r *models.EnrollmentRequest) error {
		return r.Reject(reason, now)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("enrollment request rejected", "request_id", id)
	return req, nil
}

// Unenroll deletes the request whatever its status and pulls the course
// from the student's enrolled list.
func (s *EnrollmentService) Unenroll(ctx context.Context, id uuid.UUID) (*models.EnrollmentResult, error) {
	req, err := s.enrollmentRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("enrollment request deleted", "request_id", id, "status", string(req.Status))

	warning := s.followUp(ctx, models.ReconcileUnenroll, req, func(ctx context.Context) error {
		return s.userRepo.RemoveEnrolledCourse(ctx, req.UserID, req.CourseID)
	})
	return &models.EnrollmentResult{Request: req, Warning: warning}, nil
}

func (s *EnrollmentService) List(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentRequest, error) {
	switch status {
	case "", models.EnrollmentPending, models.EnrollmentApproved, models.EnrollmentRejected:
	default:
		return nil, app_errors.Validation("status must be one of [pending approved rejected]")
	}
	return s.enrollmentRepo.List(ctx, status)
}

func (s *EnrollmentService) Mine(ctx context.Context, userID string) ([]models.EnrollmentRequest, error) {
	return s.enrollmentRepo.ByUser(ctx, userID)
}

// Get returns the request to its owner or an admin. Other callers get
// NotFound so request ids cannot be probed.
func (s *EnrollmentService) Get(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.EnrollmentRequest, error) {
	req, err := s.enrollmentRepo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != caller.UserID && !caller.Has(models.CapabilityAdmin) {
		return nil, app_errors.ErrEnrollmentNotFound
	}
	return req, nil
}
