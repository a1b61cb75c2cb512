package models

import (
	"JapaneseShikhi/internal/app_errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentBkash  PaymentMethod = "bkash"
	PaymentNagad  PaymentMethod = "nagad"
	PaymentUpay   PaymentMethod = "upay"
	PaymentRocket PaymentMethod = "rocket"
)

const MaxRejectionReasonLen = 500

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBkash, PaymentNagad, PaymentUpay, PaymentRocket:
		return true
	}
	return false
}

// EnrollmentRequest stands in for a paid enrollment until an admin verifies
// the transaction. CourseName and CoursePrice are copied at submission.
type EnrollmentRequest struct {
	ID              uuid.UUID        `json:"id"`
	UserID          string           `json:"user_id"`
	StudentName     string           `json:"student_name"`
	StudentEmail    string           `json:"student_email"`
	CourseID        uuid.UUID        `json:"course_id"`
	CourseName      string           `json:"course_name"`
	CoursePrice     int64            `json:"course_price"`
	PaymentMethod   PaymentMethod    `json:"payment_method"`
	TransactionID   string           `json:"transaction_id"`
	SenderNumber    string           `json:"sender_number"`
	ScreenshotURL   string           `json:"screenshot_url,omitempty"`
	Status          EnrollmentStatus `json:"status"`
	ApprovedBy      string           `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (r *EnrollmentRequest) Terminal() bool {
	return r.Status == EnrollmentApproved || r.Status == EnrollmentRejected
}

func (r *EnrollmentRequest) Approve(adminID string, now time.Time) error {
	if r.Status != EnrollmentPending {
		return app_errors.ErrRequestFinalized
	}
	r.Status = EnrollmentApproved
	r.ApprovedBy = adminID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	return nil
}

func (r *EnrollmentRequest) Reject(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return app_errors.Validation("rejection_reason is required")
	}
	if utf8.RuneCountInString(reason) > MaxRejectionReasonLen {
		return app_errors.Validation("rejection_reason must be at most %d characters", MaxRejectionReasonLen)
	}
	if r.Status != EnrollmentPending {
		return app_errors.ErrRequestFinalized
	}
	r.Status = EnrollmentRejected
	r.RejectionReason = reason
	r.RejectedAt = &now
	r.UpdatedAt = now
	return nil
}

// EnrollmentResult is returned by workflow steps that touch two aggregates.
// Warning is set when the secondary write did not go through and was queued
// for reconciliation.
type EnrollmentResult struct {
	Request *EnrollmentRequest `json:"request,omitempty"`
	Warning string             `json:"warning,omitempty"`
}
