package models

import (
	"JapaneseShikhi/internal/app_errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRequest_SingleTerminalTransition(t *testing.T) {
	now := time.Now()

	r := EnrollmentRequest{Status: EnrollmentPending}
	require.NoError(t, r.Approve("admin_1", now))
	assert.Equal(t, EnrollmentApproved, r.Status)
	assert.Equal(t, "admin_1", r.ApprovedBy)
	require.NotNil(t, r.ApprovedAt)

	snapshot := r
	assert.ErrorIs(t, r.Approve("admin_2", now.Add(time.Hour)), app_errors.ErrConflict)
	assert.ErrorIs(t, r.Reject("late", now.Add(time.Hour)), app_errors.ErrConflict)
	assert.Equal(t, snapshot, r)

	rej := EnrollmentRequest{Status: EnrollmentPending}
	require.NoError(t, rej.Reject("transaction id not found", now))
	assert.Equal(t, EnrollmentRejected, rej.Status)
	assert.ErrorIs(t, rej.Approve("admin_1", now), app_errors.ErrConflict)
	assert.Equal(t, EnrollmentRejected, rej.Status)
}

func TestEnrollmentRequest_RejectReason(t *testing.T) {
	r := EnrollmentRequest{Status: EnrollmentPending}
	assert.ErrorIs(t, r.Reject("  ", time.Now()), app_errors.ErrValidation)
	assert.ErrorIs(t, r.Reject(strings.Repeat("あ", MaxRejectionReasonLen+1), time.Now()), app_errors.ErrValidation)
	assert.Equal(t, EnrollmentPending, r.Status)
	assert.NoError(t, r.Reject(strings.Repeat("あ", MaxRejectionReasonLen), time.Now()))
}

func TestPaymentMethod_Valid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentBkash, PaymentNagad, PaymentUpay, PaymentRocket} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, PaymentMethod("paypal").Valid())
}
