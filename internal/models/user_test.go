package models

import (
	"JapaneseShikhi/internal/app_errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrolledCourse_CompleteIsIdempotent(t *testing.T) {
	e := EnrolledCourse{Progress: Progress{ProgressPercentage: 60}}

	_, _, err := e.Complete(time.Now(), "JS-1")
	var incomplete *app_errors.ProgressIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 60.0, incomplete.Percentage)
	assert.ErrorIs(t, err, app_errors.ErrPreconditionFailed)
	assert.Nil(t, e.CompletedAt)

	e.ApplyProgress(100)
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	at, changed, err := e.Complete(first, "JS-1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, first, at)

	at2, changed, err := e.Complete(first.Add(24*time.Hour), "JS-2")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, at2)
	assert.Equal(t, "JS-1", e.CertificateID)
}

func TestEnrolledCourse_ApplyProgress(t *testing.T) {
	var e EnrolledCourse
	assert.Equal(t, 40, e.ApplyProgress(40))
	assert.Equal(t, 0, e.ApplyProgress(30))
	assert.Equal(t, 40.0, e.Progress.ProgressPercentage)
	assert.Equal(t, 60, e.ApplyProgress(150))
	assert.Equal(t, 100.0, e.Progress.ProgressPercentage)
}

func TestSummarizeRatings(t *testing.T) {
	assert.Equal(t, RatingSummary{AverageRating: 4.0, TotalRatings: 2}, SummarizeRatings([]int{5, 3}))
	assert.Equal(t, RatingSummary{AverageRating: 5.0, TotalRatings: 1}, SummarizeRatings([]int{5}))
	assert.Equal(t, RatingSummary{}, SummarizeRatings(nil))
	assert.Equal(t, 4.3, SummarizeRatings([]int{5, 4, 4}).AverageRating)
}

func TestIdentity_Has(t *testing.T) {
	assert.True(t, Identity{Roles: []string{"student", CapabilityAdmin}}.Has(CapabilityAdmin))
	assert.False(t, Identity{}.Has(CapabilityAdmin))
}
