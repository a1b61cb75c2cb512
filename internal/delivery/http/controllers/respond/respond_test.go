package respond

import (
	"JapaneseShikhi/internal/app_errors"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "unauthorized", err: app_errors.ErrTokenExpired, wantCode: http.StatusUnauthorized},
		{name: "forbidden", err: app_errors.ErrStudentToStudent, wantCode: http.StatusForbidden},
		{name: "not found", err: app_errors.ErrCourseNotFound, wantCode: http.StatusNotFound, wantBody: `{"error":"course not found"}`},
		{name: "wrapped not found", err: fmt.Errorf("%w: no module at index 3", app_errors.ErrModuleNotFound), wantCode: http.StatusNotFound},
		{name: "validation", err: app_errors.Validation("rating must be between 1 and 5"), wantCode: http.StatusBadRequest, wantBody: `{"error":"validation error: rating must be between 1 and 5"}`},
		{name: "conflict", err: app_errors.ErrRequestFinalized, wantCode: http.StatusConflict},
		{name: "precondition", err: app_errors.ErrPreconditionFailed, wantCode: http.StatusPreconditionFailed},
		{name: "internal", err: errors.New("pq: relation does not exist"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"internal error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestError_InternalErrorIsAttachedForLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	cause := errors.New("connection reset")

	Error(c, cause)

	require.Len(t, c.Errors, 1)
	assert.ErrorIs(t, c.Errors[0].Err, cause)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestError_ProgressIncomplete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, &app_errors.ProgressIncompleteError{Percentage: 72.5})

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.JSONEq(t, `{"error":"course progress is 72%, it must reach 100% before completion","progress_percentage":72.5}`, w.Body.String())
}

func TestPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{query: "", wantLimit: 12, wantOffset: 0},
		{query: "?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{query: "?limit=1000", wantLimit: 100, wantOffset: 0},
		{query: "?limit=-1&offset=-4", wantLimit: 12, wantOffset: 0},
		{query: "?limit=abc", wantLimit: 12, wantOffset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/courses"+tt.query, nil)

			limit, offset := Page(c, 12, 100)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
