package enrollment

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/delivery/http/controllers/middleware"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/enrollment"
	"JapaneseShikhi/pkg/logger"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	submitted enrollment.SubmitInput
	approved  map[uuid.UUID]bool
	warning   string
}

func (f *fakeService) Submit(_ context.Context, userID string, in enrollment.SubmitInput) (*models.EnrollmentRequest, error) {
	f.submitted = in
	return &models.EnrollmentRequest{ID: uuid.New(), UserID: userID, CourseID: in.CourseID, Status: models.EnrollmentPending}, nil
}

func (f *fakeService) Approve(_ context.Context, adminID string, id uuid.UUID) (*models.EnrollmentResult, error) {
	if f.approved[id] {
		return nil, app_errors.ErrRequestFinalized
	}
	f.approved[id] = true
	return &models.EnrollmentResult{
		Request: &models.EnrollmentRequest{ID: id, Status: models.EnrollmentApproved, ApprovedBy: adminID},
		Warning: f.warning,
	}, nil
}

func (f *fakeService) Reject(_ context.Context, id uuid.UUID, reason string) (*models.EnrollmentRequest, error) {
	if reason == "" {
		return nil, app_errors.Validation("rejection_reason is required")
	}
	return &models.EnrollmentRequest{ID: id, Status: models.EnrollmentRejected, RejectionReason: reason}, nil
}

func (f *fakeService) Unenroll(_ context.Context, id uuid.UUID) (*models.EnrollmentResult, error) {
	return nil, app_errors.ErrEnrollmentNotFound
}

func (f *fakeService) List(_ context.Context, _ models.EnrollmentStatus) ([]models.EnrollmentRequest, error) {
	return []models.EnrollmentRequest{}, nil
}

func (f *fakeService) Mine(_ context.Context, _ string) ([]models.EnrollmentRequest, error) {
	return []models.EnrollmentRequest{}, nil
}

func (f *fakeService) Get(_ context.Context, _ models.Identity, _ uuid.UUID) (*models.EnrollmentRequest, error) {
	return nil, app_errors.ErrEnrollmentNotFound
}

func newRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(logger.Discard(), svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClientIdentityCtx, models.Identity{UserID: "admin", Roles: []string{models.CapabilityAdmin}})
	})
	r.POST("/enrollments", h.Submit)
	r.GET("/enrollments/:request_id", h.Get)
	r.PATCH("/admin/enrollments/:request_id/approve", h.Approve)
	r.PATCH("/admin/enrollments/:request_id/reject", h.Reject)
	r.DELETE("/admin/enrollments/:request_id", h.Unenroll)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit(t *testing.T) {
	svc := &fakeService{approved: map[uuid.UUID]bool{}}
	r := newRouter(svc)
	courseID := uuid.New()

	w := do(r, http.MethodPost, "/enrollments", `{
		"course_id": "`+courseID.String()+`",
		"payment_method": "bkash",
		"transaction_id": "9XK2LM",
		"sender_number": "01711111111"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, courseID, svc.submitted.CourseID)
	assert.Equal(t, models.PaymentBkash, svc.submitted.PaymentMethod)

	w = do(r, http.MethodPost, "/enrollments", `{"course_id": "`+courseID.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/enrollments", `{"course_id":"nope","payment_method":"bkash","transaction_id":"x","sender_number":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprove(t *testing.T) {
	svc := &fakeService{approved: map[uuid.UUID]bool{}, warning: "queued for reconciliation"}
	r := newRouter(svc)
	id := uuid.New()

	w := do(r, http.MethodPatch, "/admin/enrollments/"+id.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res models.EnrollmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "queued for reconciliation", res.Warning)
	assert.Equal(t, "admin", res.Request.ApprovedBy)

	w = do(r, http.MethodPatch, "/admin/enrollments/"+id.String()+"/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPatch, "/admin/enrollments/not-a-uuid/approve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectAndUnenroll(t *testing.T) {
	r := newRouter(&fakeService{approved: map[uuid.UUID]bool{}})
	id := uuid.New()

	w := do(r, http.MethodPatch, "/admin/enrollments/"+id.String()+"/reject", `{"rejection_reason":"unknown transaction"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"rejected"`)

	w = do(r, http.MethodPatch, "/admin/enrollments/"+id.String()+"/reject", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/admin/enrollments/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/enrollments/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
