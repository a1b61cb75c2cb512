package enrollment

import (
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/enrollment"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EnrollmentService interface {
	Submit(ctx context.Context, userID string, in enrollment.SubmitInput) (*models.EnrollmentRequest, error)
	Approve(ctx context.Context, adminID string, id uuid.UUID) (*models.EnrollmentResult, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.EnrollmentRequest, error)
	Unenroll(ctx context.Context, id uuid.UUID) (*models.EnrollmentResult, error)
	List(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentRequest, error)
	Mine(ctx context.Context, userID string) ([]models.EnrollmentRequest, error)
	Get(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.EnrollmentRequest, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollmentHandler(l logger.Log, s EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:     l,
		service: s,
	}
}

type submitRequest struct {
	CourseID      string `json:"course_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
	SenderNumber  string `json:"sender_number" binding:"required"`
	ScreenshotURL string `json:"screenshot_url"`
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

func (h *EnrollmentHandler) Submit(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	var input submitRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	courseID, err := uuid.Parse(input.CourseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	req, err := h.service.Submit(c.Request.Context(), caller.UserID, enrollment.SubmitInput{
		CourseID:      courseID,
		PaymentMethod: models.PaymentMethod(input.PaymentMethod),
		TransactionID: input.TransactionID,
		SenderNumber:  input.SenderNumber,
		ScreenshotURL: input.ScreenshotURL,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *EnrollmentHandler) Mine(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	requests, err := h.service.Mine(c.Request.Context(), caller.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *EnrollmentHandler) Get(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(c, "request_id")
	if !ok {
		return
	}
	req, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *EnrollmentHandler) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context(), models.EnrollmentStatus(c.Query("status")))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *EnrollmentHandler) Approve(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(c, "request_id")
	if !ok {
		return
	}
	res, err := h.service.Approve(c.Request.Context(), caller.UserID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EnrollmentHandler) Reject(c *gin.Context) {
	id, ok := respond.UUIDParam(c, "request_id")
	if !ok {
		return
	}
	var input rejectRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	req, err := h.service.Reject(c.Request.Context(), id, input.RejectionReason)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id, ok := respond.UUIDParam(c, "request_id")
	if !ok {
		return
	}
	res, err := h.service.Unenroll(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
