package progress

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/progress"
	"JapaneseShikhi/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgressService interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProgress(ctx context.Context, userID string, courseID uuid.UUID, percentage float64) (*progress.ProgressResult, error)
	MarkComplete(ctx context.Context, userID string, courseID uuid.UUID) (*progress.CompletionResult, error)
	VerifyCertificate(ctx context.Context, certificateID string) (*models.Certificate, error)
	IncrementStreak(ctx context.Context, userID string) (*models.User, error)
	ResetStreak(ctx context.Context, userID string) (*models.User, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type ProgressHandler struct {
	log     logger.Log
	service ProgressService
}

func NewProgressHandler(l logger.Log, s ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:     l,
		service: s,
	}
}

type progressRequest struct {
	ProgressPercentage *float64 `json:"progress_percentage" binding:"required"`
}

func (h *ProgressHandler) Me(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	user, err := h.service.Profile(c.Request.Context(), caller.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input progressRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := h.service.UpdateProgress(c.Request.Context(), caller.UserID, courseID, *input.ProgressPercentage)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProgressHandler) MarkComplete(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	res, err := h.service.MarkComplete(c.Request.Context(), caller.UserID, courseID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProgressHandler) VerifyCertificate(c *gin.Context) {
	cert, err := h.service.VerifyCertificate(c.Request.Context(), c.Param("certificate_id"))
	if err != nil {
		if errors.Is(err, app_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"valid": false})
			return
		}
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "certificate": cert})
}

func (h *ProgressHandler) IncrementStreak(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	user, err := h.service.IncrementStreak(c.Request.Context(), caller.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": user.Streak, "last_activity_date": user.LastActivityDate})
}

func (h *ProgressHandler) ResetStreak(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	user, err := h.service.ResetStreak(c.Request.Context(), caller.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": user.Streak, "last_activity_date": user.LastActivityDate})
}

func (h *ProgressHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
