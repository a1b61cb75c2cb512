package course

import (
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/course/management"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementService interface {
	CreateCourse(ctx context.Context, in management.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, in management.CourseInput) (*models.Course, error)
	Publish(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(l logger.Log, s ManagementService) *ManagementHandler {
	return &ManagementHandler{
		log:     l,
		service: s,
	}
}

type courseRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Level        *string `json:"level"`
	Price        *int64  `json:"price"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (r courseRequest) input() management.CourseInput {
	return management.CourseInput{
		Title:        r.Title,
		Description:  r.Description,
		Level:        r.Level,
		Price:        r.Price,
		ThumbnailURL: r.ThumbnailURL,
	}
}

func (h *ManagementHandler) CreateCourse(c *gin.Context) {
	var input courseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	course, err := h.service.CreateCourse(c.Request.Context(), input.input())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *ManagementHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input courseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), courseID, input.input())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *ManagementHandler) PublishCourse(c *gin.Context) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	course, err := h.service.Publish(c.Request.Context(), courseID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *ManagementHandler) UnpublishCourse(c *gin.Context) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	course, err := h.service.Unpublish(c.Request.Context(), courseID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}
