package course

import (
	"JapaneseShikhi/internal/delivery/http/controllers/middleware"
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/course/rating"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingService interface {
	RateCourse(ctx context.Context, caller models.Identity, slug string, value int, review string) (*rating.RatingResult, error)
	DeleteRating(ctx context.Context, caller models.Identity, ratingID uuid.UUID) (*rating.RatingResult, error)
	Ratings(ctx context.Context, caller models.Identity, slug string) ([]models.Rating, error)
}

type RatingHandler struct {
	log     logger.Log
	service RatingService
}

func NewRatingHandler(log logger.Log, s RatingService) *RatingHandler {
	return &RatingHandler{
		log:     log,
		service: s,
	}
}

type rateRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

func (h *RatingHandler) RateCourse(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	var input rateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := h.service.RateCourse(c.Request.Context(), caller, c.Param("slug"), input.Rating, input.Review)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	ratingID, ok := respond.UUIDParam(c, "rating_id")
	if !ok {
		return
	}
	res, err := h.service.DeleteRating(c.Request.Context(), caller, ratingID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *RatingHandler) Ratings(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	ratings, err := h.service.Ratings(c.Request.Context(), caller, c.Param("slug"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}
