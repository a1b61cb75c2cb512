package video

import (
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VideoCallService interface {
	IssueToken(user models.Identity, roomID string) (*models.VideoCallToken, error)
}

type VideoHandler struct {
	log     logger.Log
	service VideoCallService
}

func NewVideoHandler(l logger.Log, s VideoCallService) *VideoHandler {
	return &VideoHandler{
		log:     l,
		service: s,
	}
}

type tokenRequest struct {
	RoomID string `json:"room_id" binding:"required"`
}

func (h *VideoHandler) Token(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	var input tokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	token, err := h.service.IssueToken(caller, input.RoomID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
