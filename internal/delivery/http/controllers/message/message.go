package message

import (
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/message"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageService interface {
	Send(ctx context.Context, sender models.Identity, in message.SendInput) (*models.Message, error)
	Inbox(ctx context.Context, userID string) ([]models.Message, error)
	Thread(ctx context.Context, userID string, threadID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, userID string, id uuid.UUID) (*models.Message, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type MessageHandler struct {
	log     logger.Log
	service MessageService
}

func NewMessageHandler(l logger.Log, s MessageService) *MessageHandler {
	return &MessageHandler{
		log:     l,
		service: s,
	}
}

type sendRequest struct {
	ReceiverID   string     `json:"receiver_id" binding:"required"`
	Subject      string     `json:"subject"`
	Content      string     `json:"content" binding:"required"`
	ThreadID     *uuid.UUID `json:"thread_id"`
	ReplyTo      *uuid.UUID `json:"reply_to"`
	CourseID     *uuid.UUID `json:"course_id"`
	AssignmentID *uuid.UUID `json:"assignment_id"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	var input sendRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	msg, err := h.service.Send(c.Request.Context(), caller, message.SendInput{
		ReceiverID:   input.ReceiverID,
		Subject:      input.Subject,
		Content:      input.Content,
		ThreadID:     input.ThreadID,
		ReplyTo:      input.ReplyTo,
		CourseID:     input.CourseID,
		AssignmentID: input.AssignmentID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	messages, err := h.service.Inbox(c.Request.Context(), caller.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) Thread(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	threadID, ok := respond.UUIDParam(c, "thread_id")
	if !ok {
		return
	}
	messages, err := h.service.Thread(c.Request.Context(), caller.UserID, threadID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	id, ok := respond.UUIDParam(c, "message_id")
	if !ok {
		return
	}
	msg, err := h.service.MarkRead(c.Request.Context(), caller.UserID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	caller, ok := respond.Caller(c)
	if !ok {
		return
	}
	n, err := h.service.UnreadCount(c.Request.Context(), caller.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
