package message

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxContentLen = 5000
	maxSubjectLen = 200
)

type messageRepo interface {
	Create(ctx context.Context, m *models.Message) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Conversations(ctx context.Context, userID string) ([]models.Message, error)
	Thread(ctx context.Context, userID string, threadID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (*models.Message, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type MessageService struct {
	log         logger.Log
	messageRepo messageRepo
	userRepo    userRepo
}

func NewMessageService(log logger.Log, m messageRepo, u userRepo) *MessageService {
	return &MessageService{
		log:         log,
		messageRepo: m,
		userRepo:    u,
	}
}

type SendInput struct {
	ReceiverID   string
	Subject      string
	Content      string
	ThreadID     *uuid.UUID
	ReplyTo      *uuid.UUID
	CourseID     *uuid.UUID
	AssignmentID *uuid.UUID
}

func (in *SendInput) validate(senderID string) error {
	in.ReceiverID = strings.TrimSpace(in.ReceiverID)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Content = strings.TrimSpace(in.Content)
	switch {
	case in.ReceiverID == "":
		return app_errors.Validation("receiver_id is required")
	case in.ReceiverID == senderID:
		return app_errors.Validation("cannot send a message to yourself")
	case in.Content == "":
		return app_errors.Validation("content is required")
	case utf8.RuneCountInString(in.Content) > maxContentLen:
		return app_errors.Validation("content must be at most %d characters", maxContentLen)
	case utf8.RuneCountInString(in.Subject) > maxSubjectLen:
		return app_errors.Validation("subject must be at most %d characters", maxSubjectLen)
	}
	return nil
}

// Send delivers a message. Students may only write to admins. A reply
// joins the thread of the message it answers.
func (s *MessageService) Send(ctx context.Context, sender models.Identity, in SendInput) (*models.Message, error) {
	if err := in.validate(sender.UserID); err != nil {
		return nil, err
	}
	receiver, err := s.userRepo.UserByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !sender.Has(models.CapabilityAdmin) && !receiver.IsAdmin {
		return nil, app_errors.ErrStudentToStudent
	}

	msg := &models.Message{
		SenderID:     sender.UserID,
		ReceiverID:   receiver.ID,
		Subject:      in.Subject,
		Content:      in.Content,
		CourseID:     in.CourseID,
		AssignmentID: in.AssignmentID,
	}

	parentID := in.ReplyTo
	if parentID == nil {
		parentID = in.ThreadID
	}
	if parentID != nil {
		parent, err := s.messageRepo.ByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.SenderID != sender.UserID && parent.ReceiverID != sender.UserID {
			return nil, app_errors.ErrMessageNotFound
		}
		root := parent.ThreadRoot()
		msg.ThreadID = &root
		msg.ReplyTo = in.ReplyTo
		if msg.Subject == "" {
			msg.Subject = parent.Subject
		}
		if msg.CourseID == nil {
			msg.CourseID = parent.CourseID
		}
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) Inbox(ctx context.Context, userID string) ([]models.Message, error) {
	return s.messageRepo.Conversations(ctx, userID)
}

func (s *MessageService) Thread(ctx context.Context, userID string, threadID uuid.UUID) ([]models.Message, error) {
	messages, err := s.messageRepo.Thread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, app_errors.ErrMessageNotFound
	}
	return messages, nil
}

// MarkRead is allowed for the receiver only. Marking twice keeps the first
// read time.
func (s *MessageService) MarkRead(ctx context.Context, userID string, id uuid.UUID) (*models.Message, error) {
	msg, err := s.messageRepo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != userID {
		return nil, app_errors.ErrNotMessageReceiver
	}
	if msg.IsRead {
		return msg, nil
	}
	return s.messageRepo.MarkRead(ctx, id, time.Now().UTC())
}

func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}
