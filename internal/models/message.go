package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID           uuid.UUID  `json:"id"`
	SenderID     string     `json:"sender_id"`
	ReceiverID   string     `json:"receiver_id"`
	Subject      string     `json:"subject,omitempty"`
	Content      string     `json:"content"`
	ThreadID     *uuid.UUID `json:"thread_id,omitempty"`
	ReplyTo      *uuid.UUID `json:"reply_to,omitempty"`
	CourseID     *uuid.UUID `json:"course_id,omitempty"`
	AssignmentID *uuid.UUID `json:"assignment_id,omitempty"`
	IsRead       bool       `json:"is_read"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ThreadRoot is the id replies to this message are grouped under.
func (m *Message) ThreadRoot() uuid.UUID {
	if m.ThreadID != nil {
		return *m.ThreadID
	}
	return m.ID
}
