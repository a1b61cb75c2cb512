package videocall

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Claims is the payload the video provider expects in a user token.
type Claims struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type VideoCallService struct {
	log       logger.Log
	apiKey    string
	apiSecret string
	ttl       time.Duration
	now       func() time.Time
}

func NewVideoCallService(log logger.Log, apiKey, apiSecret string, ttl time.Duration) *VideoCallService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &VideoCallService{
		log:       log,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken signs a short-lived token that lets user join roomID.
func (s *VideoCallService) IssueToken(user models.Identity, roomID string) (*models.VideoCallToken, error) {
	roomID = strings.TrimSpace(roomID)
	if !roomIDPattern.MatchString(roomID) {
		return nil, app_errors.Validation("room_id must be 1-64 letters, digits, '-' or '_'")
	}
	if s.apiSecret == "" {
		return nil, fmt.Errorf("video call: api secret is not configured")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.UserID,
		RoomID: roomID,
		Name:   strings.TrimSpace(user.FirstName + " " + user.LastName),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		return nil, fmt.Errorf("video token signing failed: %w", err)
	}
	return &models.VideoCallToken{
		Token:     signed,
		APIKey:    s.apiKey,
		RoomID:    roomID,
		UserID:    user.UserID,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}
