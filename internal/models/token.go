package models

import "time"

// Identity is the caller as asserted by the identity provider's token.
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
	Roles     []string
}

func (i Identity) Has(capability string) bool {
	for _, r := range i.Roles {
		if r == capability {
			return true
		}
	}
	return false
}

type VideoCallToken struct {
	Token     string    `json:"token"`
	APIKey    string    `json:"api_key"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
