package model

import (
	"time"
)

// AuthToken is the bearer token handed out on login. Tokens are stateless:
// there is no revocation list and no refresh flow.
type AuthToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *AuthToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

func (t *AuthToken) IsValid() bool {
	return t.Token != "" && !t.IsExpired()
}
