package models

import "time"

// Session is the signed-in state restored from the local store. ExpiresAt
// is zero for tokens that carry no expiry.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
	Offline   bool
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
