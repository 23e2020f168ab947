package chat

import "time"

// Session captures a transient per-user conversation. It lives only in
// process memory and is evicted after a period of inactivity.
type Session struct {
	UserID       string    `json:"userId"`
	Messages     []Message `json:"messages"`
	LastActivity time.Time `json:"lastActivity"`
}
