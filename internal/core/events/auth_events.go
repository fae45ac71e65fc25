package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded = "auth.login_succeeded"
	EventTypeLoginFailed    = "auth.login_failed"
	EventTypeAccountLocked  = "auth.account_locked"
)

// NewLoginSucceededEvent is published after a successful authentication.
func NewLoginSucceededEvent(userID int64, username, sourceAddress string) Event {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeLoginSucceeded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":        userID,
			"username":       username,
			"source_address": sourceAddress,
		},
	}
}

// NewLoginFailedEvent is published for every rejected attempt. The reason is
// the internal error code, never the client-facing message.
func NewLoginFailedEvent(username, sourceAddress, reason string) Event {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeLoginFailed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"username":       username,
			"source_address": sourceAddress,
			"reason":         reason,
		},
	}
}

// NewAccountLockedEvent is published when a failed attempt trips the lockout
// threshold.
func NewAccountLockedEvent(userID int64, username string, lockedUntil time.Time) Event {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeAccountLocked,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":      userID,
			"username":     username,
			"locked_until": lockedUntil,
		},
	}
}
