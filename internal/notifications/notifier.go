package notifications

import (
	"context"
	"time"
)

type PasswordResetInput struct {
	Email     string
	Name      string
	ResetURL  string
	ExpiresAt time.Time
}

type Notifier interface {
	SendPasswordReset(ctx context.Context, input PasswordResetInput) error
}
