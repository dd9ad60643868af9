package notifications

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, in PasswordResetInput) error {
	f.calls++
	return f.err
}

func TestProtectedNotifierOpensAfterThreshold(t *testing.T) {
	inner := &fakeNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		Timeout:          time.Second,
		FailureThreshold: 2,
		Cooldown:         time.Hour,
	}, nil)

	ctx := context.Background()
	in := PasswordResetInput{Email: "a@example.com"}

	for i := 0; i < 2; i++ {
		if err := n.SendPasswordReset(ctx, in); err == nil {
			t.Fatalf("attempt %d: expected provider error", i)
		}
	}

	if n.State() != "open" {
		t.Fatalf("state = %q, want open", n.State())
	}

	err := n.SendPasswordReset(ctx, in)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("open circuit must not call the provider, calls=%d", inner.calls)
	}
}

func TestProtectedNotifierSuccessKeepsClosed(t *testing.T) {
	inner := &fakeNotifier{}
	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{}, nil)

	if err := n.SendPasswordReset(context.Background(), PasswordResetInput{Email: "a@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.State() != "closed" {
		t.Fatalf("state = %q, want closed", n.State())
	}
}

func TestSMTPNotifierBuildsMessage(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg string

	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.org", Port: 2525, From: "desk@example.org"})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		if a != nil {
			t.Errorf("no credentials configured, auth should be nil")
		}
		return nil
	}

	err := n.SendPasswordReset(context.Background(), PasswordResetInput{
		Email:     "op@example.org",
		Name:      "Shelter Op",
		ResetURL:  "https://app.example.org/reset_password/tok",
		ExpiresAt: time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}

	if gotAddr != "smtp.example.org:2525" {
		t.Fatalf("addr = %q", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "op@example.org" {
		t.Fatalf("to = %v", gotTo)
	}
	if !strings.Contains(gotMsg, "https://app.example.org/reset_password/tok") {
		t.Fatalf("message missing reset link:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "Subject: Password reset request") {
		t.Fatalf("message missing subject:\n%s", gotMsg)
	}
}

func TestSMTPNotifierPropagatesFailure(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.org", Port: 25})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	if err := n.SendPasswordReset(context.Background(), PasswordResetInput{Email: "x@example.org"}); err == nil {
		t.Fatalf("expected error")
	}
}
