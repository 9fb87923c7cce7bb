package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSendWithoutHostOnlyLogs(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{}, zerolog.Nop())
	if err := sender.Send(context.Background(), "a@x.com", "hi", "body"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestSendRejectsHeaderInjection(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{}, zerolog.Nop())
	err := sender.Send(context.Background(), "a@x.com\r\nBcc: b@x.com", "hi", "body")
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{FromName: "Online Courses", FromEmail: "noreply@x.com"}, zerolog.Nop())
	msg := string(sender.buildMessage("a@x.com", "Welcome", "line1\nline2"))

	for _, want := range []string{
		"From: Online Courses <noreply@x.com>\r\n",
		"To: a@x.com\r\n",
		"Subject: Welcome\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nline1\r\nline2",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}
