package mailer

import (
	"context"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/pkg/config"
)

func TestNewFallsBackToLogSender(t *testing.T) {
	sender := New(config.MailConfig{Enabled: true}, zap.NewNop())

	_, ok := sender.(*LogSender)
	assert.True(t, ok)
}

func TestNewUsesSendGridWhenConfigured(t *testing.T) {
	sender := New(config.MailConfig{Enabled: true, APIKey: "SG.key", FromName: "SIS", FromEmail: "noreply@example.edu"}, nil)

	sg, ok := sender.(*SendGridSender)
	require.True(t, ok)
	assert.Equal(t, "[SIS] ", sg.subjPrefix)
}

func TestSendGridPrepare(t *testing.T) {
	sg := NewSendGrid("SG.key", "SIS", "noreply@example.edu")

	m := sg.prepare(Message{
		To:      []mail.Address{{Name: "Admissions", Address: "admissions@example.edu"}},
		Subject: "New contact message",
		Text:    "hello",
	})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[SIS] New contact message", m.Personalizations[0].Subject)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "admissions@example.edu", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
}

func TestSendGridRejectsEmptyRecipients(t *testing.T) {
	sg := NewSendGrid("SG.key", "SIS", "noreply@example.edu")

	err := sg.Send(context.Background(), Message{Subject: "x"})

	assert.Error(t, err)
}

func TestLogSenderNeverFails(t *testing.T) {
	err := NewLogSender(nil).Send(context.Background(), Message{Subject: "x"})

	assert.NoError(t, err)
}
