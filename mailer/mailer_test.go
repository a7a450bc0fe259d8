package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/projectflow/config"
)

func TestNewPicksProvider(t *testing.T) {
	s, err := New(config.MailConfig{Provider: "none"})
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, s)
	assert.NoError(t, s.Send(context.Background(), "a@example.com", "hi", "body"))

	_, err = New(config.MailConfig{Provider: "mailgun"})
	assert.Error(t, err)

	s, err = New(config.MailConfig{Provider: "mailgun", Domain: "mg.example.com", Key: "key", From: "noreply@example.com"})
	require.NoError(t, err)
	assert.IsType(t, &MailgunSender{}, s)

	_, err = New(config.MailConfig{Provider: "pigeon"})
	assert.Error(t, err)
}
