package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		GistUser:       "user",
		GistToken:      "token",
		MailSender:     "bench@example.com",
		MailRecipients: []string{"team@example.com"},
		SMTPServer:     "smtp.example.com",
		SMTPPassword:   "secret",
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_OptionalSettingsMayBeEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.GraphiteServer = ""
	cfg.SlackToken = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ReportsAllMissingKeys(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)

	for _, key := range []string{
		"gist.user", "gist.token", "mail.sender", "mail.recipients",
		"smtp.server", "smtp.password",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidate_SingleMissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.GistToken = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gist.token")
	assert.NotContains(t, err.Error(), "smtp.server")
}
