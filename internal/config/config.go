package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries everything the pipeline needs. It is built once from
// viper and passed explicitly; no package reads global settings.
type Config struct {
	GistUser       string
	GistToken      string
	GraphiteServer string // empty disables the metrics push
	MailSender     string
	MailRecipients []string
	SMTPServer     string
	SMTPPassword   string

	SlackToken   string // empty disables the slack notification
	SlackChannel string

	// CommitDisplayLength controls how many characters of the commit hash
	// appear in report headers. Cosmetic.
	CommitDisplayLength int
}

// Load initializes viper from an optional .env file, an optional config
// file and BENCHUP_-prefixed environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("benchup")
	}

	viper.SetEnvPrefix("BENCHUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("slack.channel", "#benchmarks")
	viper.SetDefault("commit_display_length", 25)

	// A missing config file is not an error; env vars may cover everything.
	_ = viper.ReadInConfig()
}

// FromViper materializes the explicit config struct.
func FromViper() Config {
	return Config{
		GistUser:            viper.GetString("gist.user"),
		GistToken:           viper.GetString("gist.token"),
		GraphiteServer:      viper.GetString("graphite.server"),
		MailSender:          viper.GetString("mail.sender"),
		MailRecipients:      viper.GetStringSlice("mail.recipients"),
		SMTPServer:          viper.GetString("smtp.server"),
		SMTPPassword:        viper.GetString("smtp.password"),
		SlackToken:          viper.GetString("slack.token"),
		SlackChannel:        viper.GetString("slack.channel"),
		CommitDisplayLength: viper.GetInt("commit_display_length"),
	}
}

// Validate reports every missing required setting at once, so a first-time
// setup fails with the full list instead of one key per run.
func (c Config) Validate() error {
	var missing []string
	if c.GistUser == "" {
		missing = append(missing, "gist.user (BENCHUP_GIST_USER)")
	}
	if c.GistToken == "" {
		missing = append(missing, "gist.token (BENCHUP_GIST_TOKEN)")
	}
	if c.MailSender == "" {
		missing = append(missing, "mail.sender (BENCHUP_MAIL_SENDER)")
	}
	if len(c.MailRecipients) == 0 {
		missing = append(missing, "mail.recipients (BENCHUP_MAIL_RECIPIENTS)")
	}
	if c.SMTPServer == "" {
		missing = append(missing, "smtp.server (BENCHUP_SMTP_SERVER)")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, "smtp.password (BENCHUP_SMTP_PASSWORD)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}
