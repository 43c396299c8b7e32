package main

import (
	"fmt"
	"log/slog"

	"benchup/internal/config"
	"benchup/internal/gist"
	"benchup/internal/gitinfo"
	"benchup/internal/graphite"
	"benchup/internal/mailer"
	"benchup/internal/meta"
	"benchup/internal/notify"
	"benchup/internal/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload [results-file]",
	Short: "Upload benchmark results and email the comparison report",
	Long: `Parses a benchmark results file, compares it against the published
master baseline for this host, upserts the result gist, forwards timings to
graphite (when configured) and emails the report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resultsPath := "results.csv"
		if len(args) > 0 {
			resultsPath = args[0]
		}
		return runUpload(cmd, resultsPath)
	},
}

func runUpload(cmd *cobra.Command, resultsPath string) error {
	cfg := config.FromViper()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := gist.NewClient(cfg.GistUser, cfg.GistToken)
	m := mailer.New(cfg.SMTPServer, cfg.MailSender, cfg.SMTPPassword)
	git := gitinfo.NewClient("")

	var metrics pipeline.MetricSender
	if cfg.GraphiteServer != "" {
		id, err := meta.Collect(cmd.Context(), git)
		if err != nil {
			return err
		}
		sender, err := graphite.NewSender(cfg.GraphiteServer, fmt.Sprintf("%s.%s", id.Host, id.Branch))
		if err != nil {
			// Metrics are best-effort from the start: a dead graphite
			// server must not block publishing.
			slog.Warn("couldn't connect to graphite, metrics push disabled", "error", err)
		} else {
			metrics = sender
		}
	}

	var notifier notify.Notifier
	if cfg.SlackToken != "" {
		notifier = notify.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannel)
	}

	p := pipeline.New(cfg, store, metrics, m, notifier, git)
	p.Out = cmd.OutOrStdout()
	return p.Run(cmd.Context(), resultsPath)
}
