// Package pipeline wires the benchmark upload flow: parse the results
// file, locate the published baseline, compare, publish, forward metrics
// and mail the report. Steps run strictly in order, exactly once.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"benchup/internal/bench"
	"benchup/internal/config"
	"benchup/internal/gist"
	"benchup/internal/gitinfo"
	"benchup/internal/graphite"
	"benchup/internal/meta"
	"benchup/internal/notify"
)

// File names used inside every published gist.
const (
	ResultsFileName  = "bench_results.csv"
	MetadataFileName = "meta_data.txt"
)

// topMovers is how many worst-regression rows lead the HTML report.
const topMovers = 10

// MetricSender is the metrics-forwarding surface; nil disables the push.
type MetricSender interface {
	SendValue(path string, value float64, ts time.Time) error
}

// Mailer delivers the final report. A send failure is fatal to the run.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, plain, html string) error
}

// Pipeline runs one upload end to end.
type Pipeline struct {
	cfg      config.Config
	store    gist.Store
	metrics  MetricSender
	mailer   Mailer
	notifier notify.Notifier
	git      gitinfo.Source

	// Out receives progress banners and the results table. Log receives
	// warnings. Both default to the process-wide destinations.
	Out io.Writer
	Log *slog.Logger
}

// New assembles a pipeline. metrics and notifier may be nil to disable the
// corresponding best-effort steps.
func New(cfg config.Config, store gist.Store, metrics MetricSender, mailer Mailer, notifier notify.Notifier, git gitinfo.Source) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		metrics:  metrics,
		mailer:   mailer,
		notifier: notifier,
		git:      git,
		Out:      os.Stdout,
		Log:      slog.Default(),
	}
}

// Run executes the pipeline for one results file.
func (p *Pipeline) Run(ctx context.Context, resultsPath string) error {
	fmt.Fprint(p.Out, meta.Banner("Uploading ..."))

	f, err := os.Open(resultsPath)
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}
	split, err := bench.Split(f)
	f.Close()
	if err != nil {
		return err
	}

	current, err := bench.ParseTable(split.Table)
	if err != nil {
		return fmt.Errorf("parsing current results: %w", err)
	}
	current.Timestamp = split.Timestamp

	id, err := meta.Collect(ctx, p.git)
	if err != nil {
		return err
	}
	metadata := meta.Build(id, split.Metadata, meta.CPUInfo(), p.cfg.CommitDisplayLength)

	gists, err := p.store.List(ctx)
	if err != nil {
		return err
	}

	baseline, err := p.fetchBaseline(ctx, gists, id)
	if err != nil {
		return err
	}

	if baseline != nil {
		if dropped := bench.Dedupe(current); len(dropped) > 0 {
			p.Log.Warn("duplicate benchmark names dropped, keeping first occurrence",
				"names", strings.Join(dropped, ", "))
		}
	}

	cmp := bench.Compare(current, baseline)
	csvText := bench.RenderCSV(cmp)

	fmt.Fprint(p.Out, meta.Banner("RESULTS"))
	fmt.Fprint(p.Out, bench.RenderTerminal(cmp))

	if err := p.publish(ctx, gists, id, csvText, metadata); err != nil {
		return err
	}

	if p.metrics != nil {
		fmt.Fprint(p.Out, meta.Banner(fmt.Sprintf("Beginning Upload for: %s.%s", id.Host, id.Branch)))
		p.sendMetrics(cmp)
	}

	fmt.Fprint(p.Out, meta.Banner("SENDING EMAIL"))
	subject := "benchmark results for " + id.Description()
	html := bench.RenderEmailHTML(cmp, topMovers)
	if err := p.mailer.Send(ctx, p.cfg.MailRecipients, subject, csvText, html); err != nil {
		return err
	}

	if p.notifier != nil {
		msg := fmt.Sprintf("Benchmark results for %s published (%d benchmarks).", id.Description(), len(cmp.Rows))
		if err := p.notifier.Notify(ctx, msg); err != nil {
			p.Log.Warn("slack notification failed", "error", err)
		}
	}

	fmt.Fprint(p.Out, meta.Banner("DONE"))
	return nil
}

// fetchBaseline locates the published master-branch result set for this
// host and parses its benchmark table. No baseline is not an error; a
// baseline that cannot be fetched or parsed is.
func (p *Pipeline) fetchBaseline(ctx context.Context, gists []gist.Gist, id meta.Identity) (*bench.ResultSet, error) {
	handle := gist.FindByDescriptionPrefix(gists, id.BaselinePrefix())
	if handle == nil {
		return nil, nil
	}

	g, err := p.store.Get(ctx, handle.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching baseline %s: %w", handle.ID, err)
	}
	file, ok := g.Files[ResultsFileName]
	if !ok {
		return nil, fmt.Errorf("baseline gist %s has no %s", handle.ID, ResultsFileName)
	}

	baseline, err := bench.ParseTable(file.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing baseline results: %w", err)
	}
	return baseline, nil
}

// publish upserts the result gist: edit the gist whose description starts
// with "{host}_{branch}" if one exists, create it otherwise.
func (p *Pipeline) publish(ctx context.Context, gists []gist.Gist, id meta.Identity, csvText, metadata string) error {
	files := map[string]gist.File{
		ResultsFileName:  {Content: csvText},
		MetadataFileName: {Content: metadata},
	}

	if existing := gist.FindByDescriptionPrefix(gists, id.Description()); existing != nil {
		return p.store.Edit(ctx, existing.ID, files)
	}
	return p.store.Create(ctx, id.Description(), true, files)
}

// sendMetrics forwards each benchmark's cpu_time. Failures stop the push
// with a warning; nothing downstream depends on it.
func (p *Pipeline) sendMetrics(cmp *bench.Comparison) {
	ts := cmp.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	for _, row := range cmp.Rows {
		path := graphite.MetricPath(row.Name)
		fmt.Fprintf(p.Out, "Uploading: %s, %v, timestamp: %d\n", path, row.CPUTime, ts.Unix())
		if err := p.metrics.SendValue(path, row.CPUTime, ts); err != nil {
			p.Log.Warn("couldn't send data to graphite", "error", err)
			return
		}
	}
}
