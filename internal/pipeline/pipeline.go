// Package pipeline wires ingestion, analysis, correlation and summarizing
// into a single run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/candidate"
	"github.com/blackwell-systems/autoscout/internal/config"
	"github.com/blackwell-systems/autoscout/internal/correlate"
	"github.com/blackwell-systems/autoscout/internal/ingest"
	"github.com/blackwell-systems/autoscout/internal/logging"
	"github.com/blackwell-systems/autoscout/internal/summary"
	"github.com/blackwell-systems/autoscout/internal/workitem"
)

// ErrIngestionFailed is returned when an input collection could not be
// loaded at all.
var ErrIngestionFailed = errors.New("ingestion failed")

// Inputs names the two input locations of a run.
type Inputs struct {
	Items    string // Trello export or flat JSON file
	Snippets string // snippet directory or flat JSON file
}

// Result is the outcome of one run.
type Result struct {
	WorkItems       []workitem.WorkItem
	Candidates      []candidate.Candidate
	Records         []correlate.Record
	Summary         summary.ExecutiveSummary
	ItemReport      ingest.Report
	CandidateReport ingest.Report
	Duration        time.Duration
}

// Runner executes runs with a fixed configuration.
type Runner struct {
	cfg    *config.Config
	engine *correlate.Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner validates cfg and builds the correlation engine. It returns a
// *config.ConfigurationError when the vocabulary is incomplete.
func NewRunner(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	logger = logging.OrNop(logger)
	engine, err := correlate.NewEngine(cfg.Vocabulary,
		correlate.WithWeights(cfg.Weights),
		correlate.WithThreshold(cfg.Threshold),
		correlate.WithWorkers(cfg.Workers),
		correlate.WithLogger(logger.Named("correlate")),
	)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, engine: engine, logger: logger, now: time.Now}, nil
}

// Run loads both inputs from disk and analyzes them.
func (r *Runner) Run(ctx context.Context, in Inputs) (*Result, error) {
	itemSrcs, itemReport, err := ingest.LoadWorkItems(in.Items, r.logger.Named("ingest"))
	if err := checkIngest("work items", itemReport, err); err != nil {
		return nil, err
	}
	candSrcs, candReport, err := ingest.LoadCandidates(in.Snippets, ingest.SnippetOptions{
		Extensions:  r.cfg.SnippetExtensions,
		CategoryMap: r.cfg.CategoryMap,
	}, r.logger.Named("ingest"))
	if err := checkIngest("candidates", candReport, err); err != nil {
		return nil, err
	}

	res, err := r.Analyze(ctx, itemSrcs, candSrcs)
	if err != nil {
		return nil, err
	}
	res.ItemReport = itemReport
	res.CandidateReport = candReport
	res.Summary.Skipped = summary.Skipped{
		WorkItems:  itemReport.Skipped(),
		Candidates: candReport.Skipped(),
	}
	return res, nil
}

// Analyze runs analysis, correlation and summarizing over already loaded
// sources. Inputs are not modified.
func (r *Runner) Analyze(ctx context.Context, itemSrcs []workitem.Source, candSrcs []candidate.Source) (*Result, error) {
	start := r.now()
	vocab := &r.cfg.Vocabulary

	items := make([]workitem.WorkItem, 0, len(itemSrcs))
	for _, s := range itemSrcs {
		items = append(items, workitem.Analyze(s, vocab, start))
	}
	cands := make([]candidate.Candidate, 0, len(candSrcs))
	for _, s := range candSrcs {
		cands = append(cands, candidate.Analyze(s, vocab))
	}

	records, err := r.engine.Correlate(ctx, items, cands)
	if err != nil {
		return nil, fmt.Errorf("correlating: %w", err)
	}

	sum := summary.Summarize(records, summary.Options{
		TopN:       r.cfg.TopN,
		Items:      len(items),
		Candidates: len(cands),
		Now:        start,
	})

	res := &Result{
		WorkItems:  items,
		Candidates: cands,
		Records:    records,
		Summary:    sum,
		Duration:   r.now().Sub(start),
	}
	r.logger.Info("analysis complete",
		zap.Int("items", len(items)),
		zap.Int("candidates", len(cands)),
		zap.Int("correlations", len(records)),
		zap.Int("high_priority", sum.HighPriorityCount),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// Run is a convenience wrapper that builds a Runner and executes one run.
func Run(ctx context.Context, cfg *config.Config, in Inputs, logger *zap.Logger) (*Result, error) {
	r, err := NewRunner(cfg, logger)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, in)
}

// checkIngest turns a fatal load error, or a collection in which every
// record was malformed, into ErrIngestionFailed.
func checkIngest(kind string, report ingest.Report, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIngestionFailed, kind, err)
	}
	if report.AllFailed() {
		return fmt.Errorf("%w: %s: all %d records in %s are malformed: %w",
			ErrIngestionFailed, kind, report.Skipped(), report.Source, &report.Errors[0])
	}
	return nil
}
