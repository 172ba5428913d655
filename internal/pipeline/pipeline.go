// Package pipeline sequences the three stages: clean raw events, build the
// four feature tables, and generate the insight summary, persisting a
// versioned envelope per run and recording it in the run history.
package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/shopwatch/internal/config"
	"github.com/blackwell-systems/shopwatch/internal/events"
	"github.com/blackwell-systems/shopwatch/internal/features"
	"github.com/blackwell-systems/shopwatch/internal/insights"
	"github.com/blackwell-systems/shopwatch/internal/store"
)

// Options selects what a run does. Tag versions the output file; the skip
// flags reuse the persisted artifacts of earlier runs.
type Options struct {
	Tag          string
	Baseline     string // summary file path, or a previously recorded tag
	SkipClean    bool
	SkipFeatures bool
}

// Result is what a completed run produced.
type Result struct {
	Summary     *insights.Summary
	OutputPath  string
	GeneratedAt time.Time
}

// Pipeline wires the stages to a configuration, a logger, and an optional
// run-history database.
type Pipeline struct {
	cfg *config.Config
	log *logrus.Logger
	db  *store.DB
}

// New builds a pipeline. db may be nil; runs then go unrecorded and
// baseline tags cannot be resolved.
func New(cfg *config.Config, log *logrus.Logger, db *store.DB) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, db: db}
}

// Clean runs the cleaning stage and returns the retained event count.
func (p *Pipeline) Clean() (int, error) {
	n, err := events.CleanFile(p.cfg.RawEventsPath(), p.cfg.CleanedPath())
	if err != nil {
		return 0, err
	}
	p.log.WithFields(logrus.Fields{"events": n, "path": p.cfg.CleanedPath()}).
		Info("cleaned raw events")
	return n, nil
}

// BuildFeatures runs the feature stage against the persisted cleaned table.
func (p *Pipeline) BuildFeatures() error {
	evs, err := events.ReadCleanedFile(p.cfg.CleanedPath())
	if err != nil {
		return err
	}

	sessions := features.BuildSessions(evs)
	users, err := features.BuildUsers(sessions)
	if err != nil {
		return err
	}
	brands := features.BuildBrands(evs)
	categories := features.BuildCategories(evs)

	dir := p.cfg.FeaturesPath()
	if err := features.WriteAll(dir, sessions, users, brands, categories); err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{
		"sessions":   len(sessions.Rows),
		"users":      len(users.Rows),
		"brands":     len(brands.Rows),
		"categories": len(categories.Rows),
		"dir":        dir,
	}).Info("built feature tables")
	return nil
}

// Insights runs the insight stage against the persisted feature tables and
// writes the summary envelope for opts.Tag.
func (p *Pipeline) Insights(opts Options) (*Result, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("a run tag is required")
	}

	sessions, users, brands, categories, err := features.ReadAll(p.cfg.FeaturesPath())
	if err != nil {
		return nil, err
	}

	baseline := p.resolveBaseline(opts.Baseline)

	summary, err := insights.Generate(sessions, users, brands, categories, baseline, p.cfg.InsightConfig())
	if err != nil {
		return nil, err
	}

	generatedAt := time.Now().UTC()
	outputPath, err := p.writeSummary(opts.Tag, generatedAt, summary)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"tag": opts.Tag, "path": outputPath, "insights": len(summary.Insights)}).
		Info("wrote summary")

	p.recordRun(opts.Tag, generatedAt, outputPath, summary)

	return &Result{Summary: summary, OutputPath: outputPath, GeneratedAt: generatedAt}, nil
}

// Run executes the full clean → features → insights sequence, honoring the
// skip flags.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	if !opts.SkipClean {
		if _, err := p.Clean(); err != nil {
			return nil, err
		}
	} else {
		p.log.Debug("skipping clean stage")
	}

	if !opts.SkipFeatures {
		if err := p.BuildFeatures(); err != nil {
			return nil, err
		}
	} else {
		p.log.Debug("skipping feature stage")
	}

	return p.Insights(opts)
}

// resolveBaseline turns the --baseline value into a loaded baseline. The
// value may be a summary file path or a previously recorded tag; anything
// unresolvable disables the comparison with a warning rather than failing
// the run.
func (p *Pipeline) resolveBaseline(ref string) *insights.Baseline {
	if ref == "" {
		return nil
	}

	path := ref
	if _, err := os.Stat(path); err != nil {
		if p.db == nil {
			p.log.WithField("baseline", ref).Warn("baseline not found; skipping comparison")
			return nil
		}
		run, err := p.db.FindRunByTag(ref)
		if err != nil || run == nil {
			p.log.WithField("baseline", ref).Warn("baseline not found; skipping comparison")
			return nil
		}
		path = run.OutputPath
	}

	baseline, err := insights.LoadBaseline(path)
	if err != nil {
		p.log.WithFields(logrus.Fields{"baseline": path, "error": err}).
			Warn("baseline unreadable; skipping comparison")
		return nil
	}
	return baseline
}

// envelope is the persisted summary file shape.
type envelope struct {
	GeneratedAt string            `json:"generated_at"`
	Tag         string            `json:"tag"`
	Summary     *insights.Summary `json:"summary"`
}

// writeSummary persists the envelope to <output>/summary_<tag>.json. A tag
// that was already written is an error; re-runs pick a new tag instead of
// silently replacing a published summary.
func (p *Pipeline) writeSummary(tag string, generatedAt time.Time, summary *insights.Summary) (string, error) {
	dir := p.cfg.OutputPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("summary_%s.json", tag))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("summary for tag %q already exists at %s", tag, path)
	}

	data, err := json.MarshalIndent(envelope{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Tag:         tag,
		Summary:     summary,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}

// recordRun stores the run's headline metrics. History is best-effort: a
// recording failure is logged, not returned, because the summary file is
// already on disk.
func (p *Pipeline) recordRun(tag string, generatedAt time.Time, outputPath string, summary *insights.Summary) {
	if p.db == nil {
		return
	}

	rate := float64(summary.Funnel.ViewToPurchase)
	if math.IsInf(rate, 0) {
		rate = math.NaN()
	}
	_, err := p.db.RecordRun(&store.Run{
		Tag:            tag,
		GeneratedAt:    generatedAt,
		OutputPath:     outputPath,
		TotalSessions:  summary.Funnel.TotalSessions,
		TotalRevenue:   float64(summary.Revenue.TotalRevenue),
		ViewToPurchase: rate,
		InsightCount:   len(summary.Insights),
	})
	if err != nil {
		p.log.WithField("error", err).Warn("recording run history failed")
	}
}
