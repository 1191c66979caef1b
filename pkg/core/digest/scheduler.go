// Package digest writes a periodic Markdown digest per workspace.
package digest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"tenderflow/pkg/core/metrics"
	"tenderflow/pkg/core/report"
	"tenderflow/pkg/core/store"
)

// Config controls what the digest covers and when it runs.
type Config struct {
	Schedule   string
	TimeZone   string
	Workspaces []string
	OutputDir  string
	// Options are applied to every dashboard; AsOf is replaced by the run time.
	Options metrics.Options
}

// Result describes one written digest.
type Result struct {
	RunID          string
	Workspace      string
	Path           string
	HighlightCount int
}

// Scheduler runs RunOnce on a cron schedule.
type Scheduler struct {
	cfg    Config
	loader store.SnapshotLoader
	log    zerolog.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewScheduler creates a scheduler. Nothing runs until Start.
func NewScheduler(cfg Config, loader store.SnapshotLoader, log zerolog.Logger) *Scheduler {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil || cfg.TimeZone == "" {
		loc = time.UTC
	}
	return &Scheduler{
		cfg:    cfg,
		loader: loader,
		log:    log.With().Str("component", "digest").Logger(),
		cron:   cron.New(cron.WithLocation(loc)),
		now:    time.Now,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if _, err := s.RunOnce(runCtx, s.now()); err != nil {
			s.log.Error().Err(err).Msg("digest run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule digest %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	s.log.Info().
		Str("schedule", s.cfg.Schedule).
		Strs("workspaces", s.cfg.Workspaces).
		Msg("digest scheduler started")
	return nil
}

// Stop halts the schedule and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce writes <OutputDir>/<workspace>-digest.md for every configured
// workspace as of now. A failing workspace does not stop the others; all
// failures are returned joined.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) ([]Result, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create digest dir: %w", err)
	}

	var results []Result
	var errs []error
	for _, ws := range s.cfg.Workspaces {
		res, err := s.runWorkspace(ctx, ws, now)
		if err != nil {
			log.Warn().Err(err).Str("workspace", ws).Msg("digest skipped")
			errs = append(errs, fmt.Errorf("workspace %s: %w", ws, err))
			continue
		}
		res.RunID = runID
		results = append(results, res)
		log.Info().
			Str("workspace", ws).
			Str("path", res.Path).
			Int("highlights", res.HighlightCount).
			Msg("digest written")
	}
	return results, errors.Join(errs...)
}

func (s *Scheduler) runWorkspace(ctx context.Context, workspace string, now time.Time) (Result, error) {
	snap, err := s.loader.Load(ctx, workspace)
	if err != nil {
		return Result{}, err
	}

	opts := s.cfg.Options
	opts.AsOf = &now
	opts.Logger = &s.log
	dash, err := metrics.SelectDashboardMetrics(metrics.DashboardInputFrom(snap), opts)
	if err != nil {
		return Result{}, err
	}
	h := metrics.SelectFinancialHighlights(metrics.HighlightInputFrom(snap))

	title := fmt.Sprintf("%s digest", workspace)
	path := filepath.Join(s.cfg.OutputDir, workspace+"-digest.md")
	if err := os.WriteFile(path, []byte(report.Markdown(title, dash, h)), 0o644); err != nil {
		return Result{}, fmt.Errorf("write digest: %w", err)
	}

	count := len(h.OutstandingInvoices) + len(h.BudgetsAtRisk) + len(h.ProjectsAtRisk) +
		len(h.TendersClosingSoon) + len(h.RecentReports)
	return Result{Workspace: workspace, Path: path, HighlightCount: count}, nil
}
