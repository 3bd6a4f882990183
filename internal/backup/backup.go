package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"room-occupancy-backend/config"
)

// Exporter writes the occupation collection as a JSON backup.
type Exporter interface {
	ExportJSON(ctx context.Context, w io.Writer) error
}

// Scheduler writes JSON snapshots of the collection on a cron schedule.
type Scheduler struct {
	cfg      *config.BackupConfig
	exporter Exporter
	cron     *cron.Cron
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler writing into cfg.Dir.
func NewScheduler(cfg *config.BackupConfig, exporter Exporter, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		exporter: exporter,
		cron:     cron.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the snapshot job and starts the cron runner.
func (s *Scheduler) Start() error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		path, err := s.Snapshot(context.Background())
		if err != nil {
			s.logger.Error("backup failed", zap.Error(err))
			return
		}
		s.logger.Info("backup written", zap.String("path", path))
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	s.logger.Info("backup scheduler started", zap.String("schedule", s.cfg.Schedule), zap.String("dir", s.cfg.Dir))
	return nil
}

// Stop stops the runner and waits for a running snapshot, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Snapshot writes one backup file and returns its path. The file only
// appears under its final name once completely written.
func (s *Scheduler) Snapshot(ctx context.Context) (string, error) {
	name := fmt.Sprintf("backup_%s.json", s.now().Format("20060102T150405"))
	path := filepath.Join(s.cfg.Dir, name)

	tmp, err := os.CreateTemp(s.cfg.Dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.exporter.ExportJSON(ctx, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("exporting occupations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing backup file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming backup file: %w", err)
	}
	return path, nil
}
