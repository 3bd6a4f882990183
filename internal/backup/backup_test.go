package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"room-occupancy-backend/config"
)

type exporterFunc func(ctx context.Context, w io.Writer) error

func (f exporterFunc) ExportJSON(ctx context.Context, w io.Writer) error { return f(ctx, w) }

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := NewScheduler(&config.BackupConfig{Dir: dir, Schedule: "@daily"}, exporterFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("[]\n"))
		return err
	}), zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, time.March, 4, 8, 30, 0, 0, time.UTC) }

	path, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup_20240304T083000.json"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(body))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSnapshot_ExportFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	s := NewScheduler(&config.BackupConfig{Dir: dir}, exporterFunc(func(ctx context.Context, w io.Writer) error {
		w.Write([]byte("[{"))
		return errors.New("database is locked")
	}), zap.NewNop())

	_, err := s.Snapshot(context.Background())
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&config.BackupConfig{Dir: t.TempDir(), Schedule: "every tuesday"}, exporterFunc(func(ctx context.Context, w io.Writer) error {
		return nil
	}), zap.NewNop())
	assert.Error(t, s.Start())
}

func TestStart_RunsOnSchedule(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan struct{}, 4)
	s := NewScheduler(&config.BackupConfig{Dir: filepath.Join(dir, "nested"), Schedule: "@every 1s"}, exporterFunc(func(ctx context.Context, w io.Writer) error {
		calls <- struct{}{}
		_, err := w.Write([]byte("[]"))
		return err
	}), zap.NewNop())

	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("no backup was taken")
	}
}
