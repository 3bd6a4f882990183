package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"room-occupancy-backend/config"
	"room-occupancy-backend/internal/model"
)

// Importer replaces the occupation collection with a JSON backup.
type Importer interface {
	Import(ctx context.Context, r io.Reader) ([]model.Occupation, error)
}

// Service periodically pulls a JSON backup published elsewhere and imports it.
type Service struct {
	cfg      *config.FeedConfig
	importer Importer
	client   *resty.Client
	logger   *zap.Logger
}

// NewService creates the feed service. An invalid proxy URL is logged and
// ignored.
func NewService(cfg *config.FeedConfig, importer Importer, logger *zap.Logger) *Service {
	client := resty.New().
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")

	if cfg.HTTPProxy != "" {
		if _, err := url.Parse(cfg.HTTPProxy); err != nil {
			logger.Warn("invalid feed proxy URL, not using a proxy", zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			client.SetProxy(cfg.HTTPProxy)
		}
	}

	return &Service{
		cfg:      cfg,
		importer: importer,
		client:   client,
		logger:   logger,
	}
}

// Run fetches the feed immediately and then once per interval until ctx is
// cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled || s.cfg.URL == "" {
		s.logger.Info("feed is disabled")
		return
	}
	s.logger.Info("starting feed", zap.String("url", s.cfg.URL), zap.Duration("interval", s.cfg.Interval))

	s.pull(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("feed shutting down")
			return
		case <-timer.C:
			s.pull(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) pull(ctx context.Context) {
	n, err := s.FetchOnce(ctx)
	if err != nil {
		s.logger.Warn("feed pull failed, occupations left untouched", zap.Error(err))
		return
	}
	s.logger.Info("feed imported", zap.Int("occupations", n))
}

// FetchOnce downloads the feed and imports it, returning the number of
// occupations stored. Nothing is written when the download or decoding fails.
func (s *Service) FetchOnce(ctx context.Context) (int, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeaders(s.cfg.Headers).
		Get(s.cfg.URL)
	if err != nil {
		return 0, fmt.Errorf("fetching feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("fetching feed: unexpected status %d", resp.StatusCode())
	}

	occs, err := s.importer.Import(ctx, bytes.NewReader(resp.Body()))
	if err != nil {
		return 0, fmt.Errorf("importing feed: %w", err)
	}
	return len(occs), nil
}
