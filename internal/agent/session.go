// Package agent runs the worker-side activity session: a heartbeat sender
// and a periodic screen-capture loop that live exactly as long as the worker
// is clocked in and not on break. The Session owns its timers and the
// acquired capture source, so starting a new session replaces the previous
// one instead of stacking a second set of timers on top of it.
package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Source produces screen frames. Acquired once per activation and released
// on deactivation; it is never reused across a break boundary.
type Source interface {
	Frame() ([]byte, error)
	Close() error
}

// SourceFactory acquires a fresh capture source.
type SourceFactory func() (Source, error)

// Uploader receives each encoded frame. An in-flight upload is allowed to
// finish after the session stops; the server accepts late screenshots.
type Uploader interface {
	Upload(ctx context.Context, frame []byte, capturedAt time.Time) error
}

// HeartbeatFunc reports liveness to the server.
type HeartbeatFunc func(ctx context.Context) error

type Config struct {
	HeartbeatInterval time.Duration
	CaptureInterval   time.Duration
	UploadTimeout     time.Duration
}

type Session struct {
	cfg       Config
	sources   SourceFactory
	uploader  Uploader
	heartbeat HeartbeatFunc
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	source Source
}

func NewSession(cfg Config, sources SourceFactory, uploader Uploader, heartbeat HeartbeatFunc, logger *slog.Logger) *Session {
	return &Session{
		cfg:       cfg,
		sources:   sources,
		uploader:  uploader,
		heartbeat: heartbeat,
		logger:    logger,
		now:       time.Now,
	}
}

// Start activates the session: it acquires a capture source, sends one
// heartbeat and takes one capture immediately, then repeats both on their
// intervals. Any previous activation is torn down first, so calling Start
// twice can never leave two timers running.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	source, err := s.sources()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.source = source
	s.cancel = cancel

	go s.heartbeatLoop(ctx)
	go s.captureLoop(ctx, source)

	return nil
}

// Stop deactivates the session: both timers are cancelled and the capture
// source is released before Stop returns. An upload already in flight is not
// waited for. Stop is safe to call on an inactive session.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Active reports whether the session currently owns running timers.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Session) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.source != nil {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("failed to release capture source", "error", err)
		}
		s.source = nil
	}
}

func (s *Session) heartbeatLoop(ctx context.Context) {
	s.sendHeartbeat(ctx)

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sendHeartbeat(ctx)
		}
	}
}

// sendHeartbeat swallows failures: presence simply degrades to inactive on
// the server once heartbeats stay absent past the threshold.
func (s *Session) sendHeartbeat(ctx context.Context) {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.UploadTimeout)
	defer cancel()

	if err := s.heartbeat(sendCtx); err != nil {
		s.logger.Warn("heartbeat failed", "error", err)
	}
}

func (s *Session) captureLoop(ctx context.Context, source Source) {
	s.captureOnce(ctx, source)

	ticker := time.NewTicker(s.cfg.CaptureInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.captureOnce(ctx, source)
		}
	}
}

// captureOnce takes and uploads a single frame. A failure at either step is
// logged and skipped; the next tick tries again. The upload runs on its own
// timeout detached from the session context, so stopping the session does
// not abort a frame already taken.
func (s *Session) captureOnce(ctx context.Context, source Source) {
	if ctx.Err() != nil {
		return
	}

	frame, err := source.Frame()
	if err != nil {
		s.logger.Warn("screen capture failed", "error", err)
		return
	}

	uploadCtx, cancel := context.WithTimeout(context.Background(), s.cfg.UploadTimeout)
	defer cancel()

	if err := s.uploader.Upload(uploadCtx, frame, s.now()); err != nil {
		s.logger.Warn("screenshot upload failed", "error", err)
	}
}
