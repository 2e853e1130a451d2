package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	mu       sync.Mutex
	frames   int
	closed   bool
	frameErr error
}

func (f *fakeSource) Frame() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	f.frames++
	return []byte("frame"), nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeUploader struct {
	uploads chan time.Time
	fail    atomic.Bool
	block   chan struct{} // when set, Upload waits on it
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(chan time.Time, 64)}
}

func (f *fakeUploader) Upload(ctx context.Context, frame []byte, capturedAt time.Time) error {
	if f.block != nil {
		<-f.block
	}
	if f.fail.Load() {
		return errors.New("upload rejected")
	}
	f.uploads <- capturedAt
	return nil
}

func testConfig() Config {
	return Config{
		HeartbeatInterval: 20 * time.Millisecond,
		CaptureInterval:   20 * time.Millisecond,
		UploadTimeout:     time.Second,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, ch chan time.Time, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestStartCapturesAndBeatsImmediately(t *testing.T) {
	source := &fakeSource{}
	uploader := newFakeUploader()
	beats := make(chan time.Time, 64)

	session := NewSession(testConfig(), func() (Source, error) { return source, nil }, uploader,
		func(ctx context.Context) error {
			beats <- time.Now()
			return nil
		}, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer session.Stop()

	// tick zero: one capture and one heartbeat before the first interval
	waitFor(t, uploader.uploads, "immediate capture")
	waitFor(t, beats, "immediate heartbeat")

	// and the loops keep going
	waitFor(t, uploader.uploads, "second capture")
	waitFor(t, beats, "second heartbeat")
}

func TestUploadFailureDoesNotStopLoop(t *testing.T) {
	source := &fakeSource{}
	uploader := newFakeUploader()
	uploader.fail.Store(true)

	session := NewSession(testConfig(), func() (Source, error) { return source, nil }, uploader,
		func(ctx context.Context) error { return nil }, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer session.Stop()

	// let a few failing ticks pass, then recover
	time.Sleep(60 * time.Millisecond)
	uploader.fail.Store(false)

	waitFor(t, uploader.uploads, "capture after upload failures")
}

func TestHeartbeatFailureDoesNotStopLoop(t *testing.T) {
	source := &fakeSource{}
	uploader := newFakeUploader()

	var calls atomic.Int32
	session := NewSession(testConfig(), func() (Source, error) { return source, nil }, uploader,
		func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("server unreachable")
		}, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer session.Stop()

	deadline := time.Now().Add(time.Second)
	for calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("heartbeat loop stopped after failures")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStopReleasesSourceAndTimers(t *testing.T) {
	source := &fakeSource{}
	uploader := newFakeUploader()

	session := NewSession(testConfig(), func() (Source, error) { return source, nil }, uploader,
		func(ctx context.Context) error { return nil }, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, uploader.uploads, "first capture")

	session.Stop()

	if !source.isClosed() {
		t.Error("capture source not released on Stop")
	}
	if session.Active() {
		t.Error("session still active after Stop")
	}

	// drain anything that raced the stop, then confirm the timer is gone
	time.Sleep(60 * time.Millisecond)
	for len(uploader.uploads) > 0 {
		<-uploader.uploads
	}
	time.Sleep(60 * time.Millisecond)
	if len(uploader.uploads) != 0 {
		t.Error("captures continued after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	session := NewSession(testConfig(), func() (Source, error) { return &fakeSource{}, nil },
		newFakeUploader(), func(ctx context.Context) error { return nil }, discardLogger())

	session.Stop() // never started
	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	session.Stop()
	session.Stop()
}

func TestDoubleStartReplacesPriorRun(t *testing.T) {
	var sources []*fakeSource
	var mu sync.Mutex
	factory := func() (Source, error) {
		mu.Lock()
		defer mu.Unlock()
		source := &fakeSource{}
		sources = append(sources, source)
		return source, nil
	}

	session := NewSession(testConfig(), factory, newFakeUploader(),
		func(ctx context.Context) error { return nil }, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := session.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	defer session.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(sources) != 2 {
		t.Fatalf("acquired %d sources, want 2", len(sources))
	}
	if !sources[0].isClosed() {
		t.Error("first source not released when Start replaced the run")
	}
	if sources[1].isClosed() {
		t.Error("second source released while still active")
	}
}

// Break-and-resume: each activation acquires a fresh source and starts from
// tick zero with an immediate capture.
func TestRestartAcquiresFreshSource(t *testing.T) {
	var acquired atomic.Int32
	uploader := newFakeUploader()
	factory := func() (Source, error) {
		acquired.Add(1)
		return &fakeSource{}, nil
	}

	session := NewSession(testConfig(), factory, uploader,
		func(ctx context.Context) error { return nil }, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, uploader.uploads, "capture before break")
	session.Stop()

	if err := session.Start(); err != nil {
		t.Fatalf("resume Start: %v", err)
	}
	defer session.Stop()
	waitFor(t, uploader.uploads, "immediate capture on resume")

	if got := acquired.Load(); got != 2 {
		t.Errorf("acquired %d sources across a break, want 2", got)
	}
}

func TestStopDoesNotWaitForInflightUpload(t *testing.T) {
	source := &fakeSource{}
	uploader := newFakeUploader()
	uploader.block = make(chan struct{})

	session := NewSession(testConfig(), func() (Source, error) { return source, nil }, uploader,
		func(ctx context.Context) error { return nil }, discardLogger())

	if err := session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// give the first capture time to enter the blocked upload
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		session.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Stop blocked on an in-flight upload")
	}

	// the late upload is still accepted once it completes
	close(uploader.block)
	waitFor(t, uploader.uploads, "late upload completion")

	if !source.isClosed() {
		t.Error("source not released even though Stop returned")
	}
}
