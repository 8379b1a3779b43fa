// Package scan runs directory snapshots for the dirsnap service and CLI.
//
// It owns everything the core directory package leaves to its caller:
// resolving and authorizing paths, opening and closing the directory,
// bounding latency with a context, retrying transient failures, and
// reporting through logs, traces and metrics.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/marmos91/dirsnap/internal/logger"
	"github.com/marmos91/dirsnap/internal/telemetry"
	"github.com/marmos91/dirsnap/pkg/directory"
)

// Metrics observes scans. Implementations must be safe for concurrent use.
// A nil Metrics disables collection.
type Metrics interface {
	// ObserveScan records a finished scan. errorCode is "" on success.
	ObserveScan(operation string, duration time.Duration, entries int, errorCode string)

	// RecordVanished records entries that disappeared mid-scan.
	RecordVanished(operation string, count int)

	// RecordRetry records a failed attempt that will be retried.
	RecordRetry(operation string, errorCode string)
}

// Option customizes a Scanner.
type Option func(*directory.Options)

// WithStat replaces the per-entry metadata query.
func WithStat(stat directory.StatFunc) Option {
	return func(o *directory.Options) { o.Stat = stat }
}

// WithOnEnumerated installs a hook that runs between enumeration and
// metadata resolution.
func WithOnEnumerated(fn func(names []string)) Option {
	return func(o *directory.Options) { o.OnEnumerated = fn }
}

// Scanner performs directory scans. It is safe for concurrent use.
type Scanner struct {
	cfg     Config
	roots   []string
	reader  *directory.Reader
	metrics Metrics
}

// New creates a Scanner. metrics may be nil.
func New(cfg Config, metrics Metrics, opts ...Option) *Scanner {
	readerOpts := directory.Options{BufferSize: cfg.BufferSize}
	for _, opt := range opts {
		opt(&readerOpts)
	}

	roots := make([]string, 0, len(cfg.AllowedRoots))
	for _, root := range cfg.AllowedRoots {
		roots = append(roots, canonical(root))
	}

	return &Scanner{
		cfg:     cfg,
		roots:   roots,
		reader:  directory.NewReader(readerOpts),
		metrics: metrics,
	}
}

// Roots returns the canonical allowed roots.
func (s *Scanner) Roots() []string {
	return append([]string(nil), s.roots...)
}

// Names lists the entry names of the directory at path.
func (s *Scanner) Names(ctx context.Context, path string) (*Result, error) {
	return s.run(ctx, OperationNames, path)
}

// Contents lists the entries of the directory at path with their metadata.
func (s *Scanner) Contents(ctx context.Context, path string) (*Result, error) {
	return s.run(ctx, OperationContents, path)
}

// Scan dispatches to Names or Contents.
func (s *Scanner) Scan(ctx context.Context, op Operation, path string) (*Result, error) {
	switch op {
	case OperationNames, OperationContents:
		return s.run(ctx, op, path)
	default:
		return nil, fmt.Errorf("unknown scan operation %q", op)
	}
}

// CheckRoots verifies that every allowed root can be opened and listed.
// All failures are reported together.
func (s *Scanner) CheckRoots(ctx context.Context) error {
	var result *multierror.Error
	for _, root := range s.roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.Open(root)
		if err != nil {
			result = multierror.Append(result, &RootError{Root: root, Err: err})
			continue
		}
		listing, err := s.reader.ReadNames(f)
		_ = f.Close()
		if err != nil {
			result = multierror.Append(result, &RootError{Root: root, Err: err})
			continue
		}
		listing.Release()
	}
	return result.ErrorOrNil()
}

func (s *Scanner) run(ctx context.Context, op Operation, path string) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()

	ctx, span := telemetry.StartScanSpan(ctx, id, string(op), path)
	defer span.End()

	lc := logger.FromContext(ctx)
	if lc == nil {
		lc = logger.NewLogContext(id)
	}
	lc = lc.WithOperation(string(op), path).WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	ctx = logger.WithContext(ctx, lc)

	result, err := s.runWithRetry(ctx, op, path)
	duration := time.Since(start)

	if err != nil {
		telemetry.RecordError(ctx, err)
		telemetry.SetAttributes(ctx, telemetry.ErrorCode(ErrorCode(err)))
		s.observe(op, duration, 0, err)
		logger.WarnCtx(ctx, "Scan failed",
			logger.ScanID(id),
			logger.ErrorCode(ErrorCode(err)),
			logger.Err(err),
			logger.DurationMs(logger.Duration(start)),
		)
		return nil, err
	}

	result.ID = id
	result.Operation = op
	result.StartedAt = start
	result.DurationMs = float64(duration.Microseconds()) / 1000.0

	telemetry.SetAttributes(ctx,
		telemetry.ScanEntries(len(result.Entries)),
		telemetry.ScanVanished(result.Vanished),
	)
	s.observe(op, duration, len(result.Entries), nil)
	if s.metrics != nil {
		s.metrics.RecordVanished(string(op), result.Vanished)
	}

	logger.DebugCtx(ctx, "Scan completed",
		logger.ScanID(id),
		logger.Entries(len(result.Entries)),
		logger.Vanished(result.Vanished),
		logger.Attempt(result.Attempts),
		logger.DurationMs(result.DurationMs),
	)
	return result, nil
}

func (s *Scanner) observe(op Operation, duration time.Duration, entries int, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveScan(string(op), duration, entries, ErrorCode(err))
}

func (s *Scanner) runWithRetry(ctx context.Context, op Operation, path string) (*Result, error) {
	target, err := s.authorize(path)
	if err != nil {
		return nil, err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var (
		result   *Result
		attempts int
	)
	attempt := func() error {
		attempts++
		attemptCtx, span := telemetry.StartAttemptSpan(ctx, attempts)
		defer span.End()

		r, err := s.attempt(attemptCtx, op, target)
		if err != nil {
			telemetry.RecordError(attemptCtx, err)
			if ctx.Err() != nil || !Retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		if s.metrics != nil {
			s.metrics.RecordRetry(string(op), ErrorCode(err))
		}
		telemetry.AddEvent(ctx, "retry", telemetry.ScanAttempt(attempts))
		logger.WarnCtx(ctx, "Transient scan failure, retrying",
			logger.Attempt(attempts),
			logger.MaxRetries(s.maxAttempts()),
			logger.Backoff(wait.String()),
			logger.Errno(int(directory.ErrnoOf(err))),
			logger.Err(err),
		)
	}

	if err := backoff.RetryNotify(attempt, s.backoff(ctx), notify); err != nil {
		return nil, err
	}

	result.Path = target
	result.Attempts = attempts
	return result, nil
}

func (s *Scanner) maxAttempts() int {
	return max(s.cfg.Retry.MaxAttempts, 1)
}

func (s *Scanner) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if s.cfg.Retry.InitialInterval > 0 {
		b.InitialInterval = s.cfg.Retry.InitialInterval
	}
	if s.cfg.Retry.MaxInterval > 0 {
		b.MaxInterval = s.cfg.Retry.MaxInterval
	}
	if s.cfg.Retry.Multiplier >= 1 {
		b.Multiplier = s.cfg.Retry.Multiplier
	}
	// Attempts and the context bound retries, not elapsed time.
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.maxAttempts()-1)), ctx)
}

// attempt opens target and runs one core read on it. The read runs on its
// own goroutine so a finished context returns immediately; a result that
// arrives afterwards is released.
func (s *Scanner) attempt(ctx context.Context, op Operation, target string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		listing  *directory.Listing
		snapshot *directory.Snapshot
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		defer f.Close()
		var o outcome
		if op == OperationNames {
			o.listing, o.err = s.reader.ReadNames(f)
		} else {
			o.snapshot, o.err = s.reader.ReadContents(f)
		}
		done <- o
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		if op == OperationNames {
			defer o.listing.Release()
			return &Result{Entries: entriesFromListing(o.listing)}, nil
		}
		defer o.snapshot.Release()
		return &Result{
			Entries:  entriesFromSnapshot(o.snapshot),
			Vanished: o.snapshot.Vanished(),
		}, nil

	case <-ctx.Done():
		go func() {
			o := <-done
			o.listing.Release()
			o.snapshot.Release()
		}()
		logger.DebugCtx(ctx, "Scan abandoned", logger.Timeout(s.cfg.Timeout.String()))
		return nil, ctx.Err()
	}
}

// authorize returns the path to open, enforcing AllowedRoots.
func (s *Scanner) authorize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if len(s.roots) == 0 {
		return abs, nil
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	for _, root := range s.roots {
		if within(root, resolved) {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
}

// canonical makes root absolute and resolves symbolic links when it exists.
func canonical(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
