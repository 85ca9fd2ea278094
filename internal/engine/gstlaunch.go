package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"pipedeck/internal/logging"
)

const defaultTeardownTimeout = 5 * time.Second

// Option configures a GstLaunch engine.
type Option func(*GstLaunch)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(g *GstLaunch) {
		if exec != nil {
			g.exec = exec
		}
	}
}

// WithListener registers callbacks for state changes and failures.
func WithListener(l Listener) Option {
	return func(g *GstLaunch) {
		g.listener = l
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *GstLaunch) {
		g.logger = logging.NewComponentLogger(logger, "engine")
	}
}

// WithTeardownTimeout bounds how long Teardown waits after the interrupt
// before killing the process.
func WithTeardownTimeout(d time.Duration) Option {
	return func(g *GstLaunch) {
		if d > 0 {
			g.teardownTimeout = d
		}
	}
}

// GstLaunch runs pipelines with gst-launch-1.0.
type GstLaunch struct {
	binary          string
	teardownTimeout time.Duration
	exec            Executor
	listener        Listener
	logger          *slog.Logger

	mu       sync.Mutex
	text     string
	ctx      context.Context
	state    State
	errMsg   string
	proc     Process
	done     chan struct{}
	stopping bool
}

var _ Engine = (*GstLaunch)(nil)

// NewGstLaunch constructs an engine that launches binary.
func NewGstLaunch(binary string, opts ...Option) (*GstLaunch, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gst-launch binary required")
	}
	g := &GstLaunch{
		binary:          binary,
		teardownTimeout: defaultTeardownTimeout,
		exec:            commandExecutor{},
		logger:          logging.NewComponentLogger(nil, "engine"),
		state:           StateNull,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SetPipelineText replaces the description used by the next Init.
func (g *GstLaunch) SetPipelineText(text string) {
	g.mu.Lock()
	g.text = text
	g.mu.Unlock()
}

// Init validates the pipeline text and moves to READY. ctx bounds the
// lifetime of the process started by Play.
func (g *GstLaunch) Init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g.mu.Lock()
	if g.proc != nil {
		g.mu.Unlock()
		return ErrRunning
	}
	if err := validatePipeline(g.text); err != nil {
		g.mu.Unlock()
		return err
	}
	g.ctx = ctx
	g.errMsg = ""
	changed := g.setStateLocked(StateReady)
	g.mu.Unlock()
	g.notifyState(changed, StateReady)
	return nil
}

// Play starts the pipeline process, or resumes it when paused.
func (g *GstLaunch) Play() error {
	g.mu.Lock()
	switch {
	case g.state == StatePlaying:
		g.mu.Unlock()
		return nil
	case g.state == StatePaused && g.proc != nil:
		if err := g.proc.Signal(resumeSignal()); err != nil {
			g.mu.Unlock()
			return fmt.Errorf("resume pipeline: %w", err)
		}
		changed := g.setStateLocked(StatePlaying)
		g.mu.Unlock()
		g.notifyState(changed, StatePlaying)
		return nil
	case g.state == StateReady || g.state == StatePaused:
		err := g.startLocked()
		if err != nil {
			g.failLocked(err.Error())
			msg := g.errMsg
			g.mu.Unlock()
			g.notifyFailure(msg)
			return err
		}
		changed := g.setStateLocked(StatePlaying)
		g.mu.Unlock()
		g.notifyState(changed, StatePlaying)
		return nil
	case g.state == StateError:
		msg := g.errMsg
		g.mu.Unlock()
		return fmt.Errorf("pipeline failed: %s", msg)
	default:
		g.mu.Unlock()
		return ErrNotInitialized
	}
}

// Pause suspends a playing process. From READY it only records the state;
// the next Play starts the process.
func (g *GstLaunch) Pause() error {
	g.mu.Lock()
	switch g.state {
	case StatePaused:
		g.mu.Unlock()
		return nil
	case StatePlaying:
		if !canPause {
			g.mu.Unlock()
			return ErrPauseUnsupported
		}
		if err := g.proc.Signal(pauseSignal()); err != nil {
			g.mu.Unlock()
			return fmt.Errorf("pause pipeline: %w", err)
		}
	case StateReady:
	default:
		g.mu.Unlock()
		return ErrNotInitialized
	}
	changed := g.setStateLocked(StatePaused)
	g.mu.Unlock()
	g.notifyState(changed, StatePaused)
	return nil
}

// Teardown interrupts a running process, waits for it to exit (killing it
// after the teardown timeout), and returns to NULL.
func (g *GstLaunch) Teardown() error {
	g.mu.Lock()
	proc, done, paused := g.proc, g.done, g.state == StatePaused
	if proc != nil {
		g.stopping = true
	}
	g.mu.Unlock()

	var stopErr error
	if proc != nil {
		if paused && canPause {
			_ = proc.Signal(resumeSignal())
		}
		if err := proc.Signal(interruptSignal()); err != nil {
			_ = proc.Signal(os.Kill)
		}
		select {
		case <-done:
		case <-time.After(g.teardownTimeout):
			g.logger.Warn("pipeline ignored interrupt; killing",
				logging.Duration("timeout", g.teardownTimeout),
				logging.String(logging.FieldEventType, "teardown_timeout"),
				logging.String(logging.FieldImpact, "end-of-stream was not flushed"),
			)
			if err := proc.Signal(os.Kill); err != nil {
				stopErr = fmt.Errorf("kill pipeline: %w", err)
			}
			<-done
		}
	}

	g.mu.Lock()
	g.stopping = false
	changed := g.setStateLocked(StateNull)
	g.mu.Unlock()
	g.notifyState(changed, StateNull)
	return stopErr
}

// Reinit tears down and initializes again with the current text.
func (g *GstLaunch) Reinit(ctx context.Context) error {
	if err := g.Teardown(); err != nil {
		return err
	}
	return g.Init(ctx)
}

// Error returns the last failure message.
func (g *GstLaunch) Error() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errMsg
}

// State returns the current state.
func (g *GstLaunch) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Done is closed when the current process exits. Without a process the
// returned channel is already closed.
func (g *GstLaunch) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return g.done
}

func (g *GstLaunch) startLocked() error {
	ctx := g.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	args := []string{"-e", g.text}
	proc, err := g.exec.Start(ctx, g.binary, args, func(line string) {
		g.logger.Debug("gst-launch output", logging.String("line", line))
	})
	if err != nil {
		return err
	}
	done := make(chan struct{})
	g.proc = proc
	g.done = done
	g.logger.Info("pipeline started", logging.String("binary", g.binary))
	go g.watch(ctx, proc, done)
	return nil
}

func (g *GstLaunch) watch(ctx context.Context, proc Process, done chan struct{}) {
	err := proc.Wait()

	g.mu.Lock()
	if g.proc == proc {
		g.proc = nil
	}
	var (
		failed  bool
		msg     string
		changed bool
	)
	switch {
	case g.stopping:
	case err != nil && ctx.Err() == nil:
		msg = strings.TrimSpace(proc.StderrTail())
		if msg == "" {
			msg = err.Error()
		}
		g.failLocked(msg)
		failed = true
	default:
		changed = g.setStateLocked(StateNull)
	}
	close(done)
	g.mu.Unlock()

	switch {
	case failed:
		logging.WarnWithContext(g.logger, "pipeline exited with error", "pipeline_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the pipeline text with gst-launch-1.0 -v"),
			logging.String(logging.FieldImpact, "playback stopped"),
		)
		g.notifyFailure(msg)
	case changed:
		g.logger.Info("pipeline finished")
		g.notifyState(true, StateNull)
	}
}

func (g *GstLaunch) failLocked(msg string) {
	g.errMsg = msg
	g.state = StateError
}

func (g *GstLaunch) setStateLocked(s State) bool {
	if g.state == s {
		return false
	}
	g.state = s
	return true
}

func (g *GstLaunch) notifyState(changed bool, s State) {
	if !changed {
		return
	}
	g.logger.Debug("pipeline state changed", logging.String(logging.FieldState, s.String()))
	if g.listener.OnState != nil {
		g.listener.OnState(s)
	}
}

func (g *GstLaunch) notifyFailure(msg string) {
	if g.listener.OnState != nil {
		g.listener.OnState(StateError)
	}
	if g.listener.OnError != nil {
		g.listener.OnError(msg)
	}
}

// validatePipeline rejects empty text and empty link segments such as
// "a ! ! b" or a trailing "!".
func validatePipeline(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoPipeline
	}
	for i, segment := range strings.Split(text, "!") {
		if strings.TrimSpace(segment) == "" {
			return fmt.Errorf("%w: empty element at link %d", ErrInvalidPipeline, i)
		}
	}
	return nil
}
