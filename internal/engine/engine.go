package engine

import (
	"context"
	"errors"
)

// State is the lifecycle state of a pipeline.
type State int

const (
	StateNull State = iota
	StateReady
	StatePaused
	StatePlaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateNull:
		return "NULL"
	case StateReady:
		return "READY"
	case StatePaused:
		return "PAUSED"
	case StatePlaying:
		return "PLAYING"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrNoPipeline is returned by Init when no pipeline text is set.
	ErrNoPipeline = errors.New("pipeline text is empty")
	// ErrInvalidPipeline reports text with an empty link segment.
	ErrInvalidPipeline = errors.New("pipeline text is malformed")
	// ErrNotInitialized is returned by Play before a successful Init.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrRunning is returned by Init while a pipeline process is alive.
	ErrRunning = errors.New("pipeline already running")
	// ErrPauseUnsupported is returned by Pause where processes cannot be stopped.
	ErrPauseUnsupported = errors.New("pause not supported on this platform")
)

// Listener receives asynchronous engine notifications. Either field may be nil.
type Listener struct {
	OnState func(State)
	OnError func(string)
}

// Engine drives one pipeline at a time.
type Engine interface {
	// Init validates the current pipeline text and moves to READY.
	Init(ctx context.Context) error
	Play() error
	Pause() error
	// Teardown stops any running pipeline and returns to NULL.
	Teardown() error
	SetPipelineText(text string)
	// Reinit is Teardown followed by Init.
	Reinit(ctx context.Context) error
	// Error returns the last failure message, or "" when there is none.
	Error() string
	State() State
	// Done is closed when the current pipeline process exits.
	Done() <-chan struct{}
}
