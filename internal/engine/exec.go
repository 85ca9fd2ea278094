package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	stderrTailLines = 20
	killWaitDelay   = 2 * time.Second
)

// Process is a started pipeline process.
type Process interface {
	Signal(sig os.Signal) error
	Wait() error
	// StderrTail returns the last lines the process wrote to stderr.
	StderrTail() string
}

// Executor starts pipeline processes. It is swapped out in tests.
type Executor interface {
	Start(ctx context.Context, binary string, args []string, onStdout func(string)) (Process, error)
}

type commandExecutor struct{}

func (commandExecutor) Start(ctx context.Context, binary string, args []string, onStdout func(string)) (Process, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(interruptSignal()); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = killWaitDelay
	tail := &tailBuffer{limit: stderrTailLines}
	cmd.Stderr = tail
	cmd.Stdout = &lineWriter{fn: onStdout}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}
	return &cmdProcess{cmd: cmd, tail: tail}, nil
}

type cmdProcess struct {
	cmd  *exec.Cmd
	tail *tailBuffer
}

func (p *cmdProcess) Signal(sig os.Signal) error { return p.cmd.Process.Signal(sig) }
func (p *cmdProcess) Wait() error                { return p.cmd.Wait() }
func (p *cmdProcess) StderrTail() string         { return p.tail.String() }

// tailBuffer keeps the last limit complete lines written to it.
type tailBuffer struct {
	mu      sync.Mutex
	limit   int
	lines   []string
	partial []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.partial = append(b.partial, p...)
	for {
		idx := bytes.IndexByte(b.partial, '\n')
		if idx < 0 {
			break
		}
		b.push(string(b.partial[:idx]))
		b.partial = b.partial[idx+1:]
	}
	return len(p), nil
}

func (b *tailBuffer) push(line string) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	b.lines = append(b.lines, line)
	if len(b.lines) > b.limit {
		b.lines = b.lines[len(b.lines)-b.limit:]
	}
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := b.lines
	if rest := strings.TrimSpace(string(b.partial)); rest != "" {
		lines = append(append([]string(nil), lines...), rest)
		if len(lines) > b.limit {
			lines = lines[len(lines)-b.limit:]
		}
	}
	return strings.Join(lines, "\n")
}

// lineWriter forwards complete lines to fn.
type lineWriter struct {
	fn      func(string)
	partial []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	if w.fn == nil {
		return len(p), nil
	}
	w.partial = append(w.partial, p...)
	for {
		idx := bytes.IndexByte(w.partial, '\n')
		if idx < 0 {
			break
		}
		if line := strings.TrimSpace(string(w.partial[:idx])); line != "" {
			w.fn(line)
		}
		w.partial = w.partial[idx+1:]
	}
	return len(p), nil
}
