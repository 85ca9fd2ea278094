//go:build unix

package engine

import (
	"os"

	"golang.org/x/sys/unix"
)

const canPause = true

func pauseSignal() os.Signal     { return unix.SIGSTOP }
func resumeSignal() os.Signal    { return unix.SIGCONT }
func interruptSignal() os.Signal { return unix.SIGINT }
