//go:build !unix

package engine

import "os"

const canPause = false

func pauseSignal() os.Signal     { return nil }
func resumeSignal() os.Signal    { return nil }
func interruptSignal() os.Signal { return os.Interrupt }
