// Package engine runs GStreamer pipelines described in gst-launch syntax.
//
// The Engine interface models the small state machine the player drives
// (Init, Play, Pause, Teardown). GstLaunch implements it by supervising a
// gst-launch-1.0 process: pausing and resuming map to job-control signals
// and teardown sends an interrupt so the pipeline can flush end-of-stream.
package engine
