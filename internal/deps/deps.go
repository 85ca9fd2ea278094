package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external tool and the command used to reach it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after probing. Path is the resolved executable
// when the tool was found; Detail explains why it was not.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

var lookPath = exec.LookPath

// CheckBinaries resolves every requirement on PATH. Order is preserved.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results[i] = probe(req)
	}
	return results
}

func probe(req Requirement) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := lookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Path = path
	return status
}

// GStreamerRequirements lists the tools used to run and inspect pipelines.
// gst-inspect only feeds element checks, so it is optional.
func GStreamerRequirements(launch, inspect string) []Requirement {
	return []Requirement{
		{Name: "gst-launch", Command: launch, Description: "Runs catalog pipelines"},
		{Name: "gst-inspect", Command: inspect, Description: "Checks that pipeline elements are installed", Optional: true},
	}
}
