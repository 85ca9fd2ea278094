package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// PipelineElements returns the element factory names of a gst-launch
// description, in order and without duplicates. Caps filters, named pad
// references, and quoted property values are skipped.
func PipelineElements(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, segment := range strings.Split(text, "!") {
		fields := strings.Fields(segment)
		for _, field := range fields {
			if strings.Contains(field, "=") || strings.Contains(field, "/") ||
				strings.HasSuffix(field, ".") || strings.ContainsAny(field, "\"'(),") {
				continue
			}
			if _, ok := seen[field]; !ok {
				seen[field] = struct{}{}
				names = append(names, field)
			}
			break
		}
	}
	return names
}

// CheckElements asks gst-inspect whether each element factory is installed.
func CheckElements(ctx context.Context, inspect string, elements []string) []Status {
	inspect = strings.TrimSpace(inspect)
	results := make([]Status, 0, len(elements))
	for _, element := range elements {
		status := Status{Requirement: Requirement{
			Name:        element,
			Command:     inspect,
			Description: "GStreamer element",
		}}
		if inspect == "" {
			status.Detail = "gst-inspect not configured"
			results = append(results, status)
			continue
		}
		err := exec.CommandContext(ctx, inspect, "--exists", element).Run()
		switch {
		case err == nil:
			status.Available = true
		case isExitError(err):
			status.Detail = fmt.Sprintf("element %q not installed", element)
		default:
			status.Detail = err.Error()
		}
		results = append(results, status)
	}
	return results
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
