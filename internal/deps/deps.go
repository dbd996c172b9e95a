package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"voxscribe/internal/transcode"
)

const versionTimeout = 10 * time.Second

// Requirement defines an external binary voxscribe can use.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs, when set, are run to capture a version line.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
	Version     string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		if len(req.VersionArgs) > 0 {
			version, err := ProbeVersion(ctx, resolved, req.VersionArgs...)
			if err != nil {
				status.Available = false
				status.Detail = err.Error()
			} else {
				status.Version = version
			}
		}
		results = append(results, status)
	}
	return results
}

// ProbeVersion runs command with args and returns the first output line.
func ProbeVersion(ctx context.Context, command string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	output, err := exec.CommandContext(ctx, command, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %w", command, strings.Join(args, " "), err)
	}
	if line := transcode.FirstLine(output); line != "" {
		return line, nil
	}
	return "", fmt.Errorf("%s produced no version output", command)
}

// MissingRequired returns the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
