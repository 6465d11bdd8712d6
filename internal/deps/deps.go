// Package deps reports availability of the external tools the fetch
// pipeline shells out to, so problems surface before a fetch fails halfway.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"ekko/internal/config"
)

// Requirement defines an external dependency ekko relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ForConfig derives the requirement list from the active configuration.
// Only the selected whisper backend's tooling is required; yt-dlp is needed
// whenever YouTube captions are preferred.
func ForConfig(cfg *config.Config) []Requirement {
	var reqs []Requirement
	reqs = append(reqs, Requirement{
		Name:        "yt-dlp",
		Command:     cfg.YouTube.Binary,
		Description: "Video search and caption downloads",
		Optional:    !cfg.Transcripts.PreferYouTube,
	})
	if cfg.Whisper.Backend == config.BackendLocal {
		reqs = append(reqs, Requirement{
			Name:        "whisper",
			Command:     cfg.Whisper.Local.Binary,
			Description: "Local speech transcription",
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
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
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
