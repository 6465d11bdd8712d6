package whisperlocal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ekko/internal/services"
)

const (
	// DefaultBinary is the whisper CLI invoked when none is configured.
	DefaultBinary = "whisper"
	// DefaultModel balances speed and accuracy for podcast audio.
	DefaultModel = "base"
)

// Config describes the local transcription service configuration.
type Config struct {
	Binary string
	Model  string
}

// Service transcribes audio files by shelling out to a whisper binary.
type Service struct {
	binary        string
	model         string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a local transcription service.
func NewService(cfg Config) *Service {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Service{binary: binary, model: model}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.model
}

// Transcribe runs the whisper binary against the audio file and returns the
// text it produced. outputDir receives the binary's text output file, named
// after the audio file's base name.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", services.Wrap(services.ErrValidation, "local", "transcribe", "audio path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "local", "transcribe", "ensure output dir", err)
	}

	args := []string{
		audioPath,
		"--model", s.model,
		"--output_format", "txt",
		"--output_dir", outputDir,
	}
	if err := s.run(ctx, s.binary, args...); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "local", "transcribe", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	textPath := filepath.Join(outputDir, baseName+".txt")
	text, err := os.ReadFile(textPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "local", "transcribe", "read output file", err)
	}
	return strings.TrimSpace(string(text)), nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
