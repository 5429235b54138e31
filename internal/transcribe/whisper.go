package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// ModelSize names a Whisper checkpoint.
type ModelSize string

const (
	Tiny   ModelSize = "tiny"
	Base   ModelSize = "base"
	Small  ModelSize = "small"
	Medium ModelSize = "medium"
	Large  ModelSize = "large"
)

var ModelSizes = []ModelSize{Tiny, Base, Small, Medium, Large}

// CommandRunner runs an external program and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Whisper transcribes through the openai-whisper command line tool.
type Whisper struct {
	size   ModelSize
	bin    string
	runner CommandRunner
}

// WhisperOption customises NewWhisper.
type WhisperOption func(*Whisper)

// WithBinary sets the whisper executable. Defaults to "whisper" on PATH.
func WithBinary(bin string) WhisperOption {
	return func(w *Whisper) {
		if bin != "" {
			w.bin = bin
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) WhisperOption {
	return func(w *Whisper) { w.runner = r }
}

// NewWhisper creates a Whisper model of the given size; empty means base.
func NewWhisper(size ModelSize, opts ...WhisperOption) (*Whisper, error) {
	if size == "" {
		size = Base
	}
	if !slices.Contains(ModelSizes, size) {
		return nil, fmt.Errorf("unknown whisper model %q", size)
	}

	w := &Whisper{size: size, bin: "whisper", runner: ExecRunner{}}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Whisper) Name() string { return "whisper-" + string(w.size) }

func (w *Whisper) Transcribe(ctx context.Context, path string) (string, error) {
	outDir, err := os.MkdirTemp("", "ytscout-whisper-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	out, err := w.runner.Run(ctx, w.bin, path,
		"--model", string(w.size),
		"--output_format", "txt",
		"--output_dir", outDir,
		"--verbose", "False",
	)
	if err != nil {
		return "", fmt.Errorf("whisper failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	text, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("reading whisper output: %w", err)
	}
	return strings.TrimSpace(string(text)), nil
}
