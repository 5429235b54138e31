// Package transcribe turns downloaded audio files into text.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/metrics"
)

// Model transcribes a single audio file.
type Model interface {
	Name() string
	Transcribe(ctx context.Context, path string) (string, error)
}

// ErrNoFiles is returned when Files is called without any file names.
var ErrNoFiles = errors.New("no audio files given")

// Files transcribes dir/name for every name, in order. All files are checked
// before the first one is handed to the model.
func Files(ctx context.Context, model Model, dir string, names []string) ([]string, error) {
	if model == nil {
		return nil, errors.New("transcription model is required")
	}
	if len(names) == 0 {
		return nil, ErrNoFiles
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		info, err := os.Stat(paths[i])
		if err != nil {
			return nil, fmt.Errorf("audio file %s: %w", name, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("audio file %s is a directory", name)
		}
	}

	texts := make([]string, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return texts, err
		}

		text, err := model.Transcribe(ctx, path)
		if err != nil {
			metrics.TranscriptionsTotal.WithLabelValues(model.Name(), "error").Inc()
			return texts, fmt.Errorf("error transcribing %s: %w", filepath.Base(path), err)
		}
		metrics.TranscriptionsTotal.WithLabelValues(model.Name(), "ok").Inc()

		logging.Logger.Info().
			Str("model", model.Name()).
			Str("file", filepath.Base(path)).
			Int("chars", len(text)).
			Msg("transcribed audio")
		texts = append(texts, text)
	}
	return texts, nil
}
