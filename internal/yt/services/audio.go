package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	ytdl "github.com/kkdai/youtube/v2"

	"github.com/alanpramil7/ytscout/internal/logging"
	"github.com/alanpramil7/ytscout/internal/metrics"
	"github.com/alanpramil7/ytscout/internal/yt"
)

// Audio-only mp4 stream tiers, best first.
const (
	ItagAudio128k = 140
	ItagAudio48k  = 139
)

var preferredAudioItags = []int{ItagAudio128k, ItagAudio48k}

// ErrNoAudioStream is returned when a video offers none of the preferred
// audio tiers.
var ErrNoAudioStream = errors.New("no audio stream found")

// StreamSource resolves videos and opens their streams. *ytdl.Client
// satisfies it.
type StreamSource interface {
	GetVideoContext(ctx context.Context, url string) (*ytdl.Video, error)
	GetStreamContext(ctx context.Context, video *ytdl.Video, format *ytdl.Format) (io.ReadCloser, int64, error)
}

// AudioService downloads audio-only streams to disk.
type AudioService interface {
	// Download saves each video's audio as <dir>/<id>.mp4, in order, and
	// returns the written paths. It stops at the first failure.
	Download(ctx context.Context, videos []string, dir string) ([]string, error)

	// DownloadOne saves a single video's audio as <dir>/<filename>.
	DownloadOne(ctx context.Context, video, dir, filename string) (string, error)
}

type audioService struct {
	source StreamSource
}

// NewAudioService creates a downloader backed by the given stream source;
// nil selects a default ytdl client.
func NewAudioService(source StreamSource) AudioService {
	if source == nil {
		source = &ytdl.Client{}
	}
	return &audioService{source: source}
}

func (s *audioService) Download(ctx context.Context, videos []string, dir string) ([]string, error) {
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: at least one video id is required", yt.ErrInvalidArgument)
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: target directory is required", yt.ErrInvalidArgument)
	}

	paths := make([]string, 0, len(videos))
	for _, v := range videos {
		id, err := ytdl.ExtractVideoID(v)
		if err != nil {
			return paths, fmt.Errorf("%w: %q is not a video id or URL", yt.ErrInvalidArgument, v)
		}
		path, err := s.DownloadOne(ctx, id, dir, id+".mp4")
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *audioService) DownloadOne(ctx context.Context, video, dir, filename string) (string, error) {
	v, err := s.source.GetVideoContext(ctx, video)
	if err != nil {
		return "", fmt.Errorf("error resolving video %s: %w", video, err)
	}

	format, err := SelectAudioFormat(v.Formats)
	if err != nil {
		metrics.AudioDownloadsTotal.WithLabelValues("none", "not_found").Inc()
		return "", fmt.Errorf("video %s: %w", video, err)
	}
	itag := strconv.Itoa(format.ItagNo)

	stream, _, err := s.source.GetStreamContext(ctx, v, format)
	if err != nil {
		metrics.AudioDownloadsTotal.WithLabelValues(itag, "error").Inc()
		return "", fmt.Errorf("error opening audio stream for %s: %w", video, err)
	}
	defer stream.Close()

	path, written, err := writeFile(dir, filename, stream)
	if err != nil {
		metrics.AudioDownloadsTotal.WithLabelValues(itag, "error").Inc()
		return "", fmt.Errorf("error saving audio for %s: %w", video, err)
	}

	metrics.AudioDownloadsTotal.WithLabelValues(itag, "ok").Inc()
	metrics.AudioBytesTotal.Add(float64(written))
	logging.Logger.Info().
		Str("video_id", video).
		Int("itag", format.ItagNo).
		Int64("bytes", written).
		Str("path", path).
		Msg("downloaded audio")
	return path, nil
}

// SelectAudioFormat picks the 128kbps audio-only mp4 stream, falling back to
// the 48kbps one.
func SelectAudioFormat(formats ytdl.FormatList) (*ytdl.Format, error) {
	audio := formats.Type("audio/mp4")
	for _, itag := range preferredAudioItags {
		if matches := audio.Itag(itag); len(matches) > 0 {
			f := matches[0]
			return &f, nil
		}
	}
	return nil, ErrNoAudioStream
}

// writeFile copies r into dir/filename through a temporary file so a failed
// download never leaves a truncated file under the final name.
func writeFile(dir, filename string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(dir, filename+".*.part")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", written, err
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", written, err
	}
	return path, written, nil
}
