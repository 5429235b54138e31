package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/alanpramil7/ytscout/internal/logging"
)

// PCM format ffmpeg decodes to and oto plays.
const (
	sampleRate      = 48000
	channelCount    = 2
	bitDepthInBytes = 2
)

const drainPollInterval = 50 * time.Millisecond

var ErrNotPlaying = errors.New("nothing is playing")

// stream is the playback side of a track. oto.Player satisfies it.
type stream interface {
	Play()
	Pause()
	IsPlaying() bool
	BufferedSize() int
	Close() error
}

// Player plays downloaded audio files through ffmpeg and the system audio
// device. One track plays at a time.
type Player struct {
	ffmpeg     string
	decoder    func(ctx context.Context, path string) *exec.Cmd
	openStream func(src io.Reader) (stream, error)
	drainPoll  time.Duration

	mu         sync.Mutex
	context    *oto.Context
	player     stream
	isPlaying  bool
	current    string
	cancelFunc context.CancelFunc
	cmd        *exec.Cmd
	finished   chan string
}

// New creates a player that decodes with the given ffmpeg binary.
func New(ffmpegBin string) *Player {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	p := &Player{
		ffmpeg:    ffmpegBin,
		drainPoll: drainPollInterval,
		finished:  make(chan string, 1),
	}
	p.decoder = p.ffmpegCommand
	p.openStream = p.otoStream
	return p
}

// Finished delivers the path of each track that played to its end. Tracks
// that were stopped, replaced or failed to decode are not reported.
func (p *Player) Finished() <-chan string {
	return p.finished
}

func (p *Player) ffmpegCommand(ctx context.Context, path string) *exec.Cmd {
	return exec.CommandContext(ctx, p.ffmpeg,
		"-i", path,
		"-f", "s16le", "-ar", "48000", "-ac", "2",
		"-loglevel", "warning", "pipe:1",
	)
}

// otoStream is called with p.mu held.
func (p *Player) otoStream(src io.Reader) (stream, error) {
	if p.context == nil {
		audioContext, ready, err := oto.NewContext(sampleRate, channelCount, bitDepthInBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to create audio context: %w", err)
		}
		<-ready
		p.context = audioContext
	}
	return p.context.NewPlayer(src), nil
}

// PlayFile stops whatever is playing and starts path.
func (p *Player) PlayFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopInternal()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := p.decoder(ctx, path)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	src := newEOFReader(stdout)
	player, err := p.openStream(src)
	if err != nil {
		cancel()
		_ = cmd.Wait()
		return err
	}

	p.cancelFunc = cancel
	p.cmd = cmd
	p.player = player
	p.isPlaying = true
	p.current = path
	player.Play()

	logging.Logger.Debug().Str("path", path).Msg("playback started")

	go p.wait(ctx, cmd, player, src, path)
	return nil
}

// wait reaps ffmpeg once the player has read all of its output, then lets
// the buffered audio play out before reporting the track as finished.
func (p *Player) wait(ctx context.Context, cmd *exec.Cmd, player stream, src *eofReader, path string) {
	select {
	case <-src.done:
	case <-ctx.Done():
	}
	err := cmd.Wait()

	if err == nil {
		p.drain(ctx, cmd, player)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// replaced or stopped in the meantime
	if p.cmd != cmd {
		return
	}
	if err != nil {
		logging.Logger.Warn().Err(err).Str("path", path).Msg("ffmpeg exited with error")
	}

	p.player.Close()
	p.player = nil
	p.cmd = nil
	p.cancelFunc = nil
	p.isPlaying = false
	p.current = ""

	if err != nil {
		return
	}
	select {
	case p.finished <- path:
	default:
	}
}

// drain blocks until player has no buffered audio left. A paused track is
// not drained until it is resumed.
func (p *Player) drain(ctx context.Context, cmd *exec.Cmd, player stream) {
	ticker := time.NewTicker(p.drainPoll)
	defer ticker.Stop()

	for {
		p.mu.Lock()
		done := p.cmd != cmd || (p.isPlaying && player.BufferedSize() == 0)
		p.mu.Unlock()
		if done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopInternal()
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return ErrNotPlaying
	}
	p.player.Pause()
	p.isPlaying = false
	return nil
}

func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return ErrNotPlaying
	}
	p.player.Play()
	p.isPlaying = true
	return nil
}

// Toggle pauses a playing track or resumes a paused one.
func (p *Player) Toggle() error {
	if p.IsPlaying() {
		return p.Pause()
	}
	return p.Resume()
}

func (p *Player) stopInternal() {
	if p.cancelFunc != nil {
		p.cancelFunc()
		p.cancelFunc = nil
	}

	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil

	if p.player != nil {
		p.player.Close()
		p.player = nil
	}

	p.isPlaying = false
	p.current = ""
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlaying
}

// Current returns the path of the loaded track, or "" when idle.
func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// eofReader closes done once the wrapped reader returns an error, io.EOF
// included.
type eofReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

func newEOFReader(r io.Reader) *eofReader {
	return &eofReader{r: r, done: make(chan struct{})}
}

func (e *eofReader) Read(b []byte) (int, error) {
	n, err := e.r.Read(b)
	if err != nil {
		e.once.Do(func() { close(e.done) })
	}
	return n, err
}
