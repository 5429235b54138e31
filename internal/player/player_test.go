package player

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream consumes its source like oto does and keeps the bytes
// "buffered" until the test drains them.
type fakeStream struct {
	mu       sync.Mutex
	data     []byte
	buffered int
	playing  bool
	closed   bool
	readDone chan struct{}
}

func newFakeStream(src io.Reader) *fakeStream {
	f := &fakeStream{buffered: 1, readDone: make(chan struct{})}
	go func() {
		b, _ := io.ReadAll(src)
		f.mu.Lock()
		f.data = b
		f.buffered = len(b)
		f.mu.Unlock()
		close(f.readDone)
	}()
	return f
}

func (f *fakeStream) Play()  { f.mu.Lock(); f.playing = true; f.mu.Unlock() }
func (f *fakeStream) Pause() { f.mu.Lock(); f.playing = false; f.mu.Unlock() }

func (f *fakeStream) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeStream) BufferedSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buffered
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeStream) drain() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buffered = 0
}

func (f *fakeStream) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// newTestPlayer decodes with the given command instead of ffmpeg and plays
// into fake streams. The file path is appended as the last argument.
func newTestPlayer(t *testing.T, name string, args ...string) (*Player, chan *fakeStream) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}

	streams := make(chan *fakeStream, 4)
	p := New("ffmpeg")
	p.drainPoll = 5 * time.Millisecond
	p.decoder = func(ctx context.Context, path string) *exec.Cmd {
		return exec.CommandContext(ctx, name, append(args, path)...)
	}
	p.openStream = func(src io.Reader) (stream, error) {
		s := newFakeStream(src)
		streams <- s
		return s, nil
	}
	t.Cleanup(p.Stop)
	return p, streams
}

func audioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abc.mp4")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDefaultsFFmpeg(t *testing.T) {
	p := New("")
	assert.Equal(t, "ffmpeg", p.ffmpeg)
	assert.False(t, p.IsPlaying())
	assert.Empty(t, p.Current())
}

func TestPlayFileMissing(t *testing.T) {
	p := New("ffmpeg")
	err := p.PlayFile(filepath.Join(t.TempDir(), "nope.mp4"))
	require.Error(t, err)
	assert.False(t, p.IsPlaying())
}

func TestControlsWhenIdle(t *testing.T) {
	p := New("ffmpeg")

	assert.ErrorIs(t, p.Pause(), ErrNotPlaying)
	assert.ErrorIs(t, p.Resume(), ErrNotPlaying)
	assert.ErrorIs(t, p.Toggle(), ErrNotPlaying)

	p.Stop()
	assert.False(t, p.IsPlaying())
}

func TestFinishedWaitsForBufferedAudio(t *testing.T) {
	p, streams := newTestPlayer(t, "cat")
	path := audioFile(t, "pcm-bytes")

	require.NoError(t, p.PlayFile(path))
	s := <-streams

	select {
	case <-s.readDone:
	case <-time.After(5 * time.Second):
		t.Fatal("decoder output was never read")
	}

	// decoder has exited, but the buffer still holds the tail of the track
	select {
	case got := <-p.Finished():
		t.Fatalf("finished %q before the buffer drained", got)
	case <-time.After(100 * time.Millisecond):
	}
	assert.True(t, p.IsPlaying())
	assert.Equal(t, path, p.Current())
	assert.False(t, s.isClosed())
	assert.Equal(t, "pcm-bytes", string(s.data))

	s.drain()

	select {
	case got := <-p.Finished():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("track never finished")
	}
	assert.Empty(t, p.Current())
	assert.False(t, p.IsPlaying())
	assert.True(t, s.isClosed())
}

func TestPausedTrackDoesNotFinish(t *testing.T) {
	p, streams := newTestPlayer(t, "cat")
	path := audioFile(t, "pcm")

	require.NoError(t, p.PlayFile(path))
	s := <-streams
	<-s.readDone

	require.NoError(t, p.Pause())
	s.drain()

	select {
	case got := <-p.Finished():
		t.Fatalf("paused track %q reported finished", got)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, path, p.Current())

	require.NoError(t, p.Resume())
	select {
	case got := <-p.Finished():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("track never finished after resume")
	}
}

func TestDecodeFailureIsNotFinished(t *testing.T) {
	p, streams := newTestPlayer(t, "sh", "-c", "exit 3")

	require.NoError(t, p.PlayFile(audioFile(t, "broken")))
	s := <-streams

	require.Eventually(t, func() bool { return p.Current() == "" }, 5*time.Second, 5*time.Millisecond)
	assert.True(t, s.isClosed())

	select {
	case got := <-p.Finished():
		t.Fatalf("failed track %q reported finished", got)
	default:
	}
}

func TestStopIsNotFinished(t *testing.T) {
	p, streams := newTestPlayer(t, "sh", "-c", "sleep 5")

	require.NoError(t, p.PlayFile(audioFile(t, "x")))
	s := <-streams
	assert.True(t, p.IsPlaying())

	p.Stop()
	assert.Empty(t, p.Current())
	assert.True(t, s.isClosed())

	select {
	case got := <-p.Finished():
		t.Fatalf("stopped track %q reported finished", got)
	case <-time.After(100 * time.Millisecond):
	}
}
