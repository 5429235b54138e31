package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ytdl "github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanpramil7/ytscout/internal/yt"
)

type fakeSource struct {
	formats   ytdl.FormatList
	body      string
	resolved  []string
	streamErr error
}

func (f *fakeSource) GetVideoContext(_ context.Context, id string) (*ytdl.Video, error) {
	f.resolved = append(f.resolved, id)
	return &ytdl.Video{ID: id, Formats: f.formats}, nil
}

func (f *fakeSource) GetStreamContext(_ context.Context, v *ytdl.Video, format *ytdl.Format) (io.ReadCloser, int64, error) {
	if f.streamErr != nil {
		return nil, 0, f.streamErr
	}
	body := v.ID + ":" + f.body
	return io.NopCloser(strings.NewReader(body)), int64(len(body)), nil
}

var (
	audio140 = ytdl.Format{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`}
	audio139 = ytdl.Format{ItagNo: 139, MimeType: `audio/mp4; codecs="mp4a.40.5"`}
	opus251  = ytdl.Format{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`}
	video18  = ytdl.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`}
)

func TestSelectAudioFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats ytdl.FormatList
		want    int
		wantErr error
	}{
		{name: "prefers 140", formats: ytdl.FormatList{video18, audio139, audio140}, want: 140},
		{name: "falls back to 139", formats: ytdl.FormatList{opus251, audio139}, want: 139},
		{name: "no mp4 audio", formats: ytdl.FormatList{opus251, video18}, wantErr: ErrNoAudioStream},
		{name: "empty", wantErr: ErrNoAudioStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectAudioFormat(tt.formats)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ItagNo)
		})
	}
}

func TestDownloadWritesFilesByID(t *testing.T) {
	src := &fakeSource{formats: ytdl.FormatList{audio140}, body: "aac"}
	dir := filepath.Join(t.TempDir(), "content", "audio")

	paths, err := NewAudioService(src).Download(context.Background(),
		[]string{"dQw4w9WgXcQ", "https://www.youtube.com/watch?v=9bZkp7q19f0"}, dir)
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(dir, "dQw4w9WgXcQ.mp4"),
		filepath.Join(dir, "9bZkp7q19f0.mp4"),
	}, paths)
	assert.Equal(t, []string{"dQw4w9WgXcQ", "9bZkp7q19f0"}, src.resolved)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "9bZkp7q19f0:aac", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files are left behind")
}

func TestDownloadNoAudioStream(t *testing.T) {
	src := &fakeSource{formats: ytdl.FormatList{opus251}}
	dir := t.TempDir()

	paths, err := NewAudioService(src).Download(context.Background(), []string{"dQw4w9WgXcQ"}, dir)
	assert.ErrorIs(t, err, ErrNoAudioStream)
	assert.Empty(t, paths)

	_, statErr := os.Stat(filepath.Join(dir, "dQw4w9WgXcQ.mp4"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadStreamError(t *testing.T) {
	boom := errors.New("stream refused")
	src := &fakeSource{formats: ytdl.FormatList{audio139}, streamErr: boom}

	_, err := NewAudioService(src).DownloadOne(context.Background(), "dQw4w9WgXcQ", t.TempDir(), "x.mp4")
	assert.ErrorIs(t, err, boom)
}

func TestDownloadValidation(t *testing.T) {
	svc := NewAudioService(&fakeSource{formats: ytdl.FormatList{audio140}})

	_, err := svc.Download(context.Background(), nil, t.TempDir())
	assert.ErrorIs(t, err, yt.ErrInvalidArgument)

	_, err = svc.Download(context.Background(), []string{"dQw4w9WgXcQ"}, "")
	assert.ErrorIs(t, err, yt.ErrInvalidArgument)

	_, err = svc.Download(context.Background(), []string{"not a video"}, t.TempDir())
	assert.ErrorIs(t, err, yt.ErrInvalidArgument)
}
