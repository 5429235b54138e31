package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanpramil7/ytscout/internal/yt"
)

func newTestApp(t *testing.T) *AppModel {
	t.Helper()
	app := NewApp(Deps{AudioDir: t.TempDir()})
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func results() yt.SearchTable {
	return yt.SearchTable{
		Rows: []yt.SearchRow{
			{VideoID: "v1", VideoTitle: "First cat", ChannelTitle: "Cats"},
			{VideoID: "v2", VideoTitle: "Second cat", ChannelTitle: "Cats"},
		},
		Requests: 1,
	}
}

func TestSearchCompleteShowsResults(t *testing.T) {
	app := newTestApp(t)
	app.state = StateLoading

	_, cmd := app.Update(searchCompleteMsg(results()))
	assert.NotNil(t, cmd, "details are fetched for the results")
	assert.Equal(t, StateNormal, app.state)
	require.Len(t, app.searchResults, 2)
	assert.Contains(t, app.View(), "First cat")
}

func TestPartialSearchReportsError(t *testing.T) {
	app := newTestApp(t)
	table := results()
	table.FetchErr = errors.New("quota exceeded")

	app.Update(searchCompleteMsg(table))
	require.Error(t, app.err)
	assert.Contains(t, app.View(), "quota exceeded")
}

func TestNavigationAndDetails(t *testing.T) {
	app := newTestApp(t)
	app.Update(searchCompleteMsg(results()))

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.selected)
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.selected)

	app.Update(detailsMsg{rows: []yt.VideoRow{{VideoID: "v2", Duration: "PT4M13S", ViewCount: 42}}})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})

	require.NotNil(t, app.selectedItem)
	assert.Equal(t, "v2", app.selectedItem.VideoID)
	assert.Contains(t, app.detail.View(), "4:13")
}

func TestCommentsPane(t *testing.T) {
	app := newTestApp(t)
	app.Update(searchCompleteMsg(results()))
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})

	app.Update(commentsMsg{videoID: "v1", table: yt.CommentTable{Rows: []yt.CommentRow{
		{ID: "c1", AuthorDisplayName: "alice", TextOriginal: "so fluffy"},
		{ID: "r1", AuthorDisplayName: "bob", TextOriginal: "agreed", ParentID: "c1"},
	}}})

	assert.Equal(t, PaneComments, app.pane)
	out := app.detail.View()
	assert.Contains(t, out, "so fluffy")
	assert.Contains(t, out, "↳")
}

func TestCommentsForOtherVideoIgnored(t *testing.T) {
	app := newTestApp(t)
	app.Update(searchCompleteMsg(results()))
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})

	app.Update(commentsMsg{videoID: "v2", table: yt.CommentTable{Rows: []yt.CommentRow{{ID: "c1"}}}})
	assert.Equal(t, PaneDetails, app.pane)
}

func TestFormatDuration(t *testing.T) {
	tests := map[string]string{
		"PT4M13S":   "4:13",
		"PT1H4M13S": "1:04:13",
		"PT45S":     "0:45",
		"P1DT2H":    "P1DT2H",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatDuration(in), in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdef...", truncate("abcdefghijkl", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestTrackFinished(t *testing.T) {
	tests := []struct {
		name         string
		selected     int
		wantSelected int
		wantBusy     string
	}{
		{name: "advances to next result", selected: 0, wantSelected: 1, wantBusy: "Loading audio..."},
		{name: "stays on last result", selected: 1, wantSelected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.Update(searchCompleteMsg(results()))
			app.selected = tt.selected
			app.playingID = "playing"

			_, cmd := app.Update(trackFinishedMsg{path: "/audio/v1.mp4"})
			assert.NotNil(t, cmd)
			assert.Equal(t, tt.wantSelected, app.selected)
			assert.Empty(t, app.playingID)
			assert.Equal(t, tt.wantBusy, app.busy)
			if tt.wantBusy != "" {
				require.NotNil(t, app.selectedItem)
				assert.Equal(t, "v2", app.selectedItem.VideoID)
			}
		})
	}
}

func TestJobErrorClearsBusy(t *testing.T) {
	app := newTestApp(t)
	app.Update(searchCompleteMsg(results()))
	app.busy = "Loading comments..."

	_, cmd := app.Update(jobErrorMsg{errors.New("comments disabled")})
	assert.Nil(t, cmd)
	assert.Empty(t, app.busy)
	require.Error(t, app.err)
	assert.Contains(t, app.View(), "comments disabled")
}
