package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/alanpramil7/ytscout/internal/player"
	"github.com/alanpramil7/ytscout/internal/transcribe"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/services"
)

// AppState represents the current state of the application
type AppState int

const (
	StateNormal AppState = iota
	StateSearchInput
	StateLoading
)

// Pane is what the right panel shows for the selected video.
type Pane int

const (
	PaneDetails Pane = iota
	PaneComments
	PaneTranscript
)

// Deps are the collaborators the TUI needs.
type Deps struct {
	Client       *yt.Client
	AudioDir     string
	WhisperModel string
	WhisperBin   string
	FFmpegBin    string
}

// AppModel represents the app state
type AppModel struct {
	state       AppState
	pane        Pane
	searchInput textinput.Model
	results     viewport.Model
	detail      viewport.Model

	searchResults []yt.SearchRow
	selected      int
	selectedItem  *yt.SearchRow
	details       map[string]yt.VideoRow
	comments      yt.CommentTable
	transcript    string
	playingID     string

	busy          string
	width, height int
	err           error

	ctx         context.Context
	cancel      context.CancelFunc
	audioDir    string
	searchSvc   services.SearchService
	videoSvc    services.VideoService
	commentSvc  services.CommentService
	audioSvc    services.AudioService
	model       transcribe.Model
	modelErr    error
	audioPlayer *player.Player
}

// Custom messages for async operations
type searchCompleteMsg yt.SearchTable
type searchErrorMsg error

type detailsMsg struct {
	rows []yt.VideoRow
}

type commentsMsg struct {
	videoID string
	table   yt.CommentTable
}

type transcriptMsg struct {
	videoID string
	text    string
}

type trackStartedMsg struct {
	videoID string
}

type trackFinishedMsg struct {
	path string
}

type jobErrorMsg struct {
	error error
}
