package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alanpramil7/ytscout/internal/player"
	"github.com/alanpramil7/ytscout/internal/transcribe"
	"github.com/alanpramil7/ytscout/internal/yt"
	"github.com/alanpramil7/ytscout/internal/yt/services"
)

const (
	searchBudget     = int64(25)
	searchWindowDays = 30
	searchCharLimit  = 100
	searchWidth      = 50
	dateLayout       = "2006-01-02"
)

// UI color constants
const (
	colorPrimary   = "#00D9FF"
	colorSecondary = "#BD93F9"
	colorText      = "#F8F8F2"
	colorMuted     = "#6272A4"
	colorBorder    = "#3C3C3C"
	colorError     = "#FF5555"
	colorWarning   = "#FFB86C"
	colorSuccess   = "#50FA7B"
	colorPaused    = "#F1FA8C"
	colorHelp      = "#626262"
)

var (
	leftPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	rightPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorPrimary)).
			Padding(1, 3).
			Margin(1, 0)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Bold(true).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHelp))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Bold(true).
			MarginBottom(1).
			PaddingLeft(1)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHelp)).
			Italic(true).
			Align(lipgloss.Center).
			MarginTop(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarning)).
			Bold(true)

	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondary)).Italic(true)
)

// NewApp creates a new TUI application instance
func NewApp(deps Deps) *AppModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "Enter search query..."
	searchInput.Focus()
	searchInput.CharLimit = searchCharLimit
	searchInput.Width = searchWidth
	searchInput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))
	searchInput.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorText))

	resultsViewport := viewport.New(0, 0)
	resultsViewport.MouseWheelEnabled = true
	detailViewport := viewport.New(0, 0)
	detailViewport.MouseWheelEnabled = true

	model, modelErr := transcribe.NewWhisper(transcribe.ModelSize(deps.WhisperModel), transcribe.WithBinary(deps.WhisperBin))

	ctx, cancel := context.WithCancel(context.Background())
	app := &AppModel{
		state:       StateSearchInput,
		searchInput: searchInput,
		results:     resultsViewport,
		detail:      detailViewport,
		details:     map[string]yt.VideoRow{},

		ctx:         ctx,
		cancel:      cancel,
		audioDir:    deps.AudioDir,
		searchSvc:   services.NewSearchService(deps.Client),
		videoSvc:    services.NewVideoService(deps.Client),
		commentSvc:  services.NewCommentService(deps.Client),
		audioSvc:    services.NewAudioService(nil),
		modelErr:    modelErr,
		audioPlayer: player.New(deps.FFmpegBin),
	}
	if modelErr == nil {
		app.model = model
	}
	return app
}

// Close stops playback and any running request.
func (m *AppModel) Close() {
	m.cancel()
	m.audioPlayer.Stop()
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForTrackEnd())
}

func (m *AppModel) listenForTrackEnd() tea.Cmd {
	return func() tea.Msg {
		select {
		case path := <-m.audioPlayer.Finished():
			return trackFinishedMsg{path: path}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		leftWidth := int(float64(msg.Width)*0.35) - 1
		rightWidth := msg.Width - leftWidth - 4
		panelHeight := msg.Height - 4

		m.results = viewport.New(leftWidth-4, panelHeight-4)
		m.results.MouseWheelEnabled = true
		m.detail = viewport.New(rightWidth-4, panelHeight-6)
		m.detail.MouseWheelEnabled = true
		m.updateResultsViewport()
		m.updateDetailViewport()

	case tea.KeyMsg:
		switch m.state {
		case StateNormal:
			return m.handleNormalKeys(msg)
		case StateSearchInput:
			return m.handleSearchInputKeys(msg)
		case StateLoading:
			return m.handleLoadingKeys(msg)
		}

	case searchCompleteMsg:
		table := yt.SearchTable(msg)
		m.state = StateNormal
		m.searchResults = table.Rows
		m.selected = 0
		m.selectedItem = nil
		m.pane = PaneDetails
		if !table.Complete() {
			m.err = fmt.Errorf("showing partial results: %w", table.FetchErr)
		}
		m.updateResultsViewport()
		m.updateDetailViewport()
		if len(table.Rows) > 0 {
			return m, m.fetchDetails(table.Rows)
		}

	case searchErrorMsg:
		m.state = StateNormal
		m.err = msg

	case detailsMsg:
		for _, row := range msg.rows {
			m.details[row.VideoID] = row
		}
		m.updateResultsViewport()
		m.updateDetailViewport()

	case commentsMsg:
		m.busy = ""
		if m.selectedItem != nil && m.selectedItem.VideoID == msg.videoID {
			m.comments = msg.table
			m.pane = PaneComments
			m.detail.GotoTop()
			m.updateDetailViewport()
		}
		if !msg.table.Complete() {
			m.err = fmt.Errorf("showing partial comments: %w", msg.table.FetchErr)
		}

	case transcriptMsg:
		m.busy = ""
		if m.selectedItem != nil && m.selectedItem.VideoID == msg.videoID {
			m.transcript = msg.text
			m.pane = PaneTranscript
			m.detail.GotoTop()
			m.updateDetailViewport()
		}

	case trackStartedMsg:
		m.busy = ""
		m.playingID = msg.videoID

	case trackFinishedMsg:
		m.playingID = ""
		// play the next result once a track ends on its own
		if m.selected < len(m.searchResults)-1 {
			m.selected++
			m.selectItem()
			return m, tea.Batch(m.playSelected(), m.listenForTrackEnd())
		}
		return m, m.listenForTrackEnd()

	case jobErrorMsg:
		m.busy = ""
		m.err = msg.error

	default:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return m, tea.Quit
	case "/", "s":
		m.state = StateSearchInput
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.updateResultsViewport()
		}
	case "down", "j":
		if m.selected < len(m.searchResults)-1 {
			m.selected++
			m.updateResultsViewport()
		}
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case "i":
		if m.selectItem() {
			m.pane = PaneDetails
			m.updateDetailViewport()
		}
	case "c":
		if m.selectItem() && m.busy == "" {
			m.busy = "Loading comments..."
			return m, m.loadComments(m.selectedItem.VideoID)
		}
	case "t":
		if m.selectItem() && m.busy == "" {
			m.busy = "Downloading and transcribing..."
			return m, m.transcribeSelected()
		}
	case "enter":
		if m.selectItem() && m.busy == "" {
			return m, m.playSelected()
		}
	case " ":
		if m.audioPlayer.Current() != "" {
			if err := m.audioPlayer.Toggle(); err != nil {
				m.err = err
			}
		} else if m.selectItem() && m.busy == "" {
			return m, m.playSelected()
		}
	case "x":
		m.audioPlayer.Stop()
		m.playingID = ""
	}
	return m, nil
}

func (m *AppModel) handleSearchInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Close()
		return m, tea.Quit
	case "esc":
		m.state = StateNormal
		m.searchInput.Blur()
		return m, nil
	case "enter":
		query := m.searchInput.Value()
		if strings.TrimSpace(query) == "" {
			m.state = StateNormal
			m.searchInput.Blur()
			return m, nil
		}
		m.state = StateLoading
		m.searchInput.Blur()
		return m, m.performSearch(query)
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

func (m *AppModel) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}
	return m, nil
}

// selectItem makes the highlighted result the selected one.
func (m *AppModel) selectItem() bool {
	if m.selected < 0 || m.selected >= len(m.searchResults) {
		return false
	}
	item := m.searchResults[m.selected]
	if m.selectedItem == nil || m.selectedItem.VideoID != item.VideoID {
		m.pane = PaneDetails
		m.comments = yt.CommentTable{}
		m.transcript = ""
	}
	m.selectedItem = &item
	m.updateResultsViewport()
	m.updateDetailViewport()
	return true
}

func (m *AppModel) performSearch(query string) tea.Cmd {
	now := time.Now().UTC()
	q := yt.SearchQuery{
		Term:      query,
		StartDate: now.AddDate(0, 0, -searchWindowDays).Format(dateLayout),
		EndDate:   now.AddDate(0, 0, 1).Format(dateLayout),
		Budget:    searchBudget,
	}
	return func() tea.Msg {
		table, err := m.searchSvc.Search(m.ctx, q)
		if err != nil {
			return searchErrorMsg(fmt.Errorf("search failed: %w", err))
		}
		return searchCompleteMsg(table)
	}
}

func (m *AppModel) fetchDetails(rows []yt.SearchRow) tea.Cmd {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.VideoID)
	}
	return func() tea.Msg {
		videos, err := m.videoSvc.Details(m.ctx, ids)
		if err != nil {
			return jobErrorMsg{fmt.Errorf("video details: %w", err)}
		}
		return detailsMsg{rows: videos}
	}
}

func (m *AppModel) loadComments(videoID string) tea.Cmd {
	return func() tea.Msg {
		table, err := m.commentSvc.Comments(m.ctx, yt.CommentsQuery{VideoID: videoID, Limit: yt.CommentsTop100})
		if err != nil {
			return jobErrorMsg{err}
		}
		return commentsMsg{videoID: videoID, table: table}
	}
}

// ensureAudio returns the local audio file of a video, downloading it first
// when missing.
func (m *AppModel) ensureAudio(videoID string) (string, error) {
	name := videoID + ".mp4"
	path := filepath.Join(m.audioDir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return m.audioSvc.DownloadOne(m.ctx, videoID, m.audioDir, name)
}

func (m *AppModel) playSelected() tea.Cmd {
	if m.selectedItem == nil {
		return nil
	}
	videoID := m.selectedItem.VideoID
	m.busy = "Loading audio..."
	return func() tea.Msg {
		path, err := m.ensureAudio(videoID)
		if err != nil {
			return jobErrorMsg{err}
		}
		if err := m.audioPlayer.PlayFile(path); err != nil {
			return jobErrorMsg{err}
		}
		return trackStartedMsg{videoID: videoID}
	}
}

func (m *AppModel) transcribeSelected() tea.Cmd {
	videoID := m.selectedItem.VideoID
	return func() tea.Msg {
		if m.model == nil {
			return jobErrorMsg{m.modelErr}
		}
		path, err := m.ensureAudio(videoID)
		if err != nil {
			return jobErrorMsg{err}
		}
		texts, err := transcribe.Files(m.ctx, m.model, filepath.Dir(path), []string{filepath.Base(path)})
		if err != nil {
			return jobErrorMsg{err}
		}
		if len(texts) == 0 {
			return jobErrorMsg{errors.New("empty transcription")}
		}
		return transcriptMsg{videoID: videoID, text: texts[0]}
	}
}

func (m *AppModel) updateResultsViewport() {
	width := max(m.results.Width-2, 10)

	var b strings.Builder
	for i, r := range m.searchResults {
		meta := r.ChannelTitle
		if v, ok := m.details[r.VideoID]; ok {
			meta = fmt.Sprintf("%s · %s", r.ChannelTitle, formatDuration(v.Duration))
		}
		if i == m.selected {
			indicator := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Render("▶ ")
			title := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Bold(true).
				Render(truncate(r.VideoTitle, width))
			fmt.Fprintf(&b, "%s%s\n  %s\n", indicator, title, secondaryStyle.Render(truncate(meta, width)))
		} else {
			title := lipgloss.NewStyle().Foreground(lipgloss.Color(colorText)).
				Render(truncate(r.VideoTitle, width))
			fmt.Fprintf(&b, "  %s\n  %s\n", title, mutedStyle.Render(truncate(meta, width)))
		}
	}
	m.results.SetContent(b.String())

	// keep selected visible
	linesPerItem := 2
	start := m.selected * linesPerItem
	end := start + linesPerItem - 1
	visible := m.results.VisibleLineCount()

	if start < m.results.YOffset {
		m.results.SetYOffset(start)
	} else if end >= m.results.YOffset+visible {
		m.results.SetYOffset(end - visible + 1)
	}
}

func (m *AppModel) updateDetailViewport() {
	if m.selectedItem == nil {
		m.detail.SetContent(emptyStateStyle.Render("No video selected"))
		return
	}

	wrap := lipgloss.NewStyle().Width(max(m.detail.Width, 20))
	var content string
	switch m.pane {
	case PaneComments:
		content = renderComments(m.comments, wrap)
	case PaneTranscript:
		content = wrap.Render(m.transcript)
	default:
		content = m.renderDetails(wrap)
	}
	m.detail.SetContent(content)
}

func (m *AppModel) renderDetails(wrap lipgloss.Style) string {
	item := m.selectedItem

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorPrimary)).Render(item.VideoTitle))
	fmt.Fprintf(&b, "Channel: %s\n\n", secondaryStyle.Render(item.ChannelTitle))
	fmt.Fprintf(&b, "Published: %s\n\n", mutedStyle.Render(item.PublishedTime.Format(time.DateOnly)))

	if v, ok := m.details[item.VideoID]; ok {
		fmt.Fprintf(&b, "Duration: %s\n", mutedStyle.Render(formatDuration(v.Duration)))
		fmt.Fprintf(&b, "Views: %s  Likes: %s  Comments: %s\n\n",
			mutedStyle.Render(fmt.Sprint(v.ViewCount)),
			mutedStyle.Render(fmt.Sprint(v.LikeCount)),
			mutedStyle.Render(fmt.Sprint(v.CommentCount)))
		if v.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", wrap.Render(mutedStyle.Render(truncate(v.Description, 400))))
		}
		if v.ThumbnailURL != "" {
			fmt.Fprintf(&b, "Thumbnail: %s\n", mutedStyle.Render(v.ThumbnailURL))
		}
	}
	fmt.Fprintf(&b, "URL: %s", mutedStyle.Render(yt.WatchURL(item.VideoID)))
	return b.String()
}

func renderComments(t yt.CommentTable, wrap lipgloss.Style) string {
	if t.Len() == 0 {
		return emptyStateStyle.Render("No comments")
	}

	var b strings.Builder
	for _, c := range t.Rows {
		author := secondaryStyle.Render(c.AuthorDisplayName)
		likes := mutedStyle.Render(fmt.Sprintf("♥ %d", c.LikeCount))
		text := c.TextOriginal
		if c.IsReply() {
			fmt.Fprintf(&b, "  ↳ %s %s\n%s\n\n", author, likes,
				wrap.PaddingLeft(4).Render(text))
			continue
		}
		fmt.Fprintf(&b, "%s %s\n%s\n\n", author, likes, wrap.Render(text))
	}
	return b.String()
}

func (m *AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	leftWidth := int(float64(m.width)*0.35) - 1
	rightWidth := m.width - leftWidth - 4
	panelHeight := m.height - 4

	leftContent := ""
	if len(m.searchResults) == 0 {
		emptyMsg := `
    Press '/' or 's' to search
    Press 'q' to quit`
		leftContent = emptyStateStyle.
			Width(leftWidth - 4).
			Height(panelHeight - 4).
			Render(emptyMsg)
	} else {
		title := titleStyle.Render(fmt.Sprintf("Search Results (%d)", len(m.searchResults)))
		leftContent = title + "\n" + m.results.View()
	}
	leftPanel := leftPanelStyle.
		Width(leftWidth).
		Height(panelHeight).
		Render(leftContent)

	var rightTitle string
	switch m.pane {
	case PaneComments:
		rightTitle = titleStyle.Render(fmt.Sprintf("Comments (%d)", m.comments.Len()))
	case PaneTranscript:
		rightTitle = titleStyle.Render("Transcript")
	default:
		rightTitle = titleStyle.Render("Video")
	}

	rightPanel := rightPanelStyle.
		Width(rightWidth).
		Height(panelHeight).
		Render(rightTitle + "\n" + m.statusLine() + "\n\n" + m.detail.View())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	helpText := ""
	switch m.state {
	case StateNormal:
		if m.busy != "" {
			helpText = loadingStyle.Render(m.busy)
		} else if len(m.searchResults) > 0 {
			helpText = "'/' search  •  ↑↓ navigate  •  ↵ play  •  space pause  •  x stop  •  i info  •  c comments  •  t transcribe  •  q quit"
		} else {
			helpText = "Press '/' or 's' to search  •  Press 'q' to quit"
		}
	case StateLoading:
		helpText = loadingStyle.Render("Searching YouTube...")
	}

	if m.err != nil {
		helpText = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		m.err = nil
	}
	help := helpStyle.Render(helpText)

	if m.state == StateSearchInput {
		title := modalTitleStyle.Render("Search YouTube")
		input := m.searchInput.View()
		helperText := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHelp)).
			Italic(true).
			Render(fmt.Sprintf("Videos from the last %d days  •  ↵ Enter to search  •  ESC to cancel", searchWindowDays))

		modalContent := fmt.Sprintf("%s\n\n%s\n\n%s", title, input, helperText)
		modal := modalStyle.Render(modalContent)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceBackground(lipgloss.NoColor{}))
	}

	return mainView + "\n" + help
}

func (m *AppModel) statusLine() string {
	switch {
	case m.busy == "Loading audio...":
		return loadingStyle.Render("⏳ LOADING...")
	case m.audioPlayer.IsPlaying():
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess)).Bold(true).
			Render("▶ NOW PLAYING " + m.playingTitle())
	case m.audioPlayer.Current() != "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorPaused)).Bold(true).
			Render("⏸ PAUSED " + m.playingTitle())
	default:
		return mutedStyle.Render("⏹ STOPPED")
	}
}

func (m *AppModel) playingTitle() string {
	for _, r := range m.searchResults {
		if r.VideoID == m.playingID {
			return truncate(r.VideoTitle, 40)
		}
	}
	return m.playingID
}

// formatDuration turns an ISO 8601 duration such as PT1H4M13S into 1:04:13.
func formatDuration(iso string) string {
	d, err := time.ParseDuration(strings.ToLower(strings.TrimPrefix(iso, "PT")))
	if err != nil || iso == "" {
		return iso
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
