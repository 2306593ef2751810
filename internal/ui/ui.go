package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/exsolo/soloplay/internal/library"
	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/player"
	"github.com/exsolo/soloplay/internal/session"
	"github.com/exsolo/soloplay/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	RegisterView
	LibraryView
	ConfirmDeleteView
	UploadView
	AccessDeniedView
)

// Form field indices, matching the order passed to newForm.
const (
	loginIdentifier = iota
	loginPassword
)

const (
	registerUsername = iota
	registerEmail
	registerPassword
	registerRole
)

const (
	uploadTitle = iota
	uploadGenre
	uploadAlbum
	uploadDuration
	uploadFile
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	session *session.Controller
	lib     *library.Controller
	logger  *log.Logger

	view   ViewState
	width  int
	height int

	songList    list.Model
	listReady   bool
	searchInput textinput.Model
	searching   bool

	loginForm    form
	registerForm form
	uploadForm   form
	busy         bool
	formErr      string

	status       string
	deleteTarget *models.Song
	watched      player.Engine

	help help.Model
	keys keyMap
}

type sessionReadyMsg struct{}

type songsFetchedMsg struct {
	songs []models.Song
	err   error
}

type authResultMsg struct {
	err error
}

type uploadResultMsg struct {
	err error
}

type deleteResultMsg struct {
	song models.Song
	err  error
}

type downloadResultMsg struct {
	path string
	err  error
}

type playbackDoneMsg struct {
	engine player.Engine
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Controller, lib *library.Controller, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	search := textinput.New()
	search.Placeholder = "Search tracks, artist, or genre..."
	search.CharLimit = 128

	return &Model{
		ctx:     ctx,
		session: sess,
		lib:     lib,
		logger:  logger,
		view:    LoadingView,
		loginForm: newForm([]field{
			{label: "Username or email", placeholder: "dj1"},
			{label: "Password", secret: true},
		}),
		registerForm: newForm([]field{
			{label: "Username", placeholder: "dj1"},
			{label: "Email", placeholder: "a@b.com"},
			{label: "Password", secret: true},
			{label: "Role (listener or artist)", placeholder: models.RoleListener},
		}),
		uploadForm: newForm([]field{
			{label: "Title"},
			{label: "Genre", placeholder: "Rock, Pop, Hip Hop..."},
			{label: "Album (optional)"},
			{label: "Duration (seconds)", placeholder: "180"},
			{label: "Audio file path", placeholder: "./track.mp3"},
		}),
		searchInput: search,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the session rehydration; no routing decision is made until it
// resolves.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.session.Rehydrate(m.ctx)
		return sessionReadyMsg{}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.songList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case sessionReadyMsg:
		if m.session.Authenticated() {
			m.view = LibraryView
			return m, m.fetchSongs()
		}
		m.view = LoginView
		return m, nil

	case songsFetchedMsg:
		m.lib.FinishFetch(msg.songs, msg.err)
		items := m.visibleItems()
		m.songList = list.New(items, list.NewDefaultDelegate(), max(m.width-4, 0), max(m.height-10, 0))
		m.songList.Title = "Music Library"
		m.songList.SetFilteringEnabled(false)
		m.songList.SetShowHelp(false)
		m.listReady = true
		return m, nil

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		m.formErr = ""
		m.view = LibraryView
		return m, m.fetchSongs()

	case uploadResultMsg:
		m.busy = false
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		m.formErr = ""
		m.uploadForm.reset()
		m.view = LibraryView
		// Refetch so the new song shows up with its server-side fields.
		return m, m.fetchSongs()

	case deleteResultMsg:
		m.lib.FinishDelete(msg.song, msg.err)
		m.deleteTarget = nil
		m.view = LibraryView
		if msg.err == nil {
			m.refreshList()
		}
		return m, nil

	case downloadResultMsg:
		m.lib.FinishDownload(msg.err)
		if msg.err == nil {
			m.status = fmt.Sprintf("Saved to %s", msg.path)
		}
		return m, nil

	case playbackDoneMsg:
		m.lib.FinishPlayback(msg.engine, msg.err)
		if msg.engine == m.watched {
			m.watched = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateChildren(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return styles.title.Render("Loading...")
	case LoginView:
		return m.renderLogin()
	case RegisterView:
		return m.renderRegister()
	case LibraryView:
		return m.renderLibrary()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	case UploadView:
		return m.renderUpload()
	case AccessDeniedView:
		return m.renderAccessDenied()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case LoadingView:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	case LoginView:
		return m.handleLoginKeys(msg)
	case RegisterView:
		return m.handleRegisterKeys(msg)
	case LibraryView:
		return m.handleLibraryKeys(msg)
	case ConfirmDeleteView:
		return m.handleConfirmDeleteKeys(msg)
	case UploadView:
		return m.handleUploadKeys(msg)
	case AccessDeniedView:
		switch msg.String() {
		case "esc", "enter", "q":
			m.view = LibraryView
			return m, nil
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.formErr = ""
		m.view = RegisterView
		return m, nil
	case "tab", "down":
		m.loginForm.next()
		return m, nil
	case "shift+tab", "up":
		m.loginForm.prev()
		return m, nil
	case "enter":
		if !m.loginForm.atLast() {
			m.loginForm.next()
			return m, nil
		}
		return m, m.submitLogin()
	}
	return m, m.loginForm.update(msg)
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.formErr = ""
		m.view = LoginView
		return m, nil
	case "tab", "down":
		m.registerForm.next()
		return m, nil
	case "shift+tab", "up":
		m.registerForm.prev()
		return m, nil
	case "enter":
		if !m.registerForm.atLast() {
			m.registerForm.next()
			return m, nil
		}
		return m, m.submitRegister()
	}
	return m, m.registerForm.update(msg)
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.lib.SetSearch(m.searchInput.Value())
			m.refreshList()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.lib.StopPlayback()
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.genre):
		m.lib.CycleGenre()
		m.refreshList()
		return m, nil

	case key.Matches(msg, m.keys.play):
		if song, ok := m.selectedSong(); ok {
			m.status = ""
			if err := m.lib.Play(m.ctx, song); err != nil {
				m.logger.Error("failed to start playback", "err", err)
				return m, nil
			}
			return m, m.watchPlayback()
		}
		return m, nil

	case key.Matches(msg, m.keys.stop):
		m.lib.StopPlayback()
		return m, nil

	case key.Matches(msg, m.keys.download):
		if song, ok := m.selectedSong(); ok {
			return m, m.download(song)
		}
		return m, nil

	case key.Matches(msg, m.keys.delete):
		// No delete affordance for listeners.
		if !m.session.User().IsArtist() {
			return m, nil
		}
		if song, ok := m.selectedSong(); ok {
			target := song
			m.deleteTarget = &target
			m.view = ConfirmDeleteView
		}
		return m, nil

	case key.Matches(msg, m.keys.upload):
		m.formErr = ""
		if m.session.User().IsArtist() {
			m.view = UploadView
		} else {
			m.view = AccessDeniedView
		}
		return m, nil

	case key.Matches(msg, m.keys.logout):
		m.lib.StopPlayback()
		m.session.Logout()
		m.loginForm.reset()
		m.formErr = ""
		m.view = LoginView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.deleteTarget = nil
		m.view = LibraryView
		return m, nil
	case "y":
		if m.deleteTarget == nil {
			m.view = LibraryView
			return m, nil
		}
		target := *m.deleteTarget
		return m, func() tea.Msg {
			return deleteResultMsg{song: target, err: m.lib.Delete(m.ctx, target)}
		}
	}
	return m, nil
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.formErr = ""
		m.view = LibraryView
		return m, nil
	case "tab", "down":
		m.uploadForm.next()
		return m, nil
	case "shift+tab", "up":
		m.uploadForm.prev()
		return m, nil
	case "enter":
		if !m.uploadForm.atLast() {
			m.uploadForm.next()
			return m, nil
		}
		return m, m.submitUpload()
	}
	return m, m.uploadForm.update(msg)
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view == LibraryView && m.listReady {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) submitLogin() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true

	creds := models.Credentials{
		Identifier: m.loginForm.value(loginIdentifier),
		Password:   m.loginForm.value(loginPassword),
	}
	return func() tea.Msg {
		return authResultMsg{err: m.session.Login(m.ctx, creds)}
	}
}

func (m *Model) submitRegister() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true

	reg := models.Registration{
		Username: m.registerForm.value(registerUsername),
		Email:    m.registerForm.value(registerEmail),
		Password: m.registerForm.value(registerPassword),
		Role:     m.registerForm.value(registerRole),
	}
	return func() tea.Msg {
		return authResultMsg{err: m.session.Register(m.ctx, reg)}
	}
}

func (m *Model) submitUpload() tea.Cmd {
	if m.busy {
		return nil
	}

	duration, err := strconv.Atoi(m.uploadForm.value(uploadDuration))
	if err != nil {
		m.formErr = "duration must be a number of seconds"
		return nil
	}

	m.busy = true
	up := models.Upload{
		Title:    m.uploadForm.value(uploadTitle),
		Genre:    m.uploadForm.value(uploadGenre),
		Album:    m.uploadForm.value(uploadAlbum),
		Duration: duration,
		FilePath: m.uploadForm.value(uploadFile),
	}
	return func() tea.Msg {
		_, err := m.session.UploadSong(m.ctx, up)
		return uploadResultMsg{err: err}
	}
}

// fetchSongs loads the library off the event loop. The result rides the
// message; the controller is only touched once Update applies it.
func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.lib.Fetch(m.ctx)
		return songsFetchedMsg{songs: songs, err: err}
	}
}

func (m *Model) download(song models.Song) tea.Cmd {
	return func() tea.Msg {
		path, err := m.lib.Download(m.ctx, song)
		return downloadResultMsg{path: path, err: err}
	}
}

// watchPlayback waits on the live engine's Done channel. Watching the same
// engine twice would steal its single result, so an engine already being
// watched yields no command.
func (m *Model) watchPlayback() tea.Cmd {
	engine := m.lib.Player().Engine()
	if engine == nil || engine == m.watched {
		return nil
	}
	m.watched = engine

	return func() tea.Msg {
		err := <-engine.Done()
		return playbackDoneMsg{engine: engine, err: err}
	}
}

func (m *Model) selectedSong() (models.Song, bool) {
	if !m.listReady {
		return models.Song{}, false
	}
	selected := m.songList.SelectedItem()
	if selected == nil {
		return models.Song{}, false
	}
	item, ok := selected.(songItem)
	return item.song, ok
}

func (m *Model) visibleItems() []list.Item {
	visible := m.lib.Visible()
	items := make([]list.Item, len(visible))
	for i, song := range visible {
		items[i] = songItem{song: song}
	}
	return items
}

func (m *Model) refreshList() {
	if m.listReady {
		m.songList.SetItems(m.visibleItems())
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign In")
	body := m.loginForm.view()

	footer := styles.help.Render("enter submit • tab next field • esc register • ctrl+c quit")
	if m.busy {
		footer = styles.warn.Render("Signing in...")
	}

	return fmt.Sprintf("%s\n%s%s\n%s", title, body, m.renderFormError(), footer)
}

func (m *Model) renderRegister() string {
	title := styles.title.Render("Create Account")
	body := m.registerForm.view()

	footer := styles.help.Render("enter submit • tab next field • esc login • ctrl+c quit")
	if m.busy {
		footer = styles.warn.Render("Creating account...")
	}

	return fmt.Sprintf("%s\n%s%s\n%s", title, body, m.renderFormError(), footer)
}

func (m *Model) renderLibrary() string {
	if !m.listReady {
		return styles.title.Render("Loading library...")
	}

	var header string
	if m.searching {
		header = m.searchInput.View()
	} else {
		header = styles.help.Render(fmt.Sprintf("genre: %s • search: %q", m.lib.Genre(), m.lib.Search()))
	}

	var playing string
	p := m.lib.Player()
	if p.Status() != player.StatusIdle {
		label := "Now Playing"
		if p.Status() == player.StatusPaused {
			label = "Paused"
		}
		playing = styles.ok.Render(fmt.Sprintf("%s: %s", label, m.songTitle(p.SongID())))
	}

	var notice string
	if msg := m.lib.Error(); msg != "" {
		notice = styles.err.Render(msg)
	} else if m.status != "" {
		notice = styles.warn.Render(m.status)
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.play, m.keys.search, m.keys.genre, m.keys.download, m.keys.upload, m.keys.quit,
	})

	return joinSections(header, playing, notice, m.songList.View(), helpView)
}

func (m *Model) renderConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}

	title := styles.title.Render("Delete Track")
	info := fmt.Sprintf("Permanently remove '%s' by %s from the library?\nThis action cannot be undone.",
		m.deleteTarget.Title, m.deleteTarget.ArtistName)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Upload New Song")
	body := m.uploadForm.view()

	footer := styles.help.Render("enter submit • tab next field • esc back")
	if m.busy {
		footer = styles.warn.Render("Uploading...")
	}

	return fmt.Sprintf("%s\n%s%s\n%s", title, body, m.renderFormError(), footer)
}

func (m *Model) renderAccessDenied() string {
	title := styles.title.Render("Artist Access Required")
	info := "This feature is only available for artists.\nTo upload music, you need an artist account."
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderFormError() string {
	if m.formErr == "" {
		return ""
	}
	return styles.err.Render(m.formErr) + "\n"
}

func (m *Model) songTitle(id string) string {
	for _, song := range m.lib.Songs() {
		if song.ID == id {
			return song.Title
		}
	}
	return id
}

func joinSections(sections ...string) string {
	out := ""
	for _, s := range sections {
		if s == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += s
	}
	return out
}
