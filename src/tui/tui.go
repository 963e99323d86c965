package tui

import (
	"context"
	"fmt"
	"strings"

	"stem-session/src/application/events"
	"stem-session/src/application/playback"
	"stem-session/src/application/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Run drives the terminal front end until the user quits. It is a
// plain consumer of the session's command API and event stream.
func Run(sess *session.Session, eventStream <-chan events.Event) error {
	program := tea.NewProgram(newModel(sess, eventStream))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeBrowse mode = iota
	modeEnterAudioPath
	modeEnterExportDir
)

type eventMsg struct {
	event events.Event
}

type model struct {
	session     *session.Session
	eventStream <-chan events.Event

	mode  mode
	input textinput.Model
	spin  spinner.Model

	extracting bool
	statusLine string
	errorLine  string

	stems    []string
	cursor   int
	marked   map[string]bool
	playback playback.Status
}

func newModel(sess *session.Session, eventStream <-chan events.Event) model {
	input := textinput.New()
	input.CharLimit = 512
	input.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return model{
		session:     sess,
		eventStream: eventStream,
		input:       input,
		spin:        spin,
		statusLine:  "Idle",
		marked:      map[string]bool{},
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.eventStream)
}

func waitForEvent(eventStream <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-eventStream}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m.handleEvent(msg.event)

	case spinner.TickMsg:
		if !m.extracting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode == modeBrowse {
			return m.handleBrowseKey(msg)
		}
		return m.handleInputKey(msg)
	}

	return m, nil
}

func (m model) handleEvent(event events.Event) (tea.Model, tea.Cmd) {
	switch event := event.(type) {
	case events.ExtractionStarted:
		m.extracting = true
		m.errorLine = ""
		m.statusLine = fmt.Sprintf("Extracting %s", event.AudioPath)
		return m, tea.Batch(m.spin.Tick, waitForEvent(m.eventStream))

	case events.ExtractionSucceeded:
		m.extracting = false
		m.statusLine = fmt.Sprintf("Extracted %d stems", len(event.StemNames))
		m.stems = event.StemNames
		m.cursor = 0
		m.marked = map[string]bool{}

	case events.ExtractionFailed:
		m.extracting = false
		m.errorLine = event.Reason

	case events.PlaybackChanged:
		m.playback = m.session.PlaybackStatus()

	case events.ExportCompleted:
		m.statusLine = summarizeExport(event.Results)
	}

	return m, waitForEvent(m.eventStream)
}

func (m model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "o":
		m.mode = modeEnterAudioPath
		m.input.Placeholder = "path to an audio file (mp3/wav/flac)"
		m.input.SetValue("")
		m.input.Focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.stems)-1 {
			m.cursor++
		}

	case " ":
		if name, ok := m.stemUnderCursor(); ok {
			m.marked[name] = !m.marked[name]
		}

	case "enter", "p":
		if name, ok := m.stemUnderCursor(); ok {
			m.reportError(m.session.SelectStem(name))
		}

	case "t":
		m.reportError(m.session.TogglePlayPause())

	case "s":
		m.reportError(m.session.Stop())

	case "e":
		if len(m.exportNames()) > 0 {
			m.mode = modeEnterExportDir
			m.input.Placeholder = "destination directory"
			m.input.SetValue("")
			m.input.Focus()
		}
	}

	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		submittedMode := m.mode

		m.mode = modeBrowse
		m.input.Blur()

		if value == "" {
			return m, nil
		}

		if submittedMode == modeEnterAudioPath {
			m.reportError(m.session.Extract(value))
			return m, nil
		}

		m.session.Export(context.Background(), m.exportNames(), value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) reportError(err error) {
	if err != nil {
		m.errorLine = err.Error()
	} else {
		m.errorLine = ""
	}
}

func (m model) stemUnderCursor() (string, bool) {
	if len(m.stems) == 0 {
		return "", false
	}

	return m.stems[m.cursor], true
}

// exportNames is the marked set, or the stem under the cursor when
// nothing is marked - matching the original picker behavior.
func (m model) exportNames() []string {
	names := []string{}
	for _, name := range m.stems {
		if m.marked[name] {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		if name, ok := m.stemUnderCursor(); ok {
			names = append(names, name)
		}
	}

	return names
}

func (m model) View() string {
	var view strings.Builder

	view.WriteString(titleStyle.Render("Audio Stem Extractor"))
	view.WriteString("\n\n")

	if m.extracting {
		view.WriteString(m.spin.View())
		view.WriteString(" ")
	}
	view.WriteString(statusStyle.Render(m.statusLine))
	view.WriteString("\n")

	if m.errorLine != "" {
		view.WriteString(errorStyle.Render(m.errorLine))
		view.WriteString("\n")
	}

	view.WriteString("\n")
	view.WriteString(m.stemListView())
	view.WriteString("\n")

	if m.mode != modeBrowse {
		view.WriteString(m.input.View())
		view.WriteString("\n")
	}

	view.WriteString(helpStyle.Render("o: open file  enter/p: play/pause  s: stop  space: mark  e: export  q: quit"))
	view.WriteString("\n")

	return view.String()
}

func (m model) stemListView() string {
	if len(m.stems) == 0 {
		return statusStyle.Render("No stems extracted yet") + "\n"
	}

	var list strings.Builder

	for i, name := range m.stems {
		line := fmt.Sprintf("%s %s %s%s", cursorMark(i == m.cursor), selectionMark(m.marked[name]), name, m.playbackMark(name))

		if i == m.cursor {
			line = selectedStyle.Render(line)
		}

		list.WriteString(line)
		list.WriteString("\n")
	}

	return list.String()
}

func (m model) playbackMark(name string) string {
	if m.playback.StemName != name {
		return ""
	}

	switch m.playback.State {
	case playback.StatePlaying:
		return "  [playing]"
	case playback.StatePaused:
		return "  [paused]"
	default:
		return ""
	}
}

func cursorMark(underCursor bool) string {
	if underCursor {
		return ">"
	}
	return " "
}

func selectionMark(marked bool) string {
	if marked {
		return "[x]"
	}
	return "[ ]"
}

func summarizeExport(results []events.ExportResult) string {
	succeeded := 0
	failed := []string{}

	for _, result := range results {
		if result.Error == "" {
			succeeded++
		} else {
			failed = append(failed, result.StemName)
		}
	}

	if len(failed) == 0 {
		return fmt.Sprintf("Exported %d stems", succeeded)
	}

	return fmt.Sprintf("Exported %d stems, failed: %s", succeeded, strings.Join(failed, ", "))
}
