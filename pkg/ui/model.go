package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/hotel-chat/pkg/session"
	"github.com/go-go-golems/hotel-chat/pkg/transcript"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	Title         = "Hotel Assistant"
	EmptyHint     = "Ask me about hotels, travel plans, or room availability."
	ExamplePrompt = `Try: "Find hotels in Paris for 2 adults from June 10 to June 15"`

	reconnectingNotice = "Trying to reconnect to server..."
	disconnectedNotice = "Disconnected from server"
)

// ChatSession is what the UI needs from a session.
type ChatSession interface {
	Send(text string) error
	Status() session.Status
	Transcript() *transcript.Transcript
	Subscribe(buffer int) (<-chan session.Event, func())
}

type sessionClosedMsg struct{}

type sentMsg struct {
	err error
}

func waitForEvent(ch <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return sessionClosedMsg{}
		}
		return e
	}
}

func sendCmd(s ChatSession, text string) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{err: s.Send(text)}
	}
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	session     ChatSession
	events      <-chan session.Event
	unsubscribe func()
	renderer    *Renderer

	viewport viewport.Model
	input    textinput.Model
	spinner  bspinner.Model

	status  session.Status
	records []transcript.Record

	// index into hotelRecords(), -1 when nothing is focused
	focus  int
	notice string

	copyToClipboard func(string) error

	width  int
	height int
	logger zerolog.Logger
}

func NewModel(s ChatSession, r *Renderer) Model {
	events, unsubscribe := s.Subscribe(256)

	ti := textinput.New()
	ti.Placeholder = "Ask about hotels..."
	ti.Prompt = "› "
	ti.CharLimit = 2000

	sp := bspinner.New()
	sp.Spinner = bspinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	m := Model{
		session:         s,
		events:          events,
		unsubscribe:     unsubscribe,
		renderer:        r,
		viewport:        viewport.New(80, 6),
		input:           ti,
		spinner:         sp,
		focus:           -1,
		copyToClipboard: clipboard.WriteAll,
		logger:          log.With().Str("component", "tui").Logger(),
	}
	m.status = s.Status()
	m.records = s.Transcript().Records()
	m.syncInput()
	m.refresh()
	return m
}

// Close drops the model's subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch ev := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = ev.Width, ev.Height
		m.viewport.Width = ev.Width
		m.viewport.Height = max(ev.Height-lipgloss.Height(m.headerView())-lipgloss.Height(m.footerView()), 1)
		m.input.Width = max(ev.Width-6, 10)
		m.renderer.SetWidth(ev.Width)
		m.refresh()
		return m, nil

	case session.StatusChanged:
		m.status = ev.New
		m.syncInput()
		return m, waitForEvent(m.events)

	case session.RecordAppended:
		m.records = m.session.Transcript().Records()
		m.status = m.session.Status()
		m.syncInput()
		m.refresh()
		m.viewport.GotoBottom()
		return m, waitForEvent(m.events)

	case session.TransportError:
		m.logger.Debug().Err(ev.Err).Msg("transport error")
		return m, waitForEvent(m.events)

	case sessionClosedMsg:
		return m, tea.Quit

	case sentMsg:
		if ev.err != nil && !errors.Is(ev.err, session.ErrNotConnected) && !errors.Is(ev.err, session.ErrEmptyMessage) {
			m.notice = "Send failed: " + ev.err.Error()
		}
		return m, nil

	case bspinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(ev)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(ev)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || !m.status.CanSend() {
			return m, nil
		}
		m.input.Reset()
		m.notice = ""
		return m, sendCmd(m.session, text)

	case "tab":
		ids := m.hotelRecords()
		if len(ids) == 0 {
			m.focus = -1
			return m, nil
		}
		m.focus = (m.focus + 1) % len(ids)
		m.refresh()
		return m, nil

	case "ctrl+e":
		if id := m.focusedID(); id != "" {
			m.renderer.Toggle(id)
			m.refresh()
		}
		return m, nil

	case "ctrl+y":
		last, ok := lastAssistant(m.records)
		if !ok {
			m.notice = "Nothing to copy yet"
			return m, nil
		}
		if err := m.copyToClipboard(last.Content); err != nil {
			m.logger.Warn().Err(err).Msg("could not copy to clipboard")
			m.notice = "Clipboard unavailable"
			return m, nil
		}
		m.notice = "Copied last reply to clipboard"
		return m, nil

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(k)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m Model) View() string {
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

func (m Model) headerView() string {
	pill := disconnectPill
	switch {
	case m.status.Connected():
		pill = connectedPill
	case m.status.Reconnecting:
		pill = reconnectPill
	}
	return titleStyle.Render(Title) + "  " + pill.Render(m.status.Label())
}

func (m Model) footerView() string {
	var sb strings.Builder
	if m.status.AwaitingReply {
		sb.WriteString(m.spinner.View() + " ")
	}
	sb.WriteString(m.input.View())
	switch {
	case !m.status.Connected() && m.status.Reconnecting:
		sb.WriteString("\n" + noticeStyle.Render(reconnectingNotice))
	case !m.status.Connected():
		sb.WriteString("\n" + noticeStyle.Render(disconnectedNotice))
	case m.notice != "":
		sb.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	return sb.String()
}

func (m *Model) syncInput() {
	if m.status.CanSend() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) refresh() {
	if len(m.records) == 0 {
		m.viewport.SetContent(hintStyle.Render(EmptyHint) + "\n" + hintStyle.Render(ExamplePrompt))
		return
	}
	m.viewport.SetContent(m.renderer.RenderTranscript(m.records, m.focusedID()))
}

// hotelRecords lists the IDs of records that render a hotel list.
func (m Model) hotelRecords() []string {
	var ids []string
	for _, rec := range m.records {
		if HasHotelPayload(rec, m.renderer.Marker()) {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// focusedID falls back to the most recent hotel result when nothing is
// focused.
func (m Model) focusedID() string {
	ids := m.hotelRecords()
	if len(ids) == 0 {
		return ""
	}
	if m.focus < 0 || m.focus >= len(ids) {
		return ids[len(ids)-1]
	}
	return ids[m.focus]
}

func lastAssistant(recs []transcript.Record) (transcript.Record, bool) {
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Role == transcript.RoleAssistant {
			return recs[i], true
		}
	}
	return transcript.Record{}, false
}
