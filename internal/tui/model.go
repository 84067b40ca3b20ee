package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pacer-tui/pacer/internal/model"
	"github.com/pacer-tui/pacer/internal/playback"
	statsPkg "github.com/pacer-tui/pacer/internal/stats"
	"github.com/pacer-tui/pacer/internal/text"
)

const (
	eventBuffer      = 64
	wpmHistoryLimit  = 120
	sparklineSamples = 40
)

var (
	boldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

// progressMsg carries a playback progress event into the update loop.
type progressMsg struct {
	p model.Progress
}

// Model implements the Bubble Tea reading UI.
type Model struct {
	ctrl     *playback.Controller
	settings model.Settings
	title    string

	chunks     []model.Chunk // readable chunks
	paragraphs []model.Paragraph
	events     chan model.Progress

	dimStyle lipgloss.Style
	bar      progress.Model

	width  int
	height int

	cursor        int
	paragraphIdx  int
	playing       bool
	done          bool
	wordsRead     int
	wpm           int
	percent       float64
	comprehension int
	wpmHistory    []float64
}

// NewModel builds the reading UI around a finalized chunk sequence.
func NewModel(settings model.Settings, title string, chunks []model.Chunk) *Model {
	events := make(chan model.Progress, eventBuffer)
	m := &Model{
		settings:      settings,
		title:         title,
		chunks:        text.Readable(chunks),
		paragraphs:    text.GroupParagraphs(chunks),
		events:        events,
		dimStyle:      opacityStyle(settings.Opacity),
		bar:           progress.New(progress.WithDefaultGradient()),
		comprehension: statsPkg.ComprehensionScore(0, 0),
	}
	m.ctrl = playback.New(playback.TimerScheduler{}, func(p model.Progress) {
		select {
		case events <- p:
		default:
			// Drop rather than stall the timer when the UI falls behind.
		}
	})
	m.ctrl.Load(chunks, settings)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitEvent()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	case progressMsg:
		m.applyProgress(msg.p)
		return m, m.waitEvent()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.ctrl.Reset()
		return m, tea.Quit
	case " ":
		if m.settings.Mode != model.ModeChunk {
			return m, nil
		}
		if m.playing {
			m.ctrl.Pause()
		} else {
			m.done = false
			m.ctrl.Play()
		}
		m.refreshSnapshot()
		return m, nil
	case "r":
		m.ctrl.Reset()
		m.done = false
		m.wpmHistory = nil
		m.wordsRead = 0
		m.wpm = 0
		m.percent = 0
		m.refreshSnapshot()
		return m, nil
	case "n", "right":
		if m.settings.Mode == model.ModeParagraph {
			m.ctrl.NextParagraph()
			m.refreshSnapshot()
		}
		return m, nil
	case "p", "left":
		if m.settings.Mode == model.ModeParagraph {
			m.ctrl.PreviousParagraph()
			m.refreshSnapshot()
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.chunks) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			emptyStyle.Render("Nothing to read."))
	}

	var content string
	if m.settings.Mode == model.ModeParagraph {
		content = m.renderParagraph()
	} else {
		content = m.renderChunk()
	}
	if m.done {
		content += "\n\n" + doneStyle.Render("End of document · r to restart")
	}

	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	help := m.renderHelp()
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, help)
	return body + "\n" + footerLine + "\n" + helpLine
}

func (m *Model) renderChunk() string {
	cursor := m.cursor
	if cursor >= len(m.chunks) {
		cursor = len(m.chunks) - 1
	}
	cells := buildStyledCells(m.chunks[cursor].Tokens, boldStyle, m.dimStyle)
	return wrapStyledCells(cells, m.contentWidth())
}

func (m *Model) renderParagraph() string {
	idx := m.paragraphIdx
	if idx >= len(m.paragraphs) {
		idx = len(m.paragraphs) - 1
	}
	if idx < 0 {
		return ""
	}
	var cells []styledCell
	for ci, c := range m.paragraphs[idx].Chunks {
		if ci > 0 {
			cells = append(cells, styledCell{s: " ", width: 1, isSpace: true})
		}
		cells = append(cells, buildStyledCells(c.Tokens, boldStyle, m.dimStyle)...)
	}
	return wrapStyledCells(cells, m.contentWidth())
}

// contentWidth scales the column to the configured saccade width: a wider
// gaze setting yields longer lines.
func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	fraction := 0.35 + 0.07*float64(m.settings.Saccade)
	if fraction > 0.8 {
		fraction = 0.8
	}
	w := int(float64(m.width) * fraction)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderFooter() string {
	segments := []string{m.bar.ViewAs(m.percent / 100)}
	if m.settings.Mode == model.ModeParagraph {
		segments = append(segments,
			fmt.Sprintf("Paragraph %d/%d", m.paragraphIdx+1, len(m.paragraphs)),
			fmt.Sprintf("%d words", m.wordsRead),
			fmt.Sprintf("Comprehension %d%%", m.comprehension),
		)
	} else {
		segments = append(segments,
			fmt.Sprintf("%d WPM", m.wpm),
			fmt.Sprintf("%d words", m.wordsRead),
			fmt.Sprintf("Comprehension %d%%", m.comprehension),
		)
		if spark := m.renderSparkline(); spark != "" {
			segments = append(segments, spark)
		}
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderHelp() string {
	var help string
	if m.settings.Mode == model.ModeParagraph {
		help = "n next · p previous · r reset · q quit"
	} else {
		help = "space play/pause · r reset · q quit"
	}
	if m.title != "" {
		help = titleStyle.Render(m.title) + footerStyle.Render("  ·  "+help)
		return help
	}
	return footerStyle.Render(help)
}

func (m *Model) renderSparkline() string {
	if len(m.wpmHistory) < 2 {
		return ""
	}
	samples := m.wpmHistory
	if len(samples) > sparklineSamples {
		samples = samples[len(samples)-sparklineSamples:]
	}
	return statsPkg.Sparkline(statsPkg.MovingAverage(samples, 5))
}

func (m *Model) applyProgress(p model.Progress) {
	m.wordsRead = p.WordsRead
	m.percent = p.Percent
	if m.settings.Mode == model.ModeParagraph {
		m.paragraphIdx = p.Cursor
	} else {
		m.cursor = p.Cursor
		m.wpm = p.WPM
		if p.WPM > 0 {
			m.wpmHistory = append(m.wpmHistory, float64(p.WPM))
			if len(m.wpmHistory) > wpmHistoryLimit {
				m.wpmHistory = m.wpmHistory[1:]
			}
		}
	}
	if p.Done {
		m.done = true
	}
	m.refreshSnapshot()
}

func (m *Model) refreshSnapshot() {
	state, rs := m.ctrl.Snapshot()
	m.playing = state.Playing
	m.cursor = state.Cursor
	m.paragraphIdx = state.Paragraph
	m.comprehension = statsPkg.ComprehensionScore(rs.PauseCount, rs.BacktrackCount)
	if rs.WordsRead == 0 && rs.WPM == 0 {
		m.wordsRead = 0
		m.wpm = 0
	}
}

func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return progressMsg{p: <-m.events}
	}
}

// opacityStyle maps the de-emphasis opacity onto a grayscale foreground.
func opacityStyle(opacity float64) lipgloss.Style {
	low, high := 0x55, 0xF0
	v := int(math.Round(float64(low) + opacity*float64(high-low)))
	if v > high {
		v = high
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", v, v, v)))
}

func barWidth(total int) int {
	w := total / 4
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}
