package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/great-transit/pkg/commands"
	"github.com/jwebster45206/great-transit/pkg/engine"
	"github.com/jwebster45206/great-transit/pkg/ship"
	"github.com/jwebster45206/great-transit/pkg/storage"
)

const (
	Title           = "GREAT TRANSIT"
	PlaceHolderText = "Type a command (help lists them)..."
	storeTimeout    = 5 * time.Second
	maxEntries      = 500
)

type entryKind int

const (
	entryInput entryKind = iota
	entryOutput
	entryFailure
	entryAlert
	entryNotice
)

type entry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	game           *Game
	logViewport    viewport.Model
	statusViewport viewport.Model
	textarea       textarea.Model
	ready          bool
	width          int
	height         int

	entries    []entry
	lastOutput string
	lastAlerts string
	history    []string
	historyPos int

	// Quit confirmation state
	showQuitModal bool
}

// storeMsg reports the outcome of a save or load.
type storeMsg struct {
	notice string
	err    error
}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	statusPanelStyle = lipgloss.NewStyle().
				PaddingTop(1).
				PaddingBottom(0).
				PaddingLeft(0).
				PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(game *Game) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	statusVp := viewport.New(20, 20)

	m := ConsoleUI{
		game:           game,
		textarea:       ta,
		logViewport:    logVp,
		statusViewport: statusVp,
	}
	m.entries = append(m.entries, entry{entryNotice, welcomeText(game.Session().View())})
	return m
}

func welcomeText(v engine.View) string {
	return fmt.Sprintf("You wake in the %s of the colony ship. You are %s, %s.\n"+
		"The ship is failing around you and your subjective time is the only thing you can spend to save it.\n"+
		"Type 'help' for commands, '/help' for console keys.",
		v.LocationName, v.Pioneer.Designation(), v.Pioneer.Rank.Title)
}

func waitForTick(ch <-chan tickMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForTick(m.game.Ticks()))
}

func (m *ConsoleUI) layout() {
	logWidth := int(float64(m.width)*0.7) - 4
	statusWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 6
	m.statusViewport.Width = statusWidth - 2
	m.statusViewport.Height = m.height - 3
	m.textarea.SetWidth(logWidth - 4)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeLog()
		m.writeStatus()

	case tickMsg:
		if msg.sessionID == m.game.Session().ID() {
			m.noteAlerts(msg.alerts)
			m.writeStatus()
		}
		return m, waitForTick(m.game.Ticks())

	case storeMsg:
		if msg.err != nil {
			m.push(entryFailure, msg.err.Error())
		} else {
			m.push(entryNotice, msg.notice)
		}
		m.lastAlerts = ""
		m.writeLog()
		m.writeStatus()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyLastOutput()
			m.writeLog()
			return m, nil
		case tea.KeyUp, tea.KeyDown:
			m.recall(msg.Type == tea.KeyUp)
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			m.history = append(m.history, input)
			m.historyPos = len(m.history)

			if strings.HasPrefix(input, "/") {
				return m.handleSlash(input)
			}
			m.submit(input)
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *ConsoleUI) submit(input string) {
	m.push(entryInput, input)
	res := m.game.Submit(input)
	if res.Success {
		m.push(entryOutput, res.Message)
	} else {
		m.push(entryFailure, res.Message)
	}
	m.lastOutput = res.Message
	m.writeLog()
	m.writeStatus()
}

func (m *ConsoleUI) push(kind entryKind, text string) {
	m.entries = append(m.entries, entry{kind, text})
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
}

// noteAlerts logs the alert set only when it changes.
func (m *ConsoleUI) noteAlerts(alerts []string) {
	joined := strings.Join(alerts, "\n")
	if joined == m.lastAlerts {
		return
	}
	m.lastAlerts = joined
	if joined == "" {
		return
	}
	m.push(entryAlert, joined)
	m.writeLog()
}

func (m *ConsoleUI) recall(older bool) {
	if len(m.history) == 0 {
		return
	}
	if older && m.historyPos > 0 {
		m.historyPos--
	} else if !older && m.historyPos < len(m.history) {
		m.historyPos++
	}
	if m.historyPos == len(m.history) {
		m.textarea.Reset()
		return
	}
	m.textarea.SetValue(m.history[m.historyPos])
}

func (m *ConsoleUI) copyLastOutput() {
	if m.lastOutput == "" {
		m.push(entryNotice, "Nothing to copy yet.")
		return
	}
	if err := clipboard.WriteAll(m.lastOutput); err != nil {
		m.push(entryFailure, "Clipboard unavailable: "+err.Error())
		return
	}
	m.push(entryNotice, "Last output copied to clipboard.")
}

const consoleHelp = `Console keys:
• Enter - run a command
• Up/Down - command history
• Ctrl+Y or /copy - copy the last output
• /save - save this session
• /load [id] - load a save (latest if no id)
• /saves - list saves
• /new - start a new session
• /clear - clear the log
• /quit or Ctrl+C - quit`

func (m ConsoleUI) handleSlash(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(input))
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/help":
		m.push(entryNotice, consoleHelp)
	case "/copy":
		m.copyLastOutput()
	case "/clear":
		m.entries = nil
	case "/new":
		m.game.Reset()
		m.lastAlerts = ""
		m.push(entryNotice, welcomeText(m.game.Session().View()))
	case "/save":
		return m, m.save()
	case "/load":
		return m, m.load(arg)
	case "/saves":
		return m, m.listSaves()
	case "/quit", "/exit":
		return m, tea.Quit
	default:
		m.push(entryFailure, fmt.Sprintf("Unknown console command '%s'. Type /help.", fields[0]))
	}
	m.writeLog()
	m.writeStatus()
	return m, nil
}

func (m ConsoleUI) save() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		sum, err := m.game.Save(ctx)
		if err != nil {
			return storeMsg{err: err}
		}
		return storeMsg{notice: "Saved " + describeSave(sum)}
	}
}

func (m ConsoleUI) load(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		sum, err := m.game.Load(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return storeMsg{err: errors.New("no matching save found")}
		}
		if err != nil {
			return storeMsg{err: err}
		}
		return storeMsg{notice: "Loaded " + describeSave(sum)}
	}
}

func (m ConsoleUI) listSaves() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		list, err := m.game.List(ctx)
		if err != nil {
			return storeMsg{err: err}
		}
		if len(list) == 0 {
			return storeMsg{notice: "No saves yet."}
		}
		var b strings.Builder
		b.WriteString("Saves:")
		for _, s := range list {
			b.WriteString("\n• " + describeSave(s))
		}
		return storeMsg{notice: b.String()}
	}
}

func describeSave(s storage.Summary) string {
	return fmt.Sprintf("%s - %s, tick %d (%s)",
		s.ID.String()[:8], s.Location, s.GameTime, s.SavedAt.Local().Format("Jan 2 15:04"))
}

// writeLog rebuilds the log for the current viewport width
func (m *ConsoleUI) writeLog() {
	width := m.logViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range m.entries {
		switch e.kind {
		case entryInput:
			content.WriteString(userStyle.Render("> ") + wordwrap.String(e.text, width-2))
		case entryOutput:
			content.WriteString(outputStyle.Render(wordwrap.String(e.text, width)))
		case entryFailure:
			content.WriteString(errorStyle.Render(wordwrap.String(e.text, width)))
		case entryAlert:
			content.WriteString(warningStyle.Render(wordwrap.String(e.text, width)))
		default:
			content.WriteString(wordwrap.String(e.text, width))
		}
		content.WriteString("\n\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeStatus() {
	m.statusViewport.SetContent(renderStatus(m.game.Session().View(), m.game.Session().ID().String()))
}

func levelStyle(v float64) lipgloss.Style {
	switch {
	case v < ship.CriticalThreshold:
		return errorStyle
	case v < ship.DangerThreshold:
		return warningStyle
	default:
		return outputStyle
	}
}

func renderStatus(v engine.View, sessionID string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SHIP") + "\n\n")
	for _, sys := range ship.Bounded {
		level, _ := v.Systems.Get(sys)
		b.WriteString(fmt.Sprintf("%-7s %5.1f%%\n", ship.Label(sys), level))
		b.WriteString(levelStyle(level).Render(ship.Gauge(level)) + "\n")
	}
	b.WriteString(fmt.Sprintf("SCRAP   %d\n", int(v.Systems.Scrap)))
	b.WriteString(fmt.Sprintf("HEALTH  %.1f%% %s\n\n", v.Health, commands.Rating(v.Health)))

	b.WriteString(titleStyle.Render("TIME") + "\n\n")
	b.WriteString(fmt.Sprintf("Scale:  %.1fx\n", v.Time.TimeScale))
	b.WriteString(fmt.Sprintf("Reserve: %.1f/%.0f\n", v.Time.SubjectiveTime, v.Time.MaxSubjectiveTime))
	b.WriteString(fmt.Sprintf("Tick:   %d\n\n", v.GameTime))

	b.WriteString(titleStyle.Render("PIONEER") + "\n\n")
	b.WriteString(v.Pioneer.Designation() + "\n")
	b.WriteString(v.Pioneer.Rank.Title + "\n")
	b.WriteString("At: " + v.LocationName + "\n\n")

	if v.PendingChoice != nil {
		b.WriteString(warningStyle.Render("DECISION PENDING") + "\n")
		b.WriteString("Answer A or B.\n\n")
	}

	b.WriteString(promptStyle.Render("Session "+sessionID[:8]) + "\n")
	b.WriteString(promptStyle.Render("/help for console keys") + "\n")
	return b.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tickMsg:
		return m, waitForTick(m.game.Ticks())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			m.textarea.Focus()
			return m, textarea.Blink
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Abandon Ship?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost. Use /save first to keep it.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.7) - 4
	statusWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	statusPanel := statusPanelStyle.Width(statusWidth).Height(m.height - 2).Render(
		m.statusViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, statusPanel)
}
