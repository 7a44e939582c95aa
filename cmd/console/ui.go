package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

const placeholderText = "path <from-id> <to-id> [method] | validate <from> -> <to> [character] [chapter] | where <character> | map | copy | help"

// ConsoleUI is the BubbleTea model for the author console: a scrollback
// viewport over a one-line command box.
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	viewport viewport.Model
	textarea textarea.Model
	lines    []string
	last     string // last result, for the copy command
	ready    bool
	width    int
	height   int
}

type commandResultMsg struct {
	text string
	err  error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) *ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	ui := &ConsoleUI{
		config:   cfg,
		client:   client,
		textarea: ta,
	}
	ui.appendLine(titleStyle.Render("Story Atlas console") + hintStyle.Render("  project: "+cfg.Project))
	ui.appendLine(hintStyle.Render("Type 'help' for commands. Ctrl+C quits."))
	return ui
}

func (ui *ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (ui *ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)
	ui.textarea, taCmd = ui.textarea.Update(msg)
	ui.viewport, vpCmd = ui.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, msg.Height-3)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = msg.Height - 3
		}
		ui.textarea.SetWidth(msg.Width - 2)
		ui.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyEnter:
			command := strings.TrimSpace(ui.textarea.Value())
			ui.textarea.Reset()
			if command == "" {
				return ui, taCmd
			}
			ui.appendLine(commandStyle.Render("> " + command))
			if command == "quit" || command == "exit" {
				return ui, tea.Quit
			}
			return ui, tea.Batch(taCmd, vpCmd, ui.runCommand(command))
		}

	case commandResultMsg:
		if msg.err != nil {
			ui.appendLine(errorStyle.Render(msg.err.Error()))
		} else {
			ui.last = msg.text
			ui.appendLine(resultStyle.Render(msg.text))
		}
	}

	return ui, tea.Batch(taCmd, vpCmd)
}

func (ui *ConsoleUI) View() string {
	if !ui.ready {
		return "Loading..."
	}
	return ui.viewport.View() + "\n" + ui.textarea.View()
}

func (ui *ConsoleUI) appendLine(line string) {
	width := ui.width
	if width <= 0 {
		width = 80
	}
	ui.lines = append(ui.lines, wordwrap.String(line, width-2))
	ui.refresh()
}

func (ui *ConsoleUI) refresh() {
	if !ui.ready {
		return
	}
	ui.viewport.SetContent(strings.Join(ui.lines, "\n"))
	ui.viewport.GotoBottom()
}

// runCommand parses and executes one console command against the API.
func (ui *ConsoleUI) runCommand(command string) tea.Cmd {
	return func() tea.Msg {
		fields := strings.Fields(command)
		switch fields[0] {
		case "help":
			return commandResultMsg{text: helpText}
		case "copy":
			if ui.last == "" {
				return commandResultMsg{err: fmt.Errorf("nothing to copy yet")}
			}
			if err := clipboard.WriteAll(ui.last); err != nil {
				return commandResultMsg{err: fmt.Errorf("clipboard write failed: %w", err)}
			}
			return commandResultMsg{text: "Copied last result to clipboard."}
		case "map":
			return ui.cmdMap()
		case "path":
			return ui.cmdPath(fields[1:])
		case "validate":
			return ui.cmdValidate(command)
		case "where":
			return ui.cmdWhere(fields[1:])
		default:
			return commandResultMsg{err: fmt.Errorf("unknown command %q; try 'help'", fields[0])}
		}
	}
}

const helpText = `Commands:
  map                                     summary of the project's geography
  path <from-id> <to-id> [method]         best route between two location ids
  validate <from> -> <to> [char] [ch]     judge a claimed move between two names
  where <character-id>                    a character's current location and history
  copy                                    copy the last result to the clipboard
  quit                                    exit`

func (ui *ConsoleUI) cmdMap() tea.Msg {
	system, err := getWorldMap(ui.client, ui.config.APIBaseURL, ui.config.Project)
	if err != nil {
		return commandResultMsg{err: err}
	}
	if system == nil {
		return commandResultMsg{text: "No world map generated for this project yet."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "World locations (%d):\n", len(system.WorldMap.Locations))
	for _, loc := range system.WorldMap.Locations {
		fmt.Fprintf(&b, "  %-28s %-12s (%.0f, %.0f)  %s\n", loc.ID, loc.Type, loc.Coordinates.X, loc.Coordinates.Y, loc.Name)
	}
	fmt.Fprintf(&b, "Regions: %d   Connections: %d   Travel times: %d", len(system.Regions), len(system.Connections), len(system.TravelTimes))
	return commandResultMsg{text: b.String()}
}

func (ui *ConsoleUI) cmdPath(args []string) tea.Msg {
	if len(args) < 2 {
		return commandResultMsg{err: fmt.Errorf("usage: path <from-id> <to-id> [method]")}
	}
	method := "walking"
	if len(args) > 2 {
		method = args[2]
	}

	result, err := findPath(ui.client, ui.config.APIBaseURL, pathRequest{
		Project: ui.config.Project,
		FromID:  args[0],
		ToID:    args[1],
		Method:  method,
	})
	if err != nil {
		return commandResultMsg{err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Route: %s\n", strings.Join(result.Path, " -> "))
	fmt.Fprintf(&b, "Total time (%s): %s", method, worldmap.DescribeDuration(result.TotalTime))
	if result.RequiresOffRoad {
		b.WriteString("\nNote: part of this route is off-road; the way is not fully established.")
	}
	return commandResultMsg{text: b.String()}
}

// cmdValidate parses `validate <from> -> <to> [character] [chapter]`. The
// arrow separator keeps multi-word place names intact.
func (ui *ConsoleUI) cmdValidate(command string) tea.Msg {
	rest := strings.TrimSpace(strings.TrimPrefix(command, "validate"))
	parts := strings.SplitN(rest, "->", 2)
	if len(parts) != 2 {
		return commandResultMsg{err: fmt.Errorf("usage: validate <from> -> <to> [character] [chapter]")}
	}

	from := strings.TrimSpace(parts[0])
	toFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(toFields) == 0 {
		return commandResultMsg{err: fmt.Errorf("usage: validate <from> -> <to> [character] [chapter]")}
	}

	characterName := "the character"
	chapter := 1
	if len(toFields) >= 2 {
		if n, err := strconv.Atoi(toFields[len(toFields)-1]); err == nil {
			chapter = n
			toFields = toFields[:len(toFields)-1]
		}
	}
	if len(toFields) >= 2 {
		characterName = toFields[len(toFields)-1]
		toFields = toFields[:len(toFields)-1]
	}
	to := strings.Join(toFields, " ")

	result, err := validateTravel(ui.client, ui.config.APIBaseURL, validateRequest{
		Project:       ui.config.Project,
		FromLocation:  from,
		ToLocation:    to,
		CharacterName: characterName,
		Chapter:       chapter,
	})
	if err != nil {
		return commandResultMsg{err: err}
	}

	verdict := "OK"
	if !result.IsValid {
		verdict = "REJECTED"
	}
	return commandResultMsg{text: fmt.Sprintf("[%s/%s] %s", verdict, result.Severity, result.Message)}
}

func (ui *ConsoleUI) cmdWhere(args []string) tea.Msg {
	if len(args) < 1 {
		return commandResultMsg{err: fmt.Errorf("usage: where <character-id>")}
	}

	record, err := getCharacterLocation(ui.client, ui.config.APIBaseURL, ui.config.Project, args[0])
	if err != nil {
		return commandResultMsg{err: err}
	}
	if record == nil {
		return commandResultMsg{text: "No recorded location for that character."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current: %s (%s scale)\nHistory:\n", record.CurrentLocation.LocationID, record.CurrentLocation.MapLevel)
	for _, entry := range record.LocationHistory {
		departed := "-"
		if entry.DepartureChapter != nil {
			departed = strconv.Itoa(*entry.DepartureChapter)
		}
		fmt.Fprintf(&b, "  %-28s arrived ch.%d departed ch.%s\n", entry.LocationID, entry.ArrivalChapter, departed)
	}
	return commandResultMsg{text: strings.TrimRight(b.String(), "\n")}
}
