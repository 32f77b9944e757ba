package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tapolight/internal/device"
	"tapolight/internal/lighting"
)

// Message types for async operations
type stateLoadedMsg struct {
	info *device.DeviceInfo
	err  error
}

type applyCompleteMsg struct {
	err error
}

// controlField identifies the focused row on the control screen
type controlField int

const (
	fieldPower controlField = iota
	fieldBrightness
	fieldTemperature
	fieldColor
	fieldCount
)

// controlKeyMap defines key bindings for the control screen
type controlKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k controlKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k controlKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Refresh, k.Back, k.Quit},
	}
}

// editKeyMap defines key bindings while an inline editor is expanded
type editKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel},
	}
}

// ControlModel represents the bulb control screen state
type ControlModel struct {
	// Device connection
	Client *device.Client

	// Bulb state
	Info      *device.DeviceInfo
	Loading   bool
	Applying  bool
	Err       error
	StatusMsg string

	// Navigation
	Cursor        controlField
	BackRequested bool

	// Inline editing state
	EditingBrightness  bool
	EditingTemperature bool
	EditingColor       bool
	BrightnessInput    textinput.Model
	TemperatureInput   textinput.Model
	ColorCursor        int
	Colors             []lighting.Color

	// UI state
	Width    int
	Height   int
	Spinner  spinner.Model
	Help     help.Model
	Keys     controlKeyMap
	EditKeys editKeyMap
}

// NewControlModel creates a control screen bound to a device client
func NewControlModel(client *device.Client) ControlModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	brightnessInput := textinput.New()
	brightnessInput.Placeholder = "1-100"
	brightnessInput.CharLimit = 3
	brightnessInput.Width = 10

	temperatureInput := textinput.New()
	temperatureInput.Placeholder = "2500-6500"
	temperatureInput.CharLimit = 4
	temperatureInput.Width = 10

	keys := controlKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit/apply"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	editKeys := editKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return ControlModel{
		Client:           client,
		Loading:          true,
		BrightnessInput:  brightnessInput,
		TemperatureInput: temperatureInput,
		Colors:           lighting.AllColors(),
		Spinner:          s,
		Help:             help.New(),
		Keys:             keys,
		EditKeys:         editKeys,
	}
}

// Init starts loading the bulb state
func (m ControlModel) Init() tea.Cmd {
	return tea.Batch(loadState(m.Client), m.Spinner.Tick)
}

// IsBackRequested reports whether the user asked to return to discovery
func (m ControlModel) IsBackRequested() bool {
	return m.BackRequested
}

// Update handles messages and updates the model
func (m ControlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Loading || m.Applying {
			// Only quit is honored while an operation is in flight
			if msg.String() == "ctrl+c" || msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.EditingBrightness || m.EditingTemperature {
			return m.updateInputMode(msg)
		}
		if m.EditingColor {
			return m.updateColorMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case stateLoadedMsg:
		m.Loading = false
		m.Info = msg.info
		m.Err = msg.err

	case applyCompleteMsg:
		m.Applying = false
		if msg.err != nil {
			m.Err = msg.err
			m.StatusMsg = ""
			return m, nil
		}
		// Refresh the bulb state after a successful apply
		m.Err = nil
		m.StatusMsg = "Change applied"
		m.Loading = true
		return m, tea.Batch(loadState(m.Client), m.Spinner.Tick)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input while navigating fields
func (m ControlModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The applied-change flash lasts until the next key press
	m.StatusMsg = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		m.BackRequested = true
		return m, nil

	case "r":
		m.Err = nil
		m.Loading = true
		return m, tea.Batch(loadState(m.Client), m.Spinner.Tick)

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}

	case "down", "j":
		if m.Cursor < fieldCount-1 {
			m.Cursor++
		}

	case "enter", " ":
		return m.activateField()
	}

	return m, nil
}

// activateField expands an editor or applies a toggle for the focused field
func (m ControlModel) activateField() (tea.Model, tea.Cmd) {
	if m.Info == nil {
		return m, nil
	}

	switch m.Cursor {
	case fieldPower:
		turnOn := !m.Info.DeviceOn
		m.Applying = true
		return m, tea.Batch(applyChange(m.Client, func(p *lighting.ColorLightParams) {
			if turnOn {
				p.TurnOn()
			} else {
				p.TurnOff()
			}
		}), m.Spinner.Tick)

	case fieldBrightness:
		m.EditingBrightness = true
		m.BrightnessInput.SetValue(strconv.Itoa(int(m.Info.Brightness)))
		m.BrightnessInput.Focus()

	case fieldTemperature:
		m.EditingTemperature = true
		if m.Info.ColorTemperatureActive() {
			m.TemperatureInput.SetValue(strconv.Itoa(int(m.Info.ColorTemp)))
		} else {
			m.TemperatureInput.SetValue("")
		}
		m.TemperatureInput.Focus()

	case fieldColor:
		m.EditingColor = true
		m.ColorCursor = 0
	}

	return m, nil
}

// updateInputMode handles keyboard input while a text editor is expanded
func (m ControlModel) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.EditingBrightness = false
		m.EditingTemperature = false
		m.BrightnessInput.Blur()
		m.TemperatureInput.Blur()
		return m, nil

	case "enter":
		if m.EditingBrightness {
			value, err := strconv.ParseUint(m.BrightnessInput.Value(), 10, 8)
			if err != nil {
				m.Err = fmt.Errorf("brightness must be a number from 1 to 100")
				return m, nil
			}
			m.EditingBrightness = false
			m.BrightnessInput.Blur()
			m.Applying = true
			brightness := uint8(value)
			return m, tea.Batch(applyChange(m.Client, func(p *lighting.ColorLightParams) {
				p.SetBrightness(brightness)
			}), m.Spinner.Tick)
		}

		value, err := strconv.ParseUint(m.TemperatureInput.Value(), 10, 16)
		if err != nil {
			m.Err = fmt.Errorf("temperature must be a number from 2500 to 6500")
			return m, nil
		}
		m.EditingTemperature = false
		m.TemperatureInput.Blur()
		m.Applying = true
		temperature := uint16(value)
		return m, tea.Batch(applyChange(m.Client, func(p *lighting.ColorLightParams) {
			p.SetColorTemperature(temperature)
		}), m.Spinner.Tick)
	}

	if m.EditingBrightness {
		m.BrightnessInput, cmd = m.BrightnessInput.Update(msg)
	} else {
		m.TemperatureInput, cmd = m.TemperatureInput.Update(msg)
	}
	return m, cmd
}

// updateColorMode handles keyboard input while the color picker is expanded
func (m ControlModel) updateColorMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.EditingColor = false
		return m, nil

	case "up", "k":
		if m.ColorCursor > 0 {
			m.ColorCursor--
		}

	case "down", "j":
		if m.ColorCursor < len(m.Colors)-1 {
			m.ColorCursor++
		}

	case "enter", " ":
		color := m.Colors[m.ColorCursor]
		m.EditingColor = false
		m.Applying = true
		return m, tea.Batch(applyChange(m.Client, func(p *lighting.ColorLightParams) {
			p.SetColor(color)
		}), m.Spinner.Tick)
	}

	return m, nil
}

// View renders the control screen
func (m ControlModel) View() string {
	var content string
	switch {
	case m.Loading:
		content = fmt.Sprintf("\n  %s Reading bulb state...\n", m.Spinner.View())
	case m.Applying:
		content = fmt.Sprintf("\n  %s Applying change...\n", m.Spinner.View())
	default:
		content = m.renderDashboard()
	}

	var helpText string
	if m.EditingBrightness || m.EditingTemperature || m.EditingColor {
		helpText = m.Help.View(m.EditKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderDashboard renders the bulb state and control fields
func (m ControlModel) renderDashboard() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(RenderError(m.Err.Error()))
		b.WriteString("\n\n")
	}

	if m.StatusMsg != "" {
		b.WriteString(RenderSuccess(m.StatusMsg))
		b.WriteString("\n\n")
	}

	if m.Info == nil {
		b.WriteString(HelpStyle.Render("  No bulb state available. Press 'r' to retry."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(InfoBoxStyle.Render(m.Info.Summary()))
	b.WriteString("\n\n")

	b.WriteString(m.renderField(fieldPower, "Power", m.powerValue()))
	b.WriteString(m.renderField(fieldBrightness, "Brightness", fmt.Sprintf("%d%%", m.Info.Brightness)))
	b.WriteString(m.renderField(fieldTemperature, "White temperature", m.temperatureValue()))
	b.WriteString(m.renderField(fieldColor, "Preset color", m.colorValue()))

	if m.EditingBrightness {
		b.WriteString("\n  New brightness (1-100): " + m.BrightnessInput.View() + "\n")
	}
	if m.EditingTemperature {
		b.WriteString("\n  New temperature (2500-6500 K): " + m.TemperatureInput.View() + "\n")
	}
	if m.EditingColor {
		b.WriteString("\n")
		b.WriteString(m.renderColorPicker())
	}

	return b.String()
}

func (m ControlModel) renderField(field controlField, label, value string) string {
	line := fmt.Sprintf("%-20s %s", label+":", value)
	return RenderMenuItem(line, m.Cursor == field && !m.editing()) + "\n"
}

func (m ControlModel) editing() bool {
	return m.EditingBrightness || m.EditingTemperature || m.EditingColor
}

func (m ControlModel) powerValue() string {
	if m.Info.DeviceOn {
		style := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
		return style.Render("on") + "  (enter to turn off)"
	}
	style := lipgloss.NewStyle().Foreground(SubtleColor)
	return style.Render("off") + " (enter to turn on)"
}

func (m ControlModel) temperatureValue() string {
	if m.Info.ColorTemperatureActive() {
		return fmt.Sprintf("%d K", m.Info.ColorTemp)
	}
	return "inactive (color mode)"
}

func (m ControlModel) colorValue() string {
	if m.Info.ColorTemperatureActive() {
		return "white mode"
	}
	return fmt.Sprintf("hue %d, saturation %d%%", m.Info.Hue, m.Info.Saturation)
}

// renderColorPicker renders the scrollable preset color list
func (m ControlModel) renderColorPicker() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("  Select a preset color"))
	b.WriteString("\n")

	// Show a window of colors around the cursor
	const window = 9
	start := m.ColorCursor - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.Colors) {
		end = len(m.Colors)
		start = max(0, end-window)
	}

	for i := start; i < end; i++ {
		b.WriteString(RenderMenuItem(string(m.Colors[i]), i == m.ColorCursor))
		b.WriteString("\n")
	}

	return b.String()
}

// loadState fetches the current bulb state
func loadState(client *device.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		info, err := client.GetDeviceInfo(ctx)
		return stateLoadedMsg{info: info, err: err}
	}
}

// applyChange stages one builder change and sends it to the bulb
func applyChange(client *device.Client, configure func(*lighting.ColorLightParams)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		params := client.Light()
		configure(params)
		return applyCompleteMsg{err: params.Send(ctx)}
	}
}
