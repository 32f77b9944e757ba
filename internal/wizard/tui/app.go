package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tapolight/internal/device"
	"tapolight/internal/discovery"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenControl   Screen = "control"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen Screen

	// Screen models
	DiscoveryModel DiscoveryModel
	ControlModel   ControlModel

	// Shared application state
	SelectedDevice *discovery.Device

	// Tapo account credentials for device sessions
	Email    string
	Password string

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the specified screen.
// When device is non-nil the discovery step is skipped.
func NewAppModel(startScreen Screen, dev *discovery.Device, email, password string) AppModel {
	model := AppModel{
		CurrentScreen:  startScreen,
		SelectedDevice: dev,
		Email:          email,
		Password:       password,
	}

	switch startScreen {
	case ScreenDiscovery:
		model.DiscoveryModel = NewDiscoveryModel()
	case ScreenControl:
		if dev != nil {
			model.ControlModel = NewControlModel(
				device.NewClient(dev.IP, dev.Port, email, password))
		}
	}

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenControl:
		return m.ControlModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.DiscoveryModel.Width = msg.Width
		m.DiscoveryModel.Height = msg.Height
		m.ControlModel.Width = msg.Width
		m.ControlModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		// Check if user selected a device
		if m.DiscoveryModel.Selected {
			m.SelectedDevice = m.DiscoveryModel.GetSelectedDevice()
			if m.SelectedDevice != nil {
				return m.transitionTo(ScreenControl)
			}
		}

		// Check for quit (normal mode only, not during scan)
		if !m.DiscoveryModel.Scanning && !m.DiscoveryModel.ManualMode {
			if keyMsg, ok := msg.(tea.KeyMsg); ok {
				if keyMsg.String() == "q" || keyMsg.String() == "esc" {
					return m, tea.Quit
				}
			}
		}

	case ScreenControl:
		updated, c := m.ControlModel.Update(msg)
		m.ControlModel = updated.(ControlModel)
		cmd = c

		// Check if user wants to go back to discovery
		if m.ControlModel.IsBackRequested() {
			return m.transitionTo(ScreenDiscovery)
		}
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenDiscovery:
		m.DiscoveryModel = NewDiscoveryModel()
		m.DiscoveryModel.Width = m.Width
		m.DiscoveryModel.Height = m.Height
		cmd = m.DiscoveryModel.Init()

	case ScreenControl:
		if m.SelectedDevice != nil {
			m.ControlModel = NewControlModel(
				device.NewClient(m.SelectedDevice.IP, m.SelectedDevice.Port, m.Email, m.Password))
			m.ControlModel.Width = m.Width
			m.ControlModel.Height = m.Height
			cmd = m.ControlModel.Init()
		}
	}

	return m, cmd
}

// View renders the current screen
// Each screen handles its own container using RenderApplicationContainer()
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenControl:
		return m.ControlModel.View()
	default:
		return "Unknown screen"
	}
}
