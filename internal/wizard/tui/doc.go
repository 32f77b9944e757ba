// Package tui implements the interactive terminal interface for tapolight.
//
// This package provides a full-screen TUI for discovering Tapo bulbs and
// controlling their lighting state. Built using the Bubble Tea framework,
// it follows the Elm architecture with immutable state updates and a clean
// Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized into two main screens:
//   - Discovery: Scan network for bulbs or enter IP manually
//   - Control: View bulb state and stage lighting changes
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area, and context-sensitive
// footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/spinner: Loading indicators
//   - bubbles/textinput: Text entry fields with validation
//   - bubbles/progress: Progress bars during scanning
//   - bubbles/list: Device lists with filtering
//   - bubbles/help: Context-aware help system
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	app := tui.NewAppModel(tui.ScreenDiscovery, nil, email, password)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Screen Flow
//
//  1. Discovery Screen:
//     - Automatically scans network for bulbs (mDNS)
//     - Displays found devices as cards with details
//     - Allows manual IP entry if the bulb is not found
//     - User selects a device to control
//
//  2. Control Screen:
//     - Fetches current bulb state
//     - Power toggle, brightness, color temperature, and preset colors
//     - Inline editing - fields expand in place
//     - Applies each change immediately and refreshes the state
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Discovery: ↑/↓ navigate, Enter select, r rescan, m manual IP, q quit
//   - Control: ↑/↓ navigate fields, Enter edit/apply, r refresh, esc back, q quit
//   - Control (Editing): ↑/↓ navigate options, Enter confirm, ESC cancel
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates occur in a single goroutine, preventing race conditions.
package tui
