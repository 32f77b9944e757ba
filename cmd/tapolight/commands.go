package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tapolight/internal/config"
	"tapolight/internal/device"
	"tapolight/internal/discovery"
	"tapolight/internal/lighting"
	"tapolight/internal/wizard/tui"
)

// Command flags
var (
	deviceAddr   string
	devicePort   int
	accountEmail string
	scanTimeout  int
	outputFormat string

	setBrightness  uint8
	setColorName   string
	setHue         uint16
	setSaturation  uint8
	setTemperature uint16
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Device IP address, MAC address, or registry nickname (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", device.DefaultPort, "Device HTTP port")
	rootCmd.PersistentFlags().StringVar(&accountEmail, "email", "", "Tapo account email (or set TAPO_EMAIL)")

	// Add subcommands directly to root
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(wizardCmd)
}

// scanCmd discovers bulbs on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Tapo bulbs on the network",
	Long: `Scan for Tapo bulbs using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from Tapo devices and displays
all discovered bulbs with their IP addresses, models, and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  tapolight scan

  # Quick 3-second scan
  tapolight scan --timeout 3

  # Longer scan for crowded networks
  tapolight scan --timeout 30`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Tapo bulbs (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No bulbs found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the bulb is powered on")
		fmt.Println("  - Verify your computer is on the same network as the bulb")
		fmt.Println("  - Check that your firewall allows mDNS (UDP 5353)")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --device flag to specify the IP manually")
		return nil
	}

	fmt.Printf("Found %d bulb(s):\n\n", len(devices))

	for i, dev := range devices {
		fmt.Printf("%d. %s\n", i+1, dev.String())
		if dev.MAC != "" {
			fmt.Printf("   MAC: %s\n", dev.MAC)
		}
		fmt.Println()
	}

	fmt.Println("Use 'tapolight info --device <ip>' to view bulb state")
	fmt.Println("Use 'tapolight wizard' for interactive control")

	return nil
}

// infoCmd displays the current bulb state
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show bulb state",
	Long: `Display the current state of a Tapo bulb.

This command connects to the bulb and retrieves its current state,
including power, brightness, lighting mode, and power restoration
settings.`,
	Example: `  # Show state with auto-discovery
  tapolight info

  # Show state for a specific bulb
  tapolight info --device 192.168.1.42

  # One-line summary
  tapolight info --device 192.168.1.42 --format summary

  # JSON output for scripting
  tapolight info --device 192.168.1.42 --format json`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, summary, json)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	client, err := connectClient()
	if err != nil {
		return err
	}

	info, err := client.GetDeviceInfo(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get bulb state: %w", err)
	}

	rememberDevice(info)

	switch outputFormat {
	case "summary":
		fmt.Println(info.Summary())
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed":
		fallthrough
	default:
		fmt.Println(info.FormatDetailed())
	}

	return nil
}

// onCmd turns the bulb on
var onCmd = &cobra.Command{
	Use:     "on",
	Short:   "Turn the bulb on",
	Example: `  tapolight on --device 192.168.1.42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connectClient()
		if err != nil {
			return err
		}

		if err := client.Light().TurnOn().Send(context.Background()); err != nil {
			return fmt.Errorf("failed to turn on: %w", err)
		}

		fmt.Println("✓ Bulb turned on")
		return nil
	},
}

// offCmd turns the bulb off
var offCmd = &cobra.Command{
	Use:     "off",
	Short:   "Turn the bulb off",
	Example: `  tapolight off --device 192.168.1.42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connectClient()
		if err != nil {
			return err
		}

		if err := client.Light().TurnOff().Send(context.Background()); err != nil {
			return fmt.Errorf("failed to turn off: %w", err)
		}

		fmt.Println("✓ Bulb turned off")
		return nil
	},
}

// setCmd stages and applies lighting state changes
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set bulb state",
	Long: `Set one or more bulb properties in a single request.

Color, hue/saturation, and temperature are mutually exclusive lighting
modes; the last flag on the command line wins. Setting a preset color or
hue/saturation switches the bulb to color mode; setting a temperature
switches it to white mode.`,
	Example: `  # Set brightness only
  tapolight set --brightness 60 --device 192.168.1.42

  # Switch to a preset color at half brightness
  tapolight set --color forest_green --brightness 50 --device 192.168.1.42

  # Warm white
  tapolight set --temp 2700 --device 192.168.1.42

  # Explicit hue and saturation
  tapolight set --hue 120 --saturation 75 --device 192.168.1.42`,
	RunE: runSet,
}

func init() {
	setCmd.Flags().Uint8Var(&setBrightness, "brightness", 0, "Brightness percentage (1-100)")
	setCmd.Flags().StringVar(&setColorName, "color", "", "Preset color name (see 'tapolight colors')")
	setCmd.Flags().Uint16Var(&setHue, "hue", 0, "Hue in degrees (0-360)")
	setCmd.Flags().Uint8Var(&setSaturation, "saturation", 100, "Saturation percentage (0-100, used with --hue)")
	setCmd.Flags().Uint16Var(&setTemperature, "temp", 0, "White color temperature in Kelvin (2500-6500)")
}

func runSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("brightness") && !flags.Changed("color") &&
		!flags.Changed("hue") && !flags.Changed("temp") {
		return fmt.Errorf("nothing to set: pass at least one of --brightness, --color, --hue, --temp")
	}

	client, err := connectClient()
	if err != nil {
		return err
	}

	params := client.Light()

	if flags.Changed("brightness") {
		params.SetBrightness(setBrightness)
	}

	// Lighting mode flags in command line order would need flag traversal;
	// apply in fixed precedence instead: --color, then --hue, then --temp.
	if flags.Changed("color") {
		color, err := lighting.ParseColor(setColorName)
		if err != nil {
			return err
		}
		params.SetColor(color)
	}
	if flags.Changed("hue") {
		params.SetHueSaturation(setHue, setSaturation)
	}
	if flags.Changed("temp") {
		params.SetColorTemperature(setTemperature)
	}

	if err := params.Send(context.Background()); err != nil {
		return fmt.Errorf("failed to set bulb state: %w", err)
	}

	fmt.Println("✓ Bulb state updated")
	return nil
}

// colorsCmd lists the available preset colors
var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List available preset colors",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available preset colors:")
		fmt.Println()
		for _, color := range lighting.AllColors() {
			if color.IsWhite() {
				fmt.Printf("  %-16s (white)\n", color)
			} else {
				fmt.Printf("  %s\n", color)
			}
		}
		fmt.Println()
		fmt.Println("Use 'tapolight set --color <name>' to apply a color")
	},
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch interactive control wizard",
	Long: `Launch an interactive TUI wizard for bulb control.

The wizard provides a user-friendly interface for:
- Discovering bulbs on the network
- Viewing the current bulb state
- Toggling power and adjusting brightness
- Switching between white temperatures and preset colors

This is the recommended way to control bulbs for most users.`,
	Example: `  # Launch wizard with auto-discovery
  tapolight wizard
  # Or simply (wizard is default):
  tapolight

  # Launch wizard for a specific bulb
  tapolight wizard --device 192.168.1.42
  tapolight --device 192.168.1.42`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	email, password, err := getCredentials()
	if err != nil {
		return err
	}

	var model tea.Model

	if deviceAddr != "" {
		ip, err := resolveDeviceIP()
		if err != nil {
			return err
		}

		dev := &discovery.Device{
			IP:       ip,
			Port:     devicePort,
			Hostname: ip,
		}
		model = tui.NewAppModel(tui.ScreenControl, dev, email, password)
	} else {
		// Start with discovery screen (will auto-scan)
		model = tui.NewAppModel(tui.ScreenDiscovery, nil, email, password)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	return nil
}

// connectClient resolves the target bulb and builds an authenticated client
func connectClient() (*device.Client, error) {
	ip, err := resolveDeviceIP()
	if err != nil {
		return nil, err
	}

	email, password, err := getCredentials()
	if err != nil {
		return nil, err
	}

	return device.NewClient(ip, devicePort, email, password), nil
}

// resolveDeviceIP resolves the --device flag (IP, MAC, or registry
// nickname), falling back to mDNS discovery when no flag is given.
func resolveDeviceIP() (string, error) {
	if deviceAddr != "" {
		// A nickname from the registry resolves to its last known IP
		if registry, err := config.LoadRegistry(); err == nil {
			if _, dev := registry.FindByNickname(deviceAddr); dev != nil && dev.LastIP != "" {
				return dev.LastIP, nil
			}
		}
		// A MAC address needs an mDNS lookup to resolve to an IP
		if discovery.IsMACAddress(deviceAddr) {
			dev, err := discovery.FindDevice(deviceAddr)
			if err != nil {
				return "", fmt.Errorf("could not locate bulb %s: %w", deviceAddr, err)
			}
			return dev.IP, nil
		}
		return deviceAddr, nil
	}

	fmt.Println("No device specified, attempting auto-discovery...")
	devices, err := discovery.QuickScan()
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		return "", fmt.Errorf("no bulbs found. Use --device flag to specify IP manually")
	}

	if len(devices) > 1 {
		fmt.Printf("Found %d bulbs:\n", len(devices))
		for i, dev := range devices {
			fmt.Printf("%d. %s\n", i+1, dev.String())
		}
		return "", fmt.Errorf("multiple bulbs found. Use --device flag to specify which one")
	}

	dev := devices[0]
	fmt.Printf("Found bulb: %s\n\n", dev.String())
	return dev.IP, nil
}

// getCredentials resolves the Tapo account credentials.
// Email comes from --email, TAPO_EMAIL, the registry, or a prompt;
// the password comes from TAPO_PASSWORD or a hidden prompt.
func getCredentials() (string, string, error) {
	email := accountEmail
	if email == "" {
		email = os.Getenv("TAPO_EMAIL")
	}
	if email == "" {
		if registry, err := config.LoadRegistry(); err == nil {
			email = registry.DefaultEmail()
		}
	}
	if email == "" {
		fmt.Print("Tapo account email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
		if email == "" {
			return "", "", fmt.Errorf("email is required")
		}

		// Remember the email for next time (best effort)
		if registry, err := config.LoadRegistry(); err == nil {
			registry.SetDefaultEmail(email)
			_ = config.SaveGlobal()
		}
	}

	password := os.Getenv("TAPO_PASSWORD")
	if password == "" {
		fmt.Print("Tapo account password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
		if password == "" {
			return "", "", fmt.Errorf("password is required")
		}
	}

	return email, password, nil
}

// rememberDevice records device metadata in the registry (best effort)
func rememberDevice(info *device.DeviceInfo) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}

	entry := registry.EnsureDevice(info.DeviceID)
	entry.Model = info.Model
	entry.MAC = info.MAC
	if entry.Nickname == "" {
		entry.Nickname = info.DecodedNickname()
	}
	registry.UpdateDeviceLastSeen(info.DeviceID, info.IP)
	_ = config.SaveGlobal()
}
