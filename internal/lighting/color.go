package lighting

import (
	"fmt"
	"sort"
	"strings"
)

// Color is a named color preset understood by SetColor.
// Each preset maps to a fixed (hue, saturation, color_temp) triple in the
// internal color table. White presets carry only a color temperature;
// chromatic presets carry hue/saturation with the color_temp=0 sentinel.
type Color string

// White presets (color temperature mode)
const (
	ColorCandlelight  Color = "candlelight"
	ColorIncandescent Color = "incandescent"
	ColorWarmWhite    Color = "warm_white"
	ColorCoolWhite    Color = "cool_white"
	ColorDaylight     Color = "daylight"
	ColorIvory        Color = "ivory"
	ColorSnow         Color = "snow"
)

// Chromatic presets (hue/saturation mode)
const (
	ColorCrimson      Color = "crimson"
	ColorOrangeRed    Color = "orange_red"
	ColorGold         Color = "gold"
	ColorChartreuse   Color = "chartreuse"
	ColorForestGreen  Color = "forest_green"
	ColorSpringGreen  Color = "spring_green"
	ColorMint         Color = "mint"
	ColorDeepSkyBlue  Color = "deep_sky_blue"
	ColorAzure        Color = "azure"
	ColorNavyBlue     Color = "navy_blue"
	ColorUltramarine  Color = "ultramarine"
	ColorBlueViolet   Color = "blue_violet"
	ColorIndigo       Color = "indigo"
	ColorMediumPurple Color = "medium_purple"
	ColorHotPink      Color = "hot_pink"
	ColorPink         Color = "pink"
)

// colorTriple is one row of the color table: the wire values a named color
// resolves to. A nil field means "leave unset" rather than "send zero".
type colorTriple struct {
	Hue              *uint16
	Saturation       *uint8
	ColorTemperature *uint16
}

func hueSat(hue uint16, saturation uint8) colorTriple {
	// color_temp=0 deactivates temperature mode on the device
	ct := uint16(0)
	return colorTriple{Hue: &hue, Saturation: &saturation, ColorTemperature: &ct}
}

func white(colorTemperature uint16) colorTriple {
	return colorTriple{ColorTemperature: &colorTemperature}
}

// colorTable maps every Color constant to its wire triple. It is initialized
// once and read-only afterwards, so concurrent builders may share it.
// All values sit inside the valid ranges, so a named color never fails
// submit-time validation.
var colorTable = map[Color]colorTriple{
	ColorCandlelight:  white(2500),
	ColorIncandescent: white(2700),
	ColorWarmWhite:    white(3000),
	ColorCoolWhite:    white(4000),
	ColorDaylight:     white(5000),
	ColorIvory:        white(6000),
	ColorSnow:         white(6500),

	ColorCrimson:      hueSat(348, 90),
	ColorOrangeRed:    hueSat(16, 100),
	ColorGold:         hueSat(50, 100),
	ColorChartreuse:   hueSat(90, 100),
	ColorForestGreen:  hueSat(120, 75),
	ColorSpringGreen:  hueSat(150, 100),
	ColorMint:         hueSat(160, 50),
	ColorDeepSkyBlue:  hueSat(195, 100),
	ColorAzure:        hueSat(210, 100),
	ColorNavyBlue:     hueSat(240, 100),
	ColorUltramarine:  hueSat(254, 100),
	ColorBlueViolet:   hueSat(271, 80),
	ColorIndigo:       hueSat(274, 100),
	ColorMediumPurple: hueSat(259, 48),
	ColorHotPink:      hueSat(330, 58),
	ColorPink:         hueSat(349, 24),
}

// lookupColor resolves a Color to its wire triple. A miss is an internal
// inconsistency between the Color constants and colorTable, not a runtime
// input problem, so it panics instead of returning an error.
func lookupColor(color Color) colorTriple {
	triple, ok := colorTable[color]
	if !ok {
		panic(fmt.Sprintf("lighting: no color definition for %q", color))
	}
	return triple
}

// String returns the canonical preset name
func (c Color) String() string {
	return string(c)
}

// IsWhite reports whether the preset is a color-temperature (white) preset
func (c Color) IsWhite() bool {
	return lookupColor(c).Hue == nil
}

// ParseColor resolves a user-supplied name to a Color preset.
// Matching is case-insensitive and ignores spaces, hyphens and underscores,
// so "Warm White", "warm-white" and "warm_white" are equivalent.
func ParseColor(name string) (Color, error) {
	normalized := normalizeColorName(name)
	for color := range colorTable {
		if normalizeColorName(string(color)) == normalized {
			return color, nil
		}
	}
	return "", fmt.Errorf("unknown color %q (see 'tapolight colors' for the available presets)", name)
}

// AllColors returns every preset in the table, sorted by name
func AllColors() []Color {
	colors := make([]Color, 0, len(colorTable))
	for color := range colorTable {
		colors = append(colors, color)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	return colors
}

func normalizeColorName(name string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(replacer.Replace(name))
}
