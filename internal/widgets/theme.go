package widgets

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the rating screens use.
const (
	colorYellow   lipgloss.Color = "#f9e2af"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

// Semantic aliases.
const (
	ColorAccent  = colorBlue
	ColorFocus   = colorLavender
	ColorPreview = colorPeach
	ColorSuccess = colorGreen
	ColorError   = colorRed
	ColorWarning = colorYellow
	ColorText    = colorText
	ColorMuted   = colorSubtext0
	ColorBorder  = colorOverlay0
	ColorBar     = colorMantle
	ColorCursor  = colorSurface0
	ColorDim     = colorSurface2
)

// AllPaletteColors returns every palette color, for validation.
func AllPaletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorYellow, colorPeach, colorGreen, colorRed, colorBlue, colorLavender,
		colorText, colorSubtext0, colorOverlay0, colorSurface2, colorSurface0, colorMantle,
	}
}
