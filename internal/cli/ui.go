package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/callsurface/pkg/pipeline"
)

// uiOut receives every status line.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

// The palette follows the call screen: green accepts, red ends, cyan selects.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for intents and the selected control.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(20)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleRejected    = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printLine(s string) {
	fmt.Fprintln(uiOut, s)
}

// printSuccess prints a success line.
func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printError prints an error line.
func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning line.
func printWarning(format string, args ...any) {
	printLine(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints a status line.
func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	printLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file.
func printFile(path string) {
	printLine("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	printLine(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the frame count and whether the artifacts came from the
// cache.
func printStats(frames int, cached bool) {
	var parts []string
	if frames > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d frames", frames)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("played"))
	}
	printLine("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// =============================================================================
// Scenario Events
// =============================================================================

// printEvents prints the intents a run surfaced and the presses it ignored.
func printEvents(events []pipeline.Event) {
	for _, e := range events {
		at := fmt.Sprintf("%6dms", e.At.Milliseconds())
		switch e.Kind {
		case pipeline.EventIntent:
			printLine("  " + StyleDim.Render(at) + "  " + e.Role + " " + StyleDim.Render(iconArrow) + " " + StyleHighlight.Render(e.Intent.String()))
		case pipeline.EventRejected:
			printLine("  " + StyleDim.Render(at) + "  " + e.Role + " " + styleRejected.Render(e.Detail+" ignored"))
		}
	}
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	printLine("")
}
