package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/xpboard/internal/session"
)

// Shimmer animation for the XPBOARD logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

type rgb struct{ r, g, b float64 }

// palette is the color set for one theme.
type palette struct {
	text     lipgloss.Color
	bright   lipgloss.Color
	dim      lipgloss.Color
	meta     lipgloss.Color
	accent   lipgloss.Color
	errColor lipgloss.Color
	track    lipgloss.Color

	// bars colors the category chart, slices the skill shares.
	bars   []lipgloss.Color
	slices []lipgloss.Color

	logoDeep   rgb
	logoBright rgb
}

var darkPalette = palette{
	text:     lipgloss.Color("#e8d8e0"),
	bright:   lipgloss.Color("#fff0f6"),
	dim:      lipgloss.Color("#a08898"),
	meta:     lipgloss.Color("#605060"),
	accent:   lipgloss.Color("#ff69b4"),
	errColor: lipgloss.Color("#e06060"),
	track:    lipgloss.Color("#2a1e26"),
	bars:     []lipgloss.Color{"#ff69b4", "#ff1493", "#ffb6c1"},
	slices: []lipgloss.Color{
		"#ff69b4", "#ffb6c1", "#ffa07a", "#dda0dd", "#ffd700", "#118ab2", "#06d6a0",
	},
	logoDeep:   rgb{58, 16, 40},
	logoBright: rgb{255, 105, 180},
}

var lightPalette = palette{
	text:     lipgloss.Color("#3a2430"),
	bright:   lipgloss.Color("#1a0a12"),
	dim:      lipgloss.Color("#7a5a6a"),
	meta:     lipgloss.Color("#a890a0"),
	accent:   lipgloss.Color("#c2185b"),
	errColor: lipgloss.Color("#b42828"),
	track:    lipgloss.Color("#f0dce6"),
	bars:     []lipgloss.Color{"#d6337f", "#a3124f", "#e88aaa"},
	slices: []lipgloss.Color{
		"#d6337f", "#e88aaa", "#d9704a", "#9c5a9c", "#b08d00", "#0e6e8e", "#058a68",
	},
	logoDeep:   rgb{240, 190, 210},
	logoBright: rgb{194, 24, 91},
}

// styles is the rendered form of a palette. It is owned by the App and
// rebuilt whenever the theme changes.
type styles struct {
	theme   session.Theme
	palette palette

	normal   lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	meta     lipgloss.Style
	accent   lipgloss.Style
	err      lipgloss.Style
	section  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	helpKey  lipgloss.Style
	helpText lipgloss.Style
	prompt   lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(theme session.Theme) styles {
	p := darkPalette
	if theme == session.ThemeLight {
		p = lightPalette
	}
	return styles{
		theme:    theme,
		palette:  p,
		normal:   lipgloss.NewStyle().Foreground(p.text),
		selected: lipgloss.NewStyle().Foreground(p.bright).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(p.dim),
		meta:     lipgloss.NewStyle().Foreground(p.meta),
		accent:   lipgloss.NewStyle().Foreground(p.accent),
		err:      lipgloss.NewStyle().Foreground(p.errColor),
		section:  lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		label:    lipgloss.NewStyle().Foreground(p.dim),
		value:    lipgloss.NewStyle().Foreground(p.bright).Bold(true),
		helpKey:  lipgloss.NewStyle().Foreground(p.dim),
		helpText: lipgloss.NewStyle().Foreground(p.meta),
		prompt:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		hint:     lipgloss.NewStyle().Foreground(p.meta).Italic(true),
	}
}

// renderShimmerLogo renders "XPBOARD" as a flowing wave of light between the
// palette's deep and bright logo colors.
func renderShimmerLogo(frame int, st styles) string {
	const text = "XPBOARD"
	n := len(text)
	deep, bright := st.palette.logoDeep, st.palette.logoBright

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(deep.r + b*(bright.r-deep.r))
		g := clampByte(deep.g + b*(bright.g-deep.g))
		bl := clampByte(deep.b + b*(bright.b-deep.b))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(text[i])))

		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(st styles, key, label string) string {
	return st.helpKey.Render(key) + " " + st.helpText.Render(label)
}

// helpBar joins entries with two spaces and a leading space.
func helpBar(st styles, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(st, pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpView renders the key and command reference overlay.
func helpView(st styles, siteURL string) string {
	cmdStyle := lipgloss.NewStyle().Bold(true).Foreground(st.palette.text)

	keys := []struct{ key, desc string }{
		{"r", "Reload the profile"},
		{"t", "Toggle light/dark theme"},
		{"c", "Copy a text summary to the clipboard"},
		{"o", "Open " + siteURL},
		{"j/k", "Scroll"},
		{"L", "Log out"},
		{"q", "Quit"},
	}
	commands := []struct{ cmd, desc string }{
		{"xpboard", "Open the dashboard"},
		{"xpboard login", "Sign in from the terminal"},
		{"xpboard logout", "Clear the stored session"},
		{"xpboard show", "Print the dashboard once (--json for JSON)"},
		{"xpboard version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", st.section.Render("X P B O A R D"))
	fmt.Fprintf(&b, "  %s\n", st.section.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-6s", k.key)), st.dim.Render(k.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", st.section.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-18s", c.cmd)), st.dim.Render(c.desc))
	}
	return b.String()
}
