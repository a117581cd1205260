package tui

import (
	"fmt"
	"strings"

	"github.com/naveenspark/xpboard/internal/profile"
)

// lineChartHeight is the number of rows the activity chart uses.
const lineChartHeight = 6

// renderDashboard lays out the welcome line, scalar fields, and three charts.
func renderDashboard(m *profile.Metrics, username string, width int, st styles) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s\n\n", st.selected.Render(fmt.Sprintf("Welcome, %s :)", m.WelcomeName(username))))

	fields := m.Fields()
	labelW := 0
	for _, f := range fields {
		if n := len(f.Label); n > labelW {
			labelW = n
		}
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s  %s\n", st.label.Render(padRight(f.Label, labelW)), st.value.Render(f.Value))
	}

	fmt.Fprintf(&b, "\n  %s\n", st.section.Render("XP by project"))
	b.WriteString(renderBarChart(m.CategorySeries(), width, st))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n  %s\n", st.section.Render("Skills"))
	b.WriteString(renderShareChart(m.SkillSeries(), width, st))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n  %s\n", st.section.Render("XP over time"))
	b.WriteString(renderLineChart(m.Daily, width, lineChartHeight, st))
	b.WriteString("\n")

	return b.String()
}
