package profile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field is one labelled scalar on the dashboard.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Point is one labelled chart value.
type Point struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// FullName joins first and last name, skipping empty parts.
func (m *Metrics) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// WelcomeName prefers the first name and falls back to the login username.
func (m *Metrics) WelcomeName(username string) string {
	if m.FirstName != "" {
		return m.FirstName
	}
	return username
}

// Fields returns the scalar dashboard fields in display order.
func (m *Metrics) Fields() []Field {
	return []Field{
		{Label: "ID", Value: m.ID},
		{Label: "Name", Value: m.FullName()},
		{Label: "Audit Ratio", Value: strconv.FormatFloat(m.AuditRatio, 'f', 3, 64)},
		{Label: "Total XP from Piscine-Go", Value: FormatKB(m.GoXP)},
		{Label: "Total XP from Piscine-JS", Value: FormatKB(m.JSXP)},
		{Label: "Total XP from module", Value: strconv.FormatInt(m.ModuleXP, 10) + " KB"},
		{Label: "Highest Checkpoint Level", Value: strconv.FormatInt(m.HighestCheckpoint, 10) + "%"},
		{Label: "Groups", Value: strconv.Itoa(m.GroupCount)},
	}
}

// FormatKB renders an experience amount in thousands with two decimals.
func FormatKB(amount int64) string {
	return fmt.Sprintf("%.2f KB", float64(amount)/1000)
}

// CategorySeries returns the category totals in display order.
func (m *Metrics) CategorySeries() []Point {
	out := make([]Point, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, Point{Label: c, Value: m.CategoryTotals[c]})
	}
	return out
}

// SkillSeries returns the per-skill maxima sorted by skill name. Empty means
// the pie chart must be omitted.
func (m *Metrics) SkillSeries() []Point {
	out := make([]Point, 0, len(m.SkillMaxima))
	for name, v := range m.SkillMaxima {
		out = append(out, Point{Label: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Text renders a plain-text summary for clipboard export and the show command.
func (m *Metrics) Text(username string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome, %s :)\n\n", m.WelcomeName(username))
	for _, f := range m.Fields() {
		fmt.Fprintf(&b, "%-26s %s\n", f.Label, f.Value)
	}
	b.WriteString("\nXP by project\n")
	for _, p := range m.CategorySeries() {
		fmt.Fprintf(&b, "  %-12s %d\n", p.Label, p.Value)
	}
	if skills := m.SkillSeries(); len(skills) > 0 {
		b.WriteString("\nSkills\n")
		for _, p := range skills {
			fmt.Fprintf(&b, "  %-12s %d\n", p.Label, p.Value)
		}
	}
	if n := len(m.Daily); n > 0 {
		fmt.Fprintf(&b, "\nActivity: %d days, %s to %s\n", n, m.Daily[0].Day, m.Daily[n-1].Day)
	}
	return b.String()
}
