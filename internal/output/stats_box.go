package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sdpower/ahelpstats/internal/types"
)

// StatsBox renders the run headline in a rounded box.
func StatsBox(summary types.RunSummary, noColor bool) string {
	labelStyle := lipgloss.NewStyle()
	valueStyle := lipgloss.NewStyle()
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)

	if !noColor {
		labelStyle = labelStyle.Foreground(lipgloss.Color("36"))
		valueStyle = valueStyle.Bold(true)
		boxStyle = boxStyle.BorderForeground(lipgloss.Color("205"))
	}

	rate := types.HourBucket{Total: summary.Requests, Processed: summary.Processed}.ResponseRate()
	lines := [][2]string{
		{"Files processed", formatNumberWithCommas(summary.Files)},
		{"Servers", formatNumberWithCommas(summary.Servers)},
		{"Admins found", formatNumberWithCommas(summary.Admins)},
		{"Total ahelps", formatNumberWithCommas(summary.Ahelps)},
		{"Admin only ahelps", formatNumberWithCommas(summary.AdminOnlyAhelps)},
		{"Total chats", formatNumberWithCommas(summary.Chats)},
		{"Response rate", fmt.Sprintf("%s (%d/%d)", formatRate(rate), summary.Processed, summary.Requests)},
	}

	var body strings.Builder
	for i, l := range lines {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", l[0]+":")))
		body.WriteString(" ")
		body.WriteString(valueStyle.Render(l[1]))
	}

	return boxStyle.Render(body.String()) + "\n"
}
