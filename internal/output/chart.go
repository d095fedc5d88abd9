package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/sdpower/ahelpstats/internal/types"
)

var (
	rateLow  = colorful.Color{R: 0.86, G: 0.2, B: 0.18}
	rateHigh = colorful.Color{R: 0.2, G: 0.75, B: 0.35}
)

// RateColor blends from red at 0 to green at 1.
func RateColor(rate float64) colorful.Color {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return rateLow.BlendLab(rateHigh, rate).Clamped()
}

// RateBar draws a bar of width cells filled in proportion to rate.
func RateBar(rate float64, width int, noColor bool) string {
	if width <= 0 {
		return ""
	}
	filled := int(rate*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled)
	rest := strings.Repeat("░", width-filled)
	if noColor {
		return bar + rest
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(RateColor(rate).Hex()))
	return style.Render(bar) + lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(rest)
}

// HourlyChart plots requests and processed requests per hour of day.
func HourlyChart(profile [24]types.HourBucket, width, height int, noColor bool) string {
	if width < 24 {
		width = 24
	}
	if height < 3 {
		height = 3
	}

	totals := make([]float64, 24)
	processed := make([]float64, 24)
	var hasData bool
	for h, b := range profile {
		totals[h] = float64(b.Total)
		processed[h] = float64(b.Processed)
		hasData = hasData || b.Total > 0
	}
	if !hasData {
		return "No hourly data available\n"
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption("help requests (top) and processed (bottom) by hour of day, 00-23"),
	}
	if !noColor {
		opts = append(opts, asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green))
	}

	return asciigraph.PlotMany([][]float64{totals, processed}, opts...) + "\n"
}

// HourlyProfile lists each hour with its response rate bar.
func HourlyProfile(profile [24]types.HourBucket, barWidth int, noColor bool) string {
	var out strings.Builder
	for h, b := range profile {
		if b.Total == 0 {
			continue
		}
		fmt.Fprintf(&out, "%02d:00 %s %5.1f%% (%d/%d)\n",
			h, RateBar(b.ResponseRate(), barWidth, noColor), b.ResponseRate()*100, b.Processed, b.Total)
	}
	return out.String()
}
