package pools

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/veldt-labs/sponsorctl/internal/application"
	"github.com/veldt-labs/sponsorctl/internal/domain"
)

type RenderOptions struct {
	Now time.Time
	// Detailed adds the whitelist entries and sponsor info to each card.
	Detailed bool
}

const displayTimeLayout = "Jan 2, 2006, 3:04 PM"

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Sponsor Pools"),
		s.header.Render(fmt.Sprintf("pools: %d (%d active)", snapshot.TotalPools, snapshot.ActivePools)),
	}

	if len(snapshot.Pools) == 0 {
		lines = append(lines, s.empty.Render("No pools available. Create one with 'pool create'."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, pool := range snapshot.Pools {
		lines = append(lines, s.section.Render(renderPool(pool, pool.ID == snapshot.Selected, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPool(pool domain.Pool, selected bool, opts RenderOptions, s styles) string {
	title := fmt.Sprintf("%s (%s)", pool.Name, pool.ID)
	titleStyle := s.pool
	if selected {
		title = "* " + title
		titleStyle = s.selected
	}

	parts := []string{
		titleStyle.Render(title),
		statusLine(pool, opts.Now, s),
		windowLine(pool, s),
		countdownLine(pool, opts.Now, s),
	}

	if opts.Detailed {
		parts = append(parts, whitelistLines(pool, s)...)
		if pool.SponsorInfo != "" {
			parts = append(parts, s.fieldMeta.Render("sponsored by "+pool.SponsorInfo))
		}
	} else {
		parts = append(parts, s.fieldMeta.Render(fmt.Sprintf("whitelist: %d addresses", len(pool.Whitelist))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func statusLine(pool domain.Pool, now time.Time, s styles) string {
	status := pool.Status(now)
	statusStyle := s.statusOff
	if status == domain.PoolStatusActive {
		statusStyle = s.statusOn
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.fieldKey.Render("status:"),
		" ",
		statusStyle.Render(string(status)),
		"   ",
		s.fieldKey.Render("balance:"),
		" ",
		s.detail.Render(balanceLabel(pool.Balance)),
		"   ",
		s.fieldKey.Render("cap:"),
		" ",
		s.detail.Render(formatCredits(pool.UsageCap)),
	)
}

func windowLine(pool domain.Pool, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.fieldKey.Render("window:"),
		" ",
		s.detail.Render(pool.StartTime.Local().Format(displayTimeLayout)),
		s.fieldMeta.Render(" to "),
		s.detail.Render(pool.EndTime.Local().Format(displayTimeLayout)),
	)
}

func countdownLine(pool domain.Pool, now time.Time, s styles) string {
	cd := domain.ComputeCountdown(now, pool.StartTime, pool.EndTime)

	switch cd.Phase() {
	case "Not Started":
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.fieldKey.Render("starts:"),
			" ",
			s.detail.Render("in "+formatRemaining(cd)),
		)
	case "Ended":
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.fieldKey.Render("time:"),
			"   ",
			s.fieldMeta.Render("window ended"),
		)
	default:
		bar := renderProgressBar(cd.Percentage, 24, s)
		meta := s.detail.Render(fmt.Sprintf("%2.0f%% elapsed, %s remaining", cd.Percentage, formatRemaining(cd)))
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.fieldKey.Render("time:"),
			"   ",
			bar,
			" ",
			meta,
		)
	}
}

func whitelistLines(pool domain.Pool, s styles) []string {
	if len(pool.Whitelist) == 0 {
		return []string{s.empty.Render("whitelist: empty")}
	}

	lines := make([]string, 0, len(pool.Whitelist)+1)
	lines = append(lines, s.fieldKey.Render(fmt.Sprintf("whitelist (%d):", len(pool.Whitelist))))
	for _, address := range pool.Whitelist {
		lines = append(lines, s.detail.Render("  "+address))
	}
	return lines
}

func renderProgressBar(elapsedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	if elapsedPercent < 0 {
		elapsedPercent = 0
	}
	if elapsedPercent > 100 {
		elapsedPercent = 100
	}

	filled := int(math.Round(float64(width) * elapsedPercent / 100.0))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatRemaining(cd domain.Countdown) string {
	parts := make([]string, 0, 4)
	if cd.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", cd.Days))
	}
	if cd.Hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", cd.Hours))
	}
	if cd.Minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", cd.Minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", cd.Seconds))

	return strings.Join(parts, " ")
}

func balanceLabel(balance *float64) string {
	if balance == nil {
		return "n/a"
	}
	return formatCredits(*balance)
}

func formatCredits(amount float64) string {
	return fmt.Sprintf("%.6f Credits", amount)
}
