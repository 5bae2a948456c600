package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/phanxgames/pinboard"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleBox    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d4a373")).
			Padding(0, 1)
)

var pinStyles = map[string]lipgloss.Style{
	"red":    lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
	"blue":   lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
	"green":  lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
	"yellow": lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
	"pink":   lipgloss.NewStyle().Foreground(lipgloss.Color("#ec4899")),
	"purple": lipgloss.NewStyle().Foreground(lipgloss.Color("#a855f7")),
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored board as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := a.openSession(cmd.Context(), a.windowBoard(), pinboard.Options{})
			if err != nil {
				return err
			}
			defer done()
			fmt.Fprintln(cmd.OutOrStdout(), formatBoard(s.Snapshot()))
			return nil
		},
	}
}

// formatBoard lists items top to bottom of the stacking order.
func formatBoard(snap pinboard.Snapshot) string {
	items := pinboard.NewItemStore(snap.Items, snap.BoardConfig.NextZIndex).SortedByZ()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styleHeader.Render(fmt.Sprintf("%-4s %-6s %-24s %16s %8s %6s  %s", "Z", "KIND", "TITLE", "POSITION", "ROT", "SCALE", "PIN")))
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		pin := styleDim.Render("-")
		if it.Pin.Enabled {
			style, ok := pinStyles[it.Pin.Color]
			if !ok {
				style = pinStyles["red"]
			}
			pin = style.Render("● " + it.Pin.Color)
		}
		fmt.Fprintf(&b, "%-4d %-6s %-24s %16s %8.1f %6.2f  %s\n",
			it.ZIndex, it.Kind, truncate(it.Title, 24),
			fmt.Sprintf("%.1f%%, %.1f%%", it.Position.X, it.Position.Y),
			it.Rotation, it.Scale, pin)
	}
	music := "none"
	if u := snap.BoardConfig.BackgroundMusicURL; u != nil && *u != "" {
		music = *u
	}
	fmt.Fprintf(&b, "%s", styleDim.Render(fmt.Sprintf("%d items, next z %d, background %s, music %s",
		len(items), snap.BoardConfig.NextZIndex, snap.BoardConfig.BackgroundColor, music)))
	return styleBox.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
