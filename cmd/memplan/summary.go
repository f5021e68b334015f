package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/q0jt/go-memplan/memplan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			Width(24)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func summary(layout *memplan.Layout, image *memplan.ImageReport) string {
	var b strings.Builder
	plan := layout.Plan

	b.WriteString(titleStyle.Render("memplan: " + plan.Mode.String()))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Regions"))
	b.WriteByte('\n')
	for _, r := range plan.Regions {
		fmt.Fprintf(&b, "%s %-4s %#010x %#010x\n",
			nameStyle.Render(r.Name), r.Perm, r.Origin, r.Length)
	}
	b.WriteByte('\n')

	b.WriteString(headerStyle.Render("Symbols"))
	b.WriteByte('\n')
	for _, s := range layout.Symbols.Symbols() {
		fmt.Fprintf(&b, "%s %#010x\n", nameStyle.Render(s.Name), s.Value)
	}

	if image != nil {
		b.WriteByte('\n')
		b.WriteString(headerStyle.Render("Image"))
		b.WriteByte('\n')
		names := make([]string, 0, len(image.Used))
		for name := range image.Used {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "%s %#010x bytes\n", nameStyle.Render(name), image.Used[name])
		}
		fmt.Fprintf(&b, "%s %d\n", nameStyle.Render("segments"), image.Segments)
	}

	for _, w := range layout.Warnings {
		b.WriteByte('\n')
		b.WriteString(warnStyle.Render("warning: " + w.Error()))
	}
	b.WriteByte('\n')
	return b.String()
}
