package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key      string
	Desc     string
	Disabled bool
}

// Section builds a KeySection from bubbles key bindings, using their help text
func Section(title string, bindings ...key.Binding) KeySection {
	sec := KeySection{Title: title}
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		sec.Keys = append(sec.Keys, KeyBinding{Key: h.Key, Desc: h.Desc, Disabled: !b.Enabled()})
	}
	return sec
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyBar renders every enabled binding on one line, "key:desc" pairs
// separated by two spaces. Disabled bindings are dimmed with dim.
func RenderKeyBar(sections []KeySection, on, dim lipgloss.Style) string {
	var parts []string
	for _, sec := range sections {
		for _, k := range sec.Keys {
			style := on
			if k.Disabled {
				style = dim
			}
			parts = append(parts, style.Render(k.Key+":"+k.Desc))
		}
	}
	return strings.Join(parts, "  ")
}

// RenderSwatch renders a single colored block
func RenderSwatch(color [3]uint8, glyph rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(glyph))
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, glyph rune, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderSwatch(color, glyph), name, desc)
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
