package tui

import (
	"fmt"
	"strings"
)

func renderMenu(
	s *strings.Builder,
	cursor int,
	options []string,
) *strings.Builder {
	for i, option := range options {
		if i == cursor {
			fmt.Fprintf(s, "→ %s\n", Styles.Selected.Render(option))
		} else {
			fmt.Fprintf(s, "  %s\n", Styles.Normal.Render(option))
		}
	}

	return s
}

func renderConfigPreview(s *strings.Builder, envOutput string) *strings.Builder {
	if envOutput == "" {
		s.WriteString(Styles.Normal.Render("No configuration loaded") + "\n")
		return s
	}
	s.WriteString(Styles.Normal.Render("Current configuration (env format):") + "\n\n")

	for line := range strings.SplitSeq(strings.TrimSpace(envOutput), "\n") {
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if found {
			fmt.Fprintf(s, "%s=%s\n", Styles.ConfigVar.Render(name), Styles.ConfigValue.Render(value))
		} else {
			s.WriteString(line + "\n")
		}
	}
	return s
}

// renderField renders a labelled input line, highlighting the focused one.
func renderField(s *strings.Builder, label, view string, focused bool) {
	if focused {
		fmt.Fprintf(s, "→ %s %s\n", Styles.Selected.Render(label), view)
	} else {
		fmt.Fprintf(s, "  %s %s\n", Styles.Normal.Render(label), view)
	}
}
