package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdMu sync.Mutex
	// Renderers keyed by style, colour profile and wrap width. A fixed
	// standard style avoids the terminal queries WithAutoStyle performs.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown returns md rendered for the terminal, or md itself when
// rendering fails.
func renderMarkdown(md, style string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	profile := lipgloss.ColorProfile()
	key := fmt.Sprintf("%s:%d:%d", style, profile, width)

	mdMu.Lock()
	r := mdRenderers[key]
	mdMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithColorProfile(profile),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
