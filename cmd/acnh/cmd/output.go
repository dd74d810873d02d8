package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/acnh/internal/adapters/web"
	"github.com/corey/acnh/internal/app"
	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/search"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Selection markers.
const (
	markOwned  = "✓"
	markWished = "♥"
)

// renderSpans highlights matched runs for the terminal.
func renderSpans(spans search.Spans) string {
	var sb strings.Builder
	for _, sp := range spans {
		if sp.Matched {
			sb.WriteString(colorBold + colorYellow + sp.Text + colorReset)
		} else {
			sb.WriteString(sp.Text)
		}
	}
	return sb.String()
}

// displayName renders name and variant from spans, falling back to the
// original entry when spans are absent.
func displayName(h web.Hit) string {
	name := renderSpans(h.NameSpans)
	if name == "" {
		name = h.Original.Name
	}
	variant := renderSpans(h.VariantSpans)
	if variant == "" {
		variant = h.Original.Variant
	}
	if variant != "" {
		return name + " (" + variant + ")"
	}
	return name
}

func marker(owned, wished bool) string {
	switch {
	case owned:
		return colorGreen + markOwned + colorReset
	case wished:
		return colorRed + markWished + colorReset
	default:
		return " "
	}
}

// formatSearchResult formats search hits for terminal display.
//
//	⚡ 3 results │ Housewares │ 0.4ms
//	  ✓ Wooden Chair  Housewares  #1
//	  ♥ Iron Chair  Housewares  #3
func formatSearchResult(res *web.SearchResult, elapsed string) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s⚡ %d results%s", colorBold, res.Count, colorReset)
	if len(res.Filters) > 0 {
		header += " │ " + strings.Join(res.Filters, ", ")
	}
	if elapsed != "" {
		header += " │ " + elapsed
	}
	sb.WriteString(header + "\n")

	for _, h := range res.Results {
		sb.WriteString(fmt.Sprintf("  %s %s  %s%s%s  %s#%s%s\n",
			marker(h.Owned, h.Wished),
			displayName(h),
			colorCyan, h.Category, colorReset,
			colorGray, h.ID, colorReset))
	}
	return sb.String()
}

// formatEntries formats a hydrated list (owned or wished items).
func formatEntries(title string, entries []catalog.Entry, total int) string {
	var sb strings.Builder
	count := fmt.Sprintf("%d items", len(entries))
	if total != len(entries) {
		count = fmt.Sprintf("%d of %d items", len(entries), total)
	}
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ %s\n", colorBold, title, colorReset, count))
	for _, e := range entries {
		name := e.Name
		if e.Variant != "" {
			name += " (" + e.Variant + ")"
		}
		sb.WriteString(fmt.Sprintf("  %s  %s%s%s  %s#%s%s\n",
			name,
			colorCyan, e.Category, colorReset,
			colorGray, e.ID, colorReset))
	}
	return sb.String()
}

// formatStatus formats the app status.
func formatStatus(st app.Status) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ acnh status%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  Schema:     %s", st.Version))
	if st.MigratedFrom != "" {
		sb.WriteString(fmt.Sprintf(" %s(migrated from %s)%s", colorYellow, st.MigratedFrom, colorReset))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Storage:    %s, key %s\n", st.Backend, st.Key))
	sb.WriteString(fmt.Sprintf("  Catalog:    %s (%d entries", st.CatalogPath, st.CatalogEntries))
	if st.CatalogSkipped > 0 {
		sb.WriteString(fmt.Sprintf(", %s%d skipped%s", colorYellow, st.CatalogSkipped, colorReset))
	}
	sb.WriteString(fmt.Sprintf(", %d categories)\n", len(st.Categories)))
	sb.WriteString(fmt.Sprintf("  Owned:      %d\n", st.Owned))
	sb.WriteString(fmt.Sprintf("  Wishlist:   %d\n", st.Wished))
	if st.Unknown > 0 {
		sb.WriteString(fmt.Sprintf("  Unknown:    %s%d ids not in the catalog%s\n", colorYellow, st.Unknown, colorReset))
	}
	if st.Searches > 0 {
		sb.WriteString(fmt.Sprintf("  Searches:   %d in the last 5m", st.Searches))
		if st.SearchP50 != "" {
			sb.WriteString(fmt.Sprintf(", p50 %s", st.SearchP50))
		}
		sb.WriteString("\n")
	}
	if st.ReloadError != "" {
		sb.WriteString(fmt.Sprintf("  Reload:     %s%s%s\n", colorRed, st.ReloadError, colorReset))
	}
	if st.LoadError != "" {
		sb.WriteString(fmt.Sprintf("  Load error: %s%s%s\n", colorRed, st.LoadError, colorReset))
	}
	return sb.String()
}

// stripANSI removes color codes; used when output is not a terminal and in tests.
func stripANSI(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
