package imageio

import (
	"fmt"
	"strings"

	"paintbrush/internal/grid"

	"github.com/dustin/go-humanize"
)

// MetaEntry is one labelled line of image metadata.
type MetaEntry struct {
	Key   string
	Value string
}

// Meta describes an image for display: its file, size and pixel count.
func Meta(path string, g *grid.Grid) []MetaEntry {
	return []MetaEntry{
		{Key: "File", Value: path},
		{Key: "Size", Value: fmt.Sprintf("%dx%d", g.Width(), g.Height())},
		{Key: "Pixels", Value: humanize.Comma(int64(g.Len()))},
	}
}

// FormatMeta renders entries as a fixed-width table framed by rules.
func FormatMeta(entries []MetaEntry) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("-", 12) + " Image Meta " + strings.Repeat("-", 12) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-12s%24s\n", e.Key+": ", e.Value)
	}
	sb.WriteString(strings.Repeat("-", 36) + "\n")
	return sb.String()
}
