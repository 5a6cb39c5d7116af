package summarizer

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// ForName returns the formatter registered under name: "text" or "markdown".
func ForName(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return FormatFunc(Text), nil
	case "markdown", "md":
		return FormatFunc(Markdown), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", name)
	}
}

// LoopString describes a loop count for display.
func LoopString(n int) string {
	switch {
	case n == 0:
		return l10n.T("forever")
	case n < 0:
		return l10n.T("once")
	default:
		return fmt.Sprint(n)
	}
}

// Text renders a header line followed by an aligned frame table.
func Text(s *Summary) string {
	var b strings.Builder
	fmt.Fprintln(&b, l10n.F("%s: %s %dx%d, %d frames, %s, loop %s, %s",
		s.Source.Name, s.Canvas.Version, s.Canvas.Width, s.Canvas.Height, len(s.Frames),
		s.Timing.Declared, LoopString(s.Canvas.LoopCount), humanize.Bytes(uint64(s.Source.Bytes))))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, l10n.T("FRAME\tBOUNDS\tDELAY\tPLAYED\tDISPOSAL\tPALETTE\tTRANSPARENT"))
	for _, f := range s.Frames {
		fmt.Fprintf(tw, "%d\t%v\t%v\t%v\t%v\t%s\t%s\n",
			f.Index, f.Bounds, f.Delay, f.Played, f.Disposal, paletteString(f.LocalPalette), transparentString(f.Transparent))
	}
	tw.Flush()
	return b.String()
}

// Markdown renders the summary as a markdown document.
func Markdown(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Source.Name)
	fmt.Fprintf(&b, "_%s_\n\n", l10n.F("Generated at %s", s.GeneratedAt.Format("2006-01-02 15:04:05")))

	fmt.Fprintf(&b, "## %s\n\n", l10n.T("Container"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", l10n.T("Item"), l10n.T("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", l10n.T("Version"), s.Canvas.Version)
	fmt.Fprintf(&b, "| %s | %dx%d |\n", l10n.T("Canvas"), s.Canvas.Width, s.Canvas.Height)
	fmt.Fprintf(&b, "| %s | %d |\n", l10n.T("Frames"), len(s.Frames))
	fmt.Fprintf(&b, "| %s | %s |\n", l10n.T("Loop"), LoopString(s.Canvas.LoopCount))
	fmt.Fprintf(&b, "| %s | %s |\n", l10n.T("File size"), humanize.Bytes(uint64(s.Source.Bytes)))
	fmt.Fprintf(&b, "| %s | %d ms |\n", l10n.T("Declared duration"), s.Timing.Declared.Milliseconds())
	fmt.Fprintf(&b, "| %s | %d ms |\n\n", l10n.T("Played duration"), s.Timing.Played.Milliseconds())

	fmt.Fprintf(&b, "## %s\n\n", l10n.T("Frames"))
	fmt.Fprintln(&b, "| # | Bounds | Delay | Played | Disposal | Palette | Transparent |")
	fmt.Fprintln(&b, "|---|---|---|---|---|---|---|")
	for _, f := range s.Frames {
		fmt.Fprintf(&b, "| %d | %v | %d ms | %d ms | %v | %s | %s |\n",
			f.Index, f.Bounds, f.Delay.Milliseconds(), f.Played.Milliseconds(), f.Disposal,
			paletteString(f.LocalPalette), transparentString(f.Transparent))
	}
	return b.String()
}

func paletteString(local bool) string {
	if local {
		return "local"
	}
	return "global"
}

func transparentString(i int) string {
	if i < 0 {
		return "-"
	}
	return fmt.Sprint(i)
}
