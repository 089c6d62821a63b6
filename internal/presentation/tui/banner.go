package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Title is the product name shown in every front end.
const Title = "Customer Support Assistant"

// PrintBanner writes the interactive-mode banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	title := termenv.String(Title).Bold().Foreground(p.Color("#818cf8"))
	sub := termenv.String("triage " + version + " · type a question, or 'exit' to quit").Foreground(p.Color("#a78bfa"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, sub)
	fmt.Fprintln(w)
}
