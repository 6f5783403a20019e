package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the careerpath banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`   ___                          ___      _   _    `, "#34d399"},
		{`  / __|__ _ _ _ ___ ___ _ _    | _ \__ _| |_| |_  `, "#2dd4bf"},
		{` | (__/ _' | '_/ -_) -_) '_|   |  _/ _' |  _| ' \ `, "#22d3ee"},
		{`  \___\__,_|_| \___\___|_|     |_| \__,_|\__|_||_|`, "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
