package main

import (
	"fmt"
	"io"

	"annocheck/internal/observ"
)

func printTimings(out io.Writer, report *observ.Report) {
	if out == nil || report == nil {
		return
	}
	for _, phase := range report.Phases {
		line := fmt.Sprintf("%-9s %.1f ms", phase.Name, phase.DurationMS)
		if phase.Note != "" {
			line += "  (" + phase.Note + ")"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			panic(err)
		}
	}
	if _, err := fmt.Fprintf(out, "%-9s %.1f ms\n", "total", report.TotalMS); err != nil {
		panic(err)
	}
}
