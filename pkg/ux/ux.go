// Package ux renders the disk-cleanup CLI's console output: colored status
// lines, a progress bar during analysis, and the recommendation/usage
// tables printed after an Analyze or diag run.
package ux

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

// Color definitions for consistent output.
var (
	Success = color.New(color.FgGreen).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Info    = color.New(color.FgCyan).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// PrintSuccess prints a success message with a green checkmark.
func PrintSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Success("✓"), msg)
}

// PrintError prints an error message with a red X.
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Error("✗"), msg)
}

// PrintWarning prints a warning message with a yellow triangle.
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Warning("⚠"), msg)
}

// PrintInfo prints an info message with a cyan dot.
func PrintInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", Info("•"), msg)
}

// PrintHeader prints a bold header, e.g. "Disk Cleanup".
func PrintHeader(text string) {
	fmt.Println(Bold(text))
	fmt.Println(Bold(repeat("=", len(text))))
	fmt.Println()
}

// PrintSection prints a section header, e.g. a run's mode/confidence line.
func PrintSection(text string) {
	fmt.Println()
	fmt.Println(Bold(text))
}

// NewProgressBar creates the progress bar shown while a scan's files are
// analyzed.
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
	)
}

// FormatCost formats a dollar amount, colored by how close it runs to
// exhausting a budget: green while negligible, climbing through cyan and
// yellow to red past a dollar.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.01:
		return Success(fmt.Sprintf("$%.4f", cost))
	case cost < 0.10:
		return Info(fmt.Sprintf("$%.4f", cost))
	case cost < 1.00:
		return Warning(fmt.Sprintf("$%.4f", cost))
	default:
		return Error(fmt.Sprintf("$%.4f", cost))
	}
}

// actionColor colors a recommended action: delete stands out in red, a
// review in yellow, and keep is dimmed since it is the common case.
func actionColor(a cleanup.Action) func(...interface{}) string {
	switch a {
	case cleanup.ActionDelete:
		return Error
	case cleanup.ActionReview:
		return Warning
	default:
		return Dim
	}
}

// PrintRecommendationsTable prints one row per recommendation produced by
// an Analyze run, with the action column colored by disposition.
func PrintRecommendationsTable(recs []cleanup.Recommendation) {
	rows := [][]string{{"ACTION", "RISK", "CATEGORY", "CONFIDENCE", "PATH"}}
	for _, rec := range recs {
		rows = append(rows, []string{
			actionColor(rec.Action)(string(rec.Action)),
			string(rec.Risk),
			rec.Category,
			fmt.Sprintf("%.2f", rec.Confidence),
			rec.Path,
		})
	}
	printTable(rows)
}

// printTable prints left-justified, space-padded columns, sized off each
// column's widest *uncolored* cell — ANSI color codes inflate len(), so a
// colored cell would otherwise throw off every column's alignment.
func printTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, col := range row {
			plain := stripANSI(col)
			if len(plain) > colWidths[i] {
				colWidths[i] = len(plain)
			}
		}
	}

	for _, row := range rows {
		for i, col := range row {
			fmt.Print(col)
			fmt.Print(repeat(" ", colWidths[i]-len(stripANSI(col))+2))
		}
		fmt.Println()
	}
}

// stripANSI removes color.New(...).SprintFunc() escape sequences so column
// widths are computed off the visible text.
func stripANSI(s string) string {
	var b []byte
	inEscape := false
	for i := 0; i < len(s); i++ {
		switch {
		case inEscape:
			if s[i] == 'm' {
				inEscape = false
			}
		case s[i] == '\x1b':
			inEscape = true
		default:
			b = append(b, s[i])
		}
	}
	return string(b)
}

// repeat builds a string of count copies of s.
func repeat(s string, count int) string {
	result := ""
	for i := 0; i < count; i++ {
		result += s
	}
	return result
}
