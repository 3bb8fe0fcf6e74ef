// Package ui renders console status lines.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Output is where status lines are printed
var Output io.Writer = os.Stdout

// FormatError returns a styled multi-line error message.
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// NeighborSummary formats the per-device result line
func NeighborSummary(hostname string, neighbors int) string {
	return fmt.Sprintf(" %-24s: found %3d lldp interface neighbors.", hostname, neighbors)
}

// DeviceDone prints how many neighbors a device reported
func DeviceDone(hostname string, neighbors int) {
	fmt.Fprintln(Output, NeighborSummary(hostname, neighbors))
}

// DeviceFailed prints a skipped device. The address is added only when
// err does not already name it.
func DeviceFailed(address string, err error) {
	msg := err.Error()
	if !strings.Contains(msg, address) {
		msg = address + ": " + msg
	}
	fmt.Fprintln(Output, warnStyle.Render("Error: "+msg))
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Fprintln(Output, successStyle.Render(msg))
}

// Warn prints a yellow warning message.
func Warn(msg string) {
	fmt.Fprintln(Output, warnStyle.Render("Warning: "+msg))
}

// RunTime formats the closing elapsed-time line
func RunTime(d time.Duration) string {
	return fmt.Sprintf("RunTime: %-3.2f sec", d.Seconds())
}

// Finish prints the separator and elapsed time
func Finish(d time.Duration) {
	fmt.Fprintln(Output, dimStyle.Render("-----------------------"))
	fmt.Fprintln(Output, RunTime(d))
	fmt.Fprintln(Output)
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}
