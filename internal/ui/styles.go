package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorMuted   = 245 // medium gray
	colorPending = 179 // amber
	colorPosted  = 114 // green
	colorWarn    = 173 // orange
	colorError   = 203 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderWarning styles a non-fatal warning line.
func RenderWarning(s string) string { return paint(colorWarn, s) }

// RenderError styles an error line.
func RenderError(s string) string { return paint(colorError, s) }

// RenderStatus colours a schedule status label by its raw status value.
// Unknown statuses are left unstyled.
func RenderStatus(status, label string) string {
	switch status {
	case "pending":
		return paint(colorPending, label)
	case "scheduled":
		return paint(colorAccent, label)
	case "posted":
		return paint(colorPosted, label)
	}
	return label
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
