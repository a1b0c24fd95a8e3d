package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorMode is a colour preference for CLI output.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode accepts auto, always/on/1 and never/off/0.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "1":
		return ColorAlways, nil
	case "never", "off", "0":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

// colorMode resolves the preference from the environment. REEL_COLOR wins;
// an unparsable value falls through to NO_COLOR, CLICOLOR_FORCE and CLICOLOR.
func colorMode(getenv func(string) string) ColorMode {
	if m, err := ParseColorMode(getenv("REEL_COLOR")); err == nil && m != ColorAuto {
		return m
	}
	if getenv("NO_COLOR") != "" {
		return ColorNever
	}
	if strings.TrimSpace(getenv("CLICOLOR_FORCE")) == "1" {
		return ColorAlways
	}
	if strings.TrimSpace(getenv("CLICOLOR")) == "0" {
		return ColorNever
	}
	return ColorAuto
}

// ShouldUseColor reports whether ANSI colours should be written to w. In
// auto mode only terminals get colour.
func ShouldUseColor(w io.Writer) bool {
	return useColor(w, os.Getenv)
}

func useColor(w io.Writer, getenv func(string) string) bool {
	switch colorMode(getenv) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
