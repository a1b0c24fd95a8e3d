package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/ui"
)

func TestPrintConfig(t *testing.T) {
	ui.ForceNoColor()

	var buf bytes.Buffer
	printConfig(&buf, model.AppConfig{GeminiFlowID: "f1", APIKey: "****ey-1"}, true)
	out := buf.String()

	for _, want := range []string{"f1", "****ey-1", "ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printConfig(&buf, model.AppConfig{}, false)
	if !strings.Contains(buf.String(), "incomplete") {
		t.Errorf("unconfigured output should say incomplete:\n%s", buf.String())
	}
}

func TestPrintScheduleViews(t *testing.T) {
	ui.ForceNoColor()

	var buf bytes.Buffer
	printScheduleViews(&buf, nil)
	if !strings.Contains(buf.String(), "no scheduled posts") {
		t.Errorf("empty list: %q", buf.String())
	}

	buf.Reset()
	printScheduleViews(&buf, []model.ScheduleView{{
		ID:          42,
		Title:       "Product review video #1",
		DisplayDate: "May 1, 2024",
		DisplayTime: "10:00",
		Caption:     strings.Repeat("x", 60),
		Status:      "pending",
		StatusLabel: "awaiting action",
	}})
	out := buf.String()
	for _, want := range []string{"42", "Product review video #1", "May 1, 2024 10:00", "awaiting action", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 60)) {
		t.Error("long caption should be truncated")
	}
}

func TestPrintProducts(t *testing.T) {
	ui.ForceNoColor()

	var buf bytes.Buffer
	printProducts(&buf, []model.Product{{
		ID:        "prd-abc",
		Name:      "Serum",
		Price:     "390",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}})
	out := buf.String()
	if !strings.Contains(out, "prd-abc") || !strings.Contains(out, "Serum") || !strings.Contains(out, "390") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestColorizeHelpOutput_NoColor(t *testing.T) {
	ui.ForceNoColor()
	in := "Studio:\n  config  Show or set credentials\n"
	if got := colorizeHelpOutput(in); !strings.Contains(got, "Studio:") || !strings.Contains(got, "config") {
		t.Errorf("colorizeHelpOutput dropped text: %q", got)
	}
}

func TestRootCommandTree(t *testing.T) {
	want := []string{"config", "product", "generate", "dashboard", "schedule", "watch", "serve", "health", "backup", "remote"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing command %q", name)
		}
	}
}
