package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{1234 * time.Nanosecond, "1µs"},
		{1234567 * time.Nanosecond, "1.2ms"},
		{1234567890 * time.Nanosecond, "1.235s"},
		{0, "0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.in); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	old := time.Date(2020, time.March, 4, 12, 0, 0, 0, time.Local)
	if got := formatRelativeTime(old); got != "Mar 4, 2020" {
		t.Errorf("formatRelativeTime(old) = %q", got)
	}
}

func TestPrintRunStats(t *testing.T) {
	buf := captureStdout(t)

	printRunStats(150, 8, 2*time.Millisecond, false)
	out := buf.String()
	for _, want := range []string{"150 tasks", "8 workers", "2ms", iconFresh} {
		if !strings.Contains(out, want) {
			t.Errorf("printRunStats fresh missing %q: %q", want, out)
		}
	}

	buf.Reset()
	printRunStats(150, 8, time.Millisecond, true)
	out = buf.String()
	if strings.Contains(out, "workers") {
		t.Errorf("cached stats should omit workers: %q", out)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("cached stats missing marker: %q", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"n", "name"}, [][]string{{"7", "seven"}, {"10", "ten"}}, 0)
	for _, want := range []string{"n", "name", "seven", "ten", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTable missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines < 5 {
		t.Errorf("renderTable produced %d lines:\n%s", lines, out)
	}
}

func TestPrintHelpers(t *testing.T) {
	buf := captureStdout(t)

	printSuccess("done %d", 1)
	printInfo("note")
	printWarning("careful")
	printKeyValue("checksum", "228")
	printFile("/tmp/x.svg")

	out := buf.String()
	for _, want := range []string{"done 1", "note", "careful", "checksum", "228", "/tmp/x.svg"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0b7e4c52-1234-5678-9abc-def012345678"); got != "0b7e4c52" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(short) = %q", got)
	}
}
