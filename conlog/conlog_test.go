// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrintf(t *testing.T) {
	old := Logger()
	defer SetLogger(old)
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Printf("leafs: %d\n", 7)
	if got := buf.String(); !strings.Contains(got, "leafs: 7") || strings.Contains(got, "\\n") {
		t.Errorf("Printf wrote %q", got)
	}

	buf.Reset()
	SetDeveloper(false)
	DPrintf("hidden")
	if buf.Len() != 0 {
		t.Errorf("DPrintf wrote %q without developer mode", buf.String())
	}
	SetDeveloper(true)
	defer SetDeveloper(false)
	DPrintf("shown")
	if got := buf.String(); !strings.Contains(got, "level=DEBUG") || !strings.Contains(got, "shown") {
		t.Errorf("DPrintf wrote %q", got)
	}
}

func TestEnabled(t *testing.T) {
	old := Logger()
	defer SetLogger(old)
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, true},
		{slog.LevelWarn, true},
	}
	for i, tc := range tests {
		if got := Enabled(tc.level); got != tc.want {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, tc.want)
		}
	}
}
