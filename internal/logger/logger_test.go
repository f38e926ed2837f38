package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTextDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithWriter(&buf))
	l.Info("saved", "project", "novel")

	out := buf.String()
	if !strings.Contains(out, "saved") || !strings.Contains(out, "project=novel") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf)).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug filtered, got %q", buf.String())
	}

	New(WithWriter(&buf), WithDebug(true)).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf), WithJSON(true)).Info("recorded", "count", 3)

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("expected JSON line: %v", err)
	}
	if parsed["msg"] != "recorded" {
		t.Errorf("expected msg recorded, got %v", parsed["msg"])
	}
	if parsed["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", parsed["count"])
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	New(WithWriter(&buf), WithPretty(true)).Info("pretty output")
	if !strings.Contains(buf.String(), "pretty output") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriters(t *testing.T) {
	var a, b bytes.Buffer
	New(WithWriters(&a, &b)).Info("both")
	if !strings.Contains(a.String(), "both") || !strings.Contains(b.String(), "both") {
		t.Errorf("expected both writers to receive output: %q / %q", a.String(), b.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l.Handler().Enabled(context.Background(), slog.LevelError) {
		t.Error("expected nop handler to be disabled")
	}
	l.With("k", "v").Error("ignored")
}

func TestMulti(t *testing.T) {
	var text, js bytes.Buffer
	m := Multi(New(WithWriter(&text)), New(WithWriter(&js), WithJSON(true)))

	m.With("component", "api").WithGroup("req").Info("handled", "method", "GET")

	if !strings.Contains(text.String(), "handled") {
		t.Errorf("text logger missed record: %q", text.String())
	}
	var parsed map[string]any
	if err := json.Unmarshal(js.Bytes(), &parsed); err != nil {
		t.Fatalf("expected JSON line: %v", err)
	}
	if parsed["component"] != "api" {
		t.Errorf("expected component attr, got %v", parsed["component"])
	}
	group, ok := parsed["req"].(map[string]any)
	if !ok || group["method"] != "GET" {
		t.Errorf("expected req.method GET, got %v", parsed["req"])
	}
}
