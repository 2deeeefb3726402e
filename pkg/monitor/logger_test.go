package monitor

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCustomHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCustomHandler(&buf, slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithDebugID(context.Background(), "ab12")
	logger.InfoContext(ctx, "tool invoked", "name", "wikipedia", "iteration", 2)

	line := buf.String()
	if !strings.Contains(line, "[INFO]") {
		t.Errorf("line missing level: %q", line)
	}
	if !strings.Contains(line, "[ab12]") {
		t.Errorf("line missing debug id: %q", line)
	}
	if !strings.Contains(line, `name="wikipedia"`) {
		t.Errorf("line missing quoted string attr: %q", line)
	}
	if !strings.Contains(line, "iteration=2") {
		t.Errorf("line missing numeric attr: %q", line)
	}
}

func TestCustomHandlerOmitsDebugIDWhenAbsent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCustomHandler(&buf, slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Info("plain message")

	line := buf.String()
	if strings.Count(line, "[") != 2 {
		t.Errorf("expected only time and level brackets: %q", line)
	}
}

func TestCustomHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCustomHandler(&buf, slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info line passed a warn-level handler")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn line was dropped")
	}
}

func TestCLIMonitorOutput(t *testing.T) {
	var buf bytes.Buffer
	m := &CLIMonitor{writer: &buf}

	m.OnMessage(MonitorMessage{MessageType: "USER", ChannelID: "telegram", Username: "alice", Content: "hi"})
	m.OnMessage(MonitorMessage{MessageType: "ASSISTANT", Content: "💡 hello"})

	out := buf.String()
	if !strings.Contains(out, "[telegram/alice] hi") {
		t.Errorf("user line malformed: %q", out)
	}
	if !strings.Contains(out, "[AI] 💡 hello") {
		t.Errorf("assistant line malformed: %q", out)
	}
}
