package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"lysithea/internal/logger"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, false, true)
	log.Debug("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged without debug: %q", out)
	}
	if !strings.Contains(out, "LYSITHEA") || !strings.Contains(out, "shown") {
		t.Errorf("expected prefixed warning, got %q", out)
	}

	buf.Reset()
	logger.InitWithWriter(&buf, true, true)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug message, got %q", buf.String())
	}
}
