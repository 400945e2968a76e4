package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefault_ConfigAndRestore(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer
	SetDefault(Make(&buf))
	Config(WithLevel(LevelTrace), WithFormat(FormatText))

	Trace("package trace")
	Info("package info")

	output := buf.String()
	if !strings.Contains(output, "package trace") {
		t.Errorf("trace not written: %s", output)
	}
	if !strings.Contains(output, "level=TRACE") {
		t.Errorf("expected level=TRACE: %s", output)
	}
	if Default().Level() != LevelTrace {
		t.Errorf("Default().Level() = %v", Default().Level())
	}
}
