package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug level passes everything", level: log.DebugLevel, wantDebug: true, wantInfo: true},
		{name: "info level drops debug", level: log.InfoLevel, wantDebug: false, wantInfo: true},
		{name: "warn level drops info", level: log.WarnLevel, wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)

			l.Debug("resolving node geometry")
			l.Info("flattening timeline")

			out := buf.String()
			if got := strings.Contains(out, "resolving node geometry"); got != tt.wantDebug {
				t.Errorf("debug message logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "flattening timeline"); got != tt.wantInfo {
				t.Errorf("info message logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestNewLoggerTimestamps(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	l.Info("evaluating frames")

	// "HH:MM:SS.ms" timestamps carry two colons.
	if strings.Count(buf.String(), ":") < 2 {
		t.Errorf("log line %q missing timestamp", buf.String())
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	p := newProgress(l)
	p.done("Resolved 3 nodes")

	out := buf.String()
	if !strings.Contains(out, "Resolved 3 nodes (") {
		t.Errorf("progress output %q missing message with elapsed time", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("progress output %q missing duration suffix", out)
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext without attachment should fall back to log.Default()")
	}
}
