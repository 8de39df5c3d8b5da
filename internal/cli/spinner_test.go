package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer so the spinner goroutine and the test can
// share it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSpinner(ctx context.Context, message string) (*Spinner, *syncBuffer) {
	s := newSpinnerWithContext(ctx, message)
	buf := &syncBuffer{}
	s.w = buf
	return s, buf
}

func TestSpinnerWritesMessage(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Rendering SVG...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering SVG...") {
		t.Errorf("spinner output %q missing message", buf.String())
	}
}

func TestSpinnerUpdateMessage(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Rendering SVG...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.UpdateMessage("Rasterizing PNG at 2.0x...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Rendering SVG...", "Rasterizing PNG at 2.0x..."} {
		if !strings.Contains(out, want) {
			t.Errorf("spinner output missing %q", want)
		}
	}
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx, "Resolving layout...")
	s.Start()

	cancel()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context cancellation")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval)
	defer cancel()

	s, _ := testSpinner(ctx, "Rasterizing PNG...")
	s.Start()
	time.Sleep(3 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Exporting...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerClearsLineOnStop(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Rendering SVG...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("spinner should end output with a carriage return after clearing")
	}
}
