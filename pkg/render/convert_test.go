package render

import (
	"testing"

	"github.com/flowmotion/flowmotion/pkg/errors"
)

func TestRasterizeMissingTool(t *testing.T) {
	// An empty PATH guarantees rsvg-convert cannot be found, whatever the
	// host has installed.
	t.Setenv("PATH", t.TempDir())

	tests := []struct {
		name string
		run  func() ([]byte, error)
	}{
		{name: "pdf", run: func() ([]byte, error) { return ToPDF([]byte("<svg/>")) }},
		{name: "png", run: func() ([]byte, error) { return ToPNG([]byte("<svg/>"), 2.0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run()
			if err == nil {
				t.Fatal("expected error without rsvg-convert on PATH")
			}
			if !errors.Is(err, errors.ErrCodeExport) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeExport)
			}
		})
	}
}
