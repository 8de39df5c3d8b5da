package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/flowmotion/flowmotion/pkg/errors"
)

// rasterTool is the external SVG rasterizer the PNG and PDF exports shell
// out to. It ships with librsvg (brew install librsvg / apt install
// librsvg2-bin).
const rasterTool = "rsvg-convert"

// minPNGScale guards against zero or negative scale factors from the
// --scale flag; rsvg-convert rejects them.
const minPNGScale = 0.1

// ToPDF converts a rendered SVG diagram to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return rasterize(svg, "pdf")
}

// ToPNG converts a rendered SVG diagram to PNG at the given scale factor.
// A scale of 2.0 doubles the pixel dimensions of the scene canvas.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale < minPNGScale {
		scale = minPNGScale
	}
	return rasterize(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rasterize pipes the SVG through rsvg-convert.
func rasterize(svg []byte, format string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(rasterTool); err != nil {
		return nil, errors.New(errors.ErrCodeExport,
			"%s export needs %s from librsvg (brew install librsvg, apt install librsvg2-bin)",
			format, rasterTool)
	}

	cmd := exec.Command(rasterTool, append([]string{"-f", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "%s: %s", rasterTool, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
