package raster

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/matzehuels/kumiko/pkg/errors"
)

// rsvgConvert shells out to rsvg-convert for format conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export with the rsvg backend requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin\nor use --backend native", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterFailed, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}

// RsvgAvailable reports whether rsvg-convert is on PATH.
func RsvgAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func itoa(n int) string { return strconv.Itoa(n) }
