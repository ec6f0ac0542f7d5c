package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/raster"
)

func parsedGenFlags(t *testing.T, args ...string) (*genFlags, *cobra.Command) {
	t.Helper()
	var f genFlags
	cmd := &cobra.Command{Use: "test"}
	f.bind(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return &f, cmd
}

func TestGenFlagsKeepBaseUnlessChanged(t *testing.T) {
	base := kumiko.Options{Size: 300, ColorScheme: "nord", Zoom: 2}

	f, cmd := parsedGenFlags(t)
	got, err := f.options(cmd, base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	f, cmd = parsedGenFlags(t, "--size", "500", "--finalize", "--layer", "1:sw=2", "--layer", "1:fg=#abc")
	got, err = f.options(cmd, base)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Size)
	assert.Equal(t, "nord", got.ColorScheme)
	assert.True(t, got.Finalize)
	assert.Equal(t, []kumiko.LayerOverride{{}, {FG: "#abc", StrokeWidth: 2}}, got.Layers)
}

func TestGenFlagsValidate(t *testing.T) {
	f, cmd := parsedGenFlags(t, "--overflow", "0.5")
	_, err := f.options(cmd, kumiko.Options{})
	assert.Error(t, err)
}

func TestRasterFlags(t *testing.T) {
	var f rasterFlags
	cmd := &cobra.Command{Use: "test"}
	f.bind(cmd, "png-width", "png-height")
	require.NoError(t, cmd.ParseFlags([]string{"--png-width", "800", "--backend", "RSVG"}))

	got := f.options(cmd, raster.Options{Width: 1000, Height: 500}, "png-width", "png-height")
	assert.Equal(t, 800, got.Width)
	assert.Equal(t, 500, got.Height)
	assert.Equal(t, raster.BackendRsvg, got.Backend)
}
