package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kumiko/pkg/kumiko"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m viewModel, msgs ...tea.Msg) viewModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(viewModel)
	}
	return m
}

func typeText(t *testing.T, m viewModel, text string) viewModel {
	t.Helper()
	for _, r := range text {
		m = press(t, m, keys(string(r)))
	}
	return press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestViewModelInitialRender(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{}, t.TempDir())
	require.NoError(t, m.err)

	want, _ := kumiko.GenerateDetailed("hello-world", kumiko.Options{})
	assert.Equal(t, want.SVG, m.res.SVG)
	assert.Contains(t, m.View(), "hello-world")
	assert.Contains(t, m.View(), want.Layers[0].PatternName)
}

func TestViewModelDivisionsAndZoom(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{}, t.TempDir())
	auto := m.res.Divisions

	m = press(t, m, keys("+"))
	assert.Equal(t, auto+1, m.opts.Divisions)
	assert.Equal(t, auto+1, m.res.Divisions)

	m = press(t, m, keys("0"))
	assert.Zero(t, m.opts.Divisions)
	assert.Equal(t, auto, m.res.Divisions)

	m = press(t, m, keys("z"), keys("z"))
	assert.InDelta(t, zoomStep*zoomStep, m.opts.Zoom, 1e-9)
	m = press(t, m, keys("x"), keys("x"), keys("x"))
	assert.Equal(t, 1.0, m.opts.Zoom, "zoom does not go below 1")
}

func TestViewModelSchemeCycle(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{}, t.TempDir())
	assert.Empty(t, m.opts.ColorScheme)

	m = press(t, m, keys("c"))
	assert.Equal(t, "default", m.opts.ColorScheme)
	assert.Equal(t, "Default", m.res.ColorSchemeName)

	m = press(t, m, keys("C"), keys("C"))
	assert.Equal(t, "random", m.opts.ColorScheme, "cycling wraps around")
	assert.NoError(t, m.err)
}

func TestViewModelStartsOnConfiguredScheme(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{ColorScheme: "TokyoNight"}, t.TempDir())
	m = press(t, m, keys("c"))
	assert.Equal(t, "tokyonight-storm", m.opts.ColorScheme)
}

func TestViewModelLayerOverrides(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{}, t.TempDir())

	m = press(t, m, keys("e"))
	assert.Equal(t, editColor, m.editing)
	m = typeText(t, m, "ff6600")
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, "#ff6600", m.res.Layers[0].FG)

	m = press(t, m, keys("t"))
	m = typeText(t, m, "2.5")
	assert.Equal(t, 2.5, m.res.Layers[0].StrokeWidth)

	m = press(t, m, keys("u"))
	assert.Empty(t, m.opts.Layers)
}

func TestViewModelRejectsBadInput(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{}, t.TempDir())

	m = press(t, m, keys("t"))
	m = typeText(t, m, "-1")
	assert.Equal(t, editStroke, m.editing, "stays in edit mode")
	assert.NotEmpty(t, m.status)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, editNone, m.editing)
	assert.Empty(t, m.opts.Layers)
}

func TestViewModelEditSlug(t *testing.T) {
	m := newViewModel("a", kumiko.Options{}, t.TempDir())
	m = press(t, m, keys("s"), tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeText(t, m, "other")
	assert.Equal(t, "other", m.slug)

	want, _ := kumiko.Generate("other", kumiko.Options{})
	assert.Equal(t, want, m.res.SVG)
}

func TestViewModelWrite(t *testing.T) {
	dir := t.TempDir()
	m := newViewModel("hello-world", kumiko.Options{}, dir)
	m = press(t, m, keys("w"))

	data, err := os.ReadFile(filepath.Join(dir, "hello-world.svg"))
	require.NoError(t, err)
	assert.Equal(t, m.res.SVG, string(data))
	assert.Contains(t, m.status, "wrote")
}

func TestViewModelQuit(t *testing.T) {
	m := newViewModel("hello-world", kumiko.Options{}, t.TempDir())
	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
