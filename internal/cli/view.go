package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

var (
	viewLabelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(11)
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
	viewErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	maxViewDivisions = 40
	zoomStep         = 1.25
)

// editField is the value the text input is editing, if any.
type editField int

const (
	editNone editField = iota
	editSlug
	editColor
	editStroke
)

func (f editField) prompt() string {
	switch f {
	case editSlug:
		return "slug: "
	case editColor:
		return "color: "
	case editStroke:
		return "stroke: "
	}
	return ""
}

// viewModel is the bubbletea model behind `kumiko view`. Every change to the
// slug or options regenerates the artwork.
type viewModel struct {
	slug   string
	opts   kumiko.Options
	outDir string

	schemes []string
	scheme  int
	layer   int

	res    kumiko.Result
	err    error
	status string

	editing editField
	input   textinput.Model
}

func newViewModel(slug string, opts kumiko.Options, outDir string) viewModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := viewModel{
		slug:    slug,
		opts:    opts,
		outDir:  outDir,
		schemes: append([]string{""}, scheme.Keys()...),
		input:   ti,
	}
	for i, k := range m.schemes {
		if k != "" && k == scheme.NormalizeKey(opts.ColorScheme) {
			m.scheme = i
		}
	}
	m.regenerate()
	return m
}

func (m *viewModel) regenerate() {
	m.res, m.err = kumiko.GenerateDetailed(m.slug, m.opts)
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing != editNone {
		return m.updateEditing(key)
	}

	m.status = ""
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "/", "s":
		return m.startEdit(editSlug, m.slug)
	case "r":
		m.slug = randomSlug()
	case "+", "=":
		m.opts.Divisions = min(m.divisions()+1, maxViewDivisions)
	case "-", "_":
		m.opts.Divisions = max(m.divisions()-1, 1)
	case "0":
		m.opts.Divisions = 0
	case "z":
		m.opts.Zoom = m.zoom() * zoomStep
	case "x":
		m.opts.Zoom = max(m.zoom()/zoomStep, 1)
	case "c":
		m.cycleScheme(1)
	case "C":
		m.cycleScheme(-1)
	case "f":
		m.opts.Finalize = !m.opts.Finalize
	case "tab", "down", "j":
		m.selectLayer(m.layer + 1)
	case "shift+tab", "up", "k":
		m.selectLayer(m.layer - 1)
	case "1", "2", "3", "4":
		m.selectLayer(int(key.String()[0] - '1'))
	case "e":
		return m.startEdit(editColor, m.override().FG)
	case "t":
		sw := ""
		if o := m.override(); o.StrokeWidth > 0 {
			sw = strconv.FormatFloat(o.StrokeWidth, 'f', -1, 64)
		}
		return m.startEdit(editStroke, sw)
	case "u":
		m.setOverride(kumiko.LayerOverride{})
	case "w":
		m.write()
		return m, nil
	default:
		return m, nil
	}
	m.regenerate()
	return m, nil
}

func (m viewModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.stopEdit()
		return m, nil
	case tea.KeyEnter:
		if err := m.apply(strings.TrimSpace(m.input.Value())); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.stopEdit()
		m.regenerate()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m viewModel) startEdit(f editField, value string) (tea.Model, tea.Cmd) {
	m.editing = f
	m.status = ""
	m.input.Prompt = f.prompt()
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *viewModel) stopEdit() {
	m.editing = editNone
	m.input.Blur()
	m.input.Reset()
}

// apply stores the edited value; an empty value clears a layer field.
func (m *viewModel) apply(value string) error {
	switch m.editing {
	case editSlug:
		if value == "" {
			return fmt.Errorf("slug must not be empty")
		}
		m.slug = value
	case editColor:
		if value != "" && !strings.HasPrefix(value, "#") {
			value = "#" + value
		}
		if err := kumiko.ValidateColor("color", value); err != nil {
			return err
		}
		o := m.override()
		o.FG = value
		m.setOverride(o)
	case editStroke:
		o := m.override()
		o.StrokeWidth = 0
		if value != "" {
			sw, err := strconv.ParseFloat(value, 64)
			if err != nil || sw <= 0 {
				return fmt.Errorf("stroke width must be a positive number")
			}
			o.StrokeWidth = sw
		}
		m.setOverride(o)
	}
	return nil
}

func (m viewModel) divisions() int {
	if m.opts.Divisions > 0 {
		return m.opts.Divisions
	}
	return m.res.Divisions
}

func (m viewModel) zoom() float64 {
	if m.opts.Zoom > 0 {
		return m.opts.Zoom
	}
	return kumiko.DefaultZoom
}

func (m *viewModel) cycleScheme(step int) {
	n := len(m.schemes)
	m.scheme = ((m.scheme+step)%n + n) % n
	m.opts.ColorScheme = m.schemes[m.scheme]
}

func (m *viewModel) selectLayer(i int) {
	n := max(len(m.res.Layers), 1)
	m.layer = (i%n + n) % n
}

func (m viewModel) override() kumiko.LayerOverride {
	if m.layer < len(m.opts.Layers) {
		return m.opts.Layers[m.layer]
	}
	return kumiko.LayerOverride{}
}

func (m *viewModel) setOverride(o kumiko.LayerOverride) {
	layers := make([]kumiko.LayerOverride, max(len(m.opts.Layers), m.layer+1))
	copy(layers, m.opts.Layers)
	layers[m.layer] = o
	for len(layers) > 0 && layers[len(layers)-1].IsZero() {
		layers = layers[:len(layers)-1]
	}
	m.opts.Layers = layers
}

func (m *viewModel) write() {
	if m.err != nil {
		m.status = "nothing to write: " + m.err.Error()
		return
	}
	path := filepath.Join(m.outDir, m.slug+".svg")
	if err := os.WriteFile(path, []byte(m.res.SVG), 0o644); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "wrote " + path
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName+" view") + "\n\n")

	row := func(label, value string) {
		b.WriteString(viewLabelStyle.Render(label) + " " + value + "\n")
	}
	row("slug", StyleHighlight.Render(m.slug))
	div := strconv.Itoa(m.divisions())
	if m.opts.Divisions == 0 {
		div += StyleDim.Render(" (auto)")
	}
	row("divisions", div)
	row("zoom", strconv.FormatFloat(m.zoom(), 'f', 2, 64))
	sch := m.opts.ColorScheme
	if sch == "" {
		sch = StyleDim.Render("none")
	} else if m.res.ColorSchemeName != "" {
		sch = m.res.ColorSchemeName
	}
	row("scheme", sch)
	row("finalize", strconv.FormatBool(m.opts.Finalize))
	row("svg", formatBytes(len(m.res.SVG)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(viewErrorStyle.Render(m.err.Error()) + "\n")
	} else {
		b.WriteString(m.layerList())
	}
	b.WriteString("\n")

	if m.editing != editNone {
		b.WriteString(m.input.View() + "\n")
		b.WriteString(viewHelpStyle.Render("enter apply · esc cancel · empty clears") + "\n")
	} else {
		b.WriteString(viewHelpStyle.Render("s slug · r random · +/- divisions · z/x zoom · c/C scheme · f finalize") + "\n")
		b.WriteString(viewHelpStyle.Render("tab layer · e color · t stroke · u reset layer · w write · q quit") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + StyleDim.Render(m.status) + "\n")
	}
	return b.String()
}

func (m viewModel) layerList() string {
	var b strings.Builder
	for i, l := range m.res.Layers {
		cursor := "  "
		name := fmt.Sprintf("%d %-12s", l.PatternIndex, l.PatternName)
		if i == m.layer {
			cursor = "▸ "
			name = viewSelectedStyle.Render(name)
		}
		line := fmt.Sprintf("%s%s %s %s  sw %s ×%d",
			cursor, name, swatch(l.FG), l.FG,
			strconv.FormatFloat(l.StrokeWidth, 'f', -1, 64), l.Overlaps)
		if i < len(m.opts.Layers) && !m.opts.Layers[i].IsZero() {
			line += StyleWarning.Render(" *")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		gf     genFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "view [slug]",
		Short: "Explore a slug's artwork interactively",
		Long: `Open an interactive viewer for a slug. Divisions, zoom, color scheme
and per-layer overrides can be changed live; w writes the current SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := randomSlug()
			if len(args) == 1 {
				slug = args[0]
			}
			opts, err := gf.options(cmd, c.Config.Defaults.Options())
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newViewModel(slug, opts, outDir), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	gf.bind(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for written files")
	return cmd
}
