package kumiko

import (
	"strconv"
	"strings"

	"github.com/matzehuels/kumiko/pkg/errors"
)

// MaxLayers is the most layers a generation can produce.
const MaxLayers = 4

// ParseLayerSpec parses a per-layer override of the form
// "INDEX:fg=#hex,sw=WIDTH". Either key may be omitted but not both.
//
//	0:fg=#ff0000
//	2:sw=1.5
//	1:fg=#00ff00,sw=3
func ParseLayerSpec(spec string) (int, LayerOverride, error) {
	idx, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, LayerOverride{}, errors.New(errors.ErrCodeInvalidInput, "layer %q: want INDEX:fg=#hex,sw=N", spec)
	}
	i, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || i < 0 || i >= MaxLayers {
		return 0, LayerOverride{}, errors.New(errors.ErrCodeInvalidInput, "layer %q: index must be 0-%d", spec, MaxLayers-1)
	}

	var o LayerOverride
	for _, kv := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok {
			return 0, LayerOverride{}, errors.New(errors.ErrCodeInvalidInput, "layer %q: expected key=value, got %q", spec, kv)
		}
		switch strings.ToLower(k) {
		case "fg":
			if err := ValidateColor("layer fg", v); err != nil {
				return 0, LayerOverride{}, err
			}
			o.FG = v
		case "sw", "stroke-width", "stroke_width":
			sw, err := strconv.ParseFloat(v, 64)
			if err != nil || sw <= 0 {
				return 0, LayerOverride{}, errors.New(errors.ErrCodeInvalidInput, "layer %q: stroke width must be a positive number", spec)
			}
			o.StrokeWidth = sw
		default:
			return 0, LayerOverride{}, errors.New(errors.ErrCodeInvalidInput, "layer %q: unknown key %q (want fg or sw)", spec, k)
		}
	}
	if o.IsZero() {
		return 0, LayerOverride{}, errors.New(errors.ErrCodeInvalidInput, "layer %q: nothing to override", spec)
	}
	return i, o, nil
}

// ParseLayerSpecs parses every spec into a Layers slice. Later specs for the
// same index merge into earlier ones.
func ParseLayerSpecs(specs []string) ([]LayerOverride, error) {
	var layers []LayerOverride
	for _, s := range specs {
		i, o, err := ParseLayerSpec(s)
		if err != nil {
			return nil, err
		}
		for len(layers) <= i {
			layers = append(layers, LayerOverride{})
		}
		if o.FG != "" {
			layers[i].FG = o.FG
		}
		if o.StrokeWidth != 0 {
			layers[i].StrokeWidth = o.StrokeWidth
		}
	}
	return layers, nil
}
