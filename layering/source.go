package layering

import "slices"

// SourceLevel identifies where an option value came from. Higher levels
// override lower levels when layering.
type SourceLevel int

const (
	// SourceUnknown guards against misconfiguration so call sites can detect
	// missing provenance.
	SourceUnknown SourceLevel = iota
	// SourceDefault is the weakest layer: the schema's static default.
	SourceDefault
	// SourcePluginDefault is a per-plugin default override.
	SourcePluginDefault
	// SourceConfig is a value read from a discovered config file.
	SourceConfig
	// SourceOverride is a per-file overrides entry inside a config file.
	SourceOverride
	// SourceCLI is the strongest layer: an explicit command-line flag.
	SourceCLI
)

func (l SourceLevel) String() string {
	switch l {
	case SourceDefault:
		return "default"
	case SourcePluginDefault:
		return "plugin-default"
	case SourceConfig:
		return "config"
	case SourceOverride:
		return "override"
	case SourceCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// ParseSourceLevel converts a string representation into the corresponding
// SourceLevel. Returns SourceUnknown for unrecognised values.
func ParseSourceLevel(value string) SourceLevel {
	switch value {
	case "default":
		return SourceDefault
	case "plugin-default":
		return SourcePluginDefault
	case "config":
		return SourceConfig
	case "override":
		return SourceOverride
	case "cli":
		return SourceCLI
	default:
		return SourceUnknown
	}
}

// Layer pairs a snapshot with the source level that produced it.
type Layer struct {
	Level    SourceLevel
	Snapshot map[string]any
}

// Chain describes an ordered layering sequence from strongest to weakest.
type Chain struct {
	ordered []Layer
}

// NewChain constructs a chain, dropping unknown levels and deduplicating by
// level (first occurrence wins). The resulting order always places stronger
// levels first.
func NewChain(layers ...Layer) Chain {
	filtered := make([]Layer, 0, len(layers))
	seen := map[SourceLevel]struct{}{}

	for _, layer := range layers {
		if layer.Level == SourceUnknown {
			continue
		}
		if _, exists := seen[layer.Level]; exists {
			continue
		}
		seen[layer.Level] = struct{}{}
		filtered = append(filtered, Layer{
			Level:    layer.Level,
			Snapshot: Clone(layer.Snapshot),
		})
	}

	slices.SortStableFunc(filtered, func(a, b Layer) int {
		if a.Level == b.Level {
			return 0
		}
		if a.Level > b.Level {
			return -1
		}
		return 1
	})

	return Chain{ordered: filtered}
}

// Ordered returns the layering sequence from strongest (index 0) to weakest.
func (c Chain) Ordered() []Layer {
	out := make([]Layer, len(c.ordered))
	for i, layer := range c.ordered {
		out[i] = Layer{Level: layer.Level, Snapshot: Clone(layer.Snapshot)}
	}
	return out
}

// Merge resolves the chain into one snapshot.
func (c Chain) Merge() map[string]any {
	snapshots := make([]map[string]any, len(c.ordered))
	for i, layer := range c.ordered {
		snapshots[i] = layer.Snapshot
	}
	return Overlay(snapshots...)
}

// Provenance reports which level supplied each key of the merged snapshot,
// checking layers from strongest to weakest.
func (c Chain) Provenance() map[string]SourceLevel {
	out := map[string]SourceLevel{}
	for i := len(c.ordered) - 1; i >= 0; i-- {
		for key := range c.ordered[i].Snapshot {
			out[key] = c.ordered[i].Level
		}
	}
	return out
}
