package fmtcli

import "github.com/agext/levenshtein"

// suggestionThreshold is the maximum edit distance (exclusive) for a schema
// name to count as a plausible correction.
const suggestionThreshold = 3

// SuggestOption finds the schema option whose primary name or alias is
// closest to name by edit distance. Ties break toward the first match in
// schema iteration order. When nothing is within the threshold the designated
// "help" option is returned so downstream normalisation always has a spec to
// work against.
func SuggestOption(schema *Schema, name string) (OptionSpec, bool) {
	best := OptionSpec{}
	bestDistance := suggestionThreshold
	found := false

	for _, spec := range schema.Specs() {
		distance := levenshtein.Distance(name, spec.Name, nil)
		if spec.Alias != "" {
			if aliasDistance := levenshtein.Distance(name, spec.Alias, nil); aliasDistance < distance {
				distance = aliasDistance
			}
		}
		if distance < bestDistance {
			best = spec
			bestDistance = distance
			found = true
		}
	}
	if found {
		return best, true
	}

	// Safe fallback target; present in every schema built from the core
	// table.
	if spec, ok := schema.Lookup(optionHelp); ok {
		return spec, false
	}
	return OptionSpec{}, false
}
