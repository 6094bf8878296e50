package fmtcli

import (
	"encoding/json"
	"sort"

	"github.com/goliatone/go-fmtcli/layering"
)

// Trace captures provenance information for one file's resolution: which
// layer supplied each option of the final set.
type Trace struct {
	Filepath string       `json:"filepath"`
	Strategy Strategy     `json:"strategy"`
	SchemaID string       `json:"schema_id,omitempty"`
	Entries  []Provenance `json:"entries"`
}

// Provenance details where one resolved option's value came from.
type Provenance struct {
	Option string `json:"option"`
	Value  any    `json:"value,omitempty"`
	Source string `json:"source"`
}

func newTrace(path string, strategy Strategy, schemaID string, resolved ResolvedOptions, provenance map[string]layering.SourceLevel) *Trace {
	entries := make([]Provenance, 0, len(resolved))
	for option, value := range resolved {
		entries = append(entries, Provenance{
			Option: option,
			Value:  value,
			Source: provenance[option].String(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Option < entries[j].Option
	})
	return &Trace{
		Filepath: path,
		Strategy: strategy,
		SchemaID: schemaID,
		Entries:  entries,
	}
}

// Source returns the provenance label recorded for an option, "" when the
// option is absent from the trace.
func (t *Trace) Source(option string) string {
	if t == nil {
		return ""
	}
	for _, entry := range t.Entries {
		if entry.Option == option {
			return entry.Source
		}
	}
	return ""
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
