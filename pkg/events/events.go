// Package events fans out resolution lifecycle notifications to registered
// hooks: config discovery, schema push/pop, per-file resolution and warnings.
package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind names a resolution lifecycle occurrence.
type Kind string

const (
	// KindConfigLoaded fires after a config file was discovered and parsed.
	KindConfigLoaded Kind = "config-loaded"
	// KindSchemaPushed fires when a plugin scope replaces the active schema.
	KindSchemaPushed Kind = "schema-pushed"
	// KindSchemaPopped fires when the outer schema is restored.
	KindSchemaPopped Kind = "schema-popped"
	// KindFileResolved fires after ResolvedOptions were produced for a file.
	KindFileResolved Kind = "file-resolved"
	// KindWarning fires for each non-fatal resolution warning.
	KindWarning Kind = "warning"
)

// Event describes a resolution occurrence that can be fanned out to hooks.
type Event struct {
	ID         string // assigned during normalization when empty
	Kind       Kind
	Path       string // input file or config file path, when applicable
	Option     string // option name for warning events
	Plugin     string
	SchemaID   string // snapshot ID of the schema state involved
	Metadata   map[string]any
	OccurredAt time.Time
}

// NormalizeEvent trims whitespace, clones metadata, and ensures the event
// carries an ID and a timestamp.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.ID = strings.TrimSpace(event.ID)
	normalized.Path = strings.TrimSpace(event.Path)
	normalized.Option = strings.TrimSpace(event.Option)
	normalized.Plugin = strings.TrimSpace(event.Plugin)
	normalized.SchemaID = strings.TrimSpace(event.SchemaID)
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.ID == "" {
		normalized.ID = uuid.NewString()
	}
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
