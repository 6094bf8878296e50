package loader

import (
	"sync"

	fmtcli "github.com/goliatone/go-fmtcli"
)

// memoryCache memoizes config lookups per input file. Entries persist until
// an explicit clear; the loader assumes config files do not change mid-run.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]fmtcli.ConfigLookup
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]fmtcli.ConfigLookup{}}
}

func (c *memoryCache) get(key string) (fmtcli.ConfigLookup, bool) {
	c.mu.RLock()
	lookup, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return fmtcli.ConfigLookup{}, false
	}
	return cloneLookup(lookup), true
}

func (c *memoryCache) set(key string, lookup fmtcli.ConfigLookup) {
	c.mu.Lock()
	c.entries[key] = cloneLookup(lookup)
	c.mu.Unlock()
}

func (c *memoryCache) clear() {
	c.mu.Lock()
	c.entries = map[string]fmtcli.ConfigLookup{}
	c.mu.Unlock()
}

// cloneLookup copies the lookup so cached state never aliases caller maps.
func cloneLookup(lookup fmtcli.ConfigLookup) fmtcli.ConfigLookup {
	out := lookup
	if lookup.Options != nil {
		out.Options = make(map[string]any, len(lookup.Options))
		for key, value := range lookup.Options {
			out.Options[key] = value
		}
	}
	out.OverrideKeys = append([]string(nil), lookup.OverrideKeys...)
	out.Plugins = append([]string(nil), lookup.Plugins...)
	return out
}
