package fmtcli

import "encoding/json"

// Version is the release reported by --version and --support-info.
const Version = "0.4.0"

// SupportOption is the machine-readable description of one forwarding
// option.
type SupportOption struct {
	Name       string   `json:"name"` // API name
	CLIName    string   `json:"cliName"`
	Type       string   `json:"type"`
	Default    any      `json:"default,omitempty"`
	Choices    []string `json:"choices,omitempty"`
	Repeatable bool     `json:"repeatable,omitempty"`
	Plugin     string   `json:"plugin,omitempty"`
}

// SupportInfo describes the running binary's capabilities for editor and
// tooling integrations.
type SupportInfo struct {
	Version     string                   `json:"version"`
	Options     map[string]SupportOption `json:"options"`
	Plugins     []string                 `json:"plugins,omitempty"`
	RuleEngines []string                 `json:"ruleEngines"`
}

// SupportInfo assembles the support document for the active schema and the
// registered plugins.
func (c *Context) SupportInfo() SupportInfo {
	detailed := DetailedOptionMap(c.schema.Specs())
	options := make(map[string]SupportOption, len(detailed))
	for apiName, spec := range detailed {
		option := SupportOption{
			Name:       apiName,
			CLIName:    spec.Name,
			Type:       spec.Type.String(),
			Default:    spec.Default,
			Repeatable: spec.Repeatable,
			Plugin:     spec.Plugin,
		}
		for _, choice := range spec.Choices {
			if choice.Deprecated {
				continue
			}
			option.Choices = append(option.Choices, choice.Value)
		}
		options[apiName] = option
	}
	return SupportInfo{
		Version:     Version,
		Options:     options,
		Plugins:     pluginNames(c.cfg.plugins),
		RuleEngines: ruleEngines(),
	}
}

// ToJSON serialises the support document.
func (s SupportInfo) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ruleEngines lists the rule engines compiled into this binary. The js
// engine only exists behind its build tag.
func ruleEngines() []string {
	engines := []string{"expr", "cel"}
	if jsEvaluatorAvailable() {
		engines = append(engines, "js")
	}
	return engines
}
