package fmtcli

// CLI names of the core options the two-phase init needs before any plugin
// schema exists.
const (
	optionHelp             = "help"
	optionVersion          = "version"
	optionPlugin           = "plugin"
	optionConfig           = "config"
	optionConfigPrecedence = "config-precedence"
	optionEditorConfig     = "editorconfig"
	optionIgnorePath       = "ignore-path"
	optionStdinFilepath    = "stdin-filepath"
	optionWrite            = "write"
	optionCheck            = "check"
	optionListDifferent    = "list-different"
	optionSupportInfo      = "support-info"
	optionDebugResolution  = "debug-resolution"
)

// CoreOptions returns the plugin-independent subset of the built-in table.
// The first init pass parses against only these so --plugin and --config can
// be discovered before the full schema is assembled.
func CoreOptions() []OptionSpec {
	return []OptionSpec{
		{
			Name:        optionConfig,
			Type:        OptionTypeText,
			Category:    CategoryConfig,
			Description: "Path to a configuration file; skips the upward file search.",
		},
		{
			Name: optionConfigPrecedence,
			Type: OptionTypeChoice,
			Choices: []Choice{
				{Value: string(StrategyCLIOverride), Description: "CLI options take precedence over config file"},
				{Value: string(StrategyFileOverride), Description: "Config file takes precedence over CLI options"},
				{Value: string(StrategyPreferFile), Description: "If a config file is found, evaluate it and ignore other CLI options"},
			},
			Default:     string(StrategyCLIOverride),
			Category:    CategoryConfig,
			Description: "Define in which order config files and CLI options should be evaluated.",
		},
		{
			Name:                optionEditorConfig,
			Type:                OptionTypeBoolean,
			Default:             true,
			Category:            CategoryConfig,
			Description:         "Take .editorconfig into account when resolving configuration.",
			OppositeDescription: "Don't take .editorconfig into account when resolving configuration.",
		},
		{
			Name:        optionPlugin,
			Type:        OptionTypeText,
			Repeatable:  true,
			Category:    CategoryConfig,
			Description: "Add a plugin. Repeat the option to add multiple plugins.",
		},
		{
			Name:        optionIgnorePath,
			Type:        OptionTypeText,
			Default:     ".fmtcliignore",
			Category:    CategoryConfig,
			Description: "Path to a file with patterns describing files to ignore.",
		},
		{
			Name:        optionStdinFilepath,
			Type:        OptionTypeText,
			Category:    CategoryEditor,
			ForwardsTo:  "filepath",
			Description: "Path to the file to pretend that stdin comes from.",
		},
		{
			Name:        optionWrite,
			Alias:       "w",
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOutput,
			Description: "Edit files in-place. (Beware!)",
		},
		{
			Name:        optionCheck,
			Alias:       "c",
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOutput,
			Description: "Check if the given files are formatted, print a human-friendly summary message and paths to unformatted files.",
		},
		{
			Name:        optionListDifferent,
			Alias:       "l",
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOutput,
			Description: "Print the names of files that are different from fmtcli's formatting.",
		},
		{
			Name:        optionSupportInfo,
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOther,
			Description: "Print support information as JSON.",
		},
		{
			Name:        optionDebugResolution,
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOther,
			Description: "Print how each option was resolved for every file.",
		},
		{
			Name:        optionHelp,
			Alias:       "h",
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOther,
			Description: "Show CLI usage, or details about the given option.",
		},
		{
			Name:        optionVersion,
			Alias:       "v",
			Type:        OptionTypeBoolean,
			Default:     false,
			Category:    CategoryOther,
			Description: "Print fmtcli version.",
		},
	}
}

// FormatOptions returns the built-in format-affecting options. These forward
// to the formatting engine under their camelCase API names.
func FormatOptions() []OptionSpec {
	return []OptionSpec{
		{
			Name:        "print-width",
			Type:        OptionTypeNumber,
			Default:     float64(80),
			ForwardsTo:  "printWidth",
			Description: "The line length where the formatter will try to wrap.",
		},
		{
			Name:        "tab-width",
			Type:        OptionTypeNumber,
			Default:     float64(2),
			ForwardsTo:  "tabWidth",
			Description: "Number of spaces per indentation level.",
		},
		{
			Name:                "use-tabs",
			Type:                OptionTypeBoolean,
			Default:             false,
			ForwardsTo:          "useTabs",
			Description:         "Indent with tabs instead of spaces.",
			OppositeDescription: "Indent with spaces instead of tabs.",
		},
		{
			Name:                "semi",
			Type:                OptionTypeBoolean,
			Default:             true,
			ForwardsTo:          "semi",
			Description:         "Print semicolons.",
			OppositeDescription: "Do not print semicolons, except at the beginning of lines which may need them.",
		},
		{
			Name:                "single-quote",
			Type:                OptionTypeBoolean,
			Default:             false,
			ForwardsTo:          "singleQuote",
			Description:         "Use single quotes instead of double quotes.",
			OppositeDescription: "Use double quotes instead of single quotes.",
		},
		{
			Name: "trailing-comma",
			Type: OptionTypeChoice,
			Choices: []Choice{
				{Value: "all", Description: "Trailing commas wherever possible."},
				{Value: "es5", Description: "Trailing commas where valid in ES5."},
				{Value: "none", Description: "No trailing commas."},
			},
			Default:     "all",
			ForwardsTo:  "trailingComma",
			Description: "Print trailing commas wherever possible in multi-line comma-separated structures.",
		},
		{
			Name: "end-of-line",
			Type: OptionTypeChoice,
			Choices: []Choice{
				{Value: "lf", Description: "Line Feed only (\\n)."},
				{Value: "crlf", Description: "Carriage Return + Line Feed (\\r\\n)."},
				{Value: "cr", Description: "Carriage Return only (\\r).", Deprecated: true},
				{Value: "auto", Description: "Maintain existing line endings."},
			},
			Default:     "lf",
			ForwardsTo:  "endOfLine",
			Description: "Which end-of-line characters to apply.",
		},
		{
			// Superseded by per-language plugins; value never reaches the
			// engine.
			Name:       "stdin",
			Type:       OptionTypeBoolean,
			Default:    false,
			Category:   CategoryOther,
			Deprecated: true,
		},
	}
}

// BuiltinOptions returns the complete built-in table: format options plus the
// core CLI options.
func BuiltinOptions() []OptionSpec {
	out := FormatOptions()
	return append(out, CoreOptions()...)
}
