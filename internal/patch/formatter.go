// Package patch holds the patchers that merge tooling settings into parsed
// configuration documents. Every patcher returns a new document and leaves its
// input untouched.
package patch

import (
	"encoding/json"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/rule"
)

const (
	bracketSameLineKey           = "bracketSameLine"
	deprecatedBracketSameLineKey = "jsxBracketSameLine"
)

// DefaultFormatterConfig is the prettier configuration written into projects
// that have none.
func DefaultFormatterConfig() jsondoc.Document {
	return jsondoc.Document{
		"tabWidth":        json.Number("2"),
		"useTabs":         false,
		"singleQuote":     true,
		"semi":            true,
		"bracketSpacing":  true,
		"arrowParens":     "avoid",
		"trailingComma":   "es5",
		"bracketSameLine": true,
		"printWidth":      json.Number("80"),
		"overrides": []any{
			map[string]any{
				"files":   "*.html",
				"options": map[string]any{"parser": "angular"},
			},
		},
	}
}

// FormatterConfig writes the default prettier settings when the document is
// empty. An existing configuration is kept as the project's choice, apart from
// renaming the deprecated jsxBracketSameLine option.
func FormatterConfig(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
	if len(document) == 0 {
		return DefaultFormatterConfig(), nil
	}
	patched := jsondoc.Clone(document)
	if legacy, ok := patched[deprecatedBracketSameLineKey]; ok {
		if _, current := patched[bracketSameLineKey]; !current {
			patched[bracketSameLineKey] = legacy
		}
		delete(patched, deprecatedBracketSameLineKey)
	}
	return patched, nil
}
