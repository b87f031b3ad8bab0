package patch

import (
	"fmt"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/rule"
)

const (
	// ESLintExtension is the VS Code extension identifier for eslint.
	ESLintExtension = "dbaeumer.vscode-eslint"

	// PrettierExtension is the VS Code extension identifier for prettier.
	PrettierExtension = "esbenp.prettier-vscode"

	recommendationsKey                = "recommendations"
	recommendationsNotListErrorFormat = "extensions: %q must be an array, got %T"
)

// EditorSettings returns the VS Code keys merged into .vscode/settings.json.
func EditorSettings() jsondoc.Document {
	return jsondoc.Document{
		"editor.formatOnSave":      true,
		"editor.defaultFormatter":  PrettierExtension,
		"editor.codeActionsOnSave": map[string]any{"source.fixAll.eslint": "explicit"},
	}
}

// RecommendedExtensions lists, in order, the extensions every project gets.
func RecommendedExtensions() []string {
	return []string{ESLintExtension, PrettierExtension}
}

// MergeEditorSettings overlays EditorSettings on the existing document. Top
// level keys are replaced wholesale, nested objects are not merged.
func MergeEditorSettings(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
	patched := jsondoc.Clone(document)
	for key, value := range jsondoc.Clone(EditorSettings()) {
		patched[key] = value
	}
	return patched, nil
}

// ExtensionRecommendations appends the missing RecommendedExtensions to the
// recommendations list. Entries already present keep their position.
func ExtensionRecommendations(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
	patched := jsondoc.Clone(document)
	var recommendations []any
	if raw, ok := patched[recommendationsKey]; ok && raw != nil {
		list, isList := raw.([]any)
		if !isList {
			return nil, fmt.Errorf(recommendationsNotListErrorFormat, recommendationsKey, raw)
		}
		recommendations = list
	}
	if recommendations == nil {
		recommendations = []any{}
	}
	patched[recommendationsKey] = appendMissing(recommendations, RecommendedExtensions()...)
	return patched, nil
}
