package patch

import (
	"fmt"
	"strings"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/rule"
)

const (
	// PrettierRuleSet is the eslint config that runs prettier as a lint rule.
	PrettierRuleSet = "plugin:prettier/recommended"

	// TypeScriptFilesSelector targets the override that lints TypeScript sources.
	TypeScriptFilesSelector = "*.ts"

	overridesKey = "overrides"
	extendsKey   = "extends"
	filesKey     = "files"

	pathSeparator = "/"

	overridesNotListErrorFormat  = "lint config: %q must be an array, got %T"
	overrideNotObjectErrorFormat = "lint config: overrides[%d] must be an object, got %T"
	extendsNotListErrorFormat    = "lint config: overrides[%d].extends must be an array or string, got %T"
)

// LintConfig returns a patcher adding ruleSet to the extends list of every
// override whose files include selector, either verbatim or as the last
// segment of a directory-scoped glob ("src/**/*.ts" matches "*.ts").
// References already present are not added again, so repeated runs leave the
// document unchanged. When no override matches, a new one for selector is
// appended.
func LintConfig(ruleSet string, selector string) rule.Patcher {
	return func(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
		patched := jsondoc.Clone(document)
		var overrides []any
		if raw, ok := patched[overridesKey]; ok && raw != nil {
			list, isList := raw.([]any)
			if !isList {
				return nil, fmt.Errorf(overridesNotListErrorFormat, overridesKey, raw)
			}
			overrides = list
		}

		matched := false
		for index, raw := range overrides {
			override, isObject := raw.(map[string]any)
			if !isObject {
				return nil, fmt.Errorf(overrideNotObjectErrorFormat, index, raw)
			}
			if !targetsSelector(override[filesKey], selector) {
				continue
			}
			matched = true
			extends, err := stringList(override[extendsKey])
			if err != nil {
				return nil, fmt.Errorf(extendsNotListErrorFormat, index, override[extendsKey])
			}
			override[extendsKey] = appendMissing(extends, ruleSet)
		}
		if !matched {
			overrides = append(overrides, map[string]any{
				filesKey:   []any{selector},
				extendsKey: []any{ruleSet},
			})
		}
		patched[overridesKey] = overrides
		return patched, nil
	}
}

// containsString matches a string value or any string element of a list.
func containsString(value any, want string) bool {
	switch typed := value.(type) {
	case string:
		return typed == want
	case []any:
		for _, item := range typed {
			if text, ok := item.(string); ok && text == want {
				return true
			}
		}
	}
	return false
}

// targetsSelector reports whether a files value (string or list) names
// selector directly or scoped under a directory.
func targetsSelector(value any, selector string) bool {
	matches := func(pattern string) bool {
		return pattern == selector || strings.HasSuffix(pattern, pathSeparator+selector)
	}
	switch typed := value.(type) {
	case string:
		return matches(typed)
	case []any:
		for _, item := range typed {
			if text, ok := item.(string); ok && matches(text) {
				return true
			}
		}
	}
	return false
}

// stringList normalizes an eslint "extends" value, which may be a single
// string, into a list.
func stringList(value any) ([]any, error) {
	switch typed := value.(type) {
	case nil:
		return []any{}, nil
	case string:
		return []any{typed}, nil
	case []any:
		return typed, nil
	default:
		return nil, fmt.Errorf("unsupported list value %T", value)
	}
}

func appendMissing(list []any, values ...string) []any {
	for _, value := range values {
		if !containsString(list, value) {
			list = append(list, value)
		}
	}
	return list
}
