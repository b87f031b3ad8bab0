package patch

import (
	"fmt"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/versions"
)

const (
	devDependenciesKey                  = "devDependencies"
	devDependenciesNotObjectErrorFormat = "package manifest: %q must be an object, got %T"
)

// PrettierPackages are the dev dependencies the prettier integration needs.
func PrettierPackages() []string {
	return []string{"eslint-config-prettier", "eslint-plugin-prettier", "prettier"}
}

// DevDependencies returns a patcher pinning each package in devDependencies to
// the range from the run's version table. A declared range that already starts
// at or above the pin is left alone.
func DevDependencies(packages ...string) rule.Patcher {
	return func(document jsondoc.Document, execution *rule.Context) (jsondoc.Document, error) {
		patched := jsondoc.Clone(document)
		dependencies := map[string]any{}
		if raw, ok := patched[devDependenciesKey]; ok && raw != nil {
			existing, isObject := raw.(map[string]any)
			if !isObject {
				return nil, fmt.Errorf(devDependenciesNotObjectErrorFormat, devDependenciesKey, raw)
			}
			dependencies = existing
		}
		for _, name := range packages {
			pin, err := execution.Options.Versions.Lookup(name)
			if err != nil {
				return nil, err
			}
			if declared, ok := dependencies[name].(string); ok && versions.Satisfies(declared, pin) {
				continue
			}
			dependencies[name] = pin
		}
		patched[devDependenciesKey] = dependencies
		return patched, nil
	}
}
