// Package ngadd builds the pipeline run when the package is first added to a
// workspace: it announces itself and hands over to the eslint addon.
package ngadd

import (
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	Type = "recipe/ng-add"

	OptionAddon  = "addon"
	DefaultAddon = "angular-eslint"

	runningMessage = "ng-add is running..."
)

func Rules(registry *rule.Registry, options map[string]string) ([]rule.Rule, error) {
	addonName := options[OptionAddon]
	if addonName == "" {
		addonName = DefaultAddon
	}
	addon, err := registry.Delegate(addonName, options)
	if err != nil {
		return nil, err
	}
	announce := rule.Mutate("announce", func(_ *snapshot.Snapshot, execution *rule.Context) error {
		execution.Info(runningMessage)
		return nil
	})
	return []rule.Rule{announce, addon}, nil
}
