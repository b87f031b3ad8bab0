package lintsetup

import (
	"fmt"

	"github.com/temirov/lint-setup/addons/angulareslint"
	"github.com/temirov/lint-setup/internal/config"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/recipes/lintconfig"
	"github.com/temirov/lint-setup/recipes/ngadd"
)

type recipeBuilder func(registry *rule.Registry, options map[string]string) ([]rule.Rule, error)

var recipeBuilders = map[string]recipeBuilder{
	lintconfig.Type: lintconfig.Rules,
	ngadd.Type:      ngadd.Rules,
}

func newInstallerRegistry() *rule.Registry {
	registry := rule.NewRegistry()
	angulareslint.Register(registry)
	return registry
}

// managedPaths lists every file a recipe or installer may patch. They are
// loaded even when the project's ignore rules hide them.
func managedPaths() []string {
	seen := map[string]struct{}{}
	var paths []string
	for _, path := range append(lintconfig.ManagedPaths(), angulareslint.ManagedPaths()...) {
		if _, duplicate := seen[path]; duplicate {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}

func buildRecipeRules(recipe config.Recipe) ([]rule.Rule, error) {
	builder, ok := recipeBuilders[recipe.Type]
	if !ok {
		return nil, fmt.Errorf(unknownRecipeTypeErrorFormat, recipe.Type)
	}
	rules, err := builder(newInstallerRegistry(), recipe.Options)
	if err != nil {
		return nil, fmt.Errorf(buildRecipeErrorFormat, recipe.Name, err)
	}
	return rules, nil
}
