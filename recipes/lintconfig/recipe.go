// Package lintconfig builds the pipeline that wires prettier into an eslint
// setup: the eslint addon, prettier dependencies and configuration, the
// prettier ignore file and VS Code settings.
package lintconfig

import (
	"github.com/temirov/lint-setup/internal/patch"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	// Type is the recipes[].type value selecting this pipeline.
	Type = "recipe/lint-config"

	// OptionAddon names the registered installer that sets up eslint.
	OptionAddon = "addon"
	// OptionLintSelector is the override glob that receives the prettier rule set.
	OptionLintSelector = "lint_selector"

	DefaultAddon = "angular-eslint"

	FormatterConfigPath    = ".prettierrc.json"
	LintConfigPath         = ".eslintrc.json"
	VersionControlIgnore   = ".gitignore"
	FormatterIgnore        = ".prettierignore"
	EditorSettingsPath     = ".vscode/settings.json"
	EditorExtensionsPath   = ".vscode/extensions.json"
	PackageManifestPath    = "package.json"
	prettierDependencyRule = "prettier dependencies"
	prettierConfigRule     = "prettier config"
	editorRule             = "editor settings"

	dependenciesInstalledMessage = "Prettier dependencies have been successfully installed"
	addingConfigMessage          = "Adding prettier config to project..."
)

// ManagedPaths lists the files this pipeline reads or writes, apart from the
// addon's own.
func ManagedPaths() []string {
	return []string{
		FormatterConfigPath,
		LintConfigPath,
		VersionControlIgnore,
		FormatterIgnore,
		EditorSettingsPath,
		EditorExtensionsPath,
		PackageManifestPath,
	}
}

// Rules returns the ordered pipeline. Every rule after the addon reads files
// the earlier ones wrote.
func Rules(registry *rule.Registry, options map[string]string) ([]rule.Rule, error) {
	addonName := options[OptionAddon]
	if addonName == "" {
		addonName = DefaultAddon
	}
	selector := options[OptionLintSelector]
	if selector == "" {
		selector = patch.TypeScriptFilesSelector
	}

	addon, err := registry.Delegate(addonName, options)
	if err != nil {
		return nil, err
	}

	return []rule.Rule{
		addon,
		PrettierDependencies(),
		PrettierConfig(selector),
		rule.DeriveIgnore(VersionControlIgnore, FormatterIgnore),
		EditorIntegration(),
	}, nil
}

// PrettierDependencies pins the prettier packages as dev dependencies and
// schedules an install.
func PrettierDependencies() rule.Rule {
	return rule.Sequence(prettierDependencyRule,
		rule.UpdateJSON(PackageManifestPath, patch.DevDependencies(patch.PrettierPackages()...)),
		rule.Mutate("schedule install", func(_ *snapshot.Snapshot, execution *rule.Context) error {
			execution.AddTask(rule.NodePackageInstall(execution))
			execution.Info(dependenciesInstalledMessage)
			return nil
		}),
	)
}

// PrettierConfig writes the formatter config and adds the prettier rule set to
// the lint overrides matching selector.
func PrettierConfig(selector string) rule.Rule {
	return rule.Sequence(prettierConfigRule,
		rule.Mutate("announce", func(_ *snapshot.Snapshot, execution *rule.Context) error {
			execution.Info(addingConfigMessage)
			return nil
		}),
		rule.UpdateJSON(FormatterConfigPath, patch.FormatterConfig),
		rule.UpdateJSON(LintConfigPath, patch.LintConfig(patch.PrettierRuleSet, selector)),
	)
}

func EditorIntegration() rule.Rule {
	return rule.Sequence(editorRule,
		rule.UpdateJSON(EditorSettingsPath, patch.MergeEditorSettings),
		rule.UpdateJSON(EditorExtensionsPath, patch.ExtensionRecommendations),
	)
}
