// Package angulareslint installs eslint into an Angular workspace: dev
// dependencies, a root .eslintrc.json, lint targets in angular.json and a
// package install task. Recipes reach it through a delegate rule.
package angulareslint

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/patch"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	// Name is the registry key of this installer.
	Name = "angular-eslint"

	// OptionPrefix overrides the selector prefix used in the generated rules.
	OptionPrefix = "prefix"
	// OptionSkipInstall set to a true value leaves the install task out.
	OptionSkipInstall = "skip_install"

	LintConfigPath     = ".eslintrc.json"
	WorkspacePath      = "angular.json"
	PackageManifest    = "package.json"
	defaultPrefix      = "app"
	installerRuleName  = "angular-eslint"
	installedMessage   = "eslint configured for angular workspace"
	lintConfigKeptNote = "existing lint config kept"
)

// Packages lists the dev dependencies the installer pins.
func Packages() []string {
	return []string{
		"@angular-eslint/builder",
		"@angular-eslint/eslint-plugin",
		"@angular-eslint/eslint-plugin-template",
		"@angular-eslint/schematics",
		"@angular-eslint/template-parser",
		"@typescript-eslint/eslint-plugin",
		"@typescript-eslint/parser",
		"eslint",
	}
}

// ManagedPaths lists the files the installer reads or writes.
func ManagedPaths() []string {
	return []string{PackageManifest, LintConfigPath, WorkspacePath}
}

// Installer is the rule.Installer for angular-eslint.
type Installer struct{}

func New() rule.Installer { return Installer{} }

// Register adds the installer to registry under Name.
func Register(registry *rule.Registry) {
	registry.Register(Name, New)
}

// Install runs the installer's own rules over tree. Dependency pins come from
// the run's version table.
func (Installer) Install(ctx context.Context, tree *snapshot.Snapshot, execution *rule.Context, options map[string]string) (*snapshot.Snapshot, error) {
	prefix := options[OptionPrefix]
	if prefix == "" {
		prefix = workspacePrefix(tree)
	}

	steps := []rule.Rule{
		rule.UpdateJSON(PackageManifest, patch.DevDependencies(Packages()...)),
		createLintConfig(prefix),
		rule.WhenExists(WorkspacePath, rule.UpdateJSON(WorkspacePath, WorkspaceLintTargets)),
		rule.Mutate("schedule install", func(_ *snapshot.Snapshot, run *rule.Context) error {
			if skip, _ := strconv.ParseBool(options[OptionSkipInstall]); !skip {
				run.AddTask(rule.NodePackageInstall(run))
			}
			return nil
		}),
	}

	result, err := rule.Sequence(installerRuleName, steps...).Apply(ctx, tree, execution)
	if err != nil {
		return result, err
	}
	execution.Info(installedMessage, zap.String("prefix", prefix))
	return result, nil
}

// createLintConfig writes the root eslint config only when the project has
// none.
func createLintConfig(prefix string) rule.Rule {
	return rule.Mutate("create "+LintConfigPath, func(workspace *snapshot.Snapshot, run *rule.Context) error {
		if workspace.Exists(LintConfigPath) {
			run.Info(lintConfigKeptNote, zap.String("path", LintConfigPath))
			return nil
		}
		content, err := jsondoc.Serialize(RootLintConfig(prefix))
		if err != nil {
			return err
		}
		return workspace.Create(LintConfigPath, content)
	})
}

// RootLintConfig is the .eslintrc.json written into workspaces without one.
func RootLintConfig(prefix string) jsondoc.Document {
	return jsondoc.Document{
		"root":           true,
		"ignorePatterns": []any{"projects/**/*"},
		"overrides": []any{
			map[string]any{
				"files": []any{"*.ts"},
				"extends": []any{
					"eslint:recommended",
					"plugin:@typescript-eslint/recommended",
					"plugin:@angular-eslint/recommended",
					"plugin:@angular-eslint/template/process-inline-templates",
				},
				"rules": map[string]any{
					"@angular-eslint/directive-selector": []any{
						"error",
						map[string]any{"type": "attribute", "prefix": prefix, "style": "camelCase"},
					},
					"@angular-eslint/component-selector": []any{
						"error",
						map[string]any{"type": "element", "prefix": prefix, "style": "kebab-case"},
					},
				},
			},
			map[string]any{
				"files": []any{"*.html"},
				"extends": []any{
					"plugin:@angular-eslint/template/recommended",
					"plugin:@angular-eslint/template/accessibility",
				},
				"rules": map[string]any{},
			},
		},
	}
}
