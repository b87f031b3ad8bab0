package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/temirov/lint-setup/internal/versions"
)

const (
	rootConfigurationEmptyContentErrorFormat = "root configuration %s is empty"
	rootConfigurationUnmarshalErrorFormat    = "unmarshal root configuration %s: %w"
	rootConfigurationVersionsErrorFormat     = "root configuration %s: %w"
	emptyRecipesErrorMessage                 = "config.recipes is empty"
	recipeMissingNameErrorFormat             = "recipes[%d]: name is required"
	recipeMissingTypeErrorFormat             = "recipe %q: type is required"
	recipeDuplicateNameErrorFormat           = "recipe %q is declared more than once"

	defaultLoggingLevel          = "info"
	defaultLoggingFormat         = "console"
	defaultProjectRoot           = "."
	defaultProjectPackageManager = "npm"

	environmentPrefix                   = "LINT_SETUP"
	loggingLevelEnvironmentKey          = "logging.level"
	loggingFormatEnvironmentKey         = "logging.format"
	projectPackageManagerEnvironmentKey = "project.package_manager"
)

var environmentKeyReplacer = strings.NewReplacer(".", "_")

type Root struct {
	Common   Common         `yaml:"common"`
	Versions versions.Table `yaml:"versions"`
	Recipes  []Recipe       `yaml:"recipes"`
}

type Common struct {
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Project struct {
		Root           string `yaml:"root"`
		SkipInstall    bool   `yaml:"skip_install"`
		PackageManager string `yaml:"package_manager"`
	} `yaml:"project"`
}

// Recipe names a pipeline and the string options handed to its rules.
type Recipe struct {
	Name    string            `yaml:"name"`
	Enabled bool              `yaml:"enabled"`
	Type    string            `yaml:"type"`
	Options map[string]string `yaml:"options"`
}

// LoadRoot parses the provided configuration source, fills defaults, applies
// environment overrides and validates the version table.
func LoadRoot(source RootConfigurationSource) (Root, error) {
	if len(source.Content) == 0 {
		return Root{}, fmt.Errorf(rootConfigurationEmptyContentErrorFormat, source.Reference)
	}

	var rootConfiguration Root
	if err := yaml.Unmarshal(source.Content, &rootConfiguration); err != nil {
		return Root{}, fmt.Errorf(rootConfigurationUnmarshalErrorFormat, source.Reference, err)
	}

	rootConfiguration.applyDefaults()
	rootConfiguration.applyEnvironmentOverrides()

	if err := rootConfiguration.Versions.Validate(); err != nil {
		return Root{}, fmt.Errorf(rootConfigurationVersionsErrorFormat, source.Reference, err)
	}
	if err := rootConfiguration.validateRecipes(); err != nil {
		return Root{}, err
	}
	return rootConfiguration, nil
}

func (root *Root) applyDefaults() {
	if root.Common.Logging.Level == "" {
		root.Common.Logging.Level = defaultLoggingLevel
	}
	if root.Common.Logging.Format == "" {
		root.Common.Logging.Format = defaultLoggingFormat
	}
	if root.Common.Project.Root == "" {
		root.Common.Project.Root = defaultProjectRoot
	}
	if root.Common.Project.PackageManager == "" {
		root.Common.Project.PackageManager = defaultProjectPackageManager
	}
	root.Versions = versions.Default().Merge(root.Versions)
}

// applyEnvironmentOverrides lets LINT_SETUP_* variables win over file values.
func (root *Root) applyEnvironmentOverrides() {
	environment := viper.New()
	environment.SetEnvPrefix(environmentPrefix)
	environment.SetEnvKeyReplacer(environmentKeyReplacer)
	for _, key := range []string{loggingLevelEnvironmentKey, loggingFormatEnvironmentKey, projectPackageManagerEnvironmentKey} {
		_ = environment.BindEnv(key)
	}
	if environment.IsSet(loggingLevelEnvironmentKey) {
		root.Common.Logging.Level = environment.GetString(loggingLevelEnvironmentKey)
	}
	if environment.IsSet(loggingFormatEnvironmentKey) {
		root.Common.Logging.Format = environment.GetString(loggingFormatEnvironmentKey)
	}
	if environment.IsSet(projectPackageManagerEnvironmentKey) {
		root.Common.Project.PackageManager = environment.GetString(projectPackageManagerEnvironmentKey)
	}
}

func (root Root) validateRecipes() error {
	if len(root.Recipes) == 0 {
		return errors.New(emptyRecipesErrorMessage)
	}
	seen := make(map[string]struct{}, len(root.Recipes))
	for index, recipe := range root.Recipes {
		if recipe.Name == "" {
			return fmt.Errorf(recipeMissingNameErrorFormat, index)
		}
		if recipe.Type == "" {
			return fmt.Errorf(recipeMissingTypeErrorFormat, recipe.Name)
		}
		if _, duplicate := seen[recipe.Name]; duplicate {
			return fmt.Errorf(recipeDuplicateNameErrorFormat, recipe.Name)
		}
		seen[recipe.Name] = struct{}{}
	}
	return nil
}

func (root Root) FindRecipe(name string) (Recipe, bool) {
	for _, recipe := range root.Recipes {
		if recipe.Name == name {
			return recipe, true
		}
	}
	return Recipe{}, false
}

// Option returns the recipe option for key, or fallback when unset.
func (recipe Recipe) Option(key string, fallback string) string {
	if value, ok := recipe.Options[key]; ok && value != "" {
		return value
	}
	return fallback
}
