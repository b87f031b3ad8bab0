package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EmbeddedRootConfigurationReference identifies the embedded fallback configuration source.
	EmbeddedRootConfigurationReference = "embedded default configuration"

	configurationReadErrorFormat      = "read %s configuration %s: %w"
	loaderWorkingDirectoryErrorFormat = "determine working directory: %w"
	loaderHomeEnvironmentVariableName = "HOME"
	configurationPathEnvironmentKey   = "config"
	configurationFileName             = "lint-setup.yaml"
	configurationDirectoryName        = ".lint-setup"
	configurationDirectoryFileName    = "config.yaml"
)

// Origin tells where a configuration source was found.
type Origin string

const (
	OriginFlag             Origin = "flag"
	OriginEnvironment      Origin = "environment"
	OriginProject          Origin = "project"
	OriginWorkingDirectory Origin = "working directory"
	OriginHome             Origin = "home"
	OriginEmbedded         Origin = "embedded"
)

var (
	//go:embed default_root_configuration.yaml
	embeddedRootConfigurationBytes []byte
)

// RootConfigurationSource holds the raw configuration data and its origin.
type RootConfigurationSource struct {
	Reference string
	Origin    Origin
	Content   []byte
}

// RootConfigurationLoader locates the configuration for one project run.
//
// Search order: the --config path, $LINT_SETUP_CONFIG, the project directory
// (lint-setup.yaml, then .lint-setup/config.yaml), the working directory,
// $HOME/.lint-setup/config.yaml and finally the embedded default. A path named
// by the flag or the environment that does not exist falls through to the
// next location; any other read failure is returned.
type RootConfigurationLoader struct {
	filesystem       afero.Fs
	projectDirectory string
	workingDirectory string
	homeDirectory    string
}

// NewRootConfigurationLoader constructs a loader reading through filesystem.
func NewRootConfigurationLoader(filesystem afero.Fs, workingDirectory string, homeDirectory string) RootConfigurationLoader {
	return RootConfigurationLoader{
		filesystem:       filesystem,
		workingDirectory: workingDirectory,
		homeDirectory:    homeDirectory,
	}
}

// NewDefaultRootConfigurationLoader builds a loader over the OS filesystem using
// the process working directory and HOME.
func NewDefaultRootConfigurationLoader() (RootConfigurationLoader, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return RootConfigurationLoader{}, fmt.Errorf(loaderWorkingDirectoryErrorFormat, workingDirectoryError)
	}
	homeDirectory := os.Getenv(loaderHomeEnvironmentVariableName)
	return NewRootConfigurationLoader(afero.NewOsFs(), workingDirectory, homeDirectory), nil
}

// ForProject returns a loader that also searches projectDirectory, ahead of the
// working directory.
func (loader RootConfigurationLoader) ForProject(projectDirectory string) RootConfigurationLoader {
	loader.projectDirectory = strings.TrimSpace(projectDirectory)
	return loader
}

type configurationCandidate struct {
	path     string
	origin   Origin
	required bool
}

// Load resolves the configuration source using the search order above.
func (loader RootConfigurationLoader) Load(explicitPath string) (RootConfigurationSource, error) {
	for _, candidate := range loader.candidates(explicitPath) {
		content, readError := afero.ReadFile(loader.filesystem, candidate.path)
		if readError != nil {
			if candidate.required && !errors.Is(readError, fs.ErrNotExist) && !errors.Is(readError, fs.ErrPermission) {
				return RootConfigurationSource{}, fmt.Errorf(configurationReadErrorFormat, candidate.origin, candidate.path, readError)
			}
			continue
		}
		return RootConfigurationSource{Reference: candidate.path, Origin: candidate.origin, Content: content}, nil
	}
	return RootConfigurationSource{
		Reference: EmbeddedRootConfigurationReference,
		Origin:    OriginEmbedded,
		Content:   embeddedRootConfigurationBytes,
	}, nil
}

func (loader RootConfigurationLoader) candidates(explicitPath string) []configurationCandidate {
	candidates := []configurationCandidate{
		{path: strings.TrimSpace(explicitPath), origin: OriginFlag, required: true},
		{path: configurationPathFromEnvironment(), origin: OriginEnvironment, required: true},
	}
	if loader.projectDirectory != "" {
		candidates = append(candidates,
			configurationCandidate{path: filepath.Join(loader.projectDirectory, configurationFileName), origin: OriginProject},
			configurationCandidate{path: filepath.Join(loader.projectDirectory, configurationDirectoryName, configurationDirectoryFileName), origin: OriginProject},
		)
	}
	if loader.workingDirectory != "" {
		candidates = append(candidates, configurationCandidate{path: filepath.Join(loader.workingDirectory, configurationFileName), origin: OriginWorkingDirectory})
	}
	if loader.homeDirectory != "" {
		candidates = append(candidates, configurationCandidate{path: filepath.Join(loader.homeDirectory, configurationDirectoryName, configurationDirectoryFileName), origin: OriginHome})
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := make([]configurationCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.path == "" {
			continue
		}
		key := filepath.Clean(candidate.path)
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}

func configurationPathFromEnvironment() string {
	environment := viper.New()
	environment.SetEnvPrefix(environmentPrefix)
	if err := environment.BindEnv(configurationPathEnvironmentKey); err != nil {
		return ""
	}
	return strings.TrimSpace(environment.GetString(configurationPathEnvironmentKey))
}
