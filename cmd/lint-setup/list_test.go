package lintsetup_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	lintsetup "github.com/temirov/lint-setup/cmd/lint-setup"
)

const listTestConfig = `
recipes:
  - name: lint-config
    enabled: true
    type: recipe/lint-config
  - name: ng-add
    enabled: false
    type: recipe/ng-add
`

func TestListCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "lint-setup.yaml")
	if err := os.WriteFile(configPath, []byte(listTestConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "EnabledOnly",
			args:     []string{"list", "--config", configPath},
			expected: "lint-config\t(enabled, type=recipe/lint-config)\n",
		},
		{
			name: "All",
			args: []string{"list", "--config", configPath, "--all"},
			expected: "lint-config\t(enabled, type=recipe/lint-config)\n" +
				"ng-add\t(disabled, type=recipe/ng-add)\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(testingT *testing.T) {
			command := lintsetup.NewRootCommand()
			var output bytes.Buffer
			command.SetOut(&output)
			command.SetArgs(testCase.args)
			if err := command.Execute(); err != nil {
				testingT.Fatalf("list: %v", err)
			}
			if output.String() != testCase.expected {
				testingT.Fatalf("expected %q, got %q", testCase.expected, output.String())
			}
		})
	}
}

func TestListCommand_RejectsInvalidConfiguration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "lint-setup.yaml")
	if err := os.WriteFile(configPath, []byte("recipes: []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	command := lintsetup.NewRootCommand()
	command.SetOut(&bytes.Buffer{})
	command.SetArgs([]string{"list", "--config", configPath})
	if err := command.Execute(); err == nil {
		t.Fatalf("expected error for empty recipe list")
	}
}
