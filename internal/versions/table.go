// Package versions holds the dependency version pins recipes write into a
// project's package manifest.
package versions

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	invalidPinErrorFormat  = "invalid version pin for %s: %q: %w"
	missingPinErrorFormat  = "%w: no version pinned for %s"
	blankNameErrorText     = "dependency name is blank"
	rangePrefixCharacters  = "^~>=v "
	wildcardVersionLiteral = "*"
)

var ErrMissingPin = errors.New("missing version pin")

// Table maps package names to the version range recipes pin them to.
type Table map[string]string

// Default returns the pins used when the configuration does not provide any.
func Default() Table {
	return Table{
		"@angular-eslint/builder":                "^17.2.0",
		"@angular-eslint/eslint-plugin":          "^17.2.0",
		"@angular-eslint/eslint-plugin-template": "^17.2.0",
		"@angular-eslint/schematics":             "^17.2.0",
		"@angular-eslint/template-parser":        "^17.2.0",
		"@typescript-eslint/eslint-plugin":       "^6.19.0",
		"@typescript-eslint/parser":              "^6.19.0",
		"eslint":                                 "^8.56.0",
		"eslint-config-prettier":                 "^9.1.0",
		"eslint-plugin-prettier":                 "^5.1.3",
		"prettier":                               "^3.2.4",
	}
}

// Validate checks that every pin parses as a semantic version range.
func (t Table) Validate() error {
	for _, name := range t.Names() {
		if strings.TrimSpace(name) == "" {
			return errors.New(blankNameErrorText)
		}
		if _, err := semver.NewConstraint(t[name]); err != nil {
			return fmt.Errorf(invalidPinErrorFormat, name, t[name], err)
		}
	}
	return nil
}

// Lookup returns the pinned range for name.
func (t Table) Lookup(name string) (string, error) {
	pin, ok := t[name]
	if !ok || strings.TrimSpace(pin) == "" {
		return "", fmt.Errorf(missingPinErrorFormat, ErrMissingPin, name)
	}
	return pin, nil
}

// Names lists the pinned packages in lexical order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a copy of t with the entries of overrides applied on top.
func (t Table) Merge(overrides Table) Table {
	merged := make(Table, len(t)+len(overrides))
	for name, pin := range t {
		merged[name] = pin
	}
	for name, pin := range overrides {
		merged[name] = pin
	}
	return merged
}

// Satisfies reports whether the existing range already starts at or above the
// pinned one, in which case writing the pin would be a downgrade. Ranges that
// cannot be read as a version report false.
func Satisfies(existing string, pinned string) bool {
	existingFloor, existingOK := floor(existing)
	pinnedFloor, pinnedOK := floor(pinned)
	if !existingOK || !pinnedOK {
		return false
	}
	return !existingFloor.LessThan(pinnedFloor)
}

func floor(versionRange string) (*semver.Version, bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(versionRange), rangePrefixCharacters)
	if trimmed == "" || trimmed == wildcardVersionLiteral {
		return nil, false
	}
	if fields := strings.Fields(trimmed); len(fields) > 0 {
		trimmed = fields[0]
	}
	version, err := semver.NewVersion(trimmed)
	if err != nil {
		return nil, false
	}
	return version, true
}
