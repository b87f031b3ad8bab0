package rule

import (
	"context"
	"errors"
	"maps"

	"github.com/temirov/lint-setup/internal/snapshot"
)

// ErrExternalRule matches every failure raised by a delegated installer.
var ErrExternalRule = errors.New("external rule failed")

// Installer is an opaque rule set, typically an addon's own setup routine.
type Installer interface {
	Install(ctx context.Context, tree *snapshot.Snapshot, execution *Context, options map[string]string) (*snapshot.Snapshot, error)
}

// InstallerFunc adapts a function to Installer.
type InstallerFunc func(ctx context.Context, tree *snapshot.Snapshot, execution *Context, options map[string]string) (*snapshot.Snapshot, error)

func (f InstallerFunc) Install(ctx context.Context, tree *snapshot.Snapshot, execution *Context, options map[string]string) (*snapshot.Snapshot, error) {
	return f(ctx, tree, execution, options)
}

// ExternalRuleError carries an installer failure without reinterpreting it;
// its message is the installer's own.
type ExternalRuleError struct {
	Rule string
	Err  error
}

func (e *ExternalRuleError) Error() string { return e.Err.Error() }

func (e *ExternalRuleError) Unwrap() error { return e.Err }

func (e *ExternalRuleError) Is(target error) bool { return target == ErrExternalRule }

type delegateRule struct {
	name      string
	options   map[string]string
	installer Installer
}

// Delegate forwards the snapshot and context to installer. The engine does not
// look inside the installer.
func Delegate(name string, options map[string]string, installer Installer) Rule {
	return delegateRule{name: name, options: maps.Clone(options), installer: installer}
}

func (r delegateRule) Name() string { return r.name }
func (r delegateRule) Kind() Kind   { return KindExternalDelegate }

func (r delegateRule) Apply(ctx context.Context, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error) {
	result, err := r.installer.Install(ctx, tree, execution, maps.Clone(r.options))
	if err != nil {
		if result == nil {
			result = tree
		}
		return result, &ExternalRuleError{Rule: r.name, Err: err}
	}
	return result, nil
}
