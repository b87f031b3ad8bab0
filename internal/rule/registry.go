package rule

import (
	"fmt"
	"sort"
)

const unknownInstallerErrorFormat = "unknown installer %q"

type InstallerFactory func() Installer

// Registry resolves addon installers by name so recipes can delegate to them.
type Registry struct{ installers map[string]InstallerFactory }

func NewRegistry() *Registry { return &Registry{installers: map[string]InstallerFactory{}} }

func (r *Registry) Register(name string, factory InstallerFactory) { r.installers[name] = factory }

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.installers))
	for k := range r.installers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Create(name string) (Installer, bool) {
	f, ok := r.installers[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Delegate builds a delegate rule for the installer registered under name.
func (r *Registry) Delegate(name string, options map[string]string) (Rule, error) {
	installer, ok := r.Create(name)
	if !ok {
		return nil, fmt.Errorf(unknownInstallerErrorFormat, name)
	}
	return Delegate(name, options, installer), nil
}
