package rule

import (
	"context"
	"fmt"

	"github.com/temirov/lint-setup/internal/snapshot"
)

const whenExistsRuleNameFormat = "%s (when %s exists)"

type whenExistsRule struct {
	path  string
	inner Rule
}

// WhenExists applies inner only when path is present in the snapshot it
// receives; otherwise the snapshot passes through untouched.
func WhenExists(path string, inner Rule) Rule {
	return whenExistsRule{path: path, inner: inner}
}

func (r whenExistsRule) Name() string {
	return fmt.Sprintf(whenExistsRuleNameFormat, r.inner.Name(), r.path)
}

func (r whenExistsRule) Kind() Kind { return r.inner.Kind() }

func (r whenExistsRule) Apply(ctx context.Context, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error) {
	if !tree.Exists(r.path) {
		return tree, nil
	}
	return r.inner.Apply(ctx, tree, execution)
}
