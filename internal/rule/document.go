package rule

import (
	"context"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/snapshot"
)

const updateRuleNamePrefix = "update "

// Patcher derives a new document from an existing one. Absent files are
// presented to the patcher as an empty document.
type Patcher func(document jsondoc.Document, execution *Context) (jsondoc.Document, error)

type documentRule struct {
	path    string
	patcher Patcher
}

// UpdateJSON reads the JSON document at path (if any), runs patcher over it and
// upserts the serialized result. Nothing is written when parsing or patching
// fails.
func UpdateJSON(path string, patcher Patcher) Rule {
	return documentRule{path: path, patcher: patcher}
}

func (r documentRule) Name() string { return updateRuleNamePrefix + r.path }
func (r documentRule) Kind() Kind   { return KindPatchDocument }

func (r documentRule) Apply(_ context.Context, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error) {
	current := jsondoc.Document{}
	if tree.Exists(r.path) {
		parsed, err := jsondoc.Read(tree, r.path)
		if err != nil {
			return tree, err
		}
		current = parsed
	}
	patched, err := r.patcher(current, execution)
	if err != nil {
		return tree, err
	}
	serialized, err := jsondoc.Serialize(patched)
	if err != nil {
		return tree, err
	}
	return tree, tree.Upsert(r.path, serialized)
}
