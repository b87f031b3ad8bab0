// Package rule composes snapshot transformations into ordered pipelines.
//
// A Rule receives the snapshot produced by the rule before it together with
// the Context shared by the whole run, and returns the snapshot the next rule
// should see. Rules never touch the file system; the host loads and commits
// snapshots.
package rule

import (
	"context"
	"errors"

	"github.com/temirov/lint-setup/internal/snapshot"
)

// Kind tags the variant a Rule was built from.
type Kind string

const (
	KindMutate           Kind = "mutate"
	KindPatchDocument    Kind = "patch-document"
	KindSequence         Kind = "sequence"
	KindExternalDelegate Kind = "external-delegate"
)

// ErrNilSnapshot is returned when a rule hands back no snapshot and no error.
var ErrNilSnapshot = errors.New("rule returned a nil snapshot")

type Rule interface {
	Name() string
	Kind() Kind
	Apply(ctx context.Context, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error)
}

// MutateFunc edits the snapshot in place.
type MutateFunc func(tree *snapshot.Snapshot, execution *Context) error

type mutateRule struct {
	name   string
	mutate MutateFunc
}

// Mutate wraps a direct snapshot mutator. Writes performed before the mutator
// returns an error stay in the snapshot.
func Mutate(name string, mutate MutateFunc) Rule {
	return mutateRule{name: name, mutate: mutate}
}

func (r mutateRule) Name() string { return r.name }
func (r mutateRule) Kind() Kind   { return KindMutate }

func (r mutateRule) Apply(_ context.Context, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error) {
	return tree, r.mutate(tree, execution)
}
