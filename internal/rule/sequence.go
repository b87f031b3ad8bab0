package rule

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/lint-setup/internal/snapshot"
)

type sequenceRule struct {
	name  string
	rules []Rule
}

// Sequence threads the snapshot through rules in list order. The first failing
// rule stops the sequence; rules after it never run and nothing already
// written is undone.
func Sequence(name string, rules ...Rule) Rule {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return sequenceRule{name: name, rules: copied}
}

func (r sequenceRule) Name() string { return r.name }
func (r sequenceRule) Kind() Kind   { return KindSequence }

func (r sequenceRule) Apply(ctx context.Context, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error) {
	current := tree
	for _, step := range r.rules {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		execution.Logger.Debug("apply rule", zap.String("sequence", r.name), zap.String("rule", step.Name()), zap.String("kind", string(step.Kind())))
		next, err := step.Apply(ctx, current, execution)
		if next != nil {
			current = next
		}
		if err != nil {
			return current, err
		}
		if next == nil {
			return current, ErrNilSnapshot
		}
	}
	return current, nil
}

// ApplyPipeline runs rules once, in order, against tree. On failure the
// returned snapshot holds everything committed before the failing rule and the
// error is returned exactly as the rule raised it.
func ApplyPipeline(ctx context.Context, rules []Rule, tree *snapshot.Snapshot, execution *Context) (*snapshot.Snapshot, error) {
	return Sequence(pipelineRuleName, rules...).Apply(ctx, tree, execution)
}

const pipelineRuleName = "pipeline"
