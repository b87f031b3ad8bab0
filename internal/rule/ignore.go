package rule

import (
	"bytes"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	deriveIgnoreRuleNamePrefix = "derive "
	ignoreSourceMissingMessage = "ignore source not found; target not created"
	ignoreSourceEmptyMessage   = "ignore source is empty; target not created"
	ignoreDerivedMessage       = "ignore file derived"
)

// DeriveIgnore copies the ignore file at source to target verbatim. A missing
// or blank source is reported through the error log and skipped; it never
// fails the pipeline.
func DeriveIgnore(source string, target string) Rule {
	return Mutate(deriveIgnoreRuleNamePrefix+target, func(tree *snapshot.Snapshot, execution *Context) error {
		content, err := tree.Read(source)
		if errors.Is(err, snapshot.ErrNotFound) {
			execution.Error(ignoreSourceMissingMessage, zap.String("source", source), zap.String("target", target))
			return nil
		}
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(content)) == 0 {
			execution.Error(ignoreSourceEmptyMessage, zap.String("source", source), zap.String("target", target))
			return nil
		}
		if err := tree.Upsert(target, content); err != nil {
			return err
		}
		execution.Info(ignoreDerivedMessage, zap.String("source", source), zap.String("target", target))
		return nil
	})
}
