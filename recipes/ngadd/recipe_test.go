package ngadd_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
	"github.com/temirov/lint-setup/internal/versions"
	"github.com/temirov/lint-setup/recipes/ngadd"
)

func TestRules_AnnouncesThenDelegates(t *testing.T) {
	var calls []map[string]string
	registry := rule.NewRegistry()
	registry.Register(ngadd.DefaultAddon, func() rule.Installer {
		return rule.InstallerFunc(func(_ context.Context, tree *snapshot.Snapshot, _ *rule.Context, options map[string]string) (*snapshot.Snapshot, error) {
			calls = append(calls, options)
			return tree, tree.Upsert(".eslintrc.json", []byte("{}\n"))
		})
	})
	core, logs := observer.New(zapcore.InfoLevel)
	execution := rule.NewContext(zap.New(core), rule.Options{Versions: versions.Default()})

	rules, err := ngadd.Rules(registry, map[string]string{"prefix": "acme"})
	require.NoError(t, err)
	tree := snapshot.New()
	_, err = rule.ApplyPipeline(context.Background(), rules, tree, execution)
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, map[string]string{"prefix": "acme"}, calls[0])
	assert.True(t, tree.Exists(".eslintrc.json"))
	require.NotZero(t, logs.Len())
	assert.Equal(t, "ng-add is running...", logs.All()[0].Message)
}

func TestRules_UnknownAddon(t *testing.T) {
	_, err := ngadd.Rules(rule.NewRegistry(), nil)
	require.Error(t, err)
}
