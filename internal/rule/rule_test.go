package rule_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
)

func newObservedContext(t *testing.T) (*rule.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return rule.NewContext(zap.New(core), rule.Options{Project: "app"}), logs
}

func writeKey(key string, value any) rule.Rule {
	return rule.UpdateJSON("state.json", func(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
		patched := jsondoc.Clone(document)
		patched[key] = value
		return patched, nil
	})
}

func TestSequence_LaterRuleObservesEarlierWrite(t *testing.T) {
	execution, _ := newObservedContext(t)
	var observed any
	reader := rule.Mutate("read-first", func(tree *snapshot.Snapshot, _ *rule.Context) error {
		document, err := jsondoc.Read(tree, "state.json")
		if err != nil {
			return err
		}
		observed = document["first"]
		return nil
	})

	for attempt := 0; attempt < 5; attempt++ {
		observed = nil
		_, err := rule.ApplyPipeline(context.Background(), []rule.Rule{writeKey("first", "written"), reader}, snapshot.New(), execution)
		require.NoError(t, err)
		assert.Equal(t, "written", observed)
	}
}

func TestSequence_AppliesInListOrder(t *testing.T) {
	execution, _ := newObservedContext(t)
	var order []string
	step := func(name string) rule.Rule {
		return rule.Mutate(name, func(*snapshot.Snapshot, *rule.Context) error {
			order = append(order, name)
			return nil
		})
	}

	nested := rule.Sequence("nested", step("b"), step("c"))
	_, err := rule.ApplyPipeline(context.Background(), []rule.Rule{step("a"), nested, step("d")}, snapshot.New(), execution)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestSequence_AbortsOnFirstFailure(t *testing.T) {
	execution, _ := newObservedContext(t)
	failure := errors.New("boom")
	ranAfterFailure := false

	rules := []rule.Rule{
		writeKey("first", true),
		rule.Mutate("fail", func(*snapshot.Snapshot, *rule.Context) error { return failure }),
		rule.Mutate("after", func(*snapshot.Snapshot, *rule.Context) error {
			ranAfterFailure = true
			return nil
		}),
	}
	result, err := rule.ApplyPipeline(context.Background(), rules, snapshot.New(), execution)

	require.Error(t, err)
	assert.Same(t, failure, err)
	assert.False(t, ranAfterFailure)
	require.NotNil(t, result)
	assert.True(t, result.Exists("state.json"), "mutations before the failing rule stay committed")
}

func TestSequence_StopsWhenContextCancelled(t *testing.T) {
	execution, _ := newObservedContext(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rule.ApplyPipeline(ctx, []rule.Rule{writeKey("first", true)}, snapshot.New(), execution)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSequence_NilSnapshotIsAnError(t *testing.T) {
	execution, _ := newObservedContext(t)
	installer := rule.InstallerFunc(func(context.Context, *snapshot.Snapshot, *rule.Context, map[string]string) (*snapshot.Snapshot, error) {
		return nil, nil
	})

	_, err := rule.ApplyPipeline(context.Background(), []rule.Rule{rule.Delegate("broken", nil, installer)}, snapshot.New(), execution)

	assert.ErrorIs(t, err, rule.ErrNilSnapshot)
}

func TestSequence_ThreadsReplacementSnapshot(t *testing.T) {
	execution, _ := newObservedContext(t)
	replacement := snapshot.FromMap(map[string]string{"from-addon.json": "{}"})
	installer := rule.InstallerFunc(func(context.Context, *snapshot.Snapshot, *rule.Context, map[string]string) (*snapshot.Snapshot, error) {
		return replacement, nil
	})
	sawAddonFile := false
	check := rule.Mutate("check", func(tree *snapshot.Snapshot, _ *rule.Context) error {
		sawAddonFile = tree.Exists("from-addon.json")
		return nil
	})

	result, err := rule.ApplyPipeline(context.Background(), []rule.Rule{rule.Delegate("addon", nil, installer), check}, snapshot.New(), execution)

	require.NoError(t, err)
	assert.True(t, sawAddonFile)
	assert.Same(t, replacement, result)
}

func TestUpdateJSON_CreatesMissingDocument(t *testing.T) {
	execution, _ := newObservedContext(t)
	tree := snapshot.New()

	var received jsondoc.Document
	updater := rule.UpdateJSON(".prettierrc.json", func(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
		received = document
		return jsondoc.Document{"semi": true}, nil
	})
	_, err := updater.Apply(context.Background(), tree, execution)

	require.NoError(t, err)
	assert.Equal(t, jsondoc.Document{}, received)
	content, err := tree.Read(".prettierrc.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"semi\": true\n}\n", string(content))
	assert.Equal(t, rule.KindPatchDocument, updater.Kind())
	assert.Equal(t, "update .prettierrc.json", updater.Name())
}

func TestUpdateJSON_PatchesExistingCommentedDocument(t *testing.T) {
	execution, _ := newObservedContext(t)
	tree := snapshot.FromMap(map[string]string{".vscode/settings.json": "{\n  // keep tabs\n  \"editor.tabSize\": 4\n}\n"})

	_, err := writeKeyAt(".vscode/settings.json", "files.eol", "\n").Apply(context.Background(), tree, execution)

	require.NoError(t, err)
	document, err := jsondoc.Read(tree, ".vscode/settings.json")
	require.NoError(t, err)
	assert.Equal(t, json.Number("4"), document["editor.tabSize"])
	assert.Equal(t, "\n", document["files.eol"])
}

func TestUpdateJSON_ParseFailureLeavesFileUntouched(t *testing.T) {
	execution, _ := newObservedContext(t)
	tree := snapshot.FromMap(map[string]string{".eslintrc.json": "{ not json"})

	_, err := writeKeyAt(".eslintrc.json", "root", true).Apply(context.Background(), tree, execution)

	require.Error(t, err)
	assert.ErrorIs(t, err, jsondoc.ErrParse)
	content, readErr := tree.Read(".eslintrc.json")
	require.NoError(t, readErr)
	assert.Equal(t, "{ not json", string(content))
}

func TestUpdateJSON_PatcherFailurePropagates(t *testing.T) {
	execution, _ := newObservedContext(t)
	failure := errors.New("patch refused")
	updater := rule.UpdateJSON("a.json", func(jsondoc.Document, *rule.Context) (jsondoc.Document, error) {
		return nil, failure
	})

	tree := snapshot.New()
	_, err := updater.Apply(context.Background(), tree, execution)

	assert.Same(t, failure, err)
	assert.False(t, tree.Exists("a.json"))
}

func TestWhenExists(t *testing.T) {
	testCases := []struct {
		name          string
		files         map[string]string
		expectPatched bool
	}{
		{name: "AbsentPassesThrough", files: map[string]string{}},
		{name: "PresentAppliesInner", files: map[string]string{"state.json": `{"kept": true}`}, expectPatched: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			execution, _ := newObservedContext(t)
			tree := snapshot.FromMap(testCase.files)
			conditional := rule.WhenExists("state.json", writeKey("added", true))

			result, err := conditional.Apply(context.Background(), tree, execution)
			require.NoError(t, err)
			assert.Contains(t, conditional.Name(), "state.json")

			if !testCase.expectPatched {
				assert.False(t, result.Exists("state.json"))
				assert.Empty(t, result.Changes())
				return
			}
			document, readErr := jsondoc.Read(result, "state.json")
			require.NoError(t, readErr)
			assert.Equal(t, jsondoc.Document{"kept": true, "added": true}, document)
		})
	}
}

func TestUpdateJSON_RunningTwiceMatchesRunningOnce(t *testing.T) {
	execution, _ := newObservedContext(t)
	setDefaults := rule.UpdateJSON(".prettierrc.json", func(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
		patched := jsondoc.Clone(document)
		patched["printWidth"] = json.Number("80")
		return patched, nil
	})

	once := snapshot.New()
	_, err := rule.ApplyPipeline(context.Background(), []rule.Rule{setDefaults}, once, execution)
	require.NoError(t, err)

	twice := snapshot.New()
	_, err = rule.ApplyPipeline(context.Background(), []rule.Rule{setDefaults, setDefaults}, twice, execution)
	require.NoError(t, err)

	assert.Equal(t, once.Changes(), twice.Changes())
}

func writeKeyAt(path string, key string, value any) rule.Rule {
	return rule.UpdateJSON(path, func(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
		patched := jsondoc.Clone(document)
		patched[key] = value
		return patched, nil
	})
}

func TestDelegate_WrapsFailureWithoutRewording(t *testing.T) {
	execution, _ := newObservedContext(t)
	failure := errors.New("collection @angular-eslint/schematics not installed")
	installer := rule.InstallerFunc(func(_ context.Context, tree *snapshot.Snapshot, _ *rule.Context, _ map[string]string) (*snapshot.Snapshot, error) {
		return nil, failure
	})
	tree := snapshot.New()

	result, err := rule.Delegate("angular-eslint", map[string]string{"project": "app"}, installer).Apply(context.Background(), tree, execution)

	require.Error(t, err)
	assert.Equal(t, failure.Error(), err.Error())
	assert.ErrorIs(t, err, failure)
	assert.ErrorIs(t, err, rule.ErrExternalRule)
	var externalErr *rule.ExternalRuleError
	require.True(t, errors.As(err, &externalErr))
	assert.Equal(t, "angular-eslint", externalErr.Rule)
	assert.Same(t, tree, result)
}

func TestDelegate_PassesOptionsCopy(t *testing.T) {
	execution, _ := newObservedContext(t)
	options := map[string]string{"project": "app"}
	var received map[string]string
	installer := rule.InstallerFunc(func(_ context.Context, tree *snapshot.Snapshot, _ *rule.Context, given map[string]string) (*snapshot.Snapshot, error) {
		received = given
		given["project"] = "mutated"
		return tree, nil
	})
	delegate := rule.Delegate("addon", options, installer)

	_, err := delegate.Apply(context.Background(), snapshot.New(), execution)

	require.NoError(t, err)
	assert.Equal(t, "mutated", received["project"])
	assert.Equal(t, "app", options["project"])
	assert.Equal(t, rule.KindExternalDelegate, delegate.Kind())
}

func TestRegistry(t *testing.T) {
	registry := rule.NewRegistry()
	registry.Register("zeta", func() rule.Installer { return rule.InstallerFunc(nil) })
	registry.Register("alpha", func() rule.Installer { return rule.InstallerFunc(nil) })

	assert.Equal(t, []string{"alpha", "zeta"}, registry.Names())

	delegate, err := registry.Delegate("alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, "alpha", delegate.Name())

	_, err = registry.Delegate("missing", nil)
	assert.EqualError(t, err, `unknown installer "missing"`)
}

func TestDeriveIgnore_MissingSourceIsReported(t *testing.T) {
	execution, logs := newObservedContext(t)
	tree := snapshot.New()

	_, err := rule.ApplyPipeline(context.Background(), []rule.Rule{rule.DeriveIgnore(".gitignore", ".prettierignore")}, tree, execution)

	require.NoError(t, err)
	assert.False(t, tree.Exists(".prettierignore"))
	reported := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, reported, 1)
	assert.Equal(t, ".gitignore", reported[0].ContextMap()["source"])
}

func TestDeriveIgnore_EmptySourceIsReported(t *testing.T) {
	execution, logs := newObservedContext(t)
	tree := snapshot.FromMap(map[string]string{".gitignore": " \n\n"})

	_, err := rule.DeriveIgnore(".gitignore", ".prettierignore").Apply(context.Background(), tree, execution)

	require.NoError(t, err)
	assert.False(t, tree.Exists(".prettierignore"))
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDeriveIgnore_CopiesContentVerbatim(t *testing.T) {
	execution, logs := newObservedContext(t)
	tree := snapshot.FromMap(map[string]string{".gitignore": "node_modules\n*.log\n"})

	_, err := rule.DeriveIgnore(".gitignore", ".prettierignore").Apply(context.Background(), tree, execution)

	require.NoError(t, err)
	content, err := tree.Read(".prettierignore")
	require.NoError(t, err)
	assert.Equal(t, "node_modules\n*.log\n", string(content))
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDeriveIgnore_OverwritesStaleTarget(t *testing.T) {
	execution, _ := newObservedContext(t)
	tree := snapshot.FromMap(map[string]string{".gitignore": "dist\n", ".prettierignore": "old\n"})

	_, err := rule.DeriveIgnore(".gitignore", ".prettierignore").Apply(context.Background(), tree, execution)

	require.NoError(t, err)
	content, err := tree.Read(".prettierignore")
	require.NoError(t, err)
	assert.Equal(t, "dist\n", string(content))
}
