package angulareslint

import (
	"fmt"
	"path"
	"sort"

	"github.com/temirov/lint-setup/internal/jsondoc"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	lintBuilder          = "@angular-eslint/builder:lint"
	schematicsCollection = "@angular-eslint/schematics"
	defaultSourceRoot    = "src"

	projectsKey             = "projects"
	architectKey            = "architect"
	lintTargetKey           = "lint"
	cliKey                  = "cli"
	schematicCollectionsKey = "schematicCollections"

	workspaceShapeErrorFormat = "angular workspace: %s must be an object, got %T"
)

// WorkspaceLintTargets adds a lint target to every project in angular.json that
// lacks one and registers the angular-eslint schematics collection. Existing
// targets are left alone.
func WorkspaceLintTargets(document jsondoc.Document, _ *rule.Context) (jsondoc.Document, error) {
	patched := jsondoc.Clone(document)

	projects, err := objectAt(patched, projectsKey)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(projects) {
		project, isObject := projects[name].(map[string]any)
		if !isObject {
			return nil, fmt.Errorf(workspaceShapeErrorFormat, projectsKey+"."+name, projects[name])
		}
		architect, architectErr := objectAt(project, architectKey)
		if architectErr != nil {
			return nil, fmt.Errorf("%s: %w", name, architectErr)
		}
		if _, exists := architect[lintTargetKey]; exists {
			continue
		}
		sourceRoot := projectSourceRoot(project)
		architect[lintTargetKey] = map[string]any{
			"builder": lintBuilder,
			"options": map[string]any{
				"lintFilePatterns": []any{
					path.Join(sourceRoot, "**", "*.ts"),
					path.Join(sourceRoot, "**", "*.html"),
				},
			},
		}
	}

	cli, err := objectAt(patched, cliKey)
	if err != nil {
		return nil, err
	}
	collections, err := stringListAt(cli, schematicCollectionsKey)
	if err != nil {
		return nil, err
	}
	if !containsValue(collections, schematicsCollection) {
		cli[schematicCollectionsKey] = append(collections, schematicsCollection)
	}
	return patched, nil
}

func projectSourceRoot(project map[string]any) string {
	if sourceRoot, ok := project["sourceRoot"].(string); ok && sourceRoot != "" {
		return sourceRoot
	}
	if root, ok := project["root"].(string); ok && root != "" {
		return path.Join(root, defaultSourceRoot)
	}
	return defaultSourceRoot
}

// workspacePrefix returns the selector prefix of the first project declaring
// one, in name order.
func workspacePrefix(tree *snapshot.Snapshot) string {
	if !tree.Exists(WorkspacePath) {
		return defaultPrefix
	}
	workspace, err := jsondoc.Read(tree, WorkspacePath)
	if err != nil {
		return defaultPrefix
	}
	projects, _ := workspace[projectsKey].(map[string]any)
	for _, name := range sortedKeys(projects) {
		project, _ := projects[name].(map[string]any)
		if prefix, ok := project["prefix"].(string); ok && prefix != "" {
			return prefix
		}
	}
	return defaultPrefix
}

// objectAt returns the object under key, creating it when absent.
func objectAt(parent map[string]any, key string) (map[string]any, error) {
	raw, ok := parent[key]
	if !ok || raw == nil {
		created := map[string]any{}
		parent[key] = created
		return created, nil
	}
	object, isObject := raw.(map[string]any)
	if !isObject {
		return nil, fmt.Errorf(workspaceShapeErrorFormat, key, raw)
	}
	return object, nil
}

func stringListAt(parent map[string]any, key string) ([]any, error) {
	raw, ok := parent[key]
	if !ok || raw == nil {
		return []any{}, nil
	}
	list, isList := raw.([]any)
	if !isList {
		return nil, fmt.Errorf("angular workspace: %s must be an array, got %T", key, raw)
	}
	return list, nil
}

func containsValue(list []any, want string) bool {
	for _, item := range list {
		if text, ok := item.(string); ok && text == want {
			return true
		}
	}
	return false
}

func sortedKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
