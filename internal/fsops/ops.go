package fsops

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/lint-setup/internal/snapshot"
)

const (
	gitDirectoryName         = ".git"
	nodeModulesDirectoryName = "node_modules"
	gitIgnoreFileName        = ".gitignore"
	gitIgnoreCommentPrefix   = "#"

	directoryPermissions = 0o755
	filePermissions      = 0o644
	commitOperation      = "commit"

	readIgnoreErrorFormat   = "read %s: %w"
	walkProjectErrorFormat  = "walk project %s: %w"
	relativePathErrorFormat = "resolve %s under %s: %w"
	readFileErrorFormat     = "read %s: %w"
	createDirErrorFormat    = "create directory for %s: %w"
	writeFileErrorFormat    = "write %s: %w"
)

// ---------- High-level façade used by the run command ----------

type Ops struct{ FS FS }

func NewOps(fs FS) Ops { return Ops{FS: fs} }

// Inventory walks root and returns the slash-separated paths of every file the
// project tracks. The .git and node_modules directories are always skipped, as
// is anything matched by the root .gitignore.
func (o Ops) Inventory(root string) ([]string, error) {
	matcher, err := o.ignoreMatcher(root)
	if err != nil {
		return nil, err
	}
	root = o.FS.Clean(root)
	var out []string
	walkErr := o.FS.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		relative, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return fmt.Errorf(relativePathErrorFormat, p, root, relErr)
		}
		relative = filepath.ToSlash(relative)
		if d.IsDir() {
			name := d.Name()
			if name == gitDirectoryName || name == nodeModulesDirectoryName {
				return fs.SkipDir
			}
			if matcher.Match(strings.Split(relative, "/"), true) {
				return fs.SkipDir
			}
			return nil
		}
		if matcher.Match(strings.Split(relative, "/"), false) {
			return nil
		}
		out = append(out, relative)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf(walkProjectErrorFormat, root, walkErr)
	}
	return out, nil
}

// Load seeds a snapshot with the content of every inventoried file. Each of
// managed is seeded as well when it exists on disk, even if the ignore rules
// hid it, so rules that patch those files see the project's current content.
func (o Ops) Load(root string, managed ...string) (*snapshot.Snapshot, error) {
	paths, err := o.Inventory(root)
	if err != nil {
		return nil, err
	}
	tree := snapshot.New()
	for _, relative := range paths {
		content, readErr := o.FS.ReadFile(o.FS.Join(root, filepath.FromSlash(relative)))
		if readErr != nil {
			return nil, fmt.Errorf(readFileErrorFormat, relative, readErr)
		}
		tree.Seed(relative, content)
	}
	for _, relative := range managed {
		if tree.Exists(relative) {
			continue
		}
		content, readErr := o.FS.ReadFile(o.FS.Join(root, filepath.FromSlash(relative)))
		if errors.Is(readErr, fs.ErrNotExist) {
			continue
		}
		if readErr != nil {
			return nil, fmt.Errorf(readFileErrorFormat, relative, readErr)
		}
		tree.Seed(relative, content)
	}
	return tree, nil
}

// Commit writes each change under root, creating parent directories as needed.
// A create whose target already exists on disk refuses the whole commit before
// anything is written: the snapshot never saw that file, so writing would
// discard it. Otherwise writes stop at the first failure.
func (o Ops) Commit(root string, changes []snapshot.Change) error {
	for _, change := range changes {
		if change.Action != snapshot.ActionCreate {
			continue
		}
		if o.FileExists(o.FS.Join(root, filepath.FromSlash(change.Path))) {
			return &snapshot.PathError{Op: commitOperation, Path: change.Path, Err: snapshot.ErrAlreadyExists}
		}
	}
	for _, change := range changes {
		target := o.FS.Join(root, filepath.FromSlash(change.Path))
		if err := o.FS.MkdirAll(o.FS.Dir(target), directoryPermissions); err != nil {
			return fmt.Errorf(createDirErrorFormat, change.Path, err)
		}
		if err := o.FS.WriteFile(target, change.Content, filePermissions); err != nil {
			return fmt.Errorf(writeFileErrorFormat, change.Path, err)
		}
	}
	return nil
}

func (o Ops) FileExists(p string) bool { _, err := o.FS.Stat(p); return err == nil }

func (o Ops) ignoreMatcher(root string) (gitignore.Matcher, error) {
	content, err := o.FS.ReadFile(o.FS.Join(root, gitIgnoreFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gitignore.NewMatcher(nil), nil
		}
		return nil, fmt.Errorf(readIgnoreErrorFormat, gitIgnoreFileName, err)
	}
	return gitignore.NewMatcher(parseIgnorePatterns(content)), nil
}

func parseIgnorePatterns(content []byte) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, gitIgnoreCommentPrefix) || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}
