// Package snapshot holds the in-memory view of a project's files that rules mutate.
package snapshot

import (
	"bytes"
	"path"
	"sort"
	"strings"
)

// Action names the kind of pending write recorded for a path.
type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
)

// Change describes one path whose content differs from what the host seeded.
type Change struct {
	Action  Action
	Path    string
	Content []byte
}

// Snapshot maps project-relative paths to file content.
//
// A Snapshot is owned by exactly one pipeline run at a time and is not safe for
// concurrent use.
type Snapshot struct {
	files  map[string][]byte
	seeded map[string][]byte
}

func New() *Snapshot {
	return &Snapshot{files: map[string][]byte{}, seeded: map[string][]byte{}}
}

// FromMap builds a snapshot seeded with the given files.
func FromMap(files map[string]string) *Snapshot {
	tree := New()
	for filePath, content := range files {
		tree.Seed(filePath, []byte(content))
	}
	return tree
}

// Seed records a file as part of the starting state. Seeded files never show up
// in Changes unless a rule later writes different content.
func (s *Snapshot) Seed(filePath string, data []byte) {
	key := normalize(filePath)
	s.files[key] = clone(data)
	s.seeded[key] = clone(data)
}

func (s *Snapshot) Exists(filePath string) bool {
	_, ok := s.files[normalize(filePath)]
	return ok
}

// Read returns a copy of the content stored at filePath.
func (s *Snapshot) Read(filePath string) ([]byte, error) {
	key := normalize(filePath)
	data, ok := s.files[key]
	if !ok {
		return nil, &PathError{Op: opRead, Path: key, Err: ErrNotFound}
	}
	return clone(data), nil
}

// Create adds a new file and fails when the path is already present.
func (s *Snapshot) Create(filePath string, data []byte) error {
	key := normalize(filePath)
	if key == "" {
		return &PathError{Op: opCreate, Path: filePath, Err: ErrInvalidPath}
	}
	if _, ok := s.files[key]; ok {
		return &PathError{Op: opCreate, Path: key, Err: ErrAlreadyExists}
	}
	s.files[key] = clone(data)
	return nil
}

// Overwrite replaces the content of an existing file.
func (s *Snapshot) Overwrite(filePath string, data []byte) error {
	key := normalize(filePath)
	if _, ok := s.files[key]; !ok {
		return &PathError{Op: opOverwrite, Path: key, Err: ErrNotFound}
	}
	s.files[key] = clone(data)
	return nil
}

// Upsert creates filePath when absent and overwrites it otherwise.
func (s *Snapshot) Upsert(filePath string, data []byte) error {
	if s.Exists(filePath) {
		return s.Overwrite(filePath, data)
	}
	return s.Create(filePath, data)
}

// Paths lists every file in lexical order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for key := range s.files {
		paths = append(paths, key)
	}
	sort.Strings(paths)
	return paths
}

func (s *Snapshot) Len() int { return len(s.files) }

// Changes reports the writes that differ from the seeded state, ordered by path.
func (s *Snapshot) Changes() []Change {
	var changes []Change
	for _, key := range s.Paths() {
		current := s.files[key]
		original, wasSeeded := s.seeded[key]
		switch {
		case !wasSeeded:
			changes = append(changes, Change{Action: ActionCreate, Path: key, Content: clone(current)})
		case !bytes.Equal(original, current):
			changes = append(changes, Change{Action: ActionOverwrite, Path: key, Content: clone(current)})
		}
	}
	return changes
}

func normalize(filePath string) string {
	slashed := strings.ReplaceAll(strings.TrimSpace(filePath), "\\", "/")
	cleaned := path.Clean("/" + slashed)
	return strings.TrimPrefix(cleaned, "/")
}

func clone(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}
