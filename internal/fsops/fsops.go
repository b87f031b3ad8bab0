package fsops

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/afero"
)

// FS is an abstract filesystem used across the app and tests.
type FS interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WalkDir(root string, fn fs.WalkDirFunc) error

	Join(elem ...string) string
	Dir(name string) string
	Clean(name string) string
}

// ---------- afero implementation (in-memory for tests) ----------

type Mem struct{ Fs afero.Fs }

func NewMem() Mem { return Mem{Fs: afero.NewMemMapFs()} }

func (m Mem) ReadFile(name string) ([]byte, error) { return afero.ReadFile(m.Fs, filepath.Clean(name)) }
func (m Mem) WriteFile(name string, b []byte, p os.FileMode) error {
	return afero.WriteFile(m.Fs, filepath.Clean(name), b, p)
}
func (m Mem) Stat(name string) (fs.FileInfo, error) { return m.Fs.Stat(filepath.Clean(name)) }
func (m Mem) MkdirAll(path string, p os.FileMode) error {
	return m.Fs.MkdirAll(filepath.Clean(path), p)
}
func (m Mem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return afero.Walk(m.Fs, filepath.Clean(root), walkFuncAdapter(fn))
}

func (Mem) Join(elem ...string) string { return filepath.Join(elem...) }
func (Mem) Dir(name string) string     { return filepath.Dir(name) }
func (Mem) Clean(name string) string   { return filepath.Clean(name) }

// ---------- go-billy implementation ----------

// BillyRoot is the root path of a project opened with NewBillyOS. Every path
// is resolved inside the chroot, so writes cannot leave the project.
const BillyRoot = "/"

// Billy serves any go-billy filesystem, including chrooted OS trees.
type Billy struct{ Fs billy.Filesystem }

func NewBilly(filesystem billy.Filesystem) Billy { return Billy{Fs: filesystem} }

// NewBillyMem returns an empty in-memory go-billy filesystem.
func NewBillyMem() Billy { return NewBilly(memfs.New()) }

// NewBillyOS returns the project directory baseDir as a chrooted filesystem
// rooted at BillyRoot.
func NewBillyOS(baseDir string) Billy { return NewBilly(osfs.New(baseDir)) }

func (b Billy) ReadFile(name string) ([]byte, error) {
	return util.ReadFile(b.Fs, filepath.Clean(name))
}
func (b Billy) WriteFile(name string, data []byte, p os.FileMode) error {
	return util.WriteFile(b.Fs, filepath.Clean(name), data, p)
}
func (b Billy) Stat(name string) (fs.FileInfo, error) { return b.Fs.Stat(filepath.Clean(name)) }
func (b Billy) MkdirAll(path string, p os.FileMode) error {
	return b.Fs.MkdirAll(filepath.Clean(path), p)
}
func (b Billy) WalkDir(root string, fn fs.WalkDirFunc) error {
	return util.Walk(b.Fs, filepath.Clean(root), walkFuncAdapter(fn))
}

func (b Billy) Join(elem ...string) string { return b.Fs.Join(elem...) }
func (Billy) Dir(name string) string       { return filepath.Dir(name) }
func (Billy) Clean(name string) string     { return filepath.Clean(name) }

func walkFuncAdapter(fn fs.WalkDirFunc) filepath.WalkFunc {
	return func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(p, nil, err)
		}
		return fn(p, fs.FileInfoToDirEntry(info), nil)
	}
}
