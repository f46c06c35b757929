// Package testutil provides test doubles for mage, chiefly an in-memory
// types.FS with symlink support and per-path error injection.
package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/mage/pkg/types"
)

// MemoryFS implements types.FS with in-memory storage.
type MemoryFS struct {
	mu    sync.RWMutex
	nodes map[string]*fileNode

	// errorPaths injects an error for any operation touching a path.
	errorPaths map[string]error
}

type fileNode struct {
	mode     fs.FileMode
	modTime  time.Time
	content  []byte
	linkDest string
}

// NewMemoryFS creates an empty in-memory filesystem with a root dir.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*fileNode{
			"/": {mode: 0o755 | fs.ModeDir, modTime: time.Now()},
		},
		errorPaths: make(map[string]error),
	}
}

// InjectError makes every operation on path fail with err.
func (m *MemoryFS) InjectError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[filepath.Clean(path)] = err
}

func (m *MemoryFS) get(op, path string) (*fileNode, string, error) {
	clean := filepath.Clean(path)
	if err, ok := m.errorPaths[clean]; ok {
		return nil, clean, &fs.PathError{Op: op, Path: clean, Err: err}
	}
	node, ok := m.nodes[clean]
	if !ok {
		return nil, clean, &fs.PathError{Op: op, Path: clean, Err: fs.ErrNotExist}
	}
	return node, clean, nil
}

func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, clean, err := m.get("lstat", name)
	if err != nil {
		return nil, err
	}
	return newInfo(filepath.Base(clean), node), nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statLocked(name, 0)
}

func (m *MemoryFS) statLocked(name string, depth int) (fs.FileInfo, error) {
	if depth > 16 {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	node, clean, err := m.get("stat", name)
	if err != nil {
		return nil, err
	}
	if node.mode&fs.ModeSymlink != 0 {
		return m.statLocked(node.linkDest, depth+1)
	}
	return newInfo(filepath.Base(clean), node), nil
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, clean, err := m.get("read", name)
	if err != nil {
		return nil, err
	}
	if node.mode&fs.ModeSymlink != 0 {
		return m.readFileLocked(node.linkDest)
	}
	if node.mode.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: clean, Err: fs.ErrInvalid}
	}
	return append([]byte(nil), node.content...), nil
}

func (m *MemoryFS) readFileLocked(name string) ([]byte, error) {
	node, clean, err := m.get("read", name)
	if err != nil {
		return nil, err
	}
	if node.mode.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: clean, Err: fs.ErrInvalid}
	}
	return append([]byte(nil), node.content...), nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(name)
	if err, ok := m.errorPaths[clean]; ok {
		return &fs.PathError{Op: "write", Path: clean, Err: err}
	}
	parent, ok := m.nodes[filepath.Dir(clean)]
	if !ok || !parent.mode.IsDir() {
		return &fs.PathError{Op: "write", Path: clean, Err: fs.ErrNotExist}
	}

	m.nodes[clean] = &fileNode{
		mode:    perm,
		modTime: time.Now(),
		content: append([]byte(nil), data...),
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, clean, err := m.get("readdir", name)
	if err != nil {
		return nil, err
	}
	if !node.mode.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: clean, Err: fs.ErrInvalid}
	}

	var entries []fs.DirEntry
	prefix := clean
	if prefix != "/" {
		prefix += "/"
	}
	for path, child := range m.nodes {
		if path == clean || !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, dirEntry{info: newInfo(rest, child)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if err, ok := m.errorPaths[clean]; ok {
		return &fs.PathError{Op: "mkdir", Path: clean, Err: err}
	}

	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	current := "/"
	for _, part := range parts {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		if node, ok := m.nodes[current]; ok {
			if !node.mode.IsDir() {
				return &fs.PathError{Op: "mkdir", Path: current, Err: fs.ErrExist}
			}
			continue
		}
		m.nodes[current] = &fileNode{mode: perm | fs.ModeDir, modTime: time.Now()}
	}
	return nil
}

// Symlink creates newname pointing at oldname, failing with ErrExist when
// newname is already present, matching os.Symlink.
func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(newname)
	if err, ok := m.errorPaths[clean]; ok {
		return &fs.PathError{Op: "symlink", Path: clean, Err: err}
	}
	if _, ok := m.nodes[clean]; ok {
		return &fs.PathError{Op: "symlink", Path: clean, Err: fs.ErrExist}
	}
	parent, ok := m.nodes[filepath.Dir(clean)]
	if !ok || !parent.mode.IsDir() {
		return &fs.PathError{Op: "symlink", Path: clean, Err: fs.ErrNotExist}
	}

	m.nodes[clean] = &fileNode{
		mode:     0o777 | fs.ModeSymlink,
		modTime:  time.Now(),
		linkDest: oldname,
	}
	return nil
}

func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, clean, err := m.get("readlink", name)
	if err != nil {
		return "", err
	}
	if node.mode&fs.ModeSymlink == 0 {
		return "", &fs.PathError{Op: "readlink", Path: clean, Err: fs.ErrInvalid}
	}
	return node.linkDest, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, clean, err := m.get("remove", name)
	if err != nil {
		return err
	}
	delete(m.nodes, clean)
	return nil
}

type memInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func newInfo(name string, node *fileNode) memInfo {
	return memInfo{
		name:    name,
		size:    int64(len(node.content)),
		mode:    node.mode,
		modTime: node.modTime,
	}
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return i.mode }
func (i memInfo) ModTime() time.Time { return i.modTime }
func (i memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i memInfo) Sys() interface{}   { return nil }

type dirEntry struct {
	info memInfo
}

func (d dirEntry) Name() string               { return d.info.name }
func (d dirEntry) IsDir() bool                { return d.info.IsDir() }
func (d dirEntry) Type() fs.FileMode          { return d.info.mode.Type() }
func (d dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }

// Verify interface compliance
var _ types.FS = (*MemoryFS)(nil)
