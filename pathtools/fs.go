// Copyright 2016 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathtools

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// OsFs reads from the local disk.
var OsFs FileSystem = osFs{}

// MockFs returns a read-only FileSystem holding files.  Parent directories
// of every file exist implicitly.
func MockFs(files map[string][]byte) FileSystem {
	fs := &mockFs{
		files: make(map[string][]byte, len(files)),
		dirs:  make(map[string]bool),
	}

	for f, b := range files {
		fs.files[filepath.Clean(f)] = b
		dir := filepath.Dir(f)
		for dir != "." && dir != "/" {
			fs.dirs[dir] = true
			dir = filepath.Dir(dir)
		}
		fs.dirs[dir] = true
	}

	for f := range fs.files {
		fs.all = append(fs.all, f)
	}
	sort.Strings(fs.all)

	return fs
}

// FileSystem is the view of the source tree used while loading build files.
type FileSystem interface {
	Open(name string) (io.ReadCloser, error)
	// Exists reports whether name exists and whether it is a directory.
	Exists(name string) (bool, bool, error)
	// Files lists every regular file under dir, recursively, in lexical
	// order.  Directories starting with "." are skipped.
	Files(dir string) ([]string, error)
}

// ReadFile returns the contents of name in fs.
func ReadFile(fs FileSystem, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type osFs struct{}

func (osFs) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

func (osFs) Exists(name string) (bool, bool, error) {
	stat, err := os.Stat(name)
	if err == nil {
		return true, stat.IsDir(), nil
	} else if os.IsNotExist(err) {
		return false, false, nil
	} else {
		return false, false, err
	}
}

func (osFs) Files(dir string) (files []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != dir && name[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

type mockFs struct {
	files map[string][]byte
	dirs  map[string]bool
	all   []string
}

func (m *mockFs) Open(name string) (io.ReadCloser, error) {
	if f, ok := m.files[filepath.Clean(name)]; ok {
		return io.NopCloser(bytes.NewReader(f)), nil
	}

	return nil, &os.PathError{
		Op:   "open",
		Path: name,
		Err:  os.ErrNotExist,
	}
}

func (m *mockFs) Exists(name string) (bool, bool, error) {
	name = filepath.Clean(name)
	if _, ok := m.files[name]; ok {
		return true, false, nil
	}
	if _, ok := m.dirs[name]; ok {
		return true, true, nil
	}
	return false, false, nil
}

func (m *mockFs) Files(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	prefix := dir + "/"
	if dir == "." {
		prefix = ""
	}
	if !m.dirs[dir] {
		return nil, &os.PathError{Op: "lstat", Path: dir, Err: os.ErrNotExist}
	}

	var files []string
	for _, f := range m.all {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		if hiddenBelow(strings.TrimPrefix(f, prefix)) {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// hiddenBelow reports whether any directory in rel starts with ".".
func hiddenBelow(rel string) bool {
	parts := strings.Split(filepath.Dir(rel), "/")
	for _, p := range parts {
		if p != "." && strings.HasPrefix(p, ".") {
			return true
		}
	}
	return false
}
