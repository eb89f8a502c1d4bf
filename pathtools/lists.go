// Copyright 2014 Google Inc. All rights reserved.
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
	"fmt"
	"path/filepath"
	"strings"
)

// PrefixPaths returns a list of paths consisting of prefix joined with each
// element of paths.  The resulting paths are "clean" in the filepath.Clean
// sense.
func PrefixPaths(paths []string, prefix string) []string {
	result := make([]string, len(paths))
	for i, path := range paths {
		result[i] = filepath.Join(prefix, path)
	}
	return result
}

// ReplaceExtension replaces the extension of the last path element with
// extension, appending it if the element has none.
func ReplaceExtension(path string, extension string) string {
	return TrimExtension(path) + "." + extension
}

// TrimExtension removes the extension, including the dot, from the last path
// element.  Dots in directory names are left alone.
func TrimExtension(path string) string {
	base := filepath.Base(path)
	dot := strings.LastIndex(base, ".")
	if dot == -1 {
		return path
	}
	return path[:len(path)-len(base)+dot]
}

// RelativeLink returns the target to store in a symlink placed in dir so that
// it resolves to dest.  Both paths must be relative to the same root, or both
// absolute.
func RelativeLink(dir, dest string) (string, error) {
	if filepath.IsAbs(dir) != filepath.IsAbs(dest) {
		return "", fmt.Errorf("cannot link %q from %q: mixed absolute and relative paths", dest, dir)
	}
	return filepath.Rel(filepath.Clean(dir), filepath.Clean(dest))
}

// Reroot expresses path relative to root when path lies under root, and
// returns it unchanged otherwise.
func Reroot(root, path string) string {
	if root == "" || root == "." {
		return filepath.Clean(path)
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.Clean(path)
	}
	return rel
}
