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
	"sort"
	"strings"
)

// Match reports whether name matches pattern.  Patterns use filepath.Match
// syntax within a path element, and a "**" element matches any number of
// elements, including none.
func Match(pattern, name string) (bool, error) {
	return matchElems(splitElems(pattern), splitElems(name))
}

func matchElems(pattern, name []string) (bool, error) {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(name); i++ {
				if ok, err := matchElems(pattern[1:], name[i:]); ok || err != nil {
					return ok, err
				}
			}
			return false, nil
		}
		if len(name) == 0 {
			return false, nil
		}
		if strings.Contains(pattern[0], "**") {
			return false, fmt.Errorf("%q: ** must be a whole path element", pattern[0])
		}
		ok, err := filepath.Match(pattern[0], name[0])
		if !ok || err != nil {
			return false, err
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0, nil
}

func splitElems(path string) []string {
	path = filepath.Clean(path)
	if path == "." {
		return nil
	}
	return strings.Split(path, "/")
}

func isWild(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// GlobPatternList expands patterns, relative to dir, against the files in fs.
// A pattern without wildcards names a file directly and is kept whether or
// not it exists.  Results are joined with dir, sorted and unique.
func GlobPatternList(fs FileSystem, dir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	var files []string
	listed := false

	for _, pattern := range patterns {
		if filepath.IsAbs(pattern) || strings.HasPrefix(filepath.Clean(pattern), "..") {
			return nil, fmt.Errorf("glob pattern %q must stay inside %q", pattern, dir)
		}
		if !isWild(pattern) {
			add(filepath.Join(dir, pattern))
			continue
		}

		if !listed {
			var err error
			files, err = fs.Files(dir)
			if err != nil {
				return nil, err
			}
			listed = true
		}

		for _, f := range files {
			rel, err := filepath.Rel(filepath.Clean(dir), f)
			if err != nil {
				return nil, err
			}
			ok, err := Match(pattern, rel)
			if err != nil {
				return nil, err
			}
			if ok {
				add(f)
			}
		}
	}

	sort.Strings(result)
	return result, nil
}
