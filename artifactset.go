// Copyright 2026 Google Inc. All rights reserved.
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

package rustbp

import "path/filepath"

// An ArtifactSet is a set of artifact paths.  Membership ignores order;
// Paths iterates in first-insertion order so anything emitted from the set is
// deterministic.  The zero value is an empty set.
type ArtifactSet struct {
	paths []string
	index map[string]bool
}

// Add inserts each path not already present.
func (s *ArtifactSet) Add(paths ...string) {
	if s.index == nil {
		s.index = make(map[string]bool)
	}
	for _, p := range paths {
		p = filepath.Clean(p)
		if !s.index[p] {
			s.index[p] = true
			s.paths = append(s.paths, p)
		}
	}
}

// Contains reports whether path is in the set.
func (s *ArtifactSet) Contains(path string) bool {
	return s.index[filepath.Clean(path)]
}

// Len returns the number of paths in the set.
func (s *ArtifactSet) Len() int {
	return len(s.paths)
}

// Paths returns the paths in insertion order.  The slice must not be
// modified.
func (s *ArtifactSet) Paths() []string {
	return s.paths
}
