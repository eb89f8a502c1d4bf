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

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrRootNotFound is wrapped by the error ResolveRoot returns when no source
// matches the naming conventions.
var ErrRootNotFound = errors.New("no root source file found")

// ResolveRoot picks the compilation entry point of a crate.  An explicit root
// is returned unchanged.  Otherwise a single source is its own root, and
// among several sources the first convention, in order, matching a base name
// wins.
func ResolveRoot(srcs []string, explicit string, conventions []string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if len(srcs) == 1 {
		return srcs[0], nil
	}

	for _, name := range conventions {
		for _, src := range srcs {
			if filepath.Base(src) == name {
				return src, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no %s source file found", ErrRootNotFound, strings.Join(conventions, " or "))
}

// resolveRoot resolves the root of t using the conventions of its kind.
func (t *Target) resolveRoot() (string, error) {
	root, err := ResolveRoot(t.Srcs, t.CrateRoot, t.Kind.rootConventions())
	if err != nil {
		return "", &PlanError{Kind: RootNotFound, Pos: t.Pos, Target: t.Label(), Err: err}
	}
	return root, nil
}
