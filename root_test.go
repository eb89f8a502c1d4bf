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
	"testing"
)

var resolveRootTestCases = []struct {
	name        string
	srcs        []string
	explicit    string
	conventions []string
	root        string
	err         bool
}{
	{
		name:        "explicit",
		srcs:        []string{"src/a.rs", "src/b.rs"},
		explicit:    "src/b.rs",
		conventions: []string{"lib.rs"},
		root:        "src/b.rs",
	},
	{
		name:        "single source",
		srcs:        []string{"a.rs"},
		conventions: []string{"lib.rs"},
		root:        "a.rs",
	},
	{
		name:        "convention",
		srcs:        []string{"src/util.rs", "src/lib.rs"},
		conventions: []string{"lib.rs"},
		root:        "src/lib.rs",
	},
	{
		name:        "first convention wins",
		srcs:        []string{"src/main.rs", "src/lib.rs"},
		conventions: []string{"lib.rs", "main.rs"},
		root:        "src/lib.rs",
	},
	{
		name:        "later convention",
		srcs:        []string{"src/util.rs", "src/main.rs"},
		conventions: []string{"lib.rs", "main.rs"},
		root:        "src/main.rs",
	},
	{
		name:        "base name must match exactly",
		srcs:        []string{"mylib.rs", "b.rs"},
		conventions: []string{"lib.rs"},
		err:         true,
	},
	{
		name:        "no match",
		srcs:        []string{"a.rs", "b.rs"},
		conventions: []string{"lib.rs"},
		err:         true,
	},
}

func TestResolveRoot(t *testing.T) {
	for _, testCase := range resolveRootTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			root, err := ResolveRoot(testCase.srcs, testCase.explicit, testCase.conventions)
			if testCase.err {
				if !errors.Is(err, ErrRootNotFound) {
					t.Fatalf("expected ErrRootNotFound, got root %q, error %v", root, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if root != testCase.root {
				t.Errorf("expected root %q, got %q", testCase.root, root)
			}
		})
	}
}

func TestTargetRootNotFound(t *testing.T) {
	lib := &Target{Name: "lib", Package: "p", Kind: Library, Srcs: []string{"a.rs", "b.rs"}}
	_, err := lib.resolveRoot()
	if KindOf(err) != RootNotFound {
		t.Fatalf("expected RootNotFound, got %v", err)
	}
	if want := `//p:lib: no root source file found: no lib.rs source file found`; err.Error() != want {
		t.Errorf("expected error %q, got %q", want, err.Error())
	}

	lib.Srcs = []string{"a.rs"}
	root, err := lib.resolveRoot()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if root != "a.rs" {
		t.Errorf("expected a.rs, got %q", root)
	}
}

func TestResolveRootIdempotent(t *testing.T) {
	bin := &Target{Name: "app", Package: "p", Kind: Binary, Srcs: []string{"src/util.rs", "src/main.rs"}}
	first, err := bin.resolveRoot()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	second, err := bin.resolveRoot()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if first != second || first != "src/main.rs" {
		t.Errorf("expected src/main.rs twice, got %q and %q", first, second)
	}
}
