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
	"fmt"
	"path/filepath"
	"strings"
)

// A Kind identifies the rule a Target was declared with.
type Kind int

const (
	Library Kind = iota
	Binary
	Test
	BenchTest
	Doc
	DocTest
	CodegenLibrary
)

var kindNames = [...]string{
	Library:        "rust_library",
	Binary:         "rust_binary",
	Test:           "rust_test",
	BenchTest:      "rust_bench_test",
	Doc:            "rust_doc",
	DocTest:        "rust_doc_test",
	CodegenLibrary: "rust_proto_library",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindFromRule returns the Kind declared by a rule name such as
// "rust_library".
func KindFromRule(rule string) (Kind, bool) {
	for k, name := range kindNames {
		if name == rule {
			return Kind(k), true
		}
	}
	return 0, false
}

// AllowsNative reports whether targets of this kind may depend on native
// archives.
func (k Kind) AllowsNative() bool {
	switch k {
	case Library, Binary, Test, BenchTest:
		return true
	default:
		return false
	}
}

// IsTest reports whether the kind compiles with the test harness enabled.
func (k Kind) IsTest() bool {
	return k == Test || k == BenchTest
}

// rootConventions lists the source base names tried, in order, when a target
// does not name its crate root.
func (k Kind) rootConventions() []string {
	switch k {
	case Binary:
		return []string{"main.rs"}
	case Test, BenchTest:
		return []string{"lib.rs", "main.rs"}
	default:
		return []string{"lib.rs"}
	}
}

// A CrateType is the kind of artifact a library emits.
type CrateType string

const (
	CrateLib       CrateType = "lib"
	CrateRlib      CrateType = "rlib"
	CrateDylib     CrateType = "dylib"
	CrateStaticlib CrateType = "staticlib"
	CrateBin       CrateType = "bin"
)

// LibraryCrateTypes is the set of crate types a library may declare.
var LibraryCrateTypes = []CrateType{CrateLib, CrateRlib, CrateDylib, CrateStaticlib}

func validLibraryCrateType(t CrateType) bool {
	for _, allowed := range LibraryCrateTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// A Target is the normalized description of one compilation unit.  Paths in
// Srcs, CrateRoot and Data are relative to the workspace root.
type Target struct {
	Name    string
	Package string
	Pos     string // where the target was declared, for error messages
	Kind    Kind

	CrateRoot string
	CrateType CrateType
	Srcs      []string

	// Deps holds the labels of the declared dependencies, in declaration
	// order.  Doc and doc-test targets hold exactly one: the documented crate.
	Deps []string

	Features   []string
	RustcFlags []string
	Data       []string
}

// Label returns the workspace-unique name of the target.
func (t *Target) Label() string {
	return "//" + t.Package + ":" + t.Name
}

func (t *Target) String() string {
	return t.Label()
}

// CrateName returns the name rustc knows the crate by.
func (t *Target) CrateName() string {
	return CrateNameFor(t.Name)
}

// CrateNameFor converts a target name into a valid crate identifier.
func CrateNameFor(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// crateType returns the effective crate type for library-like kinds.
func (t *Target) crateType() CrateType {
	switch t.Kind {
	case Library:
		if t.CrateType == "" {
			return CrateLib
		}
		return t.CrateType
	case CodegenLibrary:
		return CrateRlib
	default:
		return CrateBin
	}
}

// ArtifactName returns the base name of the file the target produces.
func (t *Target) ArtifactName(cfg *Config) string {
	crate := t.CrateName()
	switch t.Kind {
	case Library, CodegenLibrary:
		switch t.crateType() {
		case CrateDylib:
			return "lib" + crate + cfg.dylibExt()
		case CrateStaticlib:
			return "lib" + crate + ".a"
		default:
			return "lib" + crate + ".rlib"
		}
	case Doc:
		return t.Name + "-docs.zip"
	default:
		return t.Name
	}
}

// Validate checks the structural invariants of the descriptor that do not
// depend on its dependencies.
func (t *Target) Validate() error {
	if t.Name == "" {
		return t.errorf(InvalidTarget, "", "name is required")
	}
	if strings.ContainsAny(t.Name, "/: ") {
		return t.errorf(InvalidTarget, "", "invalid name %q", t.Name)
	}

	if t.CrateType != "" {
		if t.Kind != Library {
			return t.errorf(InvalidTarget, "", "crate_type is only valid on %s", Library)
		}
		if !validLibraryCrateType(t.CrateType) {
			return t.errorf(InvalidArtifactKind, "", "invalid crate_type %q, expected one of %s",
				t.CrateType, joinCrateTypes(LibraryCrateTypes))
		}
	}

	switch t.Kind {
	case Library, Binary:
		if len(t.Srcs) == 0 {
			return t.errorf(InvalidTarget, "", "srcs must not be empty")
		}
	case Test, BenchTest:
		if len(t.Srcs) == 0 && len(t.Deps) != 1 {
			return t.errorf(InvalidTarget, "",
				"a test without srcs must have exactly one dependency to take its sources from")
		}
	case Doc, DocTest:
		if len(t.Srcs) != 0 {
			return t.errorf(InvalidTarget, "", "srcs are read from the documented crate and must not be set")
		}
		if len(t.Deps) != 1 {
			return t.errorf(InvalidTarget, "", "exactly one documented crate is required, got %d", len(t.Deps))
		}
	case CodegenLibrary:
		if len(t.Srcs) != 1 {
			return t.errorf(CodegenInputCountViolation, "", "exactly one input file is required, got %d", len(t.Srcs))
		}
		if t.CrateRoot != "" {
			return t.errorf(InvalidTarget, "", "crate_root is generated and must not be set")
		}
	default:
		return t.errorf(InvalidTarget, "", "unknown kind %s", t.Kind)
	}

	if t.CrateRoot != "" && !containsPath(t.Srcs, t.CrateRoot) {
		return t.errorf(InvalidTarget, "", "crate_root %q is not listed in srcs", t.CrateRoot)
	}

	return nil
}

func (t *Target) errorf(kind ErrorKind, dep string, format string, args ...interface{}) *PlanError {
	return &PlanError{
		Kind:   kind,
		Pos:    t.Pos,
		Target: t.Label(),
		Dep:    dep,
		Err:    fmt.Errorf(format, args...),
	}
}

func containsPath(paths []string, path string) bool {
	path = filepath.Clean(path)
	for _, p := range paths {
		if filepath.Clean(p) == path {
			return true
		}
	}
	return false
}

func joinCrateTypes(types []CrateType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
