// Copyright 2020 Google Inc. All rights reserved.
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
	"path/filepath"
	"strings"
)

// This file implements providers, modelled after Bazel
// (https://bazel.build/extending/rules#providers).  A planned target exposes
// a set of providers describing what it produced; a dependent target only
// ever sees a dependency through them.  The providers a dependency exposes
// decide how it is classified: CrateInfo makes it a crate edge, NativeInfo a
// native edge.
//
// Provider values are shared between every consumer of a target and must be
// treated as immutable by callers.

// CrateInfo is provided by every target that emits a linkable crate.
type CrateInfo struct {
	CrateName string
	CrateType CrateType

	// Artifact is the path of the crate file, relative to the directory
	// actions execute in.
	Artifact string

	// Transitive holds every artifact the crate's own closure reached,
	// crates and native archives alike.  It excludes Artifact.
	Transitive []string

	// Natives are the native libraries reached by the crate's closure.
	Natives []NativeInfo

	// Root, Srcs and Deps are the crate's resolved sources and dependencies,
	// for consumers that compile or document the same sources.
	Root string
	Srcs []string
	Deps []Dependency
}

// NativeInfo is provided by targets that produce prebuilt native archives.
type NativeInfo struct {
	Name     string
	Archives []string
}

// A Dependency is a resolved reference to another target, as seen by the
// target depending on it.  At most one of Crate and Native is expected to be
// set; a Dependency with neither is not something a crate can depend on.
type Dependency struct {
	Label  string
	Crate  *CrateInfo
	Native *NativeInfo
}

// CrateDependency returns the Dependency for a crate that has no dependencies
// of its own.
func CrateDependency(label, artifact string) Dependency {
	return Dependency{
		Label: label,
		Crate: &CrateInfo{
			CrateName: LibName(artifact),
			CrateType: CrateRlib,
			Artifact:  artifact,
		},
	}
}

// NativeDependency returns the Dependency for a prebuilt native library.
func NativeDependency(label string, archives ...string) Dependency {
	return Dependency{
		Label: label,
		Native: &NativeInfo{
			Name:     labelName(label),
			Archives: archives,
		},
	}
}

// LibName derives a crate name from an artifact file name by removing the
// "lib" prefix and the extension: "out/libcore.rlib" is "core".
func LibName(artifact string) string {
	base := filepath.Base(artifact)
	if dot := strings.Index(base, "."); dot != -1 {
		base = base[:dot]
	}
	return strings.TrimPrefix(base, "lib")
}

// labelName returns the name part of a "//pkg:name" label.
func labelName(label string) string {
	if i := strings.LastIndex(label, ":"); i != -1 {
		return label[i+1:]
	}
	return filepath.Base(label)
}
