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
)

// A Binding maps the name a crate is imported under to the staged path of
// its artifact.
type Binding struct {
	Name string
	Path string
}

// A Closure is what a target needs from its dependencies: which artifacts
// exist, which must be staged, and the compiler flags that locate them.
type Closure struct {
	// Immediate holds the artifacts of the directly declared crates.
	Immediate ArtifactSet
	// Transitive holds Immediate plus everything reachable through the
	// dependencies' own closures, native archives included.
	Transitive ArtifactSet
	// Staged holds every artifact that must appear in the staging
	// directory.
	Staged ArtifactSet

	// Natives are the native libraries reached, directly or through a
	// crate, in first-seen order.
	Natives []NativeInfo

	Bindings    []Binding
	SearchFlags []string
	ExternFlags []string
	LinkFlags   []string
}

// Flags returns search, binding and link flags in the order they are passed
// to the compiler.
func (c *Closure) Flags() []string {
	flags := make([]string, 0, len(c.SearchFlags)+len(c.ExternFlags)+len(c.LinkFlags))
	flags = append(flags, c.SearchFlags...)
	flags = append(flags, c.ExternFlags...)
	flags = append(flags, c.LinkFlags...)
	return flags
}

// BuildClosure computes the closure of target from its declared dependencies.
// Each dependency already carries its own closure, so only one level is
// walked.  Dependencies are visited in declaration order, which fixes the
// order of the emitted flags.
func BuildClosure(target, stagingDir string, deps []Dependency, allowNative bool) (*Closure, error) {
	c := &Closure{}
	nativeSeen := make(map[string]bool)
	addNative := func(n NativeInfo) {
		if !nativeSeen[n.Name] {
			nativeSeen[n.Name] = true
			c.Natives = append(c.Natives, n)
		}
	}

	hasCrate := false
	for _, dep := range deps {
		classified, err := Classify(target, dep, allowNative)
		if err != nil {
			return nil, err
		}

		switch classified.Kind {
		case DepCrate:
			crate := classified.Crate
			if !allowNative && len(crate.Natives) > 0 {
				return nil, &PlanError{
					Kind:   NativeInteropDisallowed,
					Target: target,
					Dep:    dep.Label,
					Err: fmt.Errorf("links native library %q, and native libraries are only allowed on %s",
						crate.Natives[0].Name, nativeKindsList()),
				}
			}
			c.Immediate.Add(crate.Artifact)
			c.Transitive.Add(crate.Artifact)
			c.Transitive.Add(crate.Transitive...)
			c.Staged.Add(crate.Artifact)
			c.Staged.Add(crate.Transitive...)
			for _, n := range crate.Natives {
				addNative(n)
			}

			name := crate.CrateName
			if name == "" {
				name = LibName(crate.Artifact)
			}
			staged := filepath.Join(stagingDir, filepath.Base(crate.Artifact))
			c.Bindings = append(c.Bindings, Binding{Name: name, Path: staged})
			c.ExternFlags = append(c.ExternFlags, "--extern", name+"="+staged)
			hasCrate = true

		case DepNative:
			native := classified.Native
			c.Transitive.Add(native.Archives...)
			c.Staged.Add(native.Archives...)
			addNative(*native)
		}
	}

	if err := checkStagingNames(target, &c.Staged); err != nil {
		return nil, err
	}

	for _, n := range c.Natives {
		c.LinkFlags = append(c.LinkFlags, "-l", "static="+n.Name)
	}

	if hasCrate {
		c.SearchFlags = append(c.SearchFlags, "-L", "dependency="+stagingDir)
	}
	if len(c.Natives) > 0 {
		c.SearchFlags = append(c.SearchFlags, "-L", "native="+stagingDir)
	}

	return c, nil
}

// checkStagingNames rejects two distinct artifacts that would be staged under
// the same base name.
func checkStagingNames(target string, staged *ArtifactSet) error {
	byBase := make(map[string]string, staged.Len())
	for _, p := range staged.Paths() {
		base := filepath.Base(p)
		if other, exists := byBase[base]; exists {
			return &PlanError{
				Kind:   StagingNameCollision,
				Target: target,
				Err:    fmt.Errorf("%q and %q would both be staged as %q", other, p, base),
			}
		}
		byBase[base] = p
	}
	return nil
}
