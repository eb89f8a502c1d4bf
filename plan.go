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

	"github.com/google/rustbp/pathtools"
)

// A FileWrite is a file an action creates with fixed contents.
type FileWrite struct {
	Path       string `yaml:"path"`
	Content    string `yaml:"content"`
	Executable bool   `yaml:"executable,omitempty"`
}

// An Action is everything the engine needs to build one target: the staging
// plan to run first, the files to write, the commands to run in order, and
// the declared inputs and outputs used for scheduling and caching.
type Action struct {
	Label string      `yaml:"label"`
	Kind  Kind        `yaml:"kind"`
	Exec  ExecContext `yaml:"exec"`

	Staging  *StagingPlan `yaml:"staging"`
	Writes   []FileWrite  `yaml:"writes,omitempty"`
	Commands []*Command   `yaml:"commands,omitempty"`

	Inputs   []string `yaml:"inputs"`
	Outputs  []string `yaml:"outputs"`
	Runfiles []string `yaml:"runfiles,omitempty"`

	// RunArgs are passed to the output when the engine runs it.
	RunArgs []string `yaml:"run_args,omitempty"`

	// Closure is the dependency closure the commands were built from.
	Closure *Closure `yaml:"-"`

	// Provides is what targets depending on this one see.
	Provides Dependency `yaml:"-"`
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// A Planner turns target descriptors into actions.  It holds no state beyond
// its configuration, so one Planner may plan any number of targets
// concurrently.
type Planner struct {
	config *Config
}

// NewPlanner returns a Planner using config.  A nil config means
// DefaultConfig.
func NewPlanner(config *Config) *Planner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Planner{config: config}
}

// Config returns the configuration the planner was created with.
func (p *Planner) Config() *Config {
	return p.config
}

// Plan builds the action for t.  deps holds the resolved dependencies of t,
// in the order of t.Deps; each must already have been planned.  Either a
// complete action or an error is returned, never both.
func (p *Planner) Plan(t *Target, deps []Dependency) (*Action, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(deps) != len(t.Deps) {
		return nil, t.errorf(InvalidTarget, "", "got %d resolved dependencies for %d declared",
			len(deps), len(t.Deps))
	}

	switch t.Kind {
	case Library, Binary, Test, BenchTest:
		return p.planCrate(t, deps)
	case CodegenLibrary:
		return p.planCodegen(t, deps)
	case Doc:
		return p.planDoc(t, deps)
	case DocTest:
		return p.planDocTest(t, deps)
	}
	return nil, t.errorf(InvalidTarget, "", "unknown kind %s", t.Kind)
}

func (p *Planner) outputDir(t *Target) string {
	return filepath.Join(p.config.OutputDir, t.Package)
}

func (p *Planner) stagingDir(t *Target) string {
	return filepath.Join(p.outputDir(t), t.Name+".deps")
}

// planCrate plans libraries, binaries and tests.
func (p *Planner) planCrate(t *Target, deps []Dependency) (*Action, error) {
	var src crateSource
	if t.Kind.IsTest() && len(t.Srcs) == 0 {
		crate, err := documentedCrate(t, deps[0])
		if err != nil {
			return nil, err
		}
		src = crateSource{
			name:      t.CrateName(),
			root:      crate.Root,
			srcs:      crate.Srcs,
			crateType: crate.CrateType,
			deps:      crate.Deps,
		}
	} else {
		root, err := t.resolveRoot()
		if err != nil {
			return nil, err
		}
		src = crateSource{
			name:      t.CrateName(),
			root:      root,
			srcs:      t.Srcs,
			crateType: t.crateType(),
			deps:      deps,
		}
	}

	out := filepath.Join(p.outputDir(t), t.ArtifactName(p.config))
	a, err := p.newAction(t, src, BuildOutput, out)
	if err != nil {
		return nil, err
	}

	a.Commands = []*Command{p.rustcCommand(t, src, out, a.Closure)}
	if t.Kind != Library {
		a.Runfiles = append(append([]string(nil), t.Data...), out)
	}
	if t.Kind == BenchTest {
		a.RunArgs = []string{"--bench"}
	}
	a.Provides = p.provides(t, src, out, a.Closure)
	return a, nil
}

// newAction computes the closure and staging plan of src and fills in the
// declared inputs and outputs.
func (p *Planner) newAction(t *Target, src crateSource, ctx ExecContext, out string) (*Action, error) {
	stagingDir := p.stagingDir(t)
	linkDir := stagingDir
	if ctx == Runfiles {
		linkDir = pathtools.Reroot(p.config.OutputDir, stagingDir)
	}

	closure, err := BuildClosure(t.Label(), linkDir, src.deps, t.Kind.AllowsNative())
	if err != nil {
		return nil, withPos(err, t.Pos)
	}

	staging, err := Stage(stagingDir, &closure.Staged, ctx, p.config.OutputDir)
	if err != nil {
		return nil, t.errorf(InvalidTarget, "", "staging: %s", err)
	}

	var inputs ArtifactSet
	inputs.Add(src.srcs...)
	inputs.Add(closure.Staged.Paths()...)
	inputs.Add(p.config.Toolchain.Files...)

	return &Action{
		Label:   t.Label(),
		Kind:    t.Kind,
		Exec:    ctx,
		Staging: staging,
		Inputs:  inputs.Paths(),
		Outputs: []string{out},
		Closure: closure,
	}, nil
}

// provides returns what dependents of t see.  Only library-like targets can
// be depended on; a staticlib is offered as a native archive.
func (p *Planner) provides(t *Target, src crateSource, out string, closure *Closure) Dependency {
	dep := Dependency{Label: t.Label()}
	if t.Kind != Library && t.Kind != CodegenLibrary {
		return dep
	}

	if src.crateType == CrateStaticlib {
		dep.Native = &NativeInfo{Name: src.name, Archives: []string{out}}
		return dep
	}

	dep.Crate = &CrateInfo{
		CrateName:  src.name,
		CrateType:  src.crateType,
		Artifact:   out,
		Transitive: append([]string(nil), closure.Transitive.Paths()...),
		Natives:    append([]NativeInfo(nil), closure.Natives...),
		Root:       src.root,
		Srcs:       append([]string(nil), src.srcs...),
		Deps:       src.deps,
	}
	return dep
}

// documentedCrate returns the crate a doc target, or a test without sources,
// takes its sources from.
func documentedCrate(t *Target, dep Dependency) (*CrateInfo, error) {
	if dep.Crate == nil || dep.Crate.Artifact == "" {
		return nil, &PlanError{
			Kind:   InvalidDependencyKind,
			Pos:    t.Pos,
			Target: t.Label(),
			Dep:    dep.Label,
			Err:    fmt.Errorf("%s must take its sources from a crate", t.Kind),
		}
	}
	return dep.Crate, nil
}

func withPos(err error, pos string) error {
	if planErr, ok := err.(*PlanError); ok && planErr.Pos == "" {
		planErr.Pos = pos
	}
	return err
}
