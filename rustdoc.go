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
	"path/filepath"
	"strings"

	"github.com/google/rustbp/pathtools"
)

// planDoc plans an archive of the documentation of the crate t depends on.
// Sources and dependencies come from that crate's resolved providers, not
// from t.
func (p *Planner) planDoc(t *Target, deps []Dependency) (*Action, error) {
	crate, err := documentedCrate(t, deps[0])
	if err != nil {
		return nil, err
	}
	src := crateSource{
		name:      crate.CrateName,
		root:      crate.Root,
		srcs:      crate.Srcs,
		crateType: crate.CrateType,
		deps:      crate.Deps,
	}

	out := filepath.Join(p.outputDir(t), t.ArtifactName(p.config))
	docsDir := filepath.Join(p.outputDir(t), t.Name+".docs")

	a, err := p.newAction(t, src, BuildOutput, out)
	if err != nil {
		return nil, err
	}

	zip, err := p.zipCommand(docsDir, out)
	if err != nil {
		return nil, t.errorf(InvalidTarget, "", "%s", err)
	}
	a.Commands = []*Command{
		{Argv: []string{"rm", "-rf", docsDir}},
		p.rustdocCommand(t, src, docsDir, false, a.Closure),
		zip,
	}
	a.Provides = Dependency{Label: t.Label()}
	return a, nil
}

// planDocTest plans a runner script that executes the documentation tests of
// the crate t depends on.  The script runs from the packaged runfiles tree,
// so its staging plan is expressed relative to the output directory, and the
// documented crate itself is staged next to its dependencies.
func (p *Planner) planDocTest(t *Target, deps []Dependency) (*Action, error) {
	crate, err := documentedCrate(t, deps[0])
	if err != nil {
		return nil, err
	}
	src := crateSource{
		name:      crate.CrateName,
		root:      crate.Root,
		srcs:      crate.Srcs,
		crateType: crate.CrateType,
		deps:      append(append([]Dependency(nil), crate.Deps...), deps[0]),
	}

	out := filepath.Join(p.outputDir(t), t.ArtifactName(p.config))
	a, err := p.newAction(t, src, Runfiles, out)
	if err != nil {
		return nil, err
	}

	runSrc := src
	runSrc.root = pathtools.Reroot(p.config.OutputDir, src.root)
	cmd := p.rustdocCommand(t, runSrc, "", true, a.Closure)

	var script strings.Builder
	script.WriteString("#!/bin/sh\nset -e\n\n")
	script.WriteString(a.Staging.Script())
	script.WriteString("\n")
	script.WriteString(cmd.String())
	script.WriteString("\n")

	a.Writes = []FileWrite{{Path: out, Content: script.String(), Executable: true}}
	a.Runfiles = append(append([]string(nil), src.srcs...), a.Closure.Staged.Paths()...)
	a.Runfiles = append(a.Runfiles, t.Data...)
	a.Provides = Dependency{Label: t.Label()}
	return a, nil
}
