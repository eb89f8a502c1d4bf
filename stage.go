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

	"github.com/google/rustbp/escape"
	"github.com/google/rustbp/pathtools"
)

// An ExecContext says where the staging commands will run from.
type ExecContext int

const (
	// BuildOutput actions run from the execution root; paths are used as
	// given.
	BuildOutput ExecContext = iota
	// Runfiles actions run from a packaged copy of the output tree; paths
	// under the output directory are re-rooted at it.
	Runfiles
)

func (c ExecContext) String() string {
	if c == Runfiles {
		return "runfiles"
	}
	return "build"
}

func (c ExecContext) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// An OpKind is the kind of a filesystem staging operation.
type OpKind int

const (
	// OpResetDir deletes Path if it exists and creates it empty.
	OpResetDir OpKind = iota
	// OpSymlink creates a symlink at Path pointing to Target.
	OpSymlink
)

func (k OpKind) String() string {
	if k == OpSymlink {
		return "symlink"
	}
	return "reset"
}

func (k OpKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// A StagingOp is one filesystem operation of a staging plan.
type StagingOp struct {
	Kind   OpKind `yaml:"op"`
	Path   string `yaml:"path"`
	Target string `yaml:"target,omitempty"`
}

// A StagingPlan lays out the per-target directory the compiler searches for
// dependencies.  It is only a plan: the engine runs it before the action.
type StagingPlan struct {
	Dir string      `yaml:"dir"`
	Ops []StagingOp `yaml:"ops"`
}

// Stage plans the staging directory dir holding one symlink per artifact in
// staged, named after the artifact's base name.  Link targets are relative
// to dir so the tree can be moved as a whole.
func Stage(dir string, staged *ArtifactSet, ctx ExecContext, outputDir string) (*StagingPlan, error) {
	place := func(p string) string {
		if ctx == Runfiles {
			return pathtools.Reroot(outputDir, p)
		}
		return filepath.Clean(p)
	}

	stageDir := place(dir)
	plan := &StagingPlan{
		Dir: stageDir,
		Ops: []StagingOp{{Kind: OpResetDir, Path: stageDir}},
	}

	for _, artifact := range staged.Paths() {
		link, err := pathtools.RelativeLink(stageDir, place(artifact))
		if err != nil {
			return nil, err
		}
		plan.Ops = append(plan.Ops, StagingOp{
			Kind:   OpSymlink,
			Path:   filepath.Join(stageDir, filepath.Base(artifact)),
			Target: link,
		})
	}

	return plan, nil
}

// Links returns the symlink operations of the plan.
func (p *StagingPlan) Links() []StagingOp {
	var links []StagingOp
	for _, op := range p.Ops {
		if op.Kind == OpSymlink {
			links = append(links, op)
		}
	}
	return links
}

// Script renders the plan as /bin/sh commands, one per line.
func (p *StagingPlan) Script() string {
	var b strings.Builder
	for _, op := range p.Ops {
		switch op.Kind {
		case OpResetDir:
			fmt.Fprintf(&b, "rm -rf %s && mkdir -p %s\n", escape.Arg(op.Path), escape.Arg(op.Path))
		case OpSymlink:
			fmt.Fprintf(&b, "ln -sf %s %s\n", escape.Arg(op.Target), escape.Arg(op.Path))
		}
	}
	return b.String()
}
