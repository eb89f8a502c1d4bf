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

	"github.com/google/rustbp/pathtools"
)

// moduleName turns a generator input file name into the name of the Rust
// module generated from it: "protos/my-msgs.proto" is "my_msgs".
func moduleName(input string) string {
	stem := filepath.Base(pathtools.TrimExtension(input))
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, stem)
}

// planCodegen plans a library compiled from code generated out of a single
// input file.  The generator writes <gen>/<module>.rs and the action writes a
// root <gen>/lib.rs declaring that module.
func (p *Planner) planCodegen(t *Target, deps []Dependency) (*Action, error) {
	if len(t.Srcs) != 1 {
		return nil, t.errorf(CodegenInputCountViolation, "", "exactly one input file is required, got %d", len(t.Srcs))
	}
	input := t.Srcs[0]
	mod := moduleName(input)

	genDir := filepath.Join(p.outputDir(t), t.Name+".gen")
	root := filepath.Join(genDir, "lib.rs")
	modFile := pathtools.ReplaceExtension(filepath.Join(genDir, mod), "rs")

	src := crateSource{
		name:      t.CrateName(),
		root:      root,
		srcs:      []string{root, modFile},
		crateType: t.crateType(),
		deps:      deps,
	}

	out := filepath.Join(p.outputDir(t), t.ArtifactName(p.config))
	a, err := p.newAction(t, src, BuildOutput, out)
	if err != nil {
		return nil, err
	}

	// The generated files are produced by the action itself.
	var inputs ArtifactSet
	inputs.Add(input)
	for _, in := range a.Inputs {
		if in != root && in != modFile {
			inputs.Add(in)
		}
	}
	if tool := p.config.Toolchain.ProtocGenRust; tool != "" {
		inputs.Add(tool)
	}
	a.Inputs = inputs.Paths()

	a.Writes = []FileWrite{{
		Path:    root,
		Content: fmt.Sprintf("pub mod %s;\n", mod),
	}}
	a.Commands = []*Command{
		p.generatorCommand(input, genDir),
		p.rustcCommand(t, src, out, a.Closure),
	}
	a.Provides = p.provides(t, src, out, a.Closure)
	return a, nil
}

func (p *Planner) generatorCommand(input, genDir string) *Command {
	tc := p.config.Toolchain
	argv := []string{p.config.tool(tc.Protoc, "protoc")}
	if tc.ProtocGenRust != "" {
		argv = append(argv, "--plugin=protoc-gen-rust="+tc.ProtocGenRust)
	}
	argv = append(argv,
		"--rust_out="+genDir,
		"-I"+filepath.Dir(input),
		input)
	return &Command{Argv: argv}
}
