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

	"github.com/google/rustbp/escape"
)

// A Command is one program invocation of an action.  Dir, when set, is the
// directory to run in, relative to the execution root.
type Command struct {
	Dir  string   `yaml:"dir,omitempty"`
	Argv []string `yaml:"argv"`
}

// String renders the command as a single /bin/sh command line.
func (c *Command) String() string {
	if c.Dir != "" {
		return "cd " + escape.Arg(c.Dir) + " && " + escape.Join(c.Argv)
	}
	return escape.Join(c.Argv)
}

// A crateSource is the crate a compile or doc command works on.  It is the
// target's own declaration except when a test or doc target borrows the
// sources of the crate it depends on.
type crateSource struct {
	name      string
	root      string
	srcs      []string
	crateType CrateType
	deps      []Dependency
}

// rustcCommand synthesizes the rustc invocation that compiles src into out.
func (p *Planner) rustcCommand(t *Target, src crateSource, out string, closure *Closure) *Command {
	tc := p.config.Toolchain
	argv := []string{
		p.config.tool(tc.Rustc, "rustc"),
		src.root,
		"--crate-name", src.name,
		"--crate-type", string(src.crateType),
	}
	if t.Kind.IsTest() {
		argv = append(argv, "--test")
	}

	argv = append(argv, "-C", "opt-level="+p.config.optLevel())
	if tc.Ar != "" {
		argv = append(argv, "--codegen", "ar="+tc.Ar)
	}
	if tc.Linker != "" {
		argv = append(argv, "--codegen", "linker="+tc.Linker)
	}
	if tc.RustLib != "" {
		argv = append(argv, "-L", "all="+tc.RustLib)
	}
	argv = append(argv, "--emit=dep-info,link", "-o", out)

	argv = append(argv, closure.Flags()...)
	argv = append(argv, p.featureFlags(t)...)
	argv = append(argv, p.config.RustFlags...)
	argv = append(argv, t.RustcFlags...)

	return &Command{Argv: argv}
}

// rustdocCommand synthesizes a rustdoc invocation.  With test set it runs the
// documentation tests instead of writing docs to outDir.
func (p *Planner) rustdocCommand(t *Target, src crateSource, outDir string, test bool, closure *Closure) *Command {
	tc := p.config.Toolchain
	argv := []string{p.config.tool(tc.Rustdoc, "rustdoc")}
	if test {
		argv = append(argv, "--test")
	}
	argv = append(argv, src.root, "--crate-name", src.name)
	if tc.RustLib != "" {
		argv = append(argv, "-L", "all="+tc.RustLib)
	}
	if !test {
		argv = append(argv, "-o", outDir)
	}

	argv = append(argv, closure.Flags()...)
	argv = append(argv, p.featureFlags(t)...)
	argv = append(argv, p.config.RustFlags...)
	argv = append(argv, t.RustcFlags...)

	return &Command{Argv: argv}
}

// zipCommand archives the contents of dir into out.
func (p *Planner) zipCommand(dir, out string) (*Command, error) {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(out))
	if err != nil {
		return nil, err
	}
	return &Command{
		Dir:  dir,
		Argv: []string{p.config.tool(p.config.Toolchain.Zip, "zip"), "-qr", rel, "."},
	}, nil
}

// featureFlags enables the configured and declared features, each once.
func (p *Planner) featureFlags(t *Target) []string {
	var flags []string
	seen := make(map[string]bool)
	for _, list := range [][]string{p.config.Features, t.Features} {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				flags = append(flags, "--cfg", `feature="`+f+`"`)
			}
		}
	}
	return flags
}
