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

// A Toolchain names the programs and files an action runs with.  Discovering
// or installing them is the caller's business; the planner only names them.
type Toolchain struct {
	Rustc   string `yaml:"rustc"`
	Rustdoc string `yaml:"rustdoc"`

	// RustLib is the directory holding the standard library rlibs, passed as
	// "-L all=".  Empty leaves the search to rustc.
	RustLib string `yaml:"rustlib,omitempty"`

	Ar     string `yaml:"ar,omitempty"`
	Linker string `yaml:"linker,omitempty"`

	Protoc        string `yaml:"protoc"`
	ProtocGenRust string `yaml:"protoc_gen_rust,omitempty"`

	Zip string `yaml:"zip"`

	// Files are declared as inputs of every action so the engine reruns
	// actions when the toolchain changes.
	Files []string `yaml:"files,omitempty"`
}

// Config holds the state shared by every planning call.  It is passed
// explicitly rather than read from globals.
type Config struct {
	Toolchain Toolchain `yaml:"toolchain"`

	// OutputDir is the root of the build output tree, relative to the
	// directory actions execute in.
	OutputDir string `yaml:"output_dir"`

	OptLevel string `yaml:"opt_level"`
	DylibExt string `yaml:"dylib_ext"`

	// RustFlags are appended to every rustc and rustdoc invocation, before
	// the target's own flags.
	RustFlags []string `yaml:"rustflags,omitempty"`

	// Features are enabled on every crate in addition to its own.
	Features []string `yaml:"features,omitempty"`
}

// DefaultConfig returns a Config that expects the tools on $PATH and writes
// into "out".
func DefaultConfig() *Config {
	return &Config{
		Toolchain: Toolchain{
			Rustc:   "rustc",
			Rustdoc: "rustdoc",
			Protoc:  "protoc",
			Zip:     "zip",
		},
		OutputDir: "out",
		OptLevel:  "3",
		DylibExt:  ".so",
	}
}

func (c *Config) dylibExt() string {
	if c.DylibExt == "" {
		return ".so"
	}
	return c.DylibExt
}

func (c *Config) optLevel() string {
	if c.OptLevel == "" {
		return "3"
	}
	return c.OptLevel
}

func (c *Config) tool(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
