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

package buildfile

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/google/rustbp"
	"github.com/google/rustbp/pathtools"
)

const libBuild = `
rust_library "core" {
  srcs           = glob("src/**/*.rs")
  deps           = [":nat", "//third_party/log"]
  crate_features = ["std"]
}

cc_library "nat" {
  archives = ["libnat.a"]
}

rust_binary "app" {
  srcs = ["main.rs"]
  deps = [":core"]
  data = [":assets", "config.toml"]
}

filegroup "assets" {
  srcs = glob("assets/*")
}

rust_doc "core_doc" {
  dep = ":core"
}

rust_proto_library "msgs" {
  srcs = ["msgs.proto"]
}
`

func libFs() pathtools.FileSystem {
	return pathtools.MockFs(map[string][]byte{
		"lib/BUILD.hcl":    []byte(libBuild),
		"lib/src/lib.rs":   nil,
		"lib/src/a/mod.rs": nil,
		"lib/main.rs":      nil,
		"lib/assets/x.png": nil,
		"lib/msgs.proto":   nil,
	})
}

func TestParse(t *testing.T) {
	f, err := Parse(libFs(), "lib/BUILD.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	wantTargets := []*rustbp.Target{
		{
			Name:     "core",
			Package:  "lib",
			Kind:     rustbp.Library,
			Srcs:     []string{"lib/src/a/mod.rs", "lib/src/lib.rs"},
			Deps:     []string{"//lib:nat", "//third_party/log:log"},
			Features: []string{"std"},
		},
		{
			Name:    "app",
			Package: "lib",
			Kind:    rustbp.Binary,
			Srcs:    []string{"lib/main.rs"},
			Deps:    []string{"//lib:core"},
			Data:    []string{"//lib:assets", "lib/config.toml"},
		},
		{
			Name:    "core_doc",
			Package: "lib",
			Kind:    rustbp.Doc,
			Deps:    []string{"//lib:core"},
		},
		{
			Name:    "msgs",
			Package: "lib",
			Kind:    rustbp.CodegenLibrary,
			Srcs:    []string{"lib/msgs.proto"},
		},
	}
	ignorePos := cmpopts.IgnoreFields(rustbp.Target{}, "Pos")
	if diff := cmp.Diff(wantTargets, f.Targets, ignorePos, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	for _, target := range f.Targets {
		if !strings.HasPrefix(target.Pos, "lib/BUILD.hcl:") {
			t.Errorf("%s: unexpected position %q", target.Name, target.Pos)
		}
	}
	if !strings.HasPrefix(f.Targets[0].Pos, "lib/BUILD.hcl:2,") {
		t.Errorf("expected core to be declared on line 2, got %q", f.Targets[0].Pos)
	}

	ignoreStructPos := cmpopts.IgnoreFields(Native{}, "Pos")
	wantNatives := []*Native{{Label: "//lib:nat", Archives: []string{"lib/libnat.a"}}}
	if diff := cmp.Diff(wantNatives, f.Natives, ignoreStructPos); diff != "" {
		t.Errorf("natives mismatch (-want +got):\n%s", diff)
	}

	wantGroups := []*Filegroup{{Label: "//lib:assets", Files: []string{"lib/assets/x.png"}}}
	if diff := cmp.Diff(wantGroups, f.Filegroups, cmpopts.IgnoreFields(Filegroup{}, "Pos")); diff != "" {
		t.Errorf("filegroups mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		err  string
	}{
		{
			name: "syntax",
			src:  `rust_library "x" {`,
			err:  "failed to parse",
		},
		{
			name: "unknown block",
			src:  `go_library "x" {}`,
			err:  "Unsupported block type",
		},
		{
			name: "unknown attribute",
			src: `rust_library "x" {
  srcs  = ["a.rs"]
  bogus = 1
}`,
			err:  "Unsupported argument",
		},
		{
			name: "missing dep",
			src:  `rust_doc "d" {}`,
			err:  "Missing required argument",
		},
		{
			name: "bad label",
			src: `rust_binary "b" {
  srcs = ["main.rs"]
  deps = ["//core:"]
}`,
			err:  "empty target name",
		},
		{
			name: "glob outside package",
			src:  `rust_binary "b" { srcs = glob("../*.rs") }`,
			err:  "must stay inside",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fs := pathtools.MockFs(map[string][]byte{"p/BUILD.hcl": []byte(testCase.src)})
			_, err := Parse(fs, "p/BUILD.hcl")
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), testCase.err) {
				t.Errorf("expected error containing %q, got %q", testCase.err, err)
			}
			if !strings.Contains(err.Error(), "p/BUILD.hcl") {
				t.Errorf("expected the error to name the file, got %q", err)
			}
		})
	}
}

func TestParseRootPackage(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"BUILD.hcl": []byte(`rust_binary "tool" { srcs = ["main.rs"] }`),
	})
	f, err := Parse(fs, "BUILD.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(f.Targets) != 1 || f.Targets[0].Label() != "//:tool" || f.Targets[0].Srcs[0] != "main.rs" {
		t.Errorf("unexpected targets %+v", f.Targets)
	}
}

func TestWalk(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"b/BUILD.hcl":      []byte(`rust_library "b" { srcs = ["lib.rs"] }`),
		"a/BUILD.hcl":      []byte(`rust_library "a" { srcs = ["lib.rs"] }`),
		"a/x/BUILD.hcl":    []byte(`rust_library "x" { srcs = ["lib.rs"] }`),
		".git/BUILD.hcl":   []byte(`not hcl {`),
		"c/BUILD.hcl.orig": []byte(`not hcl {`),
	})

	files, errs := Walk(fs, ".")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var pkgs []string
	for _, f := range files {
		pkgs = append(pkgs, f.Package)
	}
	if diff := cmp.Diff([]string{"a", "a/x", "b"}, pkgs); diff != "" {
		t.Errorf("packages mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkReportsEveryFile(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"a/BUILD.hcl": []byte(`rust_library "a" {`),
		"b/BUILD.hcl": []byte(`bogus "b" {}`),
		"c/BUILD.hcl": []byte(`rust_library "c" { srcs = ["lib.rs"] }`),
	})
	_, errs := Walk(fs, ".")
	if len(errs) != 2 {
		t.Errorf("expected 2 errors, got %v", errs)
	}
}

func TestLoad(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"lib/BUILD.hcl": []byte(`
rust_library "core" {
  srcs = glob("src/*.rs")
  deps = [":nat"]
}

cc_library "nat" {
  archives = ["libnat.a"]
}
`),
		"lib/src/lib.rs":  nil,
		"lib/src/util.rs": nil,
		"app/BUILD.hcl": []byte(`
rust_binary "app" {
  srcs = ["main.rs"]
  deps = ["//lib:core"]
}
`),
		"app/main.rs": nil,
	})

	ctx := rustbp.NewContext(nil)
	if errs := Load(fs, ".", ctx); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := ctx.PrepareBuildActions(context.Background()); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	app, err := ctx.Action("//app:app")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	argv := strings.Join(app.Commands[0].Argv, " ")
	for _, want := range []string{
		"rustc app/main.rs --crate-name app --crate-type bin",
		"--extern core=out/app/app.deps/libcore.rlib",
		"-l static=nat",
	} {
		if !strings.Contains(argv, want) {
			t.Errorf("expected %q in %q", want, argv)
		}
	}
}

func TestLoadDuplicate(t *testing.T) {
	fs := pathtools.MockFs(map[string][]byte{
		"p/BUILD.hcl": []byte(`
rust_library "x" { srcs = ["lib.rs"] }
cc_library "x" { archives = ["libx.a"] }
`),
	})
	errs := Load(fs, ".", rustbp.NewContext(nil))
	if len(errs) != 1 || rustbp.KindOf(errs[0]) != rustbp.InvalidTarget {
		t.Errorf("expected one InvalidTarget error, got %v", errs)
	}
}
