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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStageBuildOutput(t *testing.T) {
	var staged ArtifactSet
	staged.Add("out/core/libcore.rlib", "nat/libnat.a")

	plan, err := Stage(appStaging, &staged, BuildOutput, "out")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := &StagingPlan{
		Dir: appStaging,
		Ops: []StagingOp{
			{Kind: OpResetDir, Path: appStaging},
			{Kind: OpSymlink, Path: appStaging + "/libcore.rlib", Target: "../../core/libcore.rlib"},
			{Kind: OpSymlink, Path: appStaging + "/libnat.a", Target: "../../../nat/libnat.a"},
		},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if got := len(plan.Links()); got != 2 {
		t.Errorf("expected 2 links, got %d", got)
	}

	wantScript := "rm -rf out/app/app.deps && mkdir -p out/app/app.deps\n" +
		"ln -sf ../../core/libcore.rlib out/app/app.deps/libcore.rlib\n" +
		"ln -sf ../../../nat/libnat.a out/app/app.deps/libnat.a\n"
	if diff := cmp.Diff(wantScript, plan.Script()); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestStageRunfiles(t *testing.T) {
	var staged ArtifactSet
	staged.Add("out/core/libcore.rlib", "nat/libnat.a")

	plan, err := Stage("out/doc/test.deps", &staged, Runfiles, "out")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := &StagingPlan{
		Dir: "doc/test.deps",
		Ops: []StagingOp{
			{Kind: OpResetDir, Path: "doc/test.deps"},
			{Kind: OpSymlink, Path: "doc/test.deps/libcore.rlib", Target: "../../core/libcore.rlib"},
			{Kind: OpSymlink, Path: "doc/test.deps/libnat.a", Target: "../../nat/libnat.a"},
		},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestStageEmpty(t *testing.T) {
	plan, err := Stage(appStaging, &ArtifactSet{}, BuildOutput, "out")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(plan.Ops) != 1 || plan.Ops[0].Kind != OpResetDir {
		t.Errorf("expected only a reset, got %+v", plan.Ops)
	}
}

func TestStageMixedPaths(t *testing.T) {
	var staged ArtifactSet
	staged.Add("/abs/libx.rlib")
	if _, err := Stage(appStaging, &staged, BuildOutput, "out"); err == nil {
		t.Errorf("expected an error linking an absolute path from a relative directory")
	}
}
