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
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func ck(err error) {
	if err != nil {
		panic(err)
	}
}

func ckErrs(t *testing.T, errs []error) {
	t.Helper()
	for _, err := range errs {
		t.Error(err)
	}
	if len(errs) > 0 {
		t.FailNow()
	}
}

// newTestContext declares app -> core -> nat, with app listed first.
func newTestContext() *Context {
	ctx := NewContext(nil)
	ck(ctx.AddTarget(&Target{
		Name:    "app",
		Package: "app",
		Pos:     "app/BUILD.hcl:1,1-20",
		Kind:    Binary,
		Srcs:    []string{"app/main.rs"},
		Deps:    []string{"//core"},
		Data:    []string{":assets", "app/config.toml"},
	}))
	ck(ctx.AddFilegroup("//app:assets", "app/BUILD.hcl:6,1-20", "app/a.png", "app/b.png"))
	ck(ctx.AddTarget(&Target{
		Name:    "core",
		Package: "core",
		Kind:    Library,
		Srcs:    []string{"core/lib.rs"},
		Deps:    []string{"//nat:nat"},
	}))
	ck(ctx.AddNative("//nat:nat", "nat/BUILD.hcl:1,1-20", "nat/libnat.a"))
	return ctx
}

func TestContextPrepareBuildActions(t *testing.T) {
	ctx := newTestContext()
	ckErrs(t, ctx.ResolveDependencies())
	ckErrs(t, ctx.PrepareBuildActions(context.Background()))

	actions, err := ctx.Actions()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	var labels []string
	for _, a := range actions {
		labels = append(labels, a.Label)
	}
	if diff := cmp.Diff([]string{"//core:core", "//app:app"}, labels); diff != "" {
		t.Errorf("action order mismatch (-want +got):\n%s", diff)
	}

	app, err := ctx.Action("//app:app")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{"app/a.png", "app/b.png", "app/config.toml", "out/app/app"}
	if diff := cmp.Diff(want, app.Runfiles); diff != "" {
		t.Errorf("runfiles mismatch (-want +got):\n%s", diff)
	}

	flags := strings.Join(app.Commands[0].Argv, " ")
	for _, flag := range []string{
		"--extern core=out/app/app.deps/libcore.rlib",
		"-l static=nat",
		"-L native=out/app/app.deps",
	} {
		if !strings.Contains(flags, flag) {
			t.Errorf("expected %q in %q", flag, flags)
		}
	}

	if diff := cmp.Diff([]string{"//app:app", "//core:core"}, ctx.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestContextImplicitResolve(t *testing.T) {
	ctx := newTestContext()
	ckErrs(t, ctx.PrepareBuildActions(context.Background()))
	if _, err := ctx.Action("//core:core"); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestContextNotReady(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.Actions(); !errors.Is(err, ErrBuildActionsNotReady) {
		t.Errorf("expected ErrBuildActionsNotReady, got %v", err)
	}
	var buf strings.Builder
	if err := ctx.WriteBuildFile(&buf); !errors.Is(err, ErrBuildActionsNotReady) {
		t.Errorf("expected ErrBuildActionsNotReady, got %v", err)
	}
}

func TestContextDuplicateLabel(t *testing.T) {
	ctx := newTestContext()
	err := ctx.AddNative("//core:core", "other/BUILD.hcl:1,1-5", "libcore.a")
	if KindOf(err) != InvalidTarget {
		t.Fatalf("expected InvalidTarget, got %v", err)
	}
	if !strings.Contains(err.Error(), "already defined") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestContextMissingDependency(t *testing.T) {
	ctx := NewContext(nil)
	ck(ctx.AddTarget(&Target{Name: "a", Package: "p", Kind: Library, Srcs: []string{"p/lib.rs"},
		Deps: []string{":missing"}}))

	errs := ctx.ResolveDependencies()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if KindOf(errs[0]) != MissingDependency {
		t.Errorf("expected MissingDependency, got %v", errs[0])
	}
	if planErr := errs[0].(*PlanError); planErr.Dep != "//p:missing" {
		t.Errorf("expected the missing label to be named, got %q", planErr.Dep)
	}
}

func TestContextDataMustBeFilegroup(t *testing.T) {
	ctx := NewContext(nil)
	ck(ctx.AddNative("//p:nat", "", "p/libnat.a"))
	ck(ctx.AddTarget(&Target{Name: "b", Package: "p", Kind: Binary, Srcs: []string{"p/main.rs"},
		Data: []string{":nat"}}))

	errs := ctx.ResolveDependencies()
	if len(errs) != 1 || KindOf(errs[0]) != InvalidTarget {
		t.Errorf("expected one InvalidTarget error, got %v", errs)
	}
}

func TestContextDependencyCycle(t *testing.T) {
	ctx := NewContext(nil)
	lib := func(name string, deps ...string) *Target {
		return &Target{Name: name, Package: "p", Pos: "p/BUILD.hcl:" + name, Kind: Library,
			Srcs: []string{"p/" + name + ".rs"}, Deps: deps}
	}
	ck(ctx.AddTarget(lib("a", ":b")))
	ck(ctx.AddTarget(lib("b", ":a")))
	ck(ctx.AddTarget(lib("c", ":c")))

	errs := ctx.ResolveDependencies()
	var got []string
	for _, err := range errs {
		if KindOf(err) != DependencyCycle {
			t.Errorf("expected DependencyCycle, got %v", err)
		}
		got = append(got, err.Error())
	}

	want := []string{
		"p/BUILD.hcl:a: //p:a: encountered dependency cycle",
		`p/BUILD.hcl:a: //p:a: "//p:a" depends on "//p:b"`,
		`p/BUILD.hcl:b: //p:b: "//p:b" depends on "//p:a"`,
		"p/BUILD.hcl:c: //p:c: depends on itself",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}

	if errs := ctx.PrepareBuildActions(context.Background()); len(errs) != len(want) {
		t.Errorf("expected planning to report the cycle again, got %v", errs)
	}
}

func TestContextPlanFailure(t *testing.T) {
	ctx := newTestContext()
	ck(ctx.AddTarget(&Target{Name: "core_doc", Package: "core", Kind: Doc, Deps: []string{":core"}}))
	ck(ctx.AddTarget(&Target{Name: "bad", Package: "core", Kind: Library, Srcs: []string{"core/a.rs", "core/b.rs"}}))

	errs := ctx.PrepareBuildActions(context.Background())
	var kinds []ErrorKind
	for _, err := range errs {
		kinds = append(kinds, KindOf(err))
	}
	// bad fails on the first level; core_doc is never reached.
	if diff := cmp.Diff([]ErrorKind{RootNotFound}, kinds); diff != "" {
		t.Errorf("error kinds mismatch (-want +got):\n%s", diff)
	}
	if _, err := ctx.Actions(); !errors.Is(err, ErrBuildActionsNotReady) {
		t.Errorf("expected no actions after a failure, got %v", err)
	}
}

func TestContextCanceled(t *testing.T) {
	ctx := newTestContext()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	errs := ctx.PrepareBuildActions(canceled)
	if len(errs) != 1 || !errors.Is(errs[0], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", errs)
	}
}

func TestContextLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := newTestContext()
	ctx.SetLogger(zap.New(core))
	ctx.SetJobs(1)
	ckErrs(t, ctx.PrepareBuildActions(context.Background()))

	planned := logs.FilterMessage("planned").All()
	if len(planned) != 2 {
		t.Errorf("expected 2 planned entries, got %d", len(planned))
	}
	summary := logs.FilterMessage("prepared build actions").All()
	if len(summary) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(summary))
	}
	fields := summary[0].ContextMap()
	if fmt.Sprint(fields["targets"]) != "2" || fmt.Sprint(fields["levels"]) != "2" {
		t.Errorf("unexpected summary fields %v", fields)
	}
}

func TestContextWriteBuildFile(t *testing.T) {
	ctx := newTestContext()
	ckErrs(t, ctx.PrepareBuildActions(context.Background()))

	var buf strings.Builder
	if err := ctx.WriteBuildFile(&buf); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	out := buf.String()

	core, err := ctx.Action("//core:core")
	ck(err)
	for _, want := range []string{
		"rule rust_action\n    command = $cmd\n    description = $desc\n",
		"# //core:core\n# key " + core.Key() + "\n",
		"build out/core/libcore.rlib: rust_action core/lib.rs nat/libnat.a\n",
		"build core$:core: phony out/core/libcore.rlib\n",
		"build app$:app: phony out/app/app\n",
		"default core$:core app$:app\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if n := strings.Count(out, ": rust_action "); n != 2 {
		t.Errorf("expected 2 build statements, got %d", n)
	}
}
