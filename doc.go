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

// Package rustbp plans the build actions for Rust crates.  Given the
// description of a target and the providers of its already planned
// dependencies, it works out the crate root, the set of artifacts the
// compiler must see, a staging directory of symlinks that makes those
// artifacts visible under predictable names, and the exact rustc, rustdoc or
// generator command lines.  It does not run anything; the result is an
// Action an execution engine can schedule, or a ninja manifest.
//
// A target is declared much like a Bazel rule:
//
//   rust_library "core" {
//     srcs = ["src/lib.rs", "src/util.rs"]
//     deps = [":nat"]
//   }
//
//   rust_binary "app" {
//     srcs = ["src/main.rs"]
//     deps = [":core"]
//   }
//
// Planning app stages libcore.rlib and the native archive core links against
// in out/<pkg>/app.deps, and compiles with
//
//   rustc src/main.rs --crate-name app --crate-type bin ... \
//       -L dependency=out/pkg/app.deps -L native=out/pkg/app.deps \
//       --extern core=out/pkg/app.deps/libcore.rlib -l static=nat
//
// Dependencies are passed to the planner as Dependency values.  A dependency
// that carries a CrateInfo is a Rust crate; one that carries a NativeInfo is
// a prebuilt native library, which only libraries, binaries and tests may
// link.  Anything else is rejected.
//
// The Context type plans a whole graph of targets: it resolves labels, rejects
// cycles, plans targets level by level in dependency order, and writes the
// result as a ninja manifest.
package rustbp
