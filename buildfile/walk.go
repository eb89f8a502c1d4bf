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
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/google/rustbp"
	"github.com/google/rustbp/pathtools"
)

// Walk parses every BUILD.hcl found under dir, in lexical order of their
// paths.  dir is relative to the workspace root, which must be the current
// directory of the engine running the actions.  Every file is parsed even
// when an earlier one fails.
func Walk(fs pathtools.FileSystem, dir string) ([]*File, []error) {
	paths, err := fs.Files(dir)
	if err != nil {
		return nil, []error{errors.Wrapf(err, "listing %s", dir)}
	}

	var files []*File
	var errs []error
	for _, p := range paths {
		if filepath.Base(p) != FileName {
			continue
		}
		f, err := Parse(fs, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return files, nil
}

// AddTo declares everything in f on ctx.
func (f *File) AddTo(ctx *rustbp.Context) []error {
	var errs []error
	for _, n := range f.Natives {
		if err := ctx.AddNative(n.Label, n.Pos, n.Archives...); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range f.Filegroups {
		if err := ctx.AddFilegroup(g.Label, g.Pos, g.Files...); err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range f.Targets {
		if err := ctx.AddTarget(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Load walks dir and declares every target found on ctx.
func Load(fs pathtools.FileSystem, dir string, ctx *rustbp.Context) []error {
	files, errs := Walk(fs, dir)
	if len(errs) > 0 {
		return errs
	}
	for _, f := range files {
		errs = append(errs, f.AddTo(ctx)...)
	}
	return errs
}
