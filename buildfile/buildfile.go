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

// Package buildfile reads BUILD.hcl files into target descriptors.
//
// Each block declares one target, named by its label:
//
//   rust_library "core" {
//     srcs = glob("src/**/*.rs")
//     deps = ["//third_party/nat"]
//   }
//
// Paths are relative to the directory holding the file, which is also the
// package of every target it declares.
package buildfile

import (
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"

	"github.com/google/rustbp"
	"github.com/google/rustbp/pathtools"
)

// FileName is the name of the file that declares a package.
const FileName = "BUILD.hcl"

// A Native is a prebuilt native library.
type Native struct {
	Label    string
	Pos      string
	Archives []string
}

// A Filegroup is a named set of files.
type Filegroup struct {
	Label string
	Pos   string
	Files []string
}

// A File holds everything declared in one BUILD.hcl.
type File struct {
	Package    string
	Targets    []*rustbp.Target
	Natives    []*Native
	Filegroups []*Filegroup
}

const (
	ccLibraryBlock = "cc_library"
	filegroupBlock = "filegroup"
)

var fileSchema = func() *hcl.BodySchema {
	schema := &hcl.BodySchema{}
	for _, rule := range []string{
		rustbp.Library.String(),
		rustbp.Binary.String(),
		rustbp.Test.String(),
		rustbp.BenchTest.String(),
		rustbp.Doc.String(),
		rustbp.DocTest.String(),
		rustbp.CodegenLibrary.String(),
		ccLibraryBlock,
		filegroupBlock,
	} {
		schema.Blocks = append(schema.Blocks, hcl.BlockHeaderSchema{
			Type:       rule,
			LabelNames: []string{"name"},
		})
	}
	return schema
}()

type crateAttrs struct {
	Srcs       []string `hcl:"srcs,optional"`
	CrateRoot  string   `hcl:"crate_root,optional"`
	CrateType  string   `hcl:"crate_type,optional"`
	Deps       []string `hcl:"deps,optional"`
	Features   []string `hcl:"crate_features,optional"`
	RustcFlags []string `hcl:"rustc_flags,optional"`
	Data       []string `hcl:"data,optional"`
}

type docAttrs struct {
	Dep        string   `hcl:"dep"`
	Features   []string `hcl:"crate_features,optional"`
	RustcFlags []string `hcl:"rustc_flags,optional"`
	Data       []string `hcl:"data,optional"`
}

type protoAttrs struct {
	Srcs []string `hcl:"srcs"`
	Deps []string `hcl:"deps,optional"`
}

type nativeAttrs struct {
	Archives []string `hcl:"archives"`
}

type filegroupAttrs struct {
	Srcs []string `hcl:"srcs"`
}

// Parse decodes the BUILD.hcl at filename, read through fs.  The file's
// directory, relative to the workspace root, is its package.
func Parse(fs pathtools.FileSystem, filename string) (*File, error) {
	src, err := pathtools.ReadFile(fs, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse %s", filename)
	}

	content, diags := f.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode %s", filename)
	}

	pkg := filepath.Dir(filepath.Clean(filename))
	if pkg == "." {
		pkg = ""
	}
	l := &loader{
		fs:   fs,
		pkg:  pkg,
		file: &File{Package: pkg},
	}
	l.evalCtx = newEvalContext(fs, pkg)

	for _, block := range content.Blocks {
		diags = append(diags, l.decodeBlock(block)...)
	}
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode %s", filename)
	}
	return l.file, nil
}

type loader struct {
	fs      pathtools.FileSystem
	pkg     string
	evalCtx *hcl.EvalContext
	file    *File
}

func (l *loader) decodeBlock(block *hcl.Block) hcl.Diagnostics {
	name := block.Labels[0]
	pos := block.DefRange.String()

	switch block.Type {
	case ccLibraryBlock:
		var attrs nativeAttrs
		if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
			return diags
		}
		l.file.Natives = append(l.file.Natives, &Native{
			Label:    l.label(name),
			Pos:      pos,
			Archives: l.paths(attrs.Archives),
		})
		return nil

	case filegroupBlock:
		var attrs filegroupAttrs
		if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
			return diags
		}
		l.file.Filegroups = append(l.file.Filegroups, &Filegroup{
			Label: l.label(name),
			Pos:   pos,
			Files: l.paths(attrs.Srcs),
		})
		return nil
	}

	kind, _ := rustbp.KindFromRule(block.Type)
	t := &rustbp.Target{
		Name:    name,
		Package: l.pkg,
		Pos:     pos,
		Kind:    kind,
	}

	var deps []string
	switch kind {
	case rustbp.Doc, rustbp.DocTest:
		var attrs docAttrs
		if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
			return diags
		}
		deps = []string{attrs.Dep}
		t.Features = attrs.Features
		t.RustcFlags = attrs.RustcFlags
		t.Data = attrs.Data

	case rustbp.CodegenLibrary:
		var attrs protoAttrs
		if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
			return diags
		}
		t.Srcs = l.paths(attrs.Srcs)
		deps = attrs.Deps

	default:
		var attrs crateAttrs
		if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
			return diags
		}
		t.Srcs = l.paths(attrs.Srcs)
		if attrs.CrateRoot != "" {
			t.CrateRoot = filepath.Join(l.pkg, attrs.CrateRoot)
		}
		t.CrateType = rustbp.CrateType(attrs.CrateType)
		t.Features = attrs.Features
		t.RustcFlags = attrs.RustcFlags
		t.Data = attrs.Data
		deps = attrs.Deps
	}

	var diags hcl.Diagnostics
	for _, dep := range deps {
		label, err := rustbp.CanonicalLabel(l.pkg, dep)
		if err != nil {
			diags = append(diags, blockError(block, err))
			continue
		}
		t.Deps = append(t.Deps, label)
	}

	data := t.Data
	t.Data = nil
	for _, entry := range data {
		if !rustbp.IsLabel(entry) {
			t.Data = append(t.Data, filepath.Join(l.pkg, entry))
			continue
		}
		label, err := rustbp.CanonicalLabel(l.pkg, entry)
		if err != nil {
			diags = append(diags, blockError(block, err))
			continue
		}
		t.Data = append(t.Data, label)
	}

	if diags.HasErrors() {
		return diags
	}
	l.file.Targets = append(l.file.Targets, t)
	return nil
}

func (l *loader) label(name string) string {
	return "//" + l.pkg + ":" + name
}

func (l *loader) paths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	return pathtools.PrefixPaths(paths, l.pkg)
}

func blockError(block *hcl.Block, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid label",
		Detail:   err.Error(),
		Subject:  block.DefRange.Ptr(),
	}
}
