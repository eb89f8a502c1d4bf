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

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/google/rustbp/pathtools"
)

func newEvalContext(fs pathtools.FileSystem, pkg string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"glob": globFunc(fs, pkg),
		},
	}
}

// globFunc returns glob(patterns...), which lists the files of the package
// matching any of the patterns, relative to the package.
func globFunc(fs pathtools.FileSystem, pkg string) function.Function {
	dir := pkg
	if dir == "" {
		dir = "."
	}
	return function.New(&function.Spec{
		VarParam: &function.Parameter{
			Name: "patterns",
			Type: cty.String,
		},
		Type: function.StaticReturnType(cty.List(cty.String)),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			patterns := make([]string, len(args))
			for i, arg := range args {
				patterns[i] = arg.AsString()
			}

			matches, err := pathtools.GlobPatternList(fs, dir, patterns)
			if err != nil {
				return cty.NilVal, err
			}
			if len(matches) == 0 {
				return cty.ListValEmpty(cty.String), nil
			}

			vals := make([]cty.Value, len(matches))
			for i, m := range matches {
				rel, err := filepath.Rel(dir, m)
				if err != nil {
					return cty.NilVal, err
				}
				vals[i] = cty.StringVal(rel)
			}
			return cty.ListVal(vals), nil
		},
	})
}
