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
	"io"
	"path/filepath"
	"strings"

	"github.com/google/rustbp/escape"
)

const actionRule = "rust_action"

// ShellLines returns the action as /bin/sh command lines, in the order the
// engine must run them.  Staging planned for the runfiles tree is left to the
// written runner script.
func (a *Action) ShellLines() []string {
	var lines []string
	if a.Staging != nil && a.Exec == BuildOutput {
		for _, line := range strings.Split(strings.TrimSpace(a.Staging.Script()), "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	}

	for _, w := range a.Writes {
		lines = append(lines,
			"mkdir -p "+escape.Arg(filepath.Dir(w.Path)),
			"printf "+escape.Arg(printfFormat(w.Content))+" > "+escape.Arg(w.Path))
		if w.Executable {
			lines = append(lines, "chmod +x "+escape.Arg(w.Path))
		}
	}

	for _, c := range a.Commands {
		if c.Dir != "" {
			// Keep the directory change local to this command.
			lines = append(lines, "("+c.String()+")")
		} else {
			lines = append(lines, c.String())
		}
	}
	return lines
}

var printfReplacer = strings.NewReplacer(`\`, `\\`, "%", "%%", "\n", `\n`)

// printfFormat encodes s as a printf format string that reproduces it, so
// that multi-line contents fit on one command line.
func printfFormat(s string) string {
	return printfReplacer.Replace(s)
}

// aliasName returns the phony target name of a label: "//app:main" is
// "app:main".
func aliasName(label string) string {
	return strings.TrimPrefix(label, "//")
}

// WriteNinja writes a ninja manifest with one build statement per action and
// a phony alias per label.
func WriteNinja(w io.StringWriter, actions []*Action) error {
	n := newNinjaWriter(w)

	n.Comment("Generated by rustplan. Do not edit.")
	n.BlankLine()

	n.Rule(actionRule)
	n.ScopedAssign("command", "$cmd")
	n.ScopedAssign("description", "$desc")
	n.BlankLine()

	var aliases []string
	for _, a := range actions {
		outputs := escape.NinjaPaths(a.Outputs)
		n.Build(a.Label+"\nkey "+a.Key(), actionRule, outputs, nil,
			escape.NinjaPaths(a.Inputs), nil, nil)
		n.ScopedAssign("cmd", escape.Ninja(strings.Join(a.ShellLines(), " && ")))
		n.ScopedAssign("desc", escape.Ninja(a.Kind.String()+" "+a.Label))

		alias := escape.NinjaPath(aliasName(a.Label))
		n.Build("", "phony", []string{alias}, nil, outputs, nil, nil)
		aliases = append(aliases, alias)
		n.BlankLine()
	}

	if len(aliases) > 0 {
		n.Default(aliases...)
	}
	return n.Err()
}
