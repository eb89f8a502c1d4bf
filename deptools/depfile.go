// Copyright 2014 Google Inc. All rights reserved.
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

package deptools

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var depEscaper = strings.NewReplacer(" ", `\ `, "#", `\#`, "$", "$$")

// WriteDepFile creates a new gcc-style depfile and populates it with content
// indicating that target depends on deps.
func WriteDepFile(filename, target string, deps []string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return FormatDepFile(f, target, deps)
}

// FormatDepFile writes the depfile contents for target and deps to w,
// escaping characters make would otherwise interpret.
func FormatDepFile(w io.Writer, target string, deps []string) error {
	escaped := make([]string, len(deps))
	for i, dep := range deps {
		escaped[i] = depEscaper.Replace(dep)
	}

	_, err := fmt.Fprintf(w, "%s: \\\n %s\n", depEscaper.Replace(target),
		strings.Join(escaped, " \\\n "))
	return err
}
