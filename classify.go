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

import "fmt"

// A DepKind is the classification of one dependency edge.
type DepKind int

const (
	DepCrate DepKind = iota + 1
	DepNative
)

func (k DepKind) String() string {
	switch k {
	case DepCrate:
		return "crate"
	case DepNative:
		return "native"
	default:
		return fmt.Sprintf("DepKind(%d)", int(k))
	}
}

// A ClassifiedDep is a dependency whose shape has been checked.  Crate is set
// for DepCrate, Native for DepNative.
type ClassifiedDep struct {
	Kind   DepKind
	Label  string
	Crate  *CrateInfo
	Native *NativeInfo
}

// Classify decides whether dep is a crate or a native edge of consumer.
// Native edges are rejected unless allowNative is set, and a dependency that
// provides neither shape is rejected outright.
func Classify(consumer string, dep Dependency, allowNative bool) (ClassifiedDep, error) {
	switch {
	case dep.Crate != nil && dep.Crate.Artifact != "":
		return ClassifiedDep{Kind: DepCrate, Label: dep.Label, Crate: dep.Crate}, nil

	case dep.Native != nil && len(dep.Native.Archives) > 0:
		if !allowNative {
			return ClassifiedDep{}, &PlanError{
				Kind:   NativeInteropDisallowed,
				Target: consumer,
				Dep:    dep.Label,
				Err:    fmt.Errorf("native library dependencies are only allowed on %s", nativeKindsList()),
			}
		}
		return ClassifiedDep{Kind: DepNative, Label: dep.Label, Native: dep.Native}, nil

	default:
		return ClassifiedDep{}, &PlanError{
			Kind:   InvalidDependencyKind,
			Target: consumer,
			Dep:    dep.Label,
			Err:    fmt.Errorf("unsupported dependency kind, expected a crate or a native library"),
		}
	}
}

func nativeKindsList() string {
	var kinds []Kind
	for k := range kindNames {
		if Kind(k).AllowsNative() {
			kinds = append(kinds, Kind(k))
		}
	}
	s := ""
	for i, k := range kinds {
		switch {
		case i == 0:
		case i == len(kinds)-1:
			s += " and "
		default:
			s += ", "
		}
		s += k.String()
	}
	return s
}
