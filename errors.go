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
	"errors"
	"fmt"
)

// An ErrorKind classifies why planning a target failed.  Every kind is a
// configuration error; none of them is worth retrying.
type ErrorKind int

const (
	NoError ErrorKind = iota
	RootNotFound
	InvalidDependencyKind
	NativeInteropDisallowed
	InvalidArtifactKind
	CodegenInputCountViolation
	StagingNameCollision
	InvalidTarget
	MissingDependency
	DependencyCycle
)

var errorKindNames = [...]string{
	NoError:                    "NoError",
	RootNotFound:               "RootNotFound",
	InvalidDependencyKind:      "InvalidDependencyKind",
	NativeInteropDisallowed:    "NativeInteropDisallowed",
	InvalidArtifactKind:        "InvalidArtifactKind",
	CodegenInputCountViolation: "CodegenInputCountViolation",
	StagingNameCollision:       "StagingNameCollision",
	InvalidTarget:              "InvalidTarget",
	MissingDependency:          "MissingDependency",
	DependencyCycle:            "DependencyCycle",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// A PlanError describes a problem with a particular target, and optionally
// one of its dependencies.
type PlanError struct {
	Kind   ErrorKind
	Pos    string // declaration site of the target, if known
	Target string // label of the offending target
	Dep    string // label of the offending dependency, if any
	Err    error
}

func (e *PlanError) Error() string {
	msg := e.Target + ": "
	if e.Pos != "" {
		msg = e.Pos + ": " + msg
	}
	if e.Dep != "" {
		msg += fmt.Sprintf("dependency %q: ", e.Dep)
	}
	return msg + e.Err.Error()
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of the first PlanError in err's chain, or
// NoError.
func KindOf(err error) ErrorKind {
	var planErr *PlanError
	if errors.As(err, &planErr) {
		return planErr.Kind
	}
	return NoError
}
