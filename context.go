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
	"io"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrBuildActionsNotReady = errors.New("build actions are not ready")

// A Context holds a graph of targets and plans all of them.  Work proceeds in
// three phases:
//
//         Phase                     Methods
//      ------------    ------------------------------------
//   1. Declare          AddTarget, AddNative, AddFilegroup
//
//   2. Generate      ResolveDependencies, PrepareBuildActions
//
//   3. Write                Actions, WriteBuildFile
//
// Targets are planned in dependency order so that every target sees the
// providers of its dependencies.
type Context struct {
	planner *Planner
	logger  *zap.Logger
	jobs    int

	nodes  map[string]*node
	byDecl []*node // in declaration order

	dependenciesReady bool // set on a successful ResolveDependencies
	buildActionsReady bool // set on a successful PrepareBuildActions

	sorted []*node // dependencies before dependents
	levels [][]*node
}

type nodeKind int

const (
	rustNode nodeKind = iota
	nativeNode
	filegroupNode
)

// A node is one declared label.  Only rust nodes are planned; native and
// filegroup nodes only supply providers or files.
type node struct {
	kind  nodeKind
	label string
	pos   string

	decl    *Target     // rust nodes, as declared
	target  *Target     // decl with Data expanded
	native  *NativeInfo // native nodes
	files   []string    // filegroup nodes
	deps    []*node
	level   int
	action  *Action
	planErr error
}

// NewContext returns a Context planning with config.  A nil config means
// DefaultConfig.
func NewContext(config *Config) *Context {
	return &Context{
		planner: NewPlanner(config),
		logger:  zap.NewNop(),
		jobs:    runtime.GOMAXPROCS(0),
		nodes:   make(map[string]*node),
	}
}

// SetLogger sets the logger progress is reported to.
func (c *Context) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// SetJobs limits how many targets are planned at once.
func (c *Context) SetJobs(jobs int) {
	if jobs < 1 {
		jobs = 1
	}
	c.jobs = jobs
}

func (c *Context) Planner() *Planner {
	return c.planner
}

func (c *Context) add(n *node) error {
	if other, exists := c.nodes[n.label]; exists {
		msg := "already defined"
		if other.pos != "" {
			msg += " at " + other.pos
		}
		return &PlanError{Kind: InvalidTarget, Pos: n.pos, Target: n.label, Err: errors.New(msg)}
	}
	c.nodes[n.label] = n
	c.byDecl = append(c.byDecl, n)
	c.dependenciesReady = false
	c.buildActionsReady = false
	return nil
}

// AddTarget declares a Rust target.
func (c *Context) AddTarget(t *Target) error {
	return c.add(&node{kind: rustNode, label: t.Label(), pos: t.Pos, decl: t, target: t})
}

// AddNative declares a prebuilt native library.  Its link name is the name
// part of label.
func (c *Context) AddNative(label, pos string, archives ...string) error {
	canonical, err := CanonicalLabel("", label)
	if err != nil {
		return &PlanError{Kind: InvalidTarget, Pos: pos, Target: label, Err: err}
	}
	dep := NativeDependency(canonical, archives...)
	return c.add(&node{kind: nativeNode, label: canonical, pos: pos, native: dep.Native})
}

// AddFilegroup declares a named group of files that targets may list in
// their data.
func (c *Context) AddFilegroup(label, pos string, files ...string) error {
	canonical, err := CanonicalLabel("", label)
	if err != nil {
		return &PlanError{Kind: InvalidTarget, Pos: pos, Target: label, Err: err}
	}
	return c.add(&node{kind: filegroupNode, label: canonical, pos: pos, files: files})
}

// ResolveDependencies looks up every dependency label, expands filegroups
// named in data, and checks that the graph has no cycles.
func (c *Context) ResolveDependencies() []error {
	c.dependenciesReady = false
	c.buildActionsReady = false

	var errs []error
	for _, n := range c.byDecl {
		if n.kind != rustNode {
			continue
		}
		errs = append(errs, c.resolveNode(n)...)
	}
	if len(errs) > 0 {
		return errs
	}

	if errs := c.updateDependencies(); len(errs) > 0 {
		return errs
	}

	c.dependenciesReady = true
	return nil
}

func (c *Context) resolveNode(n *node) (errs []error) {
	t := *n.decl
	n.deps = nil

	for _, label := range t.Deps {
		dep, err := c.lookup(&t, label)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		n.deps = append(n.deps, dep)
	}

	var data []string
	for _, entry := range t.Data {
		if !IsLabel(entry) {
			data = append(data, entry)
			continue
		}
		dep, err := c.lookup(&t, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if dep.kind != filegroupNode {
			errs = append(errs, t.errorf(InvalidTarget, dep.label, "data labels must name a filegroup"))
			continue
		}
		data = append(data, dep.files...)
	}
	t.Data = data
	n.target = &t
	return errs
}

func (c *Context) lookup(t *Target, label string) (*node, error) {
	canonical, err := CanonicalLabel(t.Package, label)
	if err != nil {
		return nil, t.errorf(MissingDependency, label, "%s", err)
	}
	dep, ok := c.nodes[canonical]
	if !ok {
		return nil, t.errorf(MissingDependency, canonical, "not defined")
	}
	return dep, nil
}

// updateDependencies sorts the nodes so that each follows its dependencies
// and assigns each its planning level.  Every cycle found is reported, one
// error per edge.
func (c *Context) updateDependencies() (errs []error) {
	visited := make(map[*node]bool)  // nodes that were already checked
	checking := make(map[*node]bool) // nodes actively being checked

	sorted := make([]*node, 0, len(c.byDecl))

	cycleError := func(cycle []*node) {
		// The cycle list is in reverse order because every check call
		// appends its own node; cycle[0] is where it closes.
		start := cycle[0]
		errs = append(errs, &PlanError{
			Kind:   DependencyCycle,
			Pos:    start.pos,
			Target: start.label,
			Err:    errors.New("encountered dependency cycle"),
		})

		cur := cycle[0]
		for i := len(cycle) - 1; i >= 0; i-- {
			next := cycle[i]
			errs = append(errs, &PlanError{
				Kind:   DependencyCycle,
				Pos:    cur.pos,
				Target: cur.label,
				Err:    fmt.Errorf("%q depends on %q", cur.label, next.label),
			})
			cur = next
		}
	}

	var check func(n *node) []*node
	check = func(n *node) []*node {
		visited[n] = true
		checking[n] = true
		defer delete(checking, n)

		n.level = 0
		for _, dep := range n.deps {
			if dep == n {
				errs = append(errs, &PlanError{
					Kind:   DependencyCycle,
					Pos:    n.pos,
					Target: n.label,
					Err:    errors.New("depends on itself"),
				})
				continue
			}
			if checking[dep] {
				return []*node{dep, n}
			}

			if !visited[dep] {
				if cycle := check(dep); cycle != nil {
					if cycle[0] != n {
						return append(cycle, n)
					}
					// n starts the cycle; report it and keep looking
					// for others among the remaining dependencies.
					cycleError(cycle)
				}
			}

			if dep.kind == rustNode && dep.level+1 > n.level {
				n.level = dep.level + 1
			}
		}

		sorted = append(sorted, n)
		return nil
	}

	for _, n := range c.byDecl {
		if !visited[n] {
			if cycle := check(n); cycle != nil {
				cycleError(cycle)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	c.sorted = sorted
	c.levels = nil
	for _, n := range sorted {
		if n.kind != rustNode {
			continue
		}
		for len(c.levels) <= n.level {
			c.levels = append(c.levels, nil)
		}
		c.levels[n.level] = append(c.levels[n.level], n)
	}
	return nil
}

// PrepareBuildActions plans every target.  Targets on the same level of the
// graph are planned concurrently.  When any target fails, every error from
// its level is returned and no actions are kept.
func (c *Context) PrepareBuildActions(ctx context.Context) []error {
	c.buildActionsReady = false
	if !c.dependenciesReady {
		if errs := c.ResolveDependencies(); len(errs) > 0 {
			return errs
		}
	}

	for _, n := range c.sorted {
		n.action, n.planErr = nil, nil
	}

	planned := 0
	for level, nodes := range c.levels {
		if errs := c.planLevel(ctx, nodes); len(errs) > 0 {
			for _, n := range c.sorted {
				n.action = nil
			}
			return errs
		}
		planned += len(nodes)
		c.logger.Debug("planned level", zap.Int("level", level), zap.Int("targets", len(nodes)))
	}

	c.buildActionsReady = true
	c.logger.Info("prepared build actions",
		zap.Int("targets", planned),
		zap.Int("levels", len(c.levels)))
	return nil
}

func (c *Context) planLevel(ctx context.Context, nodes []*node) []error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)

	for _, n := range nodes {
		n := n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			deps := make([]Dependency, len(n.deps))
			for i, dep := range n.deps {
				deps[i] = dep.provides()
			}
			n.action, n.planErr = c.planner.Plan(n.target, deps)
			if n.planErr != nil {
				c.logger.Debug("planning failed", zap.String("target", n.label), zap.Error(n.planErr))
				return nil
			}
			c.logger.Debug("planned",
				zap.String("target", n.label),
				zap.Stringer("kind", n.target.Kind),
				zap.String("key", n.action.Key()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return []error{err}
	}

	var errs []error
	for _, n := range nodes {
		if n.planErr != nil {
			errs = append(errs, n.planErr)
		}
	}
	return errs
}

// provides returns what a dependent of n receives.
func (n *node) provides() Dependency {
	switch n.kind {
	case rustNode:
		return n.action.Provides
	case nativeNode:
		return Dependency{Label: n.label, Native: n.native}
	default:
		return Dependency{Label: n.label}
	}
}

// Actions returns the planned actions, dependencies first.
func (c *Context) Actions() ([]*Action, error) {
	if !c.buildActionsReady {
		return nil, ErrBuildActionsNotReady
	}
	var actions []*Action
	for _, n := range c.sorted {
		if n.action != nil {
			actions = append(actions, n.action)
		}
	}
	return actions, nil
}

// Action returns the planned action of the target with the given label.
func (c *Context) Action(label string) (*Action, error) {
	if !c.buildActionsReady {
		return nil, ErrBuildActionsNotReady
	}
	canonical, err := CanonicalLabel("", label)
	if err != nil {
		return nil, err
	}
	n, ok := c.nodes[canonical]
	if !ok || n.action == nil {
		return nil, fmt.Errorf("no action for %q", canonical)
	}
	return n.action, nil
}

// Labels returns the labels of all declared Rust targets, sorted.
func (c *Context) Labels() []string {
	var labels []string
	for label, n := range c.nodes {
		if n.kind == rustNode {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// WriteBuildFile writes the ninja manifest for the planned actions.
func (c *Context) WriteBuildFile(w io.StringWriter) error {
	actions, err := c.Actions()
	if err != nil {
		return err
	}
	return WriteNinja(w, actions)
}
