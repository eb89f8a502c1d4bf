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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/google/rustbp"
	"github.com/google/rustbp/buildfile"
	"github.com/google/rustbp/internal/logging"
	"github.com/google/rustbp/pathtools"
)

type options struct {
	logLevel  string
	outputDir string
	optLevel  string
	dylibExt  string
	rustflags string
	features  []string
	toolchain string
	jobs      int
}

func newOptions() *options {
	defaults := rustbp.DefaultConfig()
	return &options{
		logLevel:  "info",
		outputDir: defaults.OutputDir,
		optLevel:  defaults.OptLevel,
		dylibExt:  defaults.DylibExt,
		jobs:      runtime.GOMAXPROCS(0),
	}
}

func (o *options) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.logLevel, "log-level", o.logLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&o.outputDir, "output-dir", o.outputDir, "Root of the build output tree")
	flags.StringVar(&o.optLevel, "opt-level", o.optLevel, "Value of rustc -C opt-level")
	flags.StringVar(&o.dylibExt, "dylib-ext", o.dylibExt, "File extension of dynamic libraries")
	flags.StringVar(&o.rustflags, "rustflags", "", "Extra flags for every rustc and rustdoc invocation, split like a shell command line")
	flags.StringSliceVar(&o.features, "features", nil, "Cargo features enabled on every crate (repeat or pass comma-separated names)")
	flags.StringVar(&o.toolchain, "toolchain", "", "YAML file naming the toolchain programs")
	flags.IntVarP(&o.jobs, "jobs", "j", o.jobs, "Number of targets planned concurrently")
}

// config builds the planner configuration from the flags.
func (o *options) config() (*rustbp.Config, error) {
	config := rustbp.DefaultConfig()
	if o.toolchain != "" {
		tc, err := readToolchain(o.toolchain)
		if err != nil {
			return nil, err
		}
		config.Toolchain = *tc
	}

	config.OutputDir = o.outputDir
	config.OptLevel = o.optLevel
	config.DylibExt = o.dylibExt
	config.Features = o.features

	if o.rustflags != "" {
		flags, err := shellwords.Parse(o.rustflags)
		if err != nil {
			return nil, errors.Wrap(err, "parsing --rustflags")
		}
		config.RustFlags = flags
	}
	return config, nil
}

// readToolchain reads a toolchain description.  Programs it leaves out keep
// their default names.
func readToolchain(filename string) (*rustbp.Toolchain, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading toolchain")
	}
	tc := rustbp.DefaultConfig().Toolchain
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, errors.Wrapf(err, "parsing toolchain %s", filename)
	}
	return &tc, nil
}

// A workspace is the loaded contents of the current directory.
type workspace struct {
	ctx        *rustbp.Context
	buildFiles []string
	logger     *zap.Logger
}

// declare reads every BUILD.hcl below the current directory and declares the
// targets they hold without resolving or planning them.  Log output goes to
// logw.
func (o *options) declare(logw io.Writer) (*workspace, error) {
	logger, err := logging.New(logw, o.logLevel)
	if err != nil {
		return nil, err
	}

	config, err := o.config()
	if err != nil {
		return nil, err
	}

	files, errs := buildfile.Walk(pathtools.OsFs, ".")
	if len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}

	planCtx := rustbp.NewContext(config)
	planCtx.SetLogger(logger)
	if o.jobs > 0 {
		planCtx.SetJobs(o.jobs)
	}

	ws := &workspace{ctx: planCtx, logger: logger}
	for _, f := range files {
		ws.buildFiles = append(ws.buildFiles, filepath.Join(f.Package, buildfile.FileName))
		errs = append(errs, f.AddTo(planCtx)...)
	}
	if len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}
	logger.Debug("loaded build files", zap.Int("files", len(files)))
	return ws, nil
}

// load declares the workspace and plans every target in it.
func (o *options) load(ctx context.Context, logw io.Writer) (*workspace, error) {
	ws, err := o.declare(logw)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ws.logger.Sync() }()

	if errs := ws.ctx.PrepareBuildActions(ctx); len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}
	return ws, nil
}
