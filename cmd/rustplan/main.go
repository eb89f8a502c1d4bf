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

// rustplan loads the BUILD.hcl files of a workspace and prints the actions
// that build its Rust targets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/google/rustbp"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(os.Stderr, err)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := newOptions()
	v := newViper()
	cmd := &cobra.Command{
		Use:           "rustplan",
		Short:         "Plan the build actions of a Rust workspace",
		Long:          "rustplan reads the BUILD.hcl files below the current directory and turns every Rust target into a build action.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfig(v, cmd.Flags())
		},
	}
	opts.bindFlags(cmd.PersistentFlags())
	cmd.AddCommand(
		newNinjaCommand(opts),
		newShowCommand(opts),
		newListCommand(opts),
	)
	cmd.Example = `  # Write build.ninja and a depfile listing the build files it came from
  rustplan ninja -o build.ninja -d build.ninja.d

  # Print the action of one target
  rustplan show //app:server`
	return cmd
}

// newViper returns the viper instance that supplies flag defaults from
// RUSTPLAN_* variables and rustplan.yaml.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("RUSTPLAN")
	v.AutomaticEnv()
	configureConfigFile(v, os.Getenv("RUSTPLAN_CONFIG"))
	return v
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("rustplan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

// applyConfig sets every flag left unset on the command line from the
// environment or the config file.
func applyConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	if err := readConfigFile(v, os.Getenv("RUSTPLAN_CONFIG") != ""); err != nil {
		return err
	}

	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		var val string
		if f.Value.Type() == "stringSlice" {
			val = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			val = fmt.Sprintf("%v", v.Get(f.Name))
		}
		if val == "" {
			return
		}
		if err := f.Value.Set(val); err != nil {
			errs = append(errs, fmt.Errorf("--%s: %w", f.Name, err))
		}
	})
	return multierr.Combine(errs...)
}

func handleError(w io.Writer, err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	for _, e := range multierr.Errors(err) {
		message := e.Error()
		switch rustbp.KindOf(e) {
		case rustbp.MissingDependency:
			message += "\nHint: run 'rustplan list' to see the declared targets."
		case rustbp.DependencyCycle:
			message += "\nHint: a crate cannot depend on itself, even through other crates."
		case rustbp.RootNotFound:
			message += "\nHint: set crate_root or name the entry point after the crate kind's convention."
		}
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}
