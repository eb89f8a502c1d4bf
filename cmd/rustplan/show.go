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
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/google/rustbp"
)

// shownAction is the YAML document printed for one action.
type shownAction struct {
	Key    string         `yaml:"key"`
	Action *rustbp.Action `yaml:"action"`
}

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show LABEL...",
		Short: "Print the planned actions of targets as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			for _, label := range args {
				action, err := ws.ctx.Action(label)
				if err != nil {
					return err
				}
				if err := enc.Encode(shownAction{Key: action.Key(), Action: action}); err != nil {
					return err
				}
			}
			return enc.Close()
		},
	}
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the Rust targets declared in the workspace",
		Long:  "list prints the declared Rust targets without resolving their dependencies, so it works on a workspace that does not plan.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.declare(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			for _, label := range ws.ctx.Labels() {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}
