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
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/google/rustbp/deptools"
)

func newNinjaCommand(opts *options) *cobra.Command {
	var outFile, depFile string
	cmd := &cobra.Command{
		Use:   "ninja",
		Short: "Write a ninja manifest running every planned action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := ws.ctx.WriteBuildFile(&buf); err != nil {
				return err
			}

			if outFile == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(outFile, buf.Bytes(), 0666); err != nil {
				return errors.Wrap(err, "writing manifest")
			}
			if depFile != "" {
				if err := deptools.WriteDepFile(depFile, outFile, ws.buildFiles); err != nil {
					return errors.Wrap(err, "writing depfile")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "build.ninja", "Manifest to write, or - for stdout")
	cmd.Flags().StringVarP(&depFile, "depfile", "d", "", "Also write a depfile listing the build files the manifest was generated from")
	return cmd
}
