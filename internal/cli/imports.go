// Copyright 2024 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"io"

	"github.com/bufbuild/protoast"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newImportsCommand(root *rootCommand) *cobra.Command {
	var fail bool
	cmd := &cobra.Command{
		Use:   "imports [patterns...]",
		Short: "List the unused imports of the matching .proto files",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := root.settings
			if len(args) > 0 {
				settings.Include = args
			}
			if cmd.Flags().Changed("fail") {
				settings.Imports.Fail = fail
			}
			// Unused imports are printed below, not logged as warnings.
			ast, err := loadAST(cmd.Context(), discardWarnings(root.logger), settings)
			if err != nil {
				return err
			}
			unused, err := printUnusedImports(cmd.OutOrStdout(), ast)
			if err != nil {
				return err
			}
			if unused > 0 && settings.Imports.Fail {
				return fmt.Errorf("%d unused imports", unused)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "exit with a non-zero exit code if there are unused imports")
	return cmd
}

// printUnusedImports writes one line per unused import of a build target and returns the count.
func printUnusedImports(writer io.Writer, ast *protoast.AST) (int, error) {
	var count int
	for _, file := range ast.TargetFiles() {
		for _, unused := range file.UnusedImports() {
			if _, err := fmt.Fprintf(writer, "%s: %s\n", file.Path(), unused.Path()); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func discardWarnings(logger *logrus.Logger) logrus.FieldLogger {
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		return logger
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return quiet
}
