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

// Package cli implements the protoast command.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCommand holds the state shared by all subcommands.
type rootCommand struct {
	cmd      *cobra.Command
	logger   *logrus.Logger
	settings *Settings

	configPath    string
	importPaths   []string
	exclude       []string
	descriptorSet string
	logFormat     string
	verbose       bool

	sourceRetentionOptions bool
}

// Execute runs the protoast command with the arguments, and returns the exit code.
func Execute(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	logger := logrus.New()
	logger.SetOutput(stderr)
	root := newRootCommand(logger)
	root.cmd.SetArgs(args)
	root.cmd.SetOut(stdout)
	root.cmd.SetErr(stderr)
	if err := root.cmd.ExecuteContext(ctx); err != nil {
		logger.Error(err.Error())
		return 1
	}
	return 0
}

func newRootCommand(logger *logrus.Logger) *rootCommand {
	c := &rootCommand{
		logger: logger,
	}
	c.cmd = &cobra.Command{
		Use:               "protoast",
		Short:             "Inspect the linked declarations of .proto files",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	flags := c.cmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path of the TOML settings file")
	flags.StringArrayVarP(&c.importPaths, "import-path", "I", nil, "directory to look up .proto files in")
	flags.StringArrayVar(&c.exclude, "exclude", nil, "doublestar pattern of .proto files to skip")
	flags.StringVar(&c.descriptorSet, "descriptor-set", "", "read a binary FileDescriptorSet instead of compiling")
	flags.BoolVar(&c.sourceRetentionOptions, "source-retention-options", false, "keep source-retention options when compiling")
	flags.StringVar(&c.logFormat, "log-format", "", "log format, text or json")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	c.cmd.AddCommand(
		newDumpCommand(c),
		newImportsCommand(c),
	)
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	settings, err := LoadSettings(c.configPath)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("import-path") {
		settings.ImportPaths = c.importPaths
	}
	if flags.Changed("exclude") {
		settings.Exclude = c.exclude
	}
	if flags.Changed("descriptor-set") {
		settings.DescriptorSet = c.descriptorSet
	}
	if flags.Changed("source-retention-options") {
		settings.SourceRetentionOptions = c.sourceRetentionOptions
	}
	if flags.Changed("log-format") {
		settings.Log.Format = c.logFormat
	}
	if c.verbose {
		settings.Log.Level = logrus.DebugLevel.String()
	}
	if err := c.setupLogger(settings.Log); err != nil {
		return err
	}
	c.settings = settings
	c.logger.WithField("config", c.configPath).Debug("settings loaded")
	return nil
}

func (c *rootCommand) setupLogger(log *Log) error {
	level, err := logrus.ParseLevel(log.Level)
	if err != nil {
		return err
	}
	c.logger.SetLevel(level)
	switch log.Format {
	case "text":
		c.logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", log.Format)
	}
	return nil
}
