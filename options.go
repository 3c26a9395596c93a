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

package protoast

// BuildOption is an option for Build, BuildFromFileDescriptorSet and BuildFromRequest.
type BuildOption interface {
	applyBuildOption(buildOptions *buildOptions)
}

// RunOption is an option for Run.
//
// Note that MainOptions are also RunOptions, so all MainOptions can also be passed to Run.
type RunOption interface {
	applyRunOption(runOptions *runOptions)
}

// MainOption is an option for Main.
//
// Note that MainOptions are also RunOptions, so all MainOptions can also be passed to Run.
type MainOption interface {
	RunOption

	applyMainOption(runOptions *runOptions)
}

// Option is an option for both building an AST and running a plugin.
type Option interface {
	BuildOption
	MainOption
}

// WithWarningHandler returns a new Option that says to handle warnings with the given function.
//
// Warnings are produced for unused imports of build target files, and, when running a plugin,
// for generated file names that had to be corrected.
//
// When building, warnings are dropped by default. When running a plugin, the default is to
// write warnings to stderr.
//
// Implementers of warningHandlerFunc can assume that errors passed will be non-nil and have non-empty
// values for err.Error().
func WithWarningHandler(warningHandlerFunc func(error)) Option {
	return &warningHandlerOption{warningHandlerFunc: warningHandlerFunc}
}

// WithSourceRetentionOptions returns a new Option that says to read the build target files of a
// CodeGeneratorRequest from source_file_descriptors, so that source-retention options are retained.
//
// By default, only runtime-retention options are included on build target files. Note that
// source-retention options are always included on other files.
func WithSourceRetentionOptions() Option {
	return withSourceRetentionOptions{}
}

// WithoutComments returns a new Option that says to not attach comments from SourceCodeInfo.
func WithoutComments() Option {
	return withoutComments{}
}

// WithVersion returns a new MainOption that says to print the version when the plugin is
// invoked with the --version flag.
//
// Without this option, --version results in an error, as any other argument does.
func WithVersion(version string) MainOption {
	return &versionOption{version: version}
}

// *** PRIVATE ***

type buildOptions struct {
	warningHandlerFunc     func(error)
	sourceRetentionOptions bool
	withoutComments        bool
}

func newBuildOptions() *buildOptions {
	return &buildOptions{}
}

type runOptions struct {
	buildOptions
	version string
}

func newRunOptions() *runOptions {
	return &runOptions{}
}

type warningHandlerOption struct {
	warningHandlerFunc func(error)
}

func (w *warningHandlerOption) applyBuildOption(buildOptions *buildOptions) {
	buildOptions.warningHandlerFunc = w.warningHandlerFunc
}

func (w *warningHandlerOption) applyRunOption(runOptions *runOptions) {
	runOptions.warningHandlerFunc = w.warningHandlerFunc
}

func (w *warningHandlerOption) applyMainOption(runOptions *runOptions) {
	runOptions.warningHandlerFunc = w.warningHandlerFunc
}

type withSourceRetentionOptions struct{}

func (withSourceRetentionOptions) applyBuildOption(buildOptions *buildOptions) {
	buildOptions.sourceRetentionOptions = true
}

func (withSourceRetentionOptions) applyRunOption(runOptions *runOptions) {
	runOptions.sourceRetentionOptions = true
}

func (withSourceRetentionOptions) applyMainOption(runOptions *runOptions) {
	runOptions.sourceRetentionOptions = true
}

type withoutComments struct{}

func (withoutComments) applyBuildOption(buildOptions *buildOptions) {
	buildOptions.withoutComments = true
}

func (withoutComments) applyRunOption(runOptions *runOptions) {
	runOptions.withoutComments = true
}

func (withoutComments) applyMainOption(runOptions *runOptions) {
	runOptions.withoutComments = true
}

type versionOption struct {
	version string
}

func (v *versionOption) applyRunOption(runOptions *runOptions) {
	runOptions.version = v.version
}

func (v *versionOption) applyMainOption(runOptions *runOptions) {
	runOptions.version = v.version
}
