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

import (
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Build builds the AST for the FileDescriptorProtos.
//
// The FileDescriptorProtos must contain every file that is imported, and the targets must
// name the files that are build targets. This mirrors the proto_file and file_to_generate
// fields of a CodeGeneratorRequest.
//
// Build validates that:
//
//   - Each FileDescriptorProto is non-nil and has a valid path as the name and dependency fields.
//   - The names of the FileDescriptorProtos are unique.
//   - Each target is a valid path, is unique, and names one of the FileDescriptorProtos.
//
// Paths are considered valid if they are non-empty, relative, use '/' as the path separator, do not jump context,
// and have `.proto` as the file extension.
//
// The first error encountered is returned, and no AST is returned with it. Errors are wrapped with
// the path of the file that produced them. Use errors.As to get the underlying error, for example
// *NodeNotFoundError.
func Build(
	fileDescriptorProtos []*descriptorpb.FileDescriptorProto,
	targets []string,
	options ...BuildOption,
) (*AST, error) {
	buildOptions := newBuildOptions()
	for _, option := range options {
		option.applyBuildOption(buildOptions)
	}
	return build(fileDescriptorProtos, targets, buildOptions)
}

// BuildFromFileDescriptorSet builds the AST for the files in the FileDescriptorSet.
//
// See Build for the requirements on the files and targets.
func BuildFromFileDescriptorSet(
	fileDescriptorSet *descriptorpb.FileDescriptorSet,
	targets []string,
	options ...BuildOption,
) (*AST, error) {
	return Build(fileDescriptorSet.GetFile(), targets, options...)
}

// BuildFromRequest builds the AST for the files in the Request.
//
// The files of file_to_generate are the build targets. If WithSourceRetentionOptions is given,
// the build targets are read from source_file_descriptors.
func BuildFromRequest(request *Request, options ...BuildOption) (*AST, error) {
	buildOptions := newBuildOptions()
	for _, option := range options {
		option.applyBuildOption(buildOptions)
	}
	return buildFromRequest(request, buildOptions)
}

// *** PRIVATE ***

func buildFromRequest(request *Request, buildOptions *buildOptions) (*AST, error) {
	fileDescriptorProtos, err := request.FileDescriptorProtos(buildOptions.sourceRetentionOptions)
	if err != nil {
		return nil, err
	}
	ast, err := build(fileDescriptorProtos, request.FileToGenerate(), buildOptions)
	if err != nil {
		return nil, err
	}
	ast.compilerVersion = request.CompilerVersion()
	return ast, nil
}

func build(
	fileDescriptorProtos []*descriptorpb.FileDescriptorProto,
	targets []string,
	buildOptions *buildOptions,
) (*AST, error) {
	if err := validateFileDescriptorProtos(fileDescriptorProtos, targets); err != nil {
		return nil, err
	}
	targetMap := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		targetMap[target] = struct{}{}
	}
	builder := newBuilder()
	for _, fileDescriptorProto := range fileDescriptorProtos {
		_, buildTarget := targetMap[fileDescriptorProto.GetName()]
		if err := builder.addFile(fileDescriptorProto, buildTarget); err != nil {
			return nil, fmt.Errorf("%s: %w", fileDescriptorProto.GetName(), err)
		}
	}
	if err := builder.resolve(); err != nil {
		return nil, err
	}
	if warningHandlerFunc := buildOptions.warningHandlerFunc; warningHandlerFunc != nil {
		for _, file := range builder.files() {
			if !file.BuildTarget() {
				continue
			}
			for _, unused := range file.UnusedImports() {
				warningHandlerFunc(newUnusedImportError(file.Path(), unused.Path()))
			}
		}
	}
	if !buildOptions.withoutComments {
		for _, file := range builder.files() {
			attachComments(file)
		}
	}
	return builder.ast(), nil
}
