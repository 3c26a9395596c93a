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

// Package protocompileutil compiles .proto sources into FileDescriptorProtos.
//
// The result has the shape of the proto_file field of a CodeGeneratorRequest: every file
// that is transitively imported, with dependencies before the files that import them, and
// without source-retention options unless WithSourceRetentionOptions is given.
package protocompileutil

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sort"

	"github.com/bufbuild/protoast/internal/protopluginutil"
	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/protoutil"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// CompileOption is an option for Compile, CompileDirs and CompileMap.
type CompileOption interface {
	applyCompileOption(compileOptions *compileOptions)
}

// WithSourceRetentionOptions returns a new CompileOption that keeps the options declared
// with retention = RETENTION_SOURCE, as in the source_file_descriptors field of a
// CodeGeneratorRequest.
func WithSourceRetentionOptions() CompileOption {
	return withSourceRetentionOptions{}
}

// Compile compiles the files at the given paths with the Resolver.
//
// The standard imports, for example google/protobuf/timestamp.proto, are always available.
// Source code info is included, so that comments can be attached.
func Compile(
	ctx context.Context,
	resolver protocompile.Resolver,
	paths []string,
	options ...CompileOption,
) ([]*descriptorpb.FileDescriptorProto, error) {
	compileOptions := newCompileOptions()
	for _, option := range options {
		option.applyCompileOption(compileOptions)
	}
	compiler := protocompile.Compiler{
		Resolver:       protocompile.WithStandardImports(resolver),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	files, err := compiler.Compile(ctx, paths...)
	if err != nil {
		return nil, err
	}
	var fileDescriptorProtos []*descriptorpb.FileDescriptorProto
	seen := make(map[string]struct{})
	for _, file := range files {
		fileDescriptorProtos, err = appendClosure(fileDescriptorProtos, seen, file, compileOptions)
		if err != nil {
			return nil, err
		}
	}
	return fileDescriptorProtos, nil
}

// CompileDirs compiles the files at the given paths, relative to the import directories.
func CompileDirs(
	ctx context.Context,
	importDirs []string,
	paths []string,
	options ...CompileOption,
) ([]*descriptorpb.FileDescriptorProto, error) {
	return Compile(ctx, &protocompile.SourceResolver{ImportPaths: importDirs}, paths, options...)
}

// CompileMap compiles all files in the map from path to file content.
//
// The files are compiled in sorted order of their paths, and the sorted paths are returned
// alongside the FileDescriptorProtos.
func CompileMap(
	ctx context.Context,
	pathToData map[string][]byte,
	options ...CompileOption,
) ([]*descriptorpb.FileDescriptorProto, []string, error) {
	resolver := &protocompile.SourceResolver{
		Accessor: func(path string) (io.ReadCloser, error) {
			data, ok := pathToData[path]
			if !ok {
				return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
	paths := make([]string, 0, len(pathToData))
	for path := range pathToData {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	fileDescriptorProtos, err := Compile(ctx, resolver, paths, options...)
	if err != nil {
		return nil, nil, err
	}
	return fileDescriptorProtos, paths, nil
}

// *** PRIVATE ***

func appendClosure(
	fileDescriptorProtos []*descriptorpb.FileDescriptorProto,
	seen map[string]struct{},
	file protoreflect.FileDescriptor,
	compileOptions *compileOptions,
) ([]*descriptorpb.FileDescriptorProto, error) {
	if _, ok := seen[file.Path()]; ok {
		return fileDescriptorProtos, nil
	}
	seen[file.Path()] = struct{}{}
	imports := file.Imports()
	for i := 0; i < imports.Len(); i++ {
		var err error
		fileDescriptorProtos, err = appendClosure(fileDescriptorProtos, seen, imports.Get(i).FileDescriptor, compileOptions)
		if err != nil {
			return nil, err
		}
	}
	fileDescriptorProto := protoutil.ProtoFromFileDescriptor(file)
	if !compileOptions.sourceRetentionOptions {
		var err error
		fileDescriptorProto, err = protopluginutil.StripSourceRetentionOptions(fileDescriptorProto)
		if err != nil {
			return nil, err
		}
	}
	return append(fileDescriptorProtos, fileDescriptorProto), nil
}

type compileOptions struct {
	sourceRetentionOptions bool
}

func newCompileOptions() *compileOptions {
	return &compileOptions{}
}

type withSourceRetentionOptions struct{}

func (withSourceRetentionOptions) applyCompileOption(compileOptions *compileOptions) {
	compileOptions.sourceRetentionOptions = true
}
