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
	"errors"
	"slices"
	"sync"

	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// Request is a validated CodeGeneratorRequest.
type Request struct {
	codeGeneratorRequest *pluginpb.CodeGeneratorRequest
	compilerVersion      *CompilerVersion

	getSourceFileDescriptorProtos func() map[string]*descriptorpb.FileDescriptorProto
}

// NewRequest returns a new Request for the CodeGeneratorRequest.
//
// The CodeGeneratorRequest is validated as part of construction:
//
//   - The CodeGeneratorRequest is not nil.
//   - file_to_generate and proto_file are non-empty.
//   - Each FileDescriptorProto in proto_file and source_file_descriptors has valid paths
//     as the name and dependency fields, and the names are unique.
//   - source_file_descriptors is either empty, or its names are exactly the values of file_to_generate.
//   - Each value of file_to_generate is a valid path with a corresponding value in proto_file.
//   - The major, minor, and patch versions of compiler_version are non-negative.
//
// Paths are considered valid if they are non-empty, relative, use '/' as the path separator, do not jump context,
// and have `.proto` as the file extension.
func NewRequest(codeGeneratorRequest *pluginpb.CodeGeneratorRequest) (*Request, error) {
	if err := validateCodeGeneratorRequest(codeGeneratorRequest); err != nil {
		return nil, err
	}
	compilerVersion, err := NewCompilerVersion(codeGeneratorRequest.GetCompilerVersion())
	if err != nil {
		return nil, err
	}
	return &Request{
		codeGeneratorRequest: codeGeneratorRequest,
		compilerVersion:      compilerVersion,
		getSourceFileDescriptorProtos: sync.OnceValue(func() map[string]*descriptorpb.FileDescriptorProto {
			sourceFileDescriptorProtos := make(map[string]*descriptorpb.FileDescriptorProto)
			for _, fileDescriptorProto := range codeGeneratorRequest.GetSourceFileDescriptors() {
				sourceFileDescriptorProtos[fileDescriptorProto.GetName()] = fileDescriptorProto
			}
			return sourceFileDescriptorProtos
		}),
	}, nil
}

// Parameter returns the value of the parameter field on the CodeGeneratorRequest.
func (r *Request) Parameter() string {
	return r.codeGeneratorRequest.GetParameter()
}

// FileToGenerate returns the paths of the build target files.
func (r *Request) FileToGenerate() []string {
	return slices.Clone(r.codeGeneratorRequest.GetFileToGenerate())
}

// FileDescriptorProtos returns the FileDescriptorProtos of all files, in the order of proto_file.
//
// If sourceRetentionOptions is true, the build target files are taken from source_file_descriptors,
// which retain source-retention options. An error is returned if source_file_descriptors is not
// populated.
func (r *Request) FileDescriptorProtos(sourceRetentionOptions bool) ([]*descriptorpb.FileDescriptorProto, error) {
	protoFiles := r.codeGeneratorRequest.GetProtoFile()
	if !sourceRetentionOptions {
		return slices.Clone(protoFiles), nil
	}
	if len(r.codeGeneratorRequest.GetSourceFileDescriptors()) == 0 {
		return nil, errors.New("source_file_descriptors not set on CodeGeneratorRequest but source-retention options requested - you likely need to upgrade your protobuf compiler")
	}
	sourceFileDescriptorProtos := r.getSourceFileDescriptorProtos()
	fileDescriptorProtos := make([]*descriptorpb.FileDescriptorProto, len(protoFiles))
	for i, protoFile := range protoFiles {
		if sourceFileDescriptorProto, ok := sourceFileDescriptorProtos[protoFile.GetName()]; ok {
			protoFile = sourceFileDescriptorProto
		}
		fileDescriptorProtos[i] = protoFile
	}
	return fileDescriptorProtos, nil
}

// CompilerVersion returns the compiler_version on the CodeGeneratorRequest, or nil if not present.
func (r *Request) CompilerVersion() *CompilerVersion {
	return r.compilerVersion
}

// CodeGeneratorRequest returns the underlying CodeGeneratorRequest.
//
// The returned CodeGeneratorRequest is not a copy - do not modify it!
func (r *Request) CodeGeneratorRequest() *pluginpb.CodeGeneratorRequest {
	return r.codeGeneratorRequest
}
