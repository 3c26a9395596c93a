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
	"strings"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// ResponseWriter is used by implementations of Generator to construct the CodeGeneratorResponse.
//
// A ResponseWriter is safe for concurrent use.
type ResponseWriter struct {
	codeGeneratorResponse *pluginpb.CodeGeneratorResponse
	written               bool
	warningHandlerFunc    func(error)

	lock sync.Mutex
}

// AddFile adds the file with the given content to the response.
//
// The plugin will exit with a non-zero exit code if the name is an invalid path.
// Paths are considered valid if they are non-empty, relative, use '/' as the path separator, and do not jump context.
//
// If a file with the same name was already added, or the file name is not cleaned, a warning will be produced.
func (r *ResponseWriter) AddFile(name string, content string) {
	r.AddCodeGeneratorResponseFiles(
		&pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(name),
			Content: proto.String(content),
		},
	)
}

// AddFileFor adds a file generated for the given .proto file to the response.
//
// The name of the generated file is the path of the .proto file with the .proto extension
// replaced by suffix, for example "foo/v1/foo.proto" and ".txt" result in "foo/v1/foo.txt".
func (r *ResponseWriter) AddFileFor(file *File, suffix string, content string) {
	r.AddFile(strings.TrimSuffix(file.Path(), ".proto")+suffix, content)
}

// AddCodeGeneratorResponseFiles adds the CodeGeneratorResponse.Files to the response.
//
// If you are just adding file content, use the simpler AddFile. This function is for lower-level
// access, for example to use insertion points.
func (r *ResponseWriter) AddCodeGeneratorResponseFiles(files ...*pluginpb.CodeGeneratorResponse_File) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.codeGeneratorResponse.File = append(r.codeGeneratorResponse.GetFile(), files...)
}

// SetError sets the error message on the response.
//
// Use SetError for errors in the input .proto files, for example a missing option. Errors of the
// plugin itself should be returned from the Generator, which results in a non-zero exit code.
//
// An existing error message is overwritten. Empty messages are ignored.
func (r *ResponseWriter) SetError(message string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	// plugin.proto specifies that only non-empty errors are considered errors.
	if message == "" {
		return
	}
	r.codeGeneratorResponse.Error = proto.String(message)
}

// SetFeatureProto3Optional sets the FEATURE_PROTO3_OPTIONAL feature on the response.
func (r *ResponseWriter) SetFeatureProto3Optional() {
	r.addSupportedFeatures(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL))
}

// SetFeatureSupportsEditions sets the FEATURE_SUPPORTS_EDITIONS feature on the response along
// with the given min and max editions.
//
// The plugin will exit with a non-zero exit code if the minimum edition is greater than the maximum edition.
func (r *ResponseWriter) SetFeatureSupportsEditions(
	minimumEdition descriptorpb.Edition,
	maximumEdition descriptorpb.Edition,
) {
	r.addSupportedFeatures(uint64(pluginpb.CodeGeneratorResponse_FEATURE_SUPPORTS_EDITIONS))

	r.lock.Lock()
	defer r.lock.Unlock()

	r.codeGeneratorResponse.MinimumEdition = proto.Int32(int32(minimumEdition))
	r.codeGeneratorResponse.MaximumEdition = proto.Int32(int32(maximumEdition))
}

// SetSupportedFeatures sets the given features on the response, overwriting existing features.
//
// If the features are not represented in the known CodeGeneratorResponse.Features,
// the plugin will exit with a non-zero exit code.
func (r *ResponseWriter) SetSupportedFeatures(supportedFeatures uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if supportedFeatures == 0 {
		r.codeGeneratorResponse.SupportedFeatures = nil
		return
	}
	r.codeGeneratorResponse.SupportedFeatures = proto.Uint64(supportedFeatures)
}

// *** PRIVATE ***

func newResponseWriter(warningHandlerFunc func(error)) *ResponseWriter {
	return &ResponseWriter{
		codeGeneratorResponse: &pluginpb.CodeGeneratorResponse{},
		warningHandlerFunc:    warningHandlerFunc,
	}
}

func (r *ResponseWriter) addSupportedFeatures(supportedFeatures uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.codeGeneratorResponse.SupportedFeatures = proto.Uint64(r.codeGeneratorResponse.GetSupportedFeatures() | supportedFeatures)
}

func (r *ResponseWriter) toCodeGeneratorResponse() (*pluginpb.CodeGeneratorResponse, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	// The response is modified by validateAndNormalizeCodeGeneratorResponse.
	if r.written {
		return nil, errors.New("ResponseWriter cannot be reused")
	}
	r.written = true

	if err := validateAndNormalizeCodeGeneratorResponse(r.codeGeneratorResponse, r.warningHandlerFunc); err != nil {
		return nil, err
	}
	return r.codeGeneratorResponse, nil
}
