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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/bufbuild/protoast/internal/protocompileutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

func TestBasic(t *testing.T) {
	t.Parallel()

	testBasic(
		t,
		[]string{
			"a.proto",
		},
		map[string][]byte{
			"a.proto": []byte(`syntax = "proto3"; package foo; import "b.proto"; message A1 { B b = 1; } message A2 {}`),
			"b.proto": []byte(`syntax = "proto3"; package foo; message B {}`),
		},
		GeneratorFunc(
			func(
				_ context.Context,
				_ GeneratorEnv,
				responseWriter *ResponseWriter,
				_ *Request,
				ast *AST,
			) error {
				for _, file := range ast.TargetFiles() {
					var lines []string
					for _, message := range file.Messages() {
						line := string(message.Name())
						for _, field := range message.Fields() {
							if embedField, ok := field.(*EmbedField); ok {
								line += " " + embedField.Embed().FullyQualifiedName()
							}
						}
						lines = append(lines, line)
					}
					responseWriter.AddFileFor(file, ".txt", strings.Join(lines, "\n")+"\n")
				}
				return nil
			},
		),
		map[string]string{
			"a.txt": "A1 .foo.B\nA2\n",
		},
	)
}

func TestWithVersionOption(t *testing.T) {
	t.Parallel()

	run := func(args []string, runOptions ...RunOption) (string, error) {
		stdout := bytes.NewBuffer(nil)
		err := Run(
			context.Background(),
			Env{
				Args:    args,
				Environ: nil,
				Stdin:   iotest.ErrReader(io.EOF),
				Stdout:  stdout,
				Stderr:  io.Discard,
			},
			GeneratorFunc(func(context.Context, GeneratorEnv, *ResponseWriter, *Request, *AST) error { return nil }),
			runOptions...,
		)
		return stdout.String(), err
	}

	var unknownArgumentsError *unknownArgumentsError
	_, err := run([]string{"--unsupported"})
	require.ErrorAs(t, err, &unknownArgumentsError)
	_, err = run([]string{"--unsupported"}, WithVersion("0.0.1"))
	require.ErrorAs(t, err, &unknownArgumentsError)
	_, err = run([]string{"--version"})
	require.ErrorAs(t, err, &unknownArgumentsError)
	_, err = run([]string{"--foo", "--bar"})
	require.ErrorAs(t, err, &unknownArgumentsError)

	out, err := run([]string{"--version"}, WithVersion("0.0.1"))
	require.NoError(t, err)
	require.Equal(t, "0.0.1\n", out)
}

func TestRunWarnings(t *testing.T) {
	t.Parallel()

	stderr := bytes.NewBuffer(nil)
	codeGeneratorResponse := testRun(
		t,
		[]string{"a.proto"},
		map[string][]byte{
			"a.proto": []byte(`syntax = "proto3"; package foo; import "b.proto"; message A {}`),
			"b.proto": []byte(`syntax = "proto3"; package foo; message B {}`),
		},
		GeneratorFunc(
			func(_ context.Context, _ GeneratorEnv, responseWriter *ResponseWriter, _ *Request, _ *AST) error {
				responseWriter.AddFile("./a.txt", "a")
				responseWriter.AddFile("a.txt", "b")
				return nil
			},
		),
		stderr,
	)
	require.Len(t, codeGeneratorResponse.GetFile(), 1)
	require.Equal(t, "a.txt", codeGeneratorResponse.GetFile()[0].GetName())
	require.Equal(t, "a", codeGeneratorResponse.GetFile()[0].GetContent())
	require.Contains(t, stderr.String(), `a.proto: import "b.proto" is unused`)
	require.Contains(t, stderr.String(), `generated file name "./a.txt" is not equal to "a.txt"`)
	require.Contains(t, stderr.String(), `duplicate generated file name "a.txt"`)
}

func TestRunSetError(t *testing.T) {
	t.Parallel()

	codeGeneratorResponse := testRun(
		t,
		[]string{"a.proto"},
		map[string][]byte{
			"a.proto": []byte(`syntax = "proto3"; package foo; message A {}`),
		},
		GeneratorFunc(
			func(_ context.Context, _ GeneratorEnv, responseWriter *ResponseWriter, _ *Request, ast *AST) error {
				responseWriter.SetFeatureProto3Optional()
				if _, ok := ast.Message(".foo.Missing"); !ok {
					responseWriter.SetError("foo.Missing is required")
				}
				return nil
			},
		),
		io.Discard,
	)
	require.Equal(t, "foo.Missing is required", codeGeneratorResponse.GetError())
	require.Equal(
		t,
		uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL),
		codeGeneratorResponse.GetSupportedFeatures(),
	)
}

func TestRunGeneratorError(t *testing.T) {
	t.Parallel()

	fileDescriptorProtos, _, err := protocompileutil.CompileMap(
		context.Background(),
		map[string][]byte{
			"a.proto": []byte(`syntax = "proto3"; package foo; message A {}`),
		},
	)
	require.NoError(t, err)
	data, err := proto.Marshal(newCodeGeneratorRequest(fileDescriptorProtos, []string{"a.proto"}))
	require.NoError(t, err)
	generatorErr := errors.New("generator failed")
	err = Run(
		context.Background(),
		Env{
			Stdin:  bytes.NewReader(data),
			Stdout: io.Discard,
			Stderr: io.Discard,
		},
		GeneratorFunc(func(context.Context, GeneratorEnv, *ResponseWriter, *Request, *AST) error { return generatorErr }),
	)
	require.ErrorIs(t, err, generatorErr)
}

func TestRunInvalidRequest(t *testing.T) {
	t.Parallel()

	data, err := proto.Marshal(&pluginpb.CodeGeneratorRequest{})
	require.NoError(t, err)
	err = Run(
		context.Background(),
		Env{
			Stdin:  bytes.NewReader(data),
			Stdout: io.Discard,
			Stderr: io.Discard,
		},
		GeneratorFunc(func(context.Context, GeneratorEnv, *ResponseWriter, *Request, *AST) error { return nil }),
	)
	require.EqualError(t, err, "CodeGeneratorRequest: proto_file: empty")
}

func TestResponseWriterEditions(t *testing.T) {
	t.Parallel()

	responseWriter := newResponseWriter(nil)
	responseWriter.SetFeatureSupportsEditions(descriptorpb.Edition_EDITION_2023, descriptorpb.Edition_EDITION_PROTO3)
	_, err := responseWriter.toCodeGeneratorResponse()
	require.ErrorContains(t, err, "is greater than maximum_edition")

	responseWriter = newResponseWriter(nil)
	responseWriter.SetFeatureSupportsEditions(descriptorpb.Edition_EDITION_PROTO3, descriptorpb.Edition_EDITION_2023)
	codeGeneratorResponse, err := responseWriter.toCodeGeneratorResponse()
	require.NoError(t, err)
	require.Equal(t, int32(descriptorpb.Edition_EDITION_2023), codeGeneratorResponse.GetMaximumEdition())
	_, err = responseWriter.toCodeGeneratorResponse()
	require.EqualError(t, err, "ResponseWriter cannot be reused")

	responseWriter = newResponseWriter(nil)
	responseWriter.SetSupportedFeatures(1 << 10)
	_, err = responseWriter.toCodeGeneratorResponse()
	require.ErrorContains(t, err, "unknown CodeGeneratorResponse.Features")
}

func testBasic(
	t *testing.T,
	fileToGenerate []string,
	pathToData map[string][]byte,
	generator Generator,
	expectedPathToContent map[string]string,
) {
	codeGeneratorResponse := testRun(t, fileToGenerate, pathToData, generator, io.Discard)
	require.Nil(t, codeGeneratorResponse.Error)

	pathToContent := make(map[string]string)
	for _, file := range codeGeneratorResponse.File {
		require.NotEmpty(t, file.GetName())
		pathToContent[file.GetName()] = file.GetContent()
	}

	require.Equal(t, expectedPathToContent, pathToContent)
}

func testRun(
	t *testing.T,
	fileToGenerate []string,
	pathToData map[string][]byte,
	generator Generator,
	stderr io.Writer,
) *pluginpb.CodeGeneratorResponse {
	ctx := context.Background()

	fileDescriptorProtos, _, err := protocompileutil.CompileMap(ctx, pathToData)
	require.NoError(t, err)

	codeGeneratorRequestData, err := proto.Marshal(newCodeGeneratorRequest(fileDescriptorProtos, fileToGenerate))
	require.NoError(t, err)

	stdin := bytes.NewReader(codeGeneratorRequestData)
	stdout := bytes.NewBuffer(nil)

	err = Run(
		ctx,
		Env{
			Args:    nil,
			Environ: nil,
			Stdin:   stdin,
			Stdout:  stdout,
			Stderr:  stderr,
		},
		generator,
	)
	require.NoError(t, err)

	codeGeneratorResponse := &pluginpb.CodeGeneratorResponse{}
	err = proto.Unmarshal(stdout.Bytes(), codeGeneratorResponse)
	require.NoError(t, err)
	return codeGeneratorResponse
}

func newCodeGeneratorRequest(
	fileDescriptorProtos []*descriptorpb.FileDescriptorProto,
	fileToGenerate []string,
) *pluginpb.CodeGeneratorRequest {
	return &pluginpb.CodeGeneratorRequest{
		FileToGenerate: fileToGenerate,
		ProtoFile:      fileDescriptorProtos,
		CompilerVersion: &pluginpb.Version{
			Major: proto.Int32(5),
			Minor: proto.Int32(27),
			Patch: proto.Int32(1),
		},
	}
}
