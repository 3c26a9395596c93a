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

package protopluginutil

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"slices"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/protoutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

const retentionProto = `syntax = "proto3";
package foo;
import "google/protobuf/descriptor.proto";
extend google.protobuf.MessageOptions {
  string tag = 50000 [retention = RETENTION_SOURCE];
  string kept = 50001;
}
extend google.protobuf.FieldOptions {
  string note = 50002 [retention = RETENTION_SOURCE];
}
message A {
  option (tag) = "x";
  string s = 1 [(note) = "y", deprecated = true];
}
message B {
  option (tag) = "x";
  option (kept) = "z";
}
message C {}
`

func TestStripSourceRetentionOptions(t *testing.T) {
	t.Parallel()

	file := compileRetentionProto(t)
	original := proto.Clone(file)
	require.True(t, hasLocationWithPrefix(file, 4, 0, 7))

	stripped, err := StripSourceRetentionOptions(file)
	require.NoError(t, err)
	require.NotSame(t, file, stripped)
	require.True(t, proto.Equal(original, file), "input must not be modified")

	messages := stripped.GetMessageType()
	require.Len(t, messages, 3)
	// All options of A are source-retention, so the options message is cleared.
	require.Nil(t, messages[0].GetOptions())
	require.False(t, hasLocationWithPrefix(stripped, 4, 0, 7))
	fieldOptions := messages[0].GetField()[0].GetOptions()
	require.NotNil(t, fieldOptions)
	require.True(t, fieldOptions.GetDeprecated())
	require.False(t, hasLocationWithPrefix(stripped, 4, 0, 2, 0, 8, 50002))
	// B keeps (kept) and drops (tag).
	optionsB := messages[1].GetOptions()
	require.NotNil(t, optionsB)
	require.False(t, hasLocationWithPrefix(stripped, 4, 1, 7, 50000))
	require.True(t, hasLocationWithPrefix(stripped, 4, 1, 7, 50001))
	require.Nil(t, messages[2].GetOptions())
	// Declarations are untouched.
	require.Len(t, stripped.GetExtension(), 3)
	require.True(t, hasLocationWithPrefix(stripped, 7, 0))
}

func TestStripSourceRetentionOptionsUnchanged(t *testing.T) {
	t.Parallel()

	file := &descriptorpb.FileDescriptorProto{
		Name: proto.String("a.proto"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:    proto.String("A"),
				Options: &descriptorpb.MessageOptions{Deprecated: proto.Bool(true)},
			},
		},
	}
	stripped, err := StripSourceRetentionOptions(file)
	require.NoError(t, err)
	require.Same(t, file, stripped)
}

func TestSourcePathTrie(t *testing.T) {
	t.Parallel()

	trie := &sourcePathTrie{}
	trie.addPath(sourcePath{4, 0, 7})
	require.True(t, trie.isRemoved([]int32{4, 0, 7}))
	require.True(t, trie.isRemoved([]int32{4, 0, 7, 50000}))
	require.False(t, trie.isRemoved([]int32{4, 0}))
	require.False(t, trie.isRemoved([]int32{4, 1, 7}))

	path := sourcePath{4, 0}
	first := path.push(7)
	second := path.push(2)
	require.Equal(t, sourcePath{4, 0, 7}, first)
	require.Equal(t, sourcePath{4, 0, 2}, second)
}

func compileRetentionProto(t *testing.T) *descriptorpb.FileDescriptorProto {
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(
			&protocompile.SourceResolver{
				Accessor: func(path string) (io.ReadCloser, error) {
					if path != "a.proto" {
						return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
					}
					return io.NopCloser(bytes.NewReader([]byte(retentionProto))), nil
				},
			},
		),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	files, err := compiler.Compile(context.Background(), "a.proto")
	require.NoError(t, err)
	require.Len(t, files, 1)
	return protoutil.ProtoFromFileDescriptor(files[0])
}

func hasLocationWithPrefix(file *descriptorpb.FileDescriptorProto, prefix ...int32) bool {
	for _, location := range file.GetSourceCodeInfo().GetLocation() {
		path := location.GetPath()
		if len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}
