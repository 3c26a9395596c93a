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
	"testing"

	"github.com/stretchr/testify/require"
)

const commentsProto = `syntax = "proto3";

// Package foo.
package foo;

// A is a message.
message A {
  // f is a field.
  string f = 1; // f trailing.

  // c is a oneof.
  oneof c {
    string x = 2;
  }

  // Nested is nested.
  message Nested {
    // n is nested deeper.
    map<string, string> n = 1;
  }
}

// detached

// E is an enum.
enum E {
  // E_UNSPECIFIED is the zero value.
  E_UNSPECIFIED = 0;
}

// S is a service.
service S {
  // Get gets an A.
  rpc Get(A) returns (A);
}
`

func TestComments(t *testing.T) {
	t.Parallel()

	ast := testBuild(t, map[string]string{"a.proto": commentsProto}, "a.proto")

	pkg, ok := ast.Package("foo")
	require.True(t, ok)
	require.Equal(t, " Package foo.\n", pkg.Comments().Leading)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	require.Equal(t, " A is a message.\n", a.Comments().Leading)
	f, ok := a.Field("f")
	require.True(t, ok)
	require.Equal(t, " f is a field.\n", f.Comments().Leading)
	require.Equal(t, " f trailing.\n", f.Comments().Trailing)
	c, ok := a.Oneof("c")
	require.True(t, ok)
	require.Equal(t, " c is a oneof.\n", c.Comments().Leading)
	x, ok := a.Field("x")
	require.True(t, ok)
	require.True(t, x.Comments().IsEmpty())

	nested, ok := ast.Message(".foo.A.Nested")
	require.True(t, ok)
	require.Equal(t, " Nested is nested.\n", nested.Comments().Leading)
	n, ok := nested.Field("n")
	require.True(t, ok)
	require.True(t, n.IsMap())
	require.Equal(t, " n is nested deeper.\n", n.Comments().Leading)

	e, ok := ast.Enum(".foo.E")
	require.True(t, ok)
	require.Equal(t, " E is an enum.\n", e.Comments().Leading)
	require.Equal(t, []string{" detached\n"}, e.Comments().LeadingDetached)
	zero, ok := e.Value("E_UNSPECIFIED")
	require.True(t, ok)
	require.Equal(t, " E_UNSPECIFIED is the zero value.\n", zero.Comments().Leading)

	s, ok := ast.Service(".foo.S")
	require.True(t, ok)
	require.Equal(t, " S is a service.\n", s.Comments().Leading)
	get, ok := s.Method("Get")
	require.True(t, ok)
	require.Equal(t, " Get gets an A.\n", get.Comments().Leading)
}

func TestWithoutComments(t *testing.T) {
	t.Parallel()

	ast := testBuild(t, map[string]string{"a.proto": commentsProto}, "a.proto", WithoutComments())

	pkg, ok := ast.Package("foo")
	require.True(t, ok)
	require.True(t, pkg.Comments().IsEmpty())
	iterator := AllNodes(pkg)
	for iterator.Next() {
		switch node := iterator.Node().(type) {
		case *Message:
			require.True(t, node.Comments().IsEmpty())
		case *Enum:
			require.True(t, node.Comments().IsEmpty())
		case Field:
			require.True(t, node.Comments().IsEmpty())
		}
	}
}
