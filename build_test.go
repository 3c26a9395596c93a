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
	"context"
	"testing"

	"github.com/bufbuild/protoast/internal/protocompileutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func TestBuildEmbedAcrossFiles(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo; import "b.proto"; message A { B b = 1; }`,
			"b.proto": `syntax = "proto3"; package foo; message B {}`,
		},
		"a.proto",
	)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	b, ok := ast.Message("foo.B")
	require.True(t, ok)

	field, ok := a.Field("b")
	require.True(t, ok)
	embedField, ok := field.(*EmbedField)
	require.True(t, ok)
	require.Equal(t, FieldKindEmbed, embedField.FieldKind())
	require.Same(t, b, embedField.Embed())
	require.True(t, embedField.HasPresence())
	require.Equal(t, []*Message{a}, b.Dependents())
	require.Equal(t, []*File{b.File()}, a.Imports())

	aFile, ok := ast.File("a.proto")
	require.True(t, ok)
	bFile, ok := ast.File("b.proto")
	require.True(t, ok)
	require.True(t, aFile.BuildTarget())
	require.False(t, bFile.BuildTarget())
	require.Equal(t, []*File{bFile}, aFile.Imports())
	require.Equal(t, []*File{aFile}, bFile.Dependents())
	require.Equal(t, []*File{bFile}, aFile.UsedImports())
	require.Empty(t, aFile.UnusedImports())
	require.Equal(t, []*File{aFile}, ast.TargetFiles())

	pkg, ok := ast.Package("foo")
	require.True(t, ok)
	require.Equal(t, ".foo", pkg.FullyQualifiedName())
	require.Len(t, pkg.Files(), 2)
	require.Same(t, pkg, aFile.Package())
}

func TestBuildMap(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo;
enum E { E_UNSPECIFIED = 0; }
message V {}
message M {
  map<string, int32> counts = 3;
  map<int64, E> enums = 4;
  map<bool, V> values = 5;
}`,
		},
		"a.proto",
	)

	m, ok := ast.Message(".foo.M")
	require.True(t, ok)
	require.Empty(t, m.Messages())
	require.Len(t, m.MapEntries(), 3)
	for _, field := range m.Fields() {
		require.True(t, field.IsMap())
		require.False(t, field.IsRepeated())
		require.Equal(t, FieldKindMap, field.FieldKind())
		require.Implements(t, (*MapField)(nil), field)
	}

	node, ok := ast.Node(".foo.M.counts")
	require.True(t, ok)
	counts, ok := node.(*MappedScalarField)
	require.True(t, ok)
	require.Equal(t, int32(3), counts.Number())
	require.Equal(t, KeyString, counts.Key())
	require.Equal(t, ScalarInt32, counts.Scalar())
	require.Equal(t, ScalarInt32, counts.Value().ValueType().Scalar)
	require.True(t, counts.Entry().IsMapEntry())
	entry, ok := m.MapEntry(counts.Entry().FullyQualifiedName())
	require.True(t, ok)
	require.Same(t, counts.Entry(), entry)

	e, ok := ast.Enum(".foo.E")
	require.True(t, ok)
	enums, ok := m.Field("enums")
	require.True(t, ok)
	mappedEnum, ok := enums.(*MappedEnumField)
	require.True(t, ok)
	require.Equal(t, KeyInt64, mappedEnum.Key())
	require.Same(t, e, mappedEnum.Enum())
	require.Equal(t, []*Message{m}, e.Dependents())

	v, ok := ast.Message(".foo.V")
	require.True(t, ok)
	values, ok := m.Field("values")
	require.True(t, ok)
	mappedEmbed, ok := values.(*MappedEmbedField)
	require.True(t, ok)
	require.Equal(t, KeyBool, mappedEmbed.Key())
	require.Same(t, v, mappedEmbed.Embed())
	require.Equal(t, []*Message{m}, v.Dependents())
}

func TestBuildRepeated(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo;
enum E { E_UNSPECIFIED = 0; }
message A {
  repeated string names = 1;
  repeated E es = 2;
  repeated A children = 3;
  message Inner {}
  Inner inner = 4;
}`,
		},
		"a.proto",
	)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	fields := a.Fields()
	require.Len(t, fields, 4)
	_, ok = fields[0].(*RepeatedScalarField)
	require.True(t, ok)
	_, ok = fields[1].(*RepeatedEnumField)
	require.True(t, ok)
	children, ok := fields[2].(*RepeatedEmbedField)
	require.True(t, ok)
	require.Same(t, a, children.Embed())
	require.Implements(t, (*RepeatedField)(nil), children)
	require.False(t, children.HasPresence())
	// Self-references are not dependents.
	require.Empty(t, a.Dependents())

	inner, ok := fields[3].(*EmbedField)
	require.True(t, ok)
	require.Equal(t, ".foo.A.Inner", inner.Embed().FullyQualifiedName())
	require.Equal(t, []*Message{a}, inner.Embed().Dependents())
	require.Empty(t, a.Imports())
}

func TestBuildProto3Optional(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo;
message A {
  optional string s = 1;
  string plain = 2;
  oneof choice {
    string x = 3;
    int32 y = 4;
  }
}`,
		},
		"a.proto",
	)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)

	s, ok := a.Field("s")
	require.True(t, ok)
	oneofScalar, ok := s.(*OneofScalarField)
	require.True(t, ok)
	require.Equal(t, ScalarString, oneofScalar.Scalar())
	require.True(t, s.IsMarkedOptional())
	require.True(t, s.HasPresence())
	require.True(t, s.IsInOneof())
	require.False(t, s.IsInRealOneof())
	require.True(t, s.Oneof().IsSynthetic())
	require.Len(t, a.SyntheticOneofs(), 1)

	plain, ok := a.Field("plain")
	require.True(t, ok)
	_, ok = plain.(*ScalarField)
	require.True(t, ok)
	require.False(t, plain.HasPresence())

	choice, ok := a.Oneof("choice")
	require.True(t, ok)
	require.True(t, choice.IsReal())
	require.Equal(t, []*Oneof{choice}, a.RealOneofs())
	require.Len(t, choice.Fields(), 2)
	for _, field := range choice.Fields() {
		require.True(t, field.IsInRealOneof())
		require.Implements(t, (*OneofField)(nil), field)
	}
}

func TestBuildMissingType(t *testing.T) {
	t.Parallel()

	_, err := Build(
		[]*descriptorpb.FileDescriptorProto{
			{
				Name:    proto.String("a.proto"),
				Package: proto.String("foo"),
				Syntax:  proto.String("proto3"),
				MessageType: []*descriptorpb.DescriptorProto{
					{
						Name: proto.String("A"),
						Field: []*descriptorpb.FieldDescriptorProto{
							{
								Name:     proto.String("missing"),
								Number:   proto.Int32(1),
								Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
								Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
								TypeName: proto.String(".missing.Type"),
							},
						},
					},
				},
			},
		},
		[]string{"a.proto"},
	)
	var nodeNotFoundError *NodeNotFoundError
	require.ErrorAs(t, err, &nodeNotFoundError)
	require.Equal(t, ".missing.Type", nodeNotFoundError.FullyQualifiedName)
}

func TestBuildGroupNotSupported(t *testing.T) {
	t.Parallel()

	_, err := Build(
		[]*descriptorpb.FileDescriptorProto{
			{
				Name:    proto.String("a.proto"),
				Package: proto.String("foo"),
				MessageType: []*descriptorpb.DescriptorProto{
					{
						Name:       proto.String("A"),
						NestedType: []*descriptorpb.DescriptorProto{{Name: proto.String("G")}},
						Field: []*descriptorpb.FieldDescriptorProto{
							{
								Name:     proto.String("g"),
								Number:   proto.Int32(1),
								Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
								Type:     descriptorpb.FieldDescriptorProto_TYPE_GROUP.Enum(),
								TypeName: proto.String(".foo.A.G"),
							},
						},
					},
				},
			},
		},
		[]string{"a.proto"},
	)
	var groupNotSupportedError *GroupNotSupportedError
	require.ErrorAs(t, err, &groupNotSupportedError)
	require.Equal(t, ".foo.A.g", groupNotSupportedError.FullyQualifiedName)
}

func TestBuildDuplicateNode(t *testing.T) {
	t.Parallel()

	newFile := func(name string) *descriptorpb.FileDescriptorProto {
		return &descriptorpb.FileDescriptorProto{
			Name:        proto.String(name),
			Package:     proto.String("foo"),
			MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("A")}},
		}
	}
	_, err := Build(
		[]*descriptorpb.FileDescriptorProto{newFile("a.proto"), newFile("b.proto")},
		[]string{"a.proto"},
	)
	var duplicateNodeError *DuplicateNodeError
	require.ErrorAs(t, err, &duplicateNodeError)
	require.Equal(t, ".foo.A", duplicateNodeError.FullyQualifiedName)
	require.ErrorContains(t, err, "b.proto")
}

func TestBuildDependencyNotFound(t *testing.T) {
	t.Parallel()

	_, err := Build(
		[]*descriptorpb.FileDescriptorProto{
			{
				Name:       proto.String("a.proto"),
				Dependency: []string{"b.proto"},
			},
		},
		[]string{"a.proto"},
	)
	var dependencyNotFoundError *DependencyNotFoundError
	require.ErrorAs(t, err, &dependencyNotFoundError)
	require.Equal(t, "b.proto", dependencyNotFoundError.Dependency)
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()

	fileDescriptorProtos := []*descriptorpb.FileDescriptorProto{{Name: proto.String("a.proto")}}
	_, err := Build(fileDescriptorProtos, []string{"b.proto"})
	require.ErrorContains(t, err, `path "b.proto" is not contained within file`)
	_, err = Build(fileDescriptorProtos, []string{"a.proto", "a.proto"})
	require.ErrorContains(t, err, "duplicate path")
	_, err = Build([]*descriptorpb.FileDescriptorProto{{Name: proto.String("../a.proto")}}, nil)
	require.ErrorContains(t, err, "should not jump context")
	_, err = Build([]*descriptorpb.FileDescriptorProto{{Name: proto.String("a.txt")}}, nil)
	require.ErrorContains(t, err, ".proto file extension")
	_, err = Build([]*descriptorpb.FileDescriptorProto{{Name: proto.String("a.proto"), Syntax: proto.String("editions")}}, nil)
	require.ErrorIs(t, err, ErrUnknownSyntax)
}

func TestBuildExtension(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto2"; package foo;
message A {
  extensions 100 to 200;
}`,
			"b.proto": `syntax = "proto2"; package foo;
import "a.proto";
enum E { E_ZERO = 0; }
extend A {
  optional E e = 100;
}
message B {
  extend A {
    repeated string names = 101;
  }
}`,
		},
		"b.proto",
	)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	node, ok := ast.Node(".foo.e")
	require.True(t, ok)
	e, ok := node.(*Extension)
	require.True(t, ok)
	require.Same(t, a, e.Extendee())
	require.Equal(t, ".foo.E", e.Enum().FullyQualifiedName())
	require.Nil(t, e.Embed())
	require.Equal(t, int32(100), e.Number())

	node, ok = ast.Node(".foo.B.names")
	require.True(t, ok)
	names, ok := node.(*Extension)
	require.True(t, ok)
	require.True(t, names.IsRepeated())
	require.Equal(t, ".foo.B", names.Container().FullyQualifiedName())

	// Extensions declared within messages are added before the file-level ones.
	require.Equal(t, []*Extension{names, e}, a.AppliedExtensions())
	bFile, ok := ast.File("b.proto")
	require.True(t, ok)
	require.Equal(t, []*Extension{e}, bFile.DefinedExtensions())
	require.Len(t, bFile.UsedImports(), 1)
}

func TestBuildService(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo.v1;
message GetRequest {}
message GetResponse {}
service FooService {
  rpc Get(GetRequest) returns (GetResponse) {
    option idempotency_level = NO_SIDE_EFFECTS;
  }
  rpc Watch(GetRequest) returns (stream GetResponse);
}`,
		},
		"a.proto",
	)

	service, ok := ast.Service("foo.v1.FooService")
	require.True(t, ok)
	require.Len(t, service.Methods(), 2)
	get, ok := service.Method("Get")
	require.True(t, ok)
	require.Equal(t, ".foo.v1.GetRequest", get.Input().FullyQualifiedName())
	require.Equal(t, ".foo.v1.GetResponse", get.Output().FullyQualifiedName())
	idempotencyLevel, err := get.IdempotencyLevel()
	require.NoError(t, err)
	require.Equal(t, IdempotencyLevelNoSideEffects, idempotencyLevel)
	watch, ok := service.Method("Watch")
	require.True(t, ok)
	require.False(t, watch.ClientStreaming())
	require.True(t, watch.ServerStreaming())
	require.Same(t, service, watch.Service())
}

func TestBuildMissingMethodType(t *testing.T) {
	t.Parallel()

	_, err := Build(
		[]*descriptorpb.FileDescriptorProto{
			{
				Name:        proto.String("a.proto"),
				Package:     proto.String("foo"),
				MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("A")}},
				Service: []*descriptorpb.ServiceDescriptorProto{
					{
						Name: proto.String("S"),
						Method: []*descriptorpb.MethodDescriptorProto{
							{
								Name:       proto.String("Get"),
								InputType:  proto.String(".foo.A"),
								OutputType: proto.String(".foo.Missing"),
							},
						},
					},
				},
			},
		},
		[]string{"a.proto"},
	)
	var missingMethodError *MissingMethodError
	require.ErrorAs(t, err, &missingMethodError)
	require.Equal(t, "output", missingMethodError.Direction)
	require.Equal(t, ".foo.Missing", missingMethodError.TypeName)
}

func TestBuildUnusedImports(t *testing.T) {
	t.Parallel()

	var warnings []error
	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo; import "b.proto"; import "c.proto"; message A { C c = 1; }`,
			"b.proto": `syntax = "proto3"; package foo; message B {}`,
			"c.proto": `syntax = "proto3"; package foo; import public "d.proto";`,
			"d.proto": `syntax = "proto3"; package foo; message C {}`,
		},
		"a.proto",
		WithWarningHandler(func(err error) { warnings = append(warnings, err) }),
	)

	aFile, ok := ast.File("a.proto")
	require.True(t, ok)
	bFile, ok := ast.File("b.proto")
	require.True(t, ok)
	cFile, ok := ast.File("c.proto")
	require.True(t, ok)
	require.Equal(t, []*File{bFile}, aFile.UnusedImports())
	// The type is re-exported through the public import of c.proto.
	require.Equal(t, []*File{cFile}, aFile.UsedImports())
	require.Len(t, warnings, 1)
	require.EqualError(t, warnings[0], `a.proto: import "b.proto" is unused`)
	require.Len(t, cFile.PublicImports(), 1)
	require.Len(t, aFile.TransitiveImports(), 3)
}

func TestBuildWellKnownTypes(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo;
import "google/protobuf/timestamp.proto";
import "google/protobuf/struct.proto";
message A {
  google.protobuf.Timestamp created = 1;
  google.protobuf.NullValue null = 2;
  string name = 3;
}`,
		},
		"a.proto",
	)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	require.False(t, a.IsWellKnownType())
	created, ok := a.Field("created")
	require.True(t, ok)
	wellKnownType, ok := created.WellKnownType()
	require.True(t, ok)
	require.Equal(t, WellKnownTypeTimestamp, wellKnownType)
	null, ok := a.Field("null")
	require.True(t, ok)
	wellKnownType, ok = null.WellKnownType()
	require.True(t, ok)
	require.Equal(t, WellKnownTypeNullValue, wellKnownType)
	name, ok := a.Field("name")
	require.True(t, ok)
	require.False(t, name.IsWellKnownType())

	pkg, ok := ast.Package(WellKnownPackage)
	require.True(t, ok)
	require.True(t, pkg.IsWellKnown())
	require.Len(t, pkg.Files(), 2)
}

func TestBuildNodes(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto3"; package foo;
enum E { E_UNSPECIFIED = 0; E_ONE = 1; }
message A {
  message B {
    string b = 1;
  }
  map<string, B> bs = 1;
  oneof choice {
    string x = 2;
  }
}
service S {
  rpc Get(A) returns (A);
}`,
		},
		"a.proto",
	)

	file, ok := ast.File("a.proto")
	require.True(t, ok)
	var names []string
	iterator := AllNodes(file)
	for iterator.Next() {
		names = append(names, iterator.Node().FullyQualifiedName())
	}
	expected := []string{
		".foo.E",
		".foo.E.E_UNSPECIFIED",
		".foo.E.E_ONE",
		".foo.A",
		".foo.A.B",
		".foo.A.B.b",
		".foo.A.bs",
		".foo.A.x",
		".foo.A.choice",
		".foo.S",
		".foo.S.Get",
	}
	if diff := cmp.Diff(expected, names); diff != "" {
		t.Errorf("unexpected nodes (-want +got):\n%s", diff)
	}
	require.False(t, iterator.Next())
	require.Nil(t, iterator.Node())

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	require.Len(t, a.AllMessages(), 1)
	require.Len(t, file.AllMessages(), 2)
	require.Len(t, file.AllEnums(), 1)
}

func TestBuildFromRequest(t *testing.T) {
	t.Parallel()

	fileDescriptorProtos, _, err := protocompileutil.CompileMap(
		context.Background(),
		map[string][]byte{
			"a.proto": []byte(`syntax = "proto3"; package foo; message A {}`),
		},
	)
	require.NoError(t, err)
	request, err := NewRequest(newCodeGeneratorRequest(fileDescriptorProtos, []string{"a.proto"}))
	require.NoError(t, err)
	ast, err := BuildFromRequest(request)
	require.NoError(t, err)
	require.Equal(t, "5.27.1", ast.CompilerVersion().String())
	require.Len(t, ast.TargetFiles(), 1)

	_, err = BuildFromRequest(request, WithSourceRetentionOptions())
	require.ErrorContains(t, err, "source_file_descriptors not set")
}

func testBuild(t *testing.T, pathToContent map[string]string, target string, options ...BuildOption) *AST {
	pathToData := make(map[string][]byte, len(pathToContent))
	for path, content := range pathToContent {
		pathToData[path] = []byte(content)
	}
	fileDescriptorProtos, _, err := protocompileutil.CompileMap(context.Background(), pathToData)
	require.NoError(t, err)
	ast, err := Build(fileDescriptorProtos, []string{target}, options...)
	require.NoError(t, err)
	return ast
}

func TestBuildRelativeTypeNames(t *testing.T) {
	t.Parallel()

	newField := func(name string, number int32, fieldType descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			Number:   proto.Int32(number),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:     fieldType.Enum(),
			TypeName: proto.String(typeName),
		}
	}
	ast, err := Build(
		[]*descriptorpb.FileDescriptorProto{
			{
				Name:     proto.String("a.proto"),
				Package:  proto.String("foo"),
				Syntax:   proto.String("proto3"),
				EnumType: []*descriptorpb.EnumDescriptorProto{{Name: proto.String("E"), Value: []*descriptorpb.EnumValueDescriptorProto{{Name: proto.String("E_UNSPECIFIED"), Number: proto.Int32(0)}}}},
				MessageType: []*descriptorpb.DescriptorProto{
					{
						Name: proto.String("A"),
						NestedType: []*descriptorpb.DescriptorProto{
							{Name: proto.String("Inner")},
						},
						Field: []*descriptorpb.FieldDescriptorProto{
							newField("inner", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "Inner"),
							newField("e", 2, descriptorpb.FieldDescriptorProto_TYPE_ENUM, "E"),
							newField("qualified", 3, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "foo.A.Inner"),
						},
					},
				},
			},
		},
		[]string{"a.proto"},
	)
	require.NoError(t, err)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	inner, ok := a.Field("inner")
	require.True(t, ok)
	innerEmbed, ok := inner.(*EmbedField)
	require.True(t, ok)
	require.Equal(t, ".foo.A.Inner", innerEmbed.Embed().FullyQualifiedName())
	e, ok := a.Field("e")
	require.True(t, ok)
	enumField, ok := e.(*EnumField)
	require.True(t, ok)
	require.Equal(t, ".foo.E", enumField.Enum().FullyQualifiedName())
	qualified, ok := a.Field("qualified")
	require.True(t, ok)
	qualifiedEmbed, ok := qualified.(*EmbedField)
	require.True(t, ok)
	require.Same(t, innerEmbed.Embed(), qualifiedEmbed.Embed())
}

func TestBuildFieldOptions(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto2"; package foo;
message A {
  repeated int32 packed = 1 [packed = true, deprecated = true];
  optional int64 id = 2 [jstype = JS_STRING];
  optional string s = 3 [ctype = CORD];
  required string r = 4;
}`,
		},
		"a.proto",
	)

	a, ok := ast.Message(".foo.A")
	require.True(t, ok)
	packed, ok := a.Field("packed")
	require.True(t, ok)
	require.True(t, packed.IsPacked())
	require.True(t, packed.IsDeprecated())
	require.False(t, packed.IsLazy())
	require.Empty(t, packed.UninterpretedOptions())
	id, ok := a.Field("id")
	require.True(t, ok)
	jsType, err := id.JSType()
	require.NoError(t, err)
	require.Equal(t, JSTypeString, jsType)
	require.True(t, id.HasPresence())
	s, ok := a.Field("s")
	require.True(t, ok)
	cType, err := s.CType()
	require.NoError(t, err)
	require.Equal(t, CTypeCord, cType)
	r, ok := a.Field("r")
	require.True(t, ok)
	require.True(t, r.IsRequired())
}

func TestBuildGraphProperties(t *testing.T) {
	t.Parallel()

	ast := testBuild(
		t,
		map[string]string{
			"a.proto": `syntax = "proto2"; package a;
message Widget {
  optional string name = 1;
  extensions 100 to 200;
}`,
			"b.proto": `syntax = "proto3"; package b;
import "a.proto";
enum Status { STATUS_UNSPECIFIED = 0; STATUS_DONE = 1; }
message Order {
  a.Widget widget = 1;
  map<string, a.Widget> widgets = 2;
  repeated Status statuses = 3;
  optional string note = 4;
  oneof kind {
    a.Widget other = 5;
    Status status = 6;
  }
  message Line {
    map<int64, Status> by_id = 1;
  }
  repeated Line lines = 7;
}
service OrderService {
  rpc Get(Order) returns (a.Widget);
}`,
			"c.proto": `syntax = "proto2"; package c;
import "a.proto";
extend a.Widget {
  optional int32 weight = 100;
}`,
		},
		"b.proto",
	)

	b, ok := ast.File("b.proto")
	require.True(t, ok)
	a, ok := ast.File("a.proto")
	require.True(t, ok)
	require.Equal(t, []*File{a}, b.Imports())
	order, ok := ast.Message(".b.Order")
	require.True(t, ok)
	widget, ok := order.Field("widget")
	require.True(t, ok)
	embedField, ok := widget.(*EmbedField)
	require.True(t, ok)
	widgetNode, ok := ast.Node(".a.Widget")
	require.True(t, ok)
	require.Same(t, widgetNode, embedField.Embed())

	seen := make(map[string]Node)
	for _, pkg := range ast.Packages() {
		node, ok := ast.Node(pkg.FullyQualifiedName())
		require.True(t, ok)
		require.Same(t, pkg, node)
		iterator := AllNodes(pkg)
		for iterator.Next() {
			node := iterator.Node()
			if file, ok := node.(*File); ok {
				// Files share the name of their package and are looked up by path.
				byPath, ok := ast.File(file.Path())
				require.True(t, ok)
				require.Same(t, file, byPath)
				continue
			}
			fullyQualifiedName := node.FullyQualifiedName()
			_, duplicate := seen[fullyQualifiedName]
			require.False(t, duplicate, fullyQualifiedName)
			seen[fullyQualifiedName] = node
			lookedUp, ok := ast.Node(fullyQualifiedName)
			require.True(t, ok, fullyQualifiedName)
			require.Same(t, node, lookedUp, fullyQualifiedName)

			switch node := node.(type) {
			case *Message:
				require.False(t, node.IsMapEntry(), fullyQualifiedName)
				require.Equal(t, len(node.Oneofs()), len(node.RealOneofs())+len(node.SyntheticOneofs()))
				for _, oneof := range node.SyntheticOneofs() {
					fields := oneof.Fields()
					require.Len(t, fields, 1)
					require.False(t, fields[0].IsRepeated())
				}
			case Field:
				var target Node
				switch field := node.(type) {
				case interface{ Enum() *Enum }:
					target = field.Enum()
				case interface{ Embed() *Message }:
					target = field.Embed()
				default:
					continue
				}
				require.NotNil(t, target, fullyQualifiedName)
				resolved, ok := ast.Node(target.FullyQualifiedName())
				require.True(t, ok)
				require.Same(t, target, resolved)
				if _, ok := node.(MapField); !ok {
					require.Equal(t, node.Descriptor().GetTypeName(), target.FullyQualifiedName())
				}
			}
		}
	}
	for _, name := range []string{".a.Widget", ".b.Order.widgets", ".b.Order.Line.by_id", ".b.OrderService.Get", ".c.weight", ".b.Status.STATUS_DONE"} {
		require.Contains(t, seen, name)
	}
	require.NotContains(t, seen, ".b.Order.WidgetsEntry")
}
