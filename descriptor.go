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

// Syntax is the syntax of a file.
type Syntax int

const (
	// SyntaxProto2 is proto2. Files with no syntax statement are proto2.
	SyntaxProto2 Syntax = iota + 1
	// SyntaxProto3 is proto3.
	SyntaxProto3
)

// ParseSyntax parses the syntax field of a FileDescriptorProto.
//
// Both "" and "proto2" map to SyntaxProto2, "proto3" maps to SyntaxProto3. Any other value
// results in an error wrapping ErrUnknownSyntax.
func ParseSyntax(syntax string) (Syntax, error) {
	switch syntax {
	case "", "proto2":
		return SyntaxProto2, nil
	case "proto3":
		return SyntaxProto3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSyntax, syntax)
	}
}

// String implements fmt.Stringer.
func (s Syntax) String() string {
	switch s {
	case SyntaxProto2:
		return "proto2"
	case SyntaxProto3:
		return "proto3"
	default:
		return fmt.Sprintf("Syntax(%d)", int(s))
	}
}

// Label is the cardinality label of a field.
type Label int

const (
	LabelOptional Label = iota + 1
	LabelRequired
	LabelRepeated
)

func newLabel(label descriptorpb.FieldDescriptorProto_Label) (Label, error) {
	switch label {
	case descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL:
		return LabelOptional, nil
	case descriptorpb.FieldDescriptorProto_LABEL_REQUIRED:
		return LabelRequired, nil
	case descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		return LabelRepeated, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidLabel, int32(label))
	}
}

// String implements fmt.Stringer.
func (l Label) String() string {
	switch l {
	case LabelOptional:
		return "optional"
	case LabelRequired:
		return "required"
	case LabelRepeated:
		return "repeated"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Scalar is the kind of a scalar field value.
type Scalar int

const (
	ScalarDouble Scalar = iota + 1
	ScalarFloat
	ScalarInt64
	ScalarUint64
	ScalarInt32
	ScalarFixed64
	ScalarFixed32
	ScalarBool
	ScalarString
	ScalarBytes
	ScalarUint32
	ScalarSfixed32
	ScalarSfixed64
	ScalarSint32
	ScalarSint64
)

var scalarNames = map[Scalar]string{
	ScalarDouble:   "double",
	ScalarFloat:    "float",
	ScalarInt64:    "int64",
	ScalarUint64:   "uint64",
	ScalarInt32:    "int32",
	ScalarFixed64:  "fixed64",
	ScalarFixed32:  "fixed32",
	ScalarBool:     "bool",
	ScalarString:   "string",
	ScalarBytes:    "bytes",
	ScalarUint32:   "uint32",
	ScalarSfixed32: "sfixed32",
	ScalarSfixed64: "sfixed64",
	ScalarSint32:   "sint32",
	ScalarSint64:   "sint64",
}

func newScalar(fieldType descriptorpb.FieldDescriptorProto_Type) (Scalar, error) {
	switch fieldType {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return ScalarDouble, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return ScalarFloat, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return ScalarInt64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return ScalarUint64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return ScalarInt32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return ScalarFixed64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return ScalarFixed32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return ScalarBool, nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return ScalarString, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return ScalarBytes, nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return ScalarUint32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return ScalarSfixed32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return ScalarSfixed64, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return ScalarSint32, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return ScalarSint64, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidScalar, int32(fieldType))
	}
}

// String implements fmt.Stringer.
func (s Scalar) String() string {
	if name, ok := scalarNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scalar(%d)", int(s))
}

// Key is the kind of a map key. Only integral, bool and string scalars are valid keys.
type Key int

const (
	KeyInt64 Key = iota + 1
	KeyUint64
	KeyInt32
	KeyFixed64
	KeyFixed32
	KeyBool
	KeyString
	KeyUint32
	KeySfixed32
	KeySfixed64
	KeySint32
	KeySint64
)

var scalarToKey = map[Scalar]Key{
	ScalarInt64:    KeyInt64,
	ScalarUint64:   KeyUint64,
	ScalarInt32:    KeyInt32,
	ScalarFixed64:  KeyFixed64,
	ScalarFixed32:  KeyFixed32,
	ScalarBool:     KeyBool,
	ScalarString:   KeyString,
	ScalarUint32:   KeyUint32,
	ScalarSfixed32: KeySfixed32,
	ScalarSfixed64: KeySfixed64,
	ScalarSint32:   KeySint32,
	ScalarSint64:   KeySint64,
}

func newKey(scalar Scalar) (Key, bool) {
	key, ok := scalarToKey[scalar]
	return key, ok
}

// Scalar returns the Scalar of the key.
func (k Key) Scalar() Scalar {
	for scalar, key := range scalarToKey {
		if key == k {
			return scalar
		}
	}
	return 0
}

// String implements fmt.Stringer.
func (k Key) String() string {
	if scalar := k.Scalar(); scalar != 0 {
		return scalar.String()
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// TypeKind is the kind of value a field holds.
type TypeKind int

const (
	TypeKindScalar TypeKind = iota + 1
	TypeKindEnum
	TypeKindMessage
	// TypeKindGroup is accepted when reading descriptors, but groups are not
	// supported anywhere else.
	TypeKindGroup
)

// String implements fmt.Stringer.
func (k TypeKind) String() string {
	switch k {
	case TypeKindScalar:
		return "scalar"
	case TypeKindEnum:
		return "enum"
	case TypeKindMessage:
		return "message"
	case TypeKindGroup:
		return "group"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// Type is the value type of a field.
//
// For TypeKindScalar, Scalar is set. For TypeKindEnum and TypeKindMessage, Name is the
// type name as written in the descriptor.
type Type struct {
	Kind   TypeKind
	Scalar Scalar
	Name   string
}

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t.Kind {
	case TypeKindScalar:
		return t.Scalar.String()
	case TypeKindEnum, TypeKindMessage, TypeKindGroup:
		return t.Kind.String() + " " + t.Name
	default:
		return t.Kind.String()
	}
}

// NewType returns the Type of the FieldDescriptorProto.
//
// Type codes outside of the known range result in an error wrapping ErrInvalidType.
func NewType(fieldDescriptorProto *descriptorpb.FieldDescriptorProto) (Type, error) {
	switch fieldType := fieldDescriptorProto.GetType(); fieldType {
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return Type{Kind: TypeKindEnum, Name: fieldDescriptorProto.GetTypeName()}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return Type{Kind: TypeKindMessage, Name: fieldDescriptorProto.GetTypeName()}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return Type{Kind: TypeKindGroup, Name: fieldDescriptorProto.GetTypeName()}, nil
	default:
		scalar, err := newScalar(fieldType)
		if err != nil {
			return Type{}, fmt.Errorf("%w: %d", ErrInvalidType, int32(fieldType))
		}
		return Type{Kind: TypeKindScalar, Scalar: scalar}, nil
	}
}

// CType is the ctype field option.
type CType int

const (
	CTypeString CType = iota + 1
	CTypeCord
	CTypeStringPiece
)

func newCType(ctype descriptorpb.FieldOptions_CType) (CType, error) {
	switch ctype {
	case descriptorpb.FieldOptions_STRING:
		return CTypeString, nil
	case descriptorpb.FieldOptions_CORD:
		return CTypeCord, nil
	case descriptorpb.FieldOptions_STRING_PIECE:
		return CTypeStringPiece, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidCType, int32(ctype))
	}
}

// JSType is the jstype field option.
type JSType int

const (
	JSTypeNormal JSType = iota + 1
	JSTypeString
	JSTypeNumber
)

func newJSType(jstype descriptorpb.FieldOptions_JSType) (JSType, error) {
	switch jstype {
	case descriptorpb.FieldOptions_JS_NORMAL:
		return JSTypeNormal, nil
	case descriptorpb.FieldOptions_JS_STRING:
		return JSTypeString, nil
	case descriptorpb.FieldOptions_JS_NUMBER:
		return JSTypeNumber, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidJSType, int32(jstype))
	}
}

// OptimizeMode is the optimize_for file option.
type OptimizeMode int

const (
	OptimizeModeSpeed OptimizeMode = iota + 1
	OptimizeModeCodeSize
	OptimizeModeLiteRuntime
)

func newOptimizeMode(mode descriptorpb.FileOptions_OptimizeMode) (OptimizeMode, error) {
	switch mode {
	case descriptorpb.FileOptions_SPEED:
		return OptimizeModeSpeed, nil
	case descriptorpb.FileOptions_CODE_SIZE:
		return OptimizeModeCodeSize, nil
	case descriptorpb.FileOptions_LITE_RUNTIME:
		return OptimizeModeLiteRuntime, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidOptimizeMode, int32(mode))
	}
}

// IdempotencyLevel is the idempotency_level method option.
type IdempotencyLevel int

const (
	IdempotencyLevelUnknown IdempotencyLevel = iota + 1
	IdempotencyLevelNoSideEffects
	IdempotencyLevelIdempotent
)

func newIdempotencyLevel(level descriptorpb.MethodOptions_IdempotencyLevel) (IdempotencyLevel, error) {
	switch level {
	case descriptorpb.MethodOptions_IDEMPOTENCY_UNKNOWN:
		return IdempotencyLevelUnknown, nil
	case descriptorpb.MethodOptions_NO_SIDE_EFFECTS:
		return IdempotencyLevelNoSideEffects, nil
	case descriptorpb.MethodOptions_IDEMPOTENT:
		return IdempotencyLevelIdempotent, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidIdempotencyLevel, int32(level))
	}
}

// isMarkedOptional returns true if the field was declared with the optional keyword.
//
// Under proto2 this is the optional label, under proto3 this is proto3_optional.
func isMarkedOptional(fieldDescriptorProto *descriptorpb.FieldDescriptorProto, syntax Syntax) bool {
	if syntax == SyntaxProto3 {
		return fieldDescriptorProto.GetProto3Optional()
	}
	return fieldDescriptorProto.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
}

// isRequired returns true only for proto2 fields with the required label.
func isRequired(fieldDescriptorProto *descriptorpb.FieldDescriptorProto, syntax Syntax) bool {
	return syntax == SyntaxProto2 &&
		fieldDescriptorProto.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
}
