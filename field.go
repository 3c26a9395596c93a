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

// FieldKind is the shape of a Field.
type FieldKind int

const (
	// FieldKindScalar is a singular scalar field, see *ScalarField.
	FieldKindScalar FieldKind = iota + 1
	// FieldKindEnum is a singular enum field, see *EnumField.
	FieldKindEnum
	// FieldKindEmbed is a singular message field, see *EmbedField.
	FieldKindEmbed
	// FieldKindMap is a map field, see MapField.
	FieldKindMap
	// FieldKindOneof is a member of a real or synthetic oneof, see OneofField.
	FieldKindOneof
	// FieldKindRepeated is a repeated field that is not a map, see RepeatedField.
	FieldKindRepeated
)

// String implements fmt.Stringer.
func (k FieldKind) String() string {
	switch k {
	case FieldKindScalar:
		return "scalar"
	case FieldKindEnum:
		return "enum"
	case FieldKindEmbed:
		return "embed"
	case FieldKindMap:
		return "map"
	case FieldKindOneof:
		return "oneof"
	case FieldKindRepeated:
		return "repeated"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field is a field of a Message.
//
// Field is a closed set. The concrete types are:
//
//   - *ScalarField, *EnumField, *EmbedField
//   - *MappedScalarField, *MappedEnumField, *MappedEmbedField
//   - *OneofScalarField, *OneofEnumField, *OneofEmbedField
//   - *RepeatedScalarField, *RepeatedEnumField, *RepeatedEmbedField
//
// Use a type switch to handle each shape:
//
//	switch field := field.(type) {
//	case *protoast.ScalarField:
//	  ...
//	case protoast.MapField:
//	  ...
//	}
type Field interface {
	Node

	// FieldKind returns the shape of the field.
	FieldKind() FieldKind
	// Number returns the field number.
	Number() int32
	// JSONName returns the JSON name of the field.
	JSONName() string
	// Message returns the message the field belongs to.
	Message() *Message
	// File returns the file the field is declared in.
	File() *File
	// Package returns the package of the field.
	Package() *Package
	// Syntax returns the syntax of the file the field is declared in.
	Syntax() Syntax
	// Comments returns the comments attached to the field.
	Comments() Comments
	// Descriptor returns the underlying FieldDescriptorProto.
	Descriptor() *descriptorpb.FieldDescriptorProto
	// Label returns the label of the field.
	Label() Label
	// ValueType returns the type of the value. For map fields, this is the type of the map value.
	ValueType() Type
	// IsRepeated returns true for repeated fields that are not maps.
	IsRepeated() bool
	// IsMap returns true for map fields.
	IsMap() bool
	// Oneof returns the oneof the field is a member of, or nil.
	Oneof() *Oneof
	// IsInOneof returns true if the field is a member of a real or synthetic oneof.
	IsInOneof() bool
	// IsInRealOneof returns true if the field is a member of a real oneof.
	IsInRealOneof() bool
	// HasPresence returns true if the field tracks whether it was set.
	//
	// This is true for proto2 singular scalar and enum fields, all singular message fields
	// and all oneof members, which includes proto3 optional fields. It is false for
	// repeated and map fields.
	HasPresence() bool
	// IsMarkedOptional returns true if the field was declared with the optional keyword.
	IsMarkedOptional() bool
	// IsRequired returns true if the field is a proto2 required field.
	IsRequired() bool
	// IsWellKnownType returns true if the resolved enum or message value is a well-known type.
	IsWellKnownType() bool
	// WellKnownType returns the well-known type of the resolved enum or message value.
	WellKnownType() (WellKnownType, bool)

	// CType returns the ctype option.
	CType() (CType, error)
	// IsPacked returns the packed option.
	IsPacked() bool
	// JSType returns the jstype option.
	JSType() (JSType, error)
	// IsLazy returns the lazy option.
	IsLazy() bool
	// IsDeprecated returns the deprecated option.
	IsDeprecated() bool
	// UninterpretedOptions returns the uninterpreted options.
	UninterpretedOptions() []*descriptorpb.UninterpretedOption

	// setValue sets the resolved enum or message of the field.
	//
	// Panics for fields with a scalar value.
	setValue(Node) error
	setComments(Comments)
	isField()
}

// MapField is a map field.
//
// The concrete types are *MappedScalarField, *MappedEnumField and *MappedEmbedField.
type MapField interface {
	Field

	// Key returns the kind of the map key.
	Key() Key
	// Entry returns the synthetic map entry message.
	Entry() *Message
	// Value returns the value field of the map entry message.
	Value() Field
}

// OneofField is a member of a oneof.
//
// The concrete types are *OneofScalarField, *OneofEnumField and *OneofEmbedField.
type OneofField interface {
	Field

	isOneofField()
}

// RepeatedField is a repeated field that is not a map.
//
// The concrete types are *RepeatedScalarField, *RepeatedEnumField and *RepeatedEmbedField.
type RepeatedField interface {
	Field

	isRepeatedField()
}

// *** PRIVATE ***

// fieldDetail is shared by all Field variants.
type fieldDetail struct {
	descriptor         *descriptorpb.FieldDescriptorProto
	fullyQualifiedName string
	message            *Message
	kind               FieldKind
	label              Label
	valueType          Type
	oneof              *Oneof
	comments           Comments
}

func (d *fieldDetail) Kind() NodeKind             { return NodeKindField }
func (d *fieldDetail) Name() Name                 { return Name(d.descriptor.GetName()) }
func (d *fieldDetail) FullyQualifiedName() string { return d.fullyQualifiedName }
func (d *fieldDetail) Nodes() []Node              { return nil }
func (d *fieldDetail) FieldKind() FieldKind       { return d.kind }
func (d *fieldDetail) Number() int32              { return d.descriptor.GetNumber() }
func (d *fieldDetail) JSONName() string           { return d.descriptor.GetJsonName() }
func (d *fieldDetail) Message() *Message          { return d.message }
func (d *fieldDetail) File() *File                { return d.message.File() }
func (d *fieldDetail) Package() *Package          { return d.message.Package() }
func (d *fieldDetail) Syntax() Syntax             { return d.message.Syntax() }
func (d *fieldDetail) Comments() Comments         { return d.comments }
func (d *fieldDetail) Label() Label               { return d.label }
func (d *fieldDetail) ValueType() Type            { return d.valueType }
func (d *fieldDetail) IsRepeated() bool           { return d.kind == FieldKindRepeated }
func (d *fieldDetail) IsMap() bool                { return d.kind == FieldKindMap }
func (d *fieldDetail) Oneof() *Oneof              { return d.oneof }
func (d *fieldDetail) IsInOneof() bool            { return d.oneof != nil }

func (d *fieldDetail) Descriptor() *descriptorpb.FieldDescriptorProto {
	return d.descriptor
}

func (d *fieldDetail) IsInRealOneof() bool {
	return d.oneof != nil && d.oneof.IsReal()
}

func (d *fieldDetail) HasPresence() bool {
	switch d.kind {
	case FieldKindOneof, FieldKindEmbed:
		return true
	case FieldKindScalar, FieldKindEnum:
		return d.Syntax() == SyntaxProto2 || d.IsMarkedOptional()
	default:
		return false
	}
}

func (d *fieldDetail) IsMarkedOptional() bool {
	return isMarkedOptional(d.descriptor, d.Syntax())
}

func (d *fieldDetail) IsRequired() bool {
	return isRequired(d.descriptor, d.Syntax())
}

func (d *fieldDetail) CType() (CType, error) {
	return newCType(d.descriptor.GetOptions().GetCtype())
}

func (d *fieldDetail) IsPacked() bool {
	return d.descriptor.GetOptions().GetPacked()
}

func (d *fieldDetail) JSType() (JSType, error) {
	return newJSType(d.descriptor.GetOptions().GetJstype())
}

func (d *fieldDetail) IsLazy() bool {
	return d.descriptor.GetOptions().GetLazy()
}

func (d *fieldDetail) IsDeprecated() bool {
	return d.descriptor.GetOptions().GetDeprecated()
}

func (d *fieldDetail) UninterpretedOptions() []*descriptorpb.UninterpretedOption {
	return d.descriptor.GetOptions().GetUninterpretedOption()
}

func (d *fieldDetail) setComments(comments Comments) { d.comments = comments }
func (*fieldDetail) isNode()                         {}
func (*fieldDetail) isField()                        {}
