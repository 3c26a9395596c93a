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
	"google.golang.org/protobuf/types/descriptorpb"
)

// Extension is an extension field declaration.
//
// An Extension is a child of the File or Message it is declared in. It is also listed in the
// AppliedExtensions of the Message it extends.
type Extension struct {
	descriptor         *descriptorpb.FieldDescriptorProto
	fullyQualifiedName string
	container          Container
	file               *File
	label              Label
	valueType          Type

	extendee *Message
	enum     *Enum
	embed    *Message

	comments Comments
}

// Kind implements Node.
func (e *Extension) Kind() NodeKind { return NodeKindExtension }

// Name implements Node.
func (e *Extension) Name() Name { return Name(e.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (e *Extension) FullyQualifiedName() string { return e.fullyQualifiedName }

// Nodes implements Node.
func (e *Extension) Nodes() []Node { return nil }

// Container returns the File or Message the extension is declared in.
func (e *Extension) Container() Container { return e.container }

// File returns the file the extension is declared in.
func (e *Extension) File() *File { return e.file }

// Package returns the package of the extension.
func (e *Extension) Package() *Package { return e.file.Package() }

// Descriptor returns the underlying FieldDescriptorProto.
func (e *Extension) Descriptor() *descriptorpb.FieldDescriptorProto { return e.descriptor }

// Comments returns the comments attached to the extension.
func (e *Extension) Comments() Comments { return e.comments }

// Number returns the field number of the extension.
func (e *Extension) Number() int32 { return e.descriptor.GetNumber() }

// JSONName returns the JSON name of the extension.
func (e *Extension) JSONName() string { return e.descriptor.GetJsonName() }

// Label returns the label of the extension.
func (e *Extension) Label() Label { return e.label }

// ValueType returns the value type of the extension.
func (e *Extension) ValueType() Type { return e.valueType }

// IsRepeated returns true if the extension is repeated.
func (e *Extension) IsRepeated() bool { return e.label == LabelRepeated }

// Extendee returns the message this extension extends.
func (e *Extension) Extendee() *Message { return e.extendee }

// Enum returns the resolved enum if the value type is an enum, and nil otherwise.
func (e *Extension) Enum() *Enum { return e.enum }

// Embed returns the resolved message if the value type is a message, and nil otherwise.
func (e *Extension) Embed() *Message { return e.embed }

// IsDeprecated returns true if the extension is marked deprecated.
func (e *Extension) IsDeprecated() bool { return e.descriptor.GetOptions().GetDeprecated() }

func (*Extension) isNode() {}

func (e *Extension) setValue(node Node) error {
	switch node := node.(type) {
	case *Enum:
		if e.valueType.Kind == TypeKindEnum {
			e.enum = node
			return nil
		}
	case *Message:
		if e.valueType.Kind == TypeKindMessage {
			e.embed = node
			return nil
		}
	}
	expected := NodeKindMessage
	if e.valueType.Kind == TypeKindEnum {
		expected = NodeKindEnum
	}
	return &InvalidNodeError{
		FullyQualifiedName: node.FullyQualifiedName(),
		Expected:           []NodeKind{expected},
		Actual:             node.Kind(),
	}
}
