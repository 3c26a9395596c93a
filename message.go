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
	"slices"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Message is a message declaration.
//
// Map entry messages synthesized for map fields are not returned by Messages or AllMessages.
// They are available through MapEntries, and are otherwise folded into the map Field variants.
type Message struct {
	descriptor         *descriptorpb.DescriptorProto
	fullyQualifiedName string
	container          Container
	file               *File

	messages []*Message
	// nested is indexed like DescriptorProto.nested_type, map entries included.
	nested     []*Message
	mapEntries []*Message
	maps       map[string]*Message

	enums             []*Enum
	fields            []Field
	oneofs            []*Oneof
	definedExtensions []*Extension
	appliedExtensions []*Extension

	dependents []*Message
	imports    []*File

	comments Comments
}

// Kind implements Node.
func (m *Message) Kind() NodeKind { return NodeKindMessage }

// Name implements Node.
func (m *Message) Name() Name { return Name(m.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (m *Message) FullyQualifiedName() string { return m.fullyQualifiedName }

// Nodes implements Node.
func (m *Message) Nodes() []Node {
	nodes := make([]Node, 0, len(m.enums)+len(m.messages)+len(m.fields)+len(m.oneofs)+len(m.definedExtensions))
	for _, enum := range m.enums {
		nodes = append(nodes, enum)
	}
	for _, message := range m.messages {
		nodes = append(nodes, message)
	}
	for _, field := range m.fields {
		nodes = append(nodes, field)
	}
	for _, oneof := range m.oneofs {
		nodes = append(nodes, oneof)
	}
	for _, extension := range m.definedExtensions {
		nodes = append(nodes, extension)
	}
	return nodes
}

// Container returns the File or Message this message is declared in.
func (m *Message) Container() Container { return m.container }

// File implements Container.
func (m *Message) File() *File { return m.file }

// Package implements Container.
func (m *Message) Package() *Package { return m.file.Package() }

// Syntax implements Container.
func (m *Message) Syntax() Syntax { return m.file.Syntax() }

// BuildTarget returns true if the message is declared in a build target.
func (m *Message) BuildTarget() bool { return m.file.BuildTarget() }

// Descriptor returns the underlying DescriptorProto.
func (m *Message) Descriptor() *descriptorpb.DescriptorProto { return m.descriptor }

// Comments returns the comments attached to the message.
func (m *Message) Comments() Comments { return m.comments }

// Messages implements Container.
func (m *Message) Messages() []*Message { return slices.Clone(m.messages) }

// AllMessages implements Container.
func (m *Message) AllMessages() []*Message { return allMessages(m) }

// MapEntries returns the synthetic map entry messages of the map fields of this message.
func (m *Message) MapEntries() []*Message { return slices.Clone(m.mapEntries) }

// MapEntry returns the map entry message with the given fully-qualified name.
func (m *Message) MapEntry(fullyQualifiedName string) (*Message, bool) {
	entry, ok := m.maps[normalizeFullyQualifiedName(fullyQualifiedName)]
	return entry, ok
}

// Enums implements Container.
func (m *Message) Enums() []*Enum { return slices.Clone(m.enums) }

// AllEnums implements Container.
func (m *Message) AllEnums() []*Enum { return allEnums(m) }

// Fields returns the fields of the message, in declaration order.
func (m *Message) Fields() []Field { return slices.Clone(m.fields) }

// Field returns the field with the given name.
func (m *Message) Field(name string) (Field, bool) {
	for _, field := range m.fields {
		if string(field.Name()) == name {
			return field, true
		}
	}
	return nil, false
}

// Oneofs returns all oneofs of the message, real and synthetic, in declaration order.
func (m *Message) Oneofs() []*Oneof { return slices.Clone(m.oneofs) }

// Oneof returns the oneof with the given name.
func (m *Message) Oneof(name string) (*Oneof, bool) {
	for _, oneof := range m.oneofs {
		if string(oneof.Name()) == name {
			return oneof, true
		}
	}
	return nil, false
}

// RealOneofs returns the oneofs declared by the user.
func (m *Message) RealOneofs() []*Oneof {
	var oneofs []*Oneof
	for _, oneof := range m.oneofs {
		if !oneof.IsSynthetic() {
			oneofs = append(oneofs, oneof)
		}
	}
	return oneofs
}

// SyntheticOneofs returns the oneofs generated for proto3 optional fields.
func (m *Message) SyntheticOneofs() []*Oneof {
	var oneofs []*Oneof
	for _, oneof := range m.oneofs {
		if oneof.IsSynthetic() {
			oneofs = append(oneofs, oneof)
		}
	}
	return oneofs
}

// DefinedExtensions implements Container.
func (m *Message) DefinedExtensions() []*Extension { return slices.Clone(m.definedExtensions) }

// AppliedExtensions returns the extensions that extend this message.
func (m *Message) AppliedExtensions() []*Extension { return slices.Clone(m.appliedExtensions) }

// Dependents returns the messages that have fields referencing this message.
func (m *Message) Dependents() []*Message { return slices.Clone(m.dependents) }

// Imports returns the files, other than the message's own file, declaring the types
// referenced by the fields of this message.
func (m *Message) Imports() []*File { return slices.Clone(m.imports) }

// IsMapEntry returns true if this is a synthetic map entry message.
func (m *Message) IsMapEntry() bool { return m.descriptor.GetOptions().GetMapEntry() }

// IsDeprecated returns true if the message is marked deprecated.
func (m *Message) IsDeprecated() bool { return m.descriptor.GetOptions().GetDeprecated() }

// IsWellKnownType returns true if the message is one of the well-known types.
func (m *Message) IsWellKnownType() bool {
	_, ok := m.WellKnownType()
	return ok
}

// WellKnownType returns the WellKnownType of the message, if any.
func (m *Message) WellKnownType() (WellKnownType, bool) {
	if !m.Package().IsWellKnown() {
		return "", false
	}
	return lookupWellKnownType(m.fullyQualifiedName, wellKnownMessages)
}

func (*Message) isNode()      {}
func (*Message) isContainer() {}

func (m *Message) addDependent(dependent *Message) {
	if dependent == m || slices.Contains(m.dependents, dependent) {
		return
	}
	m.dependents = append(m.dependents, dependent)
}

func (m *Message) addImport(file *File) {
	if file == m.file || slices.Contains(m.imports, file) {
		return
	}
	m.imports = append(m.imports, file)
}
