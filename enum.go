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

// Enum is an enum declaration.
type Enum struct {
	descriptor         *descriptorpb.EnumDescriptorProto
	fullyQualifiedName string
	container          Container
	file               *File
	values             []*EnumValue
	dependents         []*Message
	comments           Comments
}

// Kind implements Node.
func (e *Enum) Kind() NodeKind { return NodeKindEnum }

// Name implements Node.
func (e *Enum) Name() Name { return Name(e.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (e *Enum) FullyQualifiedName() string { return e.fullyQualifiedName }

// Nodes implements Node.
func (e *Enum) Nodes() []Node {
	nodes := make([]Node, len(e.values))
	for i, value := range e.values {
		nodes[i] = value
	}
	return nodes
}

// Container returns the File or Message this enum is declared in.
func (e *Enum) Container() Container { return e.container }

// File returns the file this enum is declared in.
func (e *Enum) File() *File { return e.file }

// Package returns the package of the enum.
func (e *Enum) Package() *Package { return e.file.Package() }

// Syntax returns the syntax of the file the enum is declared in.
func (e *Enum) Syntax() Syntax { return e.file.Syntax() }

// BuildTarget returns true if the enum is declared in a build target.
func (e *Enum) BuildTarget() bool { return e.file.BuildTarget() }

// Descriptor returns the underlying EnumDescriptorProto.
func (e *Enum) Descriptor() *descriptorpb.EnumDescriptorProto { return e.descriptor }

// Comments returns the comments attached to the enum.
func (e *Enum) Comments() Comments { return e.comments }

// Values returns the values of the enum, in declaration order.
func (e *Enum) Values() []*EnumValue { return slices.Clone(e.values) }

// Value returns the value with the given name.
func (e *Enum) Value(name string) (*EnumValue, bool) {
	for _, value := range e.values {
		if string(value.Name()) == name {
			return value, true
		}
	}
	return nil, false
}

// Dependents returns the messages that have fields referencing this enum.
func (e *Enum) Dependents() []*Message { return slices.Clone(e.dependents) }

// AllowAlias returns true if multiple values may share a number.
func (e *Enum) AllowAlias() bool { return e.descriptor.GetOptions().GetAllowAlias() }

// IsDeprecated returns true if the enum is marked deprecated.
func (e *Enum) IsDeprecated() bool { return e.descriptor.GetOptions().GetDeprecated() }

// IsWellKnownType returns true if the enum is one of the well-known enums.
func (e *Enum) IsWellKnownType() bool {
	_, ok := e.WellKnownType()
	return ok
}

// WellKnownType returns the WellKnownType of the enum, if any.
func (e *Enum) WellKnownType() (WellKnownType, bool) {
	if !e.Package().IsWellKnown() {
		return "", false
	}
	return lookupWellKnownType(e.fullyQualifiedName, wellKnownEnums)
}

func (*Enum) isNode() {}

func (e *Enum) addDependent(dependent *Message) {
	if slices.Contains(e.dependents, dependent) {
		return
	}
	e.dependents = append(e.dependents, dependent)
}

// EnumValue is a single value of an enum.
type EnumValue struct {
	descriptor         *descriptorpb.EnumValueDescriptorProto
	fullyQualifiedName string
	enum               *Enum
	comments           Comments
}

// Kind implements Node.
func (e *EnumValue) Kind() NodeKind { return NodeKindEnumValue }

// Name implements Node.
func (e *EnumValue) Name() Name { return Name(e.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (e *EnumValue) FullyQualifiedName() string { return e.fullyQualifiedName }

// Nodes implements Node.
func (e *EnumValue) Nodes() []Node { return nil }

// Number returns the numeric value. Numbers are unique within an Enum unless AllowAlias is set.
func (e *EnumValue) Number() int32 { return e.descriptor.GetNumber() }

// Enum returns the enum this value belongs to.
func (e *EnumValue) Enum() *Enum { return e.enum }

// File returns the file this value is declared in.
func (e *EnumValue) File() *File { return e.enum.File() }

// Descriptor returns the underlying EnumValueDescriptorProto.
func (e *EnumValue) Descriptor() *descriptorpb.EnumValueDescriptorProto { return e.descriptor }

// Comments returns the comments attached to the value.
func (e *EnumValue) Comments() Comments { return e.comments }

// IsDeprecated returns true if the value is marked deprecated.
func (e *EnumValue) IsDeprecated() bool { return e.descriptor.GetOptions().GetDeprecated() }

func (*EnumValue) isNode() {}
