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

// Oneof is a oneof declaration.
//
// A synthetic oneof is generated by the compiler for each proto3 optional field in order to
// track presence. It always has exactly one member.
type Oneof struct {
	descriptor         *descriptorpb.OneofDescriptorProto
	fullyQualifiedName string
	message            *Message
	synthetic          bool
	fields             []Field
	comments           Comments
}

// Kind implements Node.
func (o *Oneof) Kind() NodeKind { return NodeKindOneof }

// Name implements Node.
func (o *Oneof) Name() Name { return Name(o.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (o *Oneof) FullyQualifiedName() string { return o.fullyQualifiedName }

// Nodes implements Node. The member fields are children of the Message, not of the Oneof.
func (o *Oneof) Nodes() []Node { return nil }

// Message returns the message the oneof is declared in.
func (o *Oneof) Message() *Message { return o.message }

// File returns the file the oneof is declared in.
func (o *Oneof) File() *File { return o.message.File() }

// Descriptor returns the underlying OneofDescriptorProto.
func (o *Oneof) Descriptor() *descriptorpb.OneofDescriptorProto { return o.descriptor }

// Comments returns the comments attached to the oneof.
func (o *Oneof) Comments() Comments { return o.comments }

// Fields returns the member fields of the oneof, in declaration order.
func (o *Oneof) Fields() []Field { return slices.Clone(o.fields) }

// IsSynthetic returns true if the oneof was generated for a proto3 optional field.
func (o *Oneof) IsSynthetic() bool { return o.synthetic }

// IsReal returns true if the oneof was declared by the user.
func (o *Oneof) IsReal() bool { return !o.synthetic }

func (*Oneof) isNode() {}

func (o *Oneof) addField(field Field) {
	o.fields = append(o.fields, field)
}

// isSyntheticOneof returns true if the oneof at index is only referenced by proto3 optional fields.
func isSyntheticOneof(descriptor *descriptorpb.DescriptorProto, index int32) bool {
	var members int
	for _, field := range descriptor.GetField() {
		if field.OneofIndex == nil || field.GetOneofIndex() != index {
			continue
		}
		if !field.GetProto3Optional() {
			return false
		}
		members++
	}
	return members == 1
}
