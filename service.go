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

// Service is a service declaration.
type Service struct {
	descriptor         *descriptorpb.ServiceDescriptorProto
	fullyQualifiedName string
	file               *File
	methods            []*Method
	comments           Comments
}

// Kind implements Node.
func (s *Service) Kind() NodeKind { return NodeKindService }

// Name implements Node.
func (s *Service) Name() Name { return Name(s.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (s *Service) FullyQualifiedName() string { return s.fullyQualifiedName }

// Nodes implements Node.
func (s *Service) Nodes() []Node {
	nodes := make([]Node, len(s.methods))
	for i, method := range s.methods {
		nodes[i] = method
	}
	return nodes
}

// File returns the file the service is declared in.
func (s *Service) File() *File { return s.file }

// Package returns the package of the service.
func (s *Service) Package() *Package { return s.file.Package() }

// Descriptor returns the underlying ServiceDescriptorProto.
func (s *Service) Descriptor() *descriptorpb.ServiceDescriptorProto { return s.descriptor }

// Comments returns the comments attached to the service.
func (s *Service) Comments() Comments { return s.comments }

// Methods returns the methods of the service, in declaration order.
func (s *Service) Methods() []*Method { return slices.Clone(s.methods) }

// Method returns the method with the given name.
func (s *Service) Method(name string) (*Method, bool) {
	for _, method := range s.methods {
		if string(method.Name()) == name {
			return method, true
		}
	}
	return nil, false
}

// IsDeprecated returns true if the service is marked deprecated.
func (s *Service) IsDeprecated() bool { return s.descriptor.GetOptions().GetDeprecated() }

func (*Service) isNode() {}

// Method is a method of a service.
type Method struct {
	descriptor         *descriptorpb.MethodDescriptorProto
	fullyQualifiedName string
	service            *Service
	input              *Message
	output             *Message
	comments           Comments
}

// Kind implements Node.
func (m *Method) Kind() NodeKind { return NodeKindMethod }

// Name implements Node.
func (m *Method) Name() Name { return Name(m.descriptor.GetName()) }

// FullyQualifiedName implements Node.
func (m *Method) FullyQualifiedName() string { return m.fullyQualifiedName }

// Nodes implements Node.
func (m *Method) Nodes() []Node { return nil }

// Service returns the service the method belongs to.
func (m *Method) Service() *Service { return m.service }

// File returns the file the method is declared in.
func (m *Method) File() *File { return m.service.File() }

// Descriptor returns the underlying MethodDescriptorProto.
func (m *Method) Descriptor() *descriptorpb.MethodDescriptorProto { return m.descriptor }

// Comments returns the comments attached to the method.
func (m *Method) Comments() Comments { return m.comments }

// Input returns the request message.
func (m *Method) Input() *Message { return m.input }

// Output returns the response message.
func (m *Method) Output() *Message { return m.output }

// ClientStreaming returns true if the client streams requests.
func (m *Method) ClientStreaming() bool { return m.descriptor.GetClientStreaming() }

// ServerStreaming returns true if the server streams responses.
func (m *Method) ServerStreaming() bool { return m.descriptor.GetServerStreaming() }

// IdempotencyLevel returns the idempotency_level option of the method.
func (m *Method) IdempotencyLevel() (IdempotencyLevel, error) {
	return newIdempotencyLevel(m.descriptor.GetOptions().GetIdempotencyLevel())
}

// IsDeprecated returns true if the method is marked deprecated.
func (m *Method) IsDeprecated() bool { return m.descriptor.GetOptions().GetDeprecated() }

func (*Method) isNode() {}
