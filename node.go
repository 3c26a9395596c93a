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

import "fmt"

// NodeKind is the kind of a Node.
type NodeKind int

const (
	NodeKindPackage NodeKind = iota + 1
	NodeKindFile
	NodeKindMessage
	NodeKindOneof
	NodeKindEnum
	NodeKindEnumValue
	NodeKindService
	NodeKindMethod
	NodeKindField
	NodeKindExtension
)

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	switch k {
	case NodeKindPackage:
		return "package"
	case NodeKindFile:
		return "file"
	case NodeKindMessage:
		return "message"
	case NodeKindOneof:
		return "oneof"
	case NodeKindEnum:
		return "enum"
	case NodeKindEnumValue:
		return "enum value"
	case NodeKindService:
		return "service"
	case NodeKindMethod:
		return "method"
	case NodeKindField:
		return "field"
	case NodeKindExtension:
		return "extension"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is any member of the AST.
//
// The concrete types are *Package, *File, *Message, *Oneof, *Enum, *EnumValue, *Service,
// *Method, *Extension, and the Field variants.
type Node interface {
	// Kind returns the kind of the node.
	Kind() NodeKind
	// Name returns the local name of the node. For files, this is the path.
	Name() Name
	// FullyQualifiedName returns the fully-qualified name of the node, for example
	// ".foo.bar.Message". Files share the fully-qualified name of their package.
	FullyQualifiedName() string
	// Nodes returns the direct children of the node.
	//
	//   - Package: files
	//   - File: enums, messages, services, extensions
	//   - Message: enums, messages, fields, oneofs, extensions
	//   - Enum: values
	//   - Service: methods
	//
	// All other kinds have no children. Map entry messages are never returned.
	Nodes() []Node

	isNode()
}

// Container is a Node that can contain messages, enums and extensions.
//
// The concrete types are *File and *Message.
type Container interface {
	Node

	// File returns the file the container is declared in. For a File, this is itself.
	File() *File
	// Package returns the package of the container.
	Package() *Package
	// Syntax returns the syntax of the file the container is declared in.
	Syntax() Syntax
	// Messages returns the messages declared directly within the container.
	Messages() []*Message
	// AllMessages returns all messages declared within the container, including nested messages.
	AllMessages() []*Message
	// Enums returns the enums declared directly within the container.
	Enums() []*Enum
	// AllEnums returns all enums declared within the container, including nested enums.
	AllEnums() []*Enum
	// DefinedExtensions returns the extensions declared directly within the container.
	DefinedExtensions() []*Extension

	isContainer()
}

// Comments are the comments attached to a declaration.
type Comments struct {
	Leading         string
	Trailing        string
	LeadingDetached []string
}

// IsEmpty returns true if there are no comments.
func (c Comments) IsEmpty() bool {
	return c.Leading == "" && c.Trailing == "" && len(c.LeadingDetached) == 0
}

// NodeIterator is a depth-first, pre-order iterator over the descendants of a Node.
//
//	iterator := protoast.AllNodes(file)
//	for iterator.Next() {
//	  node := iterator.Node()
//	}
//
// A NodeIterator cannot be restarted. Call AllNodes again to iterate a second time.
type NodeIterator struct {
	stack   []nodeCursor
	current Node
}

// AllNodes returns an iterator over all descendants of the node. The node itself is not included.
//
// Every node is returned before any of its own children.
func AllNodes(node Node) *NodeIterator {
	return &NodeIterator{
		stack: []nodeCursor{{nodes: node.Nodes()}},
	}
}

// Next advances the iterator, returning false when there are no more nodes.
func (n *NodeIterator) Next() bool {
	for len(n.stack) > 0 {
		top := &n.stack[len(n.stack)-1]
		if top.index >= len(top.nodes) {
			n.stack = n.stack[:len(n.stack)-1]
			continue
		}
		node := top.nodes[top.index]
		top.index++
		n.current = node
		if children := node.Nodes(); len(children) > 0 {
			n.stack = append(n.stack, nodeCursor{nodes: children})
		}
		return true
	}
	n.current = nil
	return false
}

// Node returns the current node.
func (n *NodeIterator) Node() Node {
	return n.current
}

// *** PRIVATE ***

type nodeCursor struct {
	nodes []Node
	index int
}

func allMessages(container Container) []*Message {
	var messages []*Message
	iterator := AllNodes(container)
	for iterator.Next() {
		if message, ok := iterator.Node().(*Message); ok {
			messages = append(messages, message)
		}
	}
	return messages
}

func allEnums(container Container) []*Enum {
	var enums []*Enum
	iterator := AllNodes(container)
	for iterator.Next() {
		if enum, ok := iterator.Node().(*Enum); ok {
			enums = append(enums, enum)
		}
	}
	return enums
}

// fileOf returns the file a node is declared in.
func fileOf(node Node) *File {
	switch node := node.(type) {
	case *File:
		return node
	case *Message:
		return node.File()
	case *Enum:
		return node.File()
	case *EnumValue:
		return node.File()
	case *Oneof:
		return node.File()
	case *Service:
		return node.File()
	case *Method:
		return node.File()
	case *Extension:
		return node.File()
	case Field:
		return node.File()
	default:
		return nil
	}
}
