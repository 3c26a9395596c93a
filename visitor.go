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

// Visitor walks a Node and its children in a depth-first manner.
//
// If a Visit method returns a non-nil Visitor, that Visitor is used to visit the children of
// the node. If it returns nil, the children are skipped. If it returns an error, the walk
// stops and Walk returns the error.
type Visitor interface {
	VisitPackage(*Package) (Visitor, error)
	VisitFile(*File) (Visitor, error)
	VisitMessage(*Message) (Visitor, error)
	VisitEnum(*Enum) (Visitor, error)
	VisitEnumValue(*EnumValue) (Visitor, error)
	VisitField(Field) (Visitor, error)
	VisitOneof(*Oneof) (Visitor, error)
	VisitService(*Service) (Visitor, error)
	VisitMethod(*Method) (Visitor, error)
	VisitExtension(*Extension) (Visitor, error)
}

// Walk visits the node with v, and then the children of the node with the Visitor returned.
func Walk(v Visitor, node Node) error {
	next, err := visit(v, node)
	if err != nil || next == nil {
		return err
	}
	for _, child := range node.Nodes() {
		if err := Walk(next, child); err != nil {
			return err
		}
	}
	return nil
}

// NilVisitor returns a Visitor that returns (nil, nil) for every node.
//
// Embed it in a Visitor that only handles a few node kinds and does not descend into the
// children of the rest.
func NilVisitor() Visitor { return nilVisitor{} }

// PassThroughVisitor returns a Visitor that returns (v, nil) for every node.
//
// Embed it in a Visitor that only handles a few node kinds but needs to reach deeply nested
// nodes:
//
//	type fieldCounter struct {
//	  protoast.Visitor
//	  count int
//	}
//
//	counter := &fieldCounter{}
//	counter.Visitor = protoast.PassThroughVisitor(counter)
func PassThroughVisitor(v Visitor) Visitor { return passThroughVisitor{v: v} }

// *** PRIVATE ***

func visit(v Visitor, node Node) (Visitor, error) {
	switch node := node.(type) {
	case *Package:
		return v.VisitPackage(node)
	case *File:
		return v.VisitFile(node)
	case *Message:
		return v.VisitMessage(node)
	case *Enum:
		return v.VisitEnum(node)
	case *EnumValue:
		return v.VisitEnumValue(node)
	case *Oneof:
		return v.VisitOneof(node)
	case *Service:
		return v.VisitService(node)
	case *Method:
		return v.VisitMethod(node)
	case *Extension:
		return v.VisitExtension(node)
	case Field:
		return v.VisitField(node)
	default:
		return nil, fmt.Errorf("unknown node type %T", node)
	}
}

type nilVisitor struct{}

func (nilVisitor) VisitPackage(*Package) (Visitor, error)     { return nil, nil }
func (nilVisitor) VisitFile(*File) (Visitor, error)           { return nil, nil }
func (nilVisitor) VisitMessage(*Message) (Visitor, error)     { return nil, nil }
func (nilVisitor) VisitEnum(*Enum) (Visitor, error)           { return nil, nil }
func (nilVisitor) VisitEnumValue(*EnumValue) (Visitor, error) { return nil, nil }
func (nilVisitor) VisitField(Field) (Visitor, error)          { return nil, nil }
func (nilVisitor) VisitOneof(*Oneof) (Visitor, error)         { return nil, nil }
func (nilVisitor) VisitService(*Service) (Visitor, error)     { return nil, nil }
func (nilVisitor) VisitMethod(*Method) (Visitor, error)       { return nil, nil }
func (nilVisitor) VisitExtension(*Extension) (Visitor, error) { return nil, nil }

type passThroughVisitor struct {
	v Visitor
}

func (p passThroughVisitor) VisitPackage(*Package) (Visitor, error)     { return p.v, nil }
func (p passThroughVisitor) VisitFile(*File) (Visitor, error)           { return p.v, nil }
func (p passThroughVisitor) VisitMessage(*Message) (Visitor, error)     { return p.v, nil }
func (p passThroughVisitor) VisitEnum(*Enum) (Visitor, error)           { return p.v, nil }
func (p passThroughVisitor) VisitEnumValue(*EnumValue) (Visitor, error) { return p.v, nil }
func (p passThroughVisitor) VisitField(Field) (Visitor, error)          { return p.v, nil }
func (p passThroughVisitor) VisitOneof(*Oneof) (Visitor, error)         { return p.v, nil }
func (p passThroughVisitor) VisitService(*Service) (Visitor, error)     { return p.v, nil }
func (p passThroughVisitor) VisitMethod(*Method) (Visitor, error)       { return p.v, nil }
func (p passThroughVisitor) VisitExtension(*Extension) (Visitor, error) { return p.v, nil }

var (
	_ Visitor = nilVisitor{}
	_ Visitor = passThroughVisitor{}
)
