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

// Package protoast builds a cross-linked graph of Protobuf declarations from
// FileDescriptorProtos, and provides a harness to write protoc plugins against it.
//
// Every reference in the graph is resolved when Build returns: fields point at the
// Enum or Message they hold, extensions at the Message they extend, methods at their
// input and output Messages, and files at the files they import.
//
//	ast, err := protoast.Build(fileDescriptorProtos, []string{"foo/v1/foo.proto"})
//	if err != nil {
//	  return err
//	}
//	for _, file := range ast.TargetFiles() {
//	  for _, message := range file.AllMessages() {
//	    ...
//	  }
//	}
//
// An AST is not modified after Build returns, and is safe for concurrent reads.
package protoast

import (
	"slices"
)

// AST is the graph of all files given to Build.
type AST struct {
	files           []*File
	filesByName     map[string]*File
	targets         []*File
	packages        []*Package
	packagesByName  map[string]*Package
	nodes           map[string]Node
	compilerVersion *CompilerVersion
}

// Node returns the node with the given fully-qualified name.
//
// The leading dot is optional.
func (a *AST) Node(fullyQualifiedName string) (Node, bool) {
	node, ok := a.nodes[normalizeFullyQualifiedName(fullyQualifiedName)]
	return node, ok
}

// Message returns the message with the given fully-qualified name.
func (a *AST) Message(fullyQualifiedName string) (*Message, bool) {
	node, _ := a.Node(fullyQualifiedName)
	message, ok := node.(*Message)
	return message, ok
}

// Enum returns the enum with the given fully-qualified name.
func (a *AST) Enum(fullyQualifiedName string) (*Enum, bool) {
	node, _ := a.Node(fullyQualifiedName)
	enum, ok := node.(*Enum)
	return enum, ok
}

// Service returns the service with the given fully-qualified name.
func (a *AST) Service(fullyQualifiedName string) (*Service, bool) {
	node, _ := a.Node(fullyQualifiedName)
	service, ok := node.(*Service)
	return service, ok
}

// File returns the file with the given path.
func (a *AST) File(path string) (*File, bool) {
	file, ok := a.filesByName[path]
	return file, ok
}

// Package returns the package with the given name, for example "foo.v1".
//
// Files without a package statement belong to the package with the empty name.
func (a *AST) Package(name string) (*Package, bool) {
	pkg, ok := a.packagesByName[name]
	return pkg, ok
}

// Files returns all files, in the order they were given to Build.
func (a *AST) Files() []*File { return slices.Clone(a.files) }

// TargetFiles returns the build target files, in the order they were given to Build.
func (a *AST) TargetFiles() []*File { return slices.Clone(a.targets) }

// Packages returns all packages, in the order they were first declared.
func (a *AST) Packages() []*Package { return slices.Clone(a.packages) }

// CompilerVersion returns the version of the compiler that produced the files.
//
// This is only set when the AST was built from a CodeGeneratorRequest that carried a
// compiler version, and is nil otherwise.
func (a *AST) CompilerVersion() *CompilerVersion { return a.compilerVersion }
