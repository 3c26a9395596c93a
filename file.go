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

// File is a single compiled .proto file.
type File struct {
	descriptor  *descriptorpb.FileDescriptorProto
	pkg         *Package
	syntax      Syntax
	buildTarget bool

	messages          []*Message
	enums             []*Enum
	services          []*Service
	definedExtensions []*Extension

	imports       []*File
	publicImports []*File
	dependents    []*File
	usedImports   map[*File]struct{}

	comments        Comments
	packageComments Comments
}

// Kind implements Node.
func (f *File) Kind() NodeKind { return NodeKindFile }

// Name implements Node. The name of a file is its path.
func (f *File) Name() Name { return Name(f.descriptor.GetName()) }

// Path returns the path of the file, for example "foo/bar/baz.proto".
func (f *File) Path() string { return f.descriptor.GetName() }

// FullyQualifiedName implements Node. This is the fully-qualified name of the package, or
// empty if the file has no package.
func (f *File) FullyQualifiedName() string { return packageFullyQualifiedName(f.descriptor.GetPackage()) }

// Nodes implements Node.
func (f *File) Nodes() []Node {
	nodes := make([]Node, 0, len(f.enums)+len(f.messages)+len(f.services)+len(f.definedExtensions))
	for _, enum := range f.enums {
		nodes = append(nodes, enum)
	}
	for _, message := range f.messages {
		nodes = append(nodes, message)
	}
	for _, service := range f.services {
		nodes = append(nodes, service)
	}
	for _, extension := range f.definedExtensions {
		nodes = append(nodes, extension)
	}
	return nodes
}

// File implements Container.
func (f *File) File() *File { return f }

// Package implements Container.
func (f *File) Package() *Package { return f.pkg }

// Syntax implements Container.
func (f *File) Syntax() Syntax { return f.syntax }

// BuildTarget returns true if the file was explicitly requested for generation, as opposed
// to being included only as a dependency.
func (f *File) BuildTarget() bool { return f.buildTarget }

// Descriptor returns the underlying FileDescriptorProto.
func (f *File) Descriptor() *descriptorpb.FileDescriptorProto { return f.descriptor }

// Messages implements Container.
func (f *File) Messages() []*Message { return slices.Clone(f.messages) }

// Message returns the top-level message with the given name.
func (f *File) Message(name string) (*Message, bool) {
	for _, message := range f.messages {
		if string(message.Name()) == name {
			return message, true
		}
	}
	return nil, false
}

// AllMessages implements Container.
func (f *File) AllMessages() []*Message { return allMessages(f) }

// Enums implements Container.
func (f *File) Enums() []*Enum { return slices.Clone(f.enums) }

// AllEnums implements Container.
func (f *File) AllEnums() []*Enum { return allEnums(f) }

// Services returns the services declared in the file.
func (f *File) Services() []*Service { return slices.Clone(f.services) }

// DefinedExtensions implements Container.
func (f *File) DefinedExtensions() []*Extension { return slices.Clone(f.definedExtensions) }

// Imports returns the files this file imports, in declaration order.
func (f *File) Imports() []*File { return slices.Clone(f.imports) }

// PublicImports returns the files this file imports publicly.
func (f *File) PublicImports() []*File { return slices.Clone(f.publicImports) }

// TransitiveImports returns all files this file depends on, directly or indirectly.
//
// Each file is returned once, in depth-first order of the import graph.
func (f *File) TransitiveImports() []*File {
	var result []*File
	seen := map[*File]struct{}{f: {}}
	var visit func(*File)
	visit = func(file *File) {
		for _, imported := range file.imports {
			if _, ok := seen[imported]; ok {
				continue
			}
			seen[imported] = struct{}{}
			result = append(result, imported)
			visit(imported)
		}
	}
	visit(f)
	return result
}

// Dependents returns the files that import this file.
func (f *File) Dependents() []*File { return slices.Clone(f.dependents) }

// UsedImports returns the imports from which at least one declaration is used.
func (f *File) UsedImports() []*File {
	var used []*File
	for _, imported := range f.imports {
		if _, ok := f.usedImports[imported]; ok {
			used = append(used, imported)
		}
	}
	return used
}

// UnusedImports returns the non-public imports from which no declaration is used.
func (f *File) UnusedImports() []*File {
	var unused []*File
	for _, imported := range f.imports {
		if _, ok := f.usedImports[imported]; ok {
			continue
		}
		if slices.Contains(f.publicImports, imported) {
			continue
		}
		unused = append(unused, imported)
	}
	return unused
}

// Comments returns the comments attached to the syntax statement of the file.
func (f *File) Comments() Comments { return f.comments }

// PackageComments returns the comments attached to the package statement of the file.
func (f *File) PackageComments() Comments { return f.packageComments }

// OptimizeFor returns the optimize_for option of the file.
func (f *File) OptimizeFor() (OptimizeMode, error) {
	return newOptimizeMode(f.descriptor.GetOptions().GetOptimizeFor())
}

// IsDeprecated returns true if the file is marked deprecated.
func (f *File) IsDeprecated() bool { return f.descriptor.GetOptions().GetDeprecated() }

// GoPackage returns the go_package option of the file.
func (f *File) GoPackage() string { return f.descriptor.GetOptions().GetGoPackage() }

func (*File) isNode()      {}
func (*File) isContainer() {}

func (f *File) addImport(imported *File) {
	f.imports = append(f.imports, imported)
}

func (f *File) addDependent(dependent *File) {
	f.dependents = append(f.dependents, dependent)
}

// markImportUsed records that a declaration of target is used by this file.
//
// If target is not a direct import but is re-exported through a chain of public imports,
// the direct import that re-exports it is marked instead.
func (f *File) markImportUsed(target *File) {
	if target == f {
		return
	}
	for _, imported := range f.imports {
		if imported == target || reexports(imported, target, map[*File]struct{}{}) {
			f.usedImports[imported] = struct{}{}
			return
		}
	}
}

func reexports(file *File, target *File, seen map[*File]struct{}) bool {
	if _, ok := seen[file]; ok {
		return false
	}
	seen[file] = struct{}{}
	for _, public := range file.publicImports {
		if public == target || reexports(public, target, seen) {
			return true
		}
	}
	return false
}
