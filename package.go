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

import "slices"

// Package is a dotted namespace shared by one or more files.
//
// A Package is created by the first file that declares it. Files without a package
// statement belong to the package with the empty name.
type Package struct {
	name  string
	files []*File
}

// Kind implements Node.
func (p *Package) Kind() NodeKind { return NodeKindPackage }

// Name implements Node.
func (p *Package) Name() Name { return Name(p.name) }

// ProtoName returns the dotted package name, for example "foo.bar".
func (p *Package) ProtoName() string { return p.name }

// FullyQualifiedName implements Node.
func (p *Package) FullyQualifiedName() string { return packageFullyQualifiedName(p.name) }

// Nodes implements Node.
func (p *Package) Nodes() []Node {
	nodes := make([]Node, len(p.files))
	for i, file := range p.files {
		nodes[i] = file
	}
	return nodes
}

// Files returns the files of the package, in input order.
func (p *Package) Files() []*File { return slices.Clone(p.files) }

// IsWellKnown returns true if this is the google.protobuf package.
func (p *Package) IsWellKnown() bool { return p.name == WellKnownPackage }

// Comments returns the comments attached to the first package statement of the package's
// files that has any.
func (p *Package) Comments() Comments {
	for _, file := range p.files {
		if comments := file.PackageComments(); !comments.IsEmpty() {
			return comments
		}
	}
	return Comments{}
}

func (*Package) isNode() {}

func (p *Package) addFile(file *File) {
	file.pkg = p
	p.files = append(p.files, file)
}
