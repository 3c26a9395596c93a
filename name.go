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
	"strings"

	"github.com/iancoleman/strcase"
)

// Name is the local name of a node as declared in a .proto file.
type Name string

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }

// UpperCamelCase returns the name as UpperCamelCase, for example "foo_bar" becomes "FooBar".
func (n Name) UpperCamelCase() Name { return Name(strcase.ToCamel(string(n))) }

// LowerCamelCase returns the name as lowerCamelCase, for example "foo_bar" becomes "fooBar".
func (n Name) LowerCamelCase() Name { return Name(strcase.ToLowerCamel(string(n))) }

// SnakeCase returns the name as snake_case, for example "FooBar" becomes "foo_bar".
func (n Name) SnakeCase() Name { return Name(strcase.ToSnake(string(n))) }

// ScreamingSnakeCase returns the name as SCREAMING_SNAKE_CASE.
func (n Name) ScreamingSnakeCase() Name { return Name(strcase.ToScreamingSnake(string(n))) }

// KebabCase returns the name as kebab-case.
func (n Name) KebabCase() Name { return Name(strcase.ToKebab(string(n))) }

// packageFullyQualifiedName returns the fully-qualified name of a package.
//
// The empty package has the empty name.
func packageFullyQualifiedName(packageName string) string {
	if packageName == "" {
		return ""
	}
	return "." + packageName
}

// joinFullyQualifiedName returns parent + "." + name.
func joinFullyQualifiedName(parent string, name string) string {
	return parent + "." + name
}

// normalizeFullyQualifiedName adds the leading dot if missing.
func normalizeFullyQualifiedName(name string) string {
	if name == "" || strings.HasPrefix(name, ".") {
		return name
	}
	return "." + name
}

// parentFullyQualifiedName strips the last component of the fully-qualified name.
func parentFullyQualifiedName(fullyQualifiedName string) string {
	if i := strings.LastIndexByte(fullyQualifiedName, '.'); i >= 0 {
		return fullyQualifiedName[:i]
	}
	return ""
}
