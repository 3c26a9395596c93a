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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSyntax is returned when a file declares a syntax other than proto2 or proto3.
	ErrUnknownSyntax = errors.New("unknown syntax")
	// ErrInvalidType is returned for a field type code outside of the known range.
	ErrInvalidType = errors.New("invalid field type")
	// ErrInvalidScalar is returned for a scalar type code outside of the known range.
	ErrInvalidScalar = errors.New("invalid scalar type")
	// ErrInvalidLabel is returned for a field label outside of the known range.
	ErrInvalidLabel = errors.New("invalid field label")
	// ErrInvalidCType is returned for a ctype option outside of the known range.
	ErrInvalidCType = errors.New("invalid ctype")
	// ErrInvalidJSType is returned for a jstype option outside of the known range.
	ErrInvalidJSType = errors.New("invalid jstype")
	// ErrInvalidOptimizeMode is returned for an optimize_for option outside of the known range.
	ErrInvalidOptimizeMode = errors.New("invalid optimize mode")
	// ErrInvalidIdempotencyLevel is returned for an idempotency_level option outside of the known range.
	ErrInvalidIdempotencyLevel = errors.New("invalid idempotency level")
)

// GroupNotSupportedError is returned when a field or extension uses the group encoding.
type GroupNotSupportedError struct {
	FullyQualifiedName string
}

func (e *GroupNotSupportedError) Error() string {
	return fmt.Sprintf("%s: group fields are not supported", e.FullyQualifiedName)
}

// NodeNotFoundError is returned when a type name does not resolve to any node.
type NodeNotFoundError struct {
	FullyQualifiedName string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.FullyQualifiedName)
}

// DependencyNotFoundError is returned when a file imports a file that was not provided.
type DependencyNotFoundError struct {
	File       string
	Dependency string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("%s: dependency %q not found", e.File, e.Dependency)
}

// ExtendeeNotFoundError is returned when the message an extension extends cannot be found.
type ExtendeeNotFoundError struct {
	Extension string
	Extendee  string
}

func (e *ExtendeeNotFoundError) Error() string {
	return fmt.Sprintf("%s: extendee %q not found", e.Extension, e.Extendee)
}

// MissingMethodError is returned when the input or output type of a method is empty or
// cannot be resolved.
type MissingMethodError struct {
	Method string
	// Direction is either "input" or "output".
	Direction string
	TypeName  string
}

func (e *MissingMethodError) Error() string {
	if e.TypeName == "" {
		return fmt.Sprintf("%s: %s type is empty", e.Method, e.Direction)
	}
	return fmt.Sprintf("%s: %s type %q not found", e.Method, e.Direction, e.TypeName)
}

// InvalidNodeError is returned when a name resolves to a node of an unexpected kind.
type InvalidNodeError struct {
	FullyQualifiedName string
	Expected           []NodeKind
	Actual             NodeKind
}

func (e *InvalidNodeError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, kind := range e.Expected {
		expected[i] = kind.String()
	}
	return fmt.Sprintf(
		"node %q is a %s, expected %s",
		e.FullyQualifiedName,
		e.Actual,
		strings.Join(expected, " or "),
	)
}

// MapEntryReason is the reason a map entry could not be built.
type MapEntryReason int

const (
	// MapEntryMissingKey is used when the entry message has no key field.
	MapEntryMissingKey MapEntryReason = iota + 1
	// MapEntryMissingValue is used when the entry message has no value field.
	MapEntryMissingValue
	// MapEntryFieldNotEmbed is used when the map field is not message-typed.
	MapEntryFieldNotEmbed
	// MapEntryEmbedNotMap is used when the referenced message is not a map entry.
	MapEntryEmbedNotMap
	// MapEntryInvalidKey is used when the key field is not a valid map key.
	MapEntryInvalidKey
)

// String implements fmt.Stringer.
func (r MapEntryReason) String() string {
	switch r {
	case MapEntryMissingKey:
		return "missing key field"
	case MapEntryMissingValue:
		return "missing value field"
	case MapEntryFieldNotEmbed:
		return "field is not an embedded message"
	case MapEntryEmbedNotMap:
		return "embedded message is not a map entry"
	case MapEntryInvalidKey:
		return "key is not an integral, bool or string scalar"
	default:
		return fmt.Sprintf("MapEntryReason(%d)", int(r))
	}
}

// InvalidMapEntryError is returned when a map field cannot be built from its entry message.
type InvalidMapEntryError struct {
	FullyQualifiedName string
	Reason             MapEntryReason
}

func (e *InvalidMapEntryError) Error() string {
	return fmt.Sprintf("%s: invalid map entry: %s", e.FullyQualifiedName, e.Reason)
}

// DuplicateNodeError is returned when two nodes share a fully-qualified name.
type DuplicateNodeError struct {
	FullyQualifiedName string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node %q", e.FullyQualifiedName)
}

// InvalidIndexError is returned when a descriptor refers to a sibling by an index that is out of range,
// for example a oneof_index or a public_dependency.
type InvalidIndexError struct {
	FullyQualifiedName string
	FieldName          string
	Index              int32
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("%s: %s %d out of range", e.FullyQualifiedName, e.FieldName, e.Index)
}

// unusedImportError is the warning produced for an import of a build target that is never used.
type unusedImportError struct {
	file       string
	dependency string
}

func newUnusedImportError(file string, dependency string) error {
	return &unusedImportError{file: file, dependency: dependency}
}

func (u *unusedImportError) Error() string {
	return fmt.Sprintf("%s: import %q is unused", u.file, u.dependency)
}

// unknownArgumentsError is the error returned if Main or Run are given arguments that are unknown.
//
// The only known argument is --version if WithVersion is specified.
type unknownArgumentsError struct {
	args []string
}

func newUnknownArgumentsError(args []string) error {
	return &unknownArgumentsError{args: args}
}

func (a *unknownArgumentsError) Error() string {
	if len(a.args) == 1 {
		return fmt.Sprintf("unknown argument: %s", a.args[0])
	}
	return fmt.Sprintf("unknown arguments: %s", strings.Join(a.args, " "))
}

// responseFileNameError is produced when a generated file name is not normalized or is a duplicate.
//
// This is printed as a warning and the response is corrected.
type responseFileNameError struct {
	name           string
	normalizedName string
}

func newResponseFileNameError(name string, normalizedName string) error {
	return &responseFileNameError{name: name, normalizedName: normalizedName}
}

func (r *responseFileNameError) Error() string {
	if r.normalizedName == "" {
		return fmt.Sprintf("duplicate generated file name %q, dropping the second occurrence", r.name)
	}
	return fmt.Sprintf(
		`generated file name %q is not equal to %q. The path must be non-empty, relative, use "/" as the path separator, and not use "." or ".." as part of the path.`,
		r.name,
		r.normalizedName,
	)
}
