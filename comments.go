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

// Field numbers used in SourceCodeInfo.Location paths.
const (
	filePackageTag   = 2
	fileMessageTag   = 4
	fileEnumTag      = 5
	fileServiceTag   = 6
	fileExtensionTag = 7
	fileSyntaxTag    = 12

	messageFieldTag     = 2
	messageNestedTag    = 3
	messageEnumTag      = 4
	messageExtensionTag = 6
	messageOneofTag     = 8

	enumValueTag     = 2
	serviceMethodTag = 2
)

type commentable interface {
	setComments(Comments)
}

// attachComments attaches the comments of every location of the SourceCodeInfo of the file
// to the node the location path points to.
//
// Locations that point inside of a declaration, for example at the type of a field, are ignored.
func attachComments(file *File) {
	for _, location := range file.descriptor.GetSourceCodeInfo().GetLocation() {
		comments := newComments(location)
		if comments.IsEmpty() {
			continue
		}
		path := location.GetPath()
		if len(path) == 1 {
			switch path[0] {
			case filePackageTag:
				file.packageComments = comments
			case fileSyntaxTag:
				file.comments = comments
			}
			continue
		}
		if target, ok := fileCommentTarget(file, path); ok {
			target.setComments(comments)
		}
	}
}

func newComments(location *descriptorpb.SourceCodeInfo_Location) Comments {
	return Comments{
		Leading:         location.GetLeadingComments(),
		Trailing:        location.GetTrailingComments(),
		LeadingDetached: slices.Clone(location.GetLeadingDetachedComments()),
	}
}

func fileCommentTarget(file *File, path []int32) (commentable, bool) {
	if len(path) < 2 {
		return nil, false
	}
	tag, index, rest := path[0], path[1], path[2:]
	switch tag {
	case fileMessageTag:
		if message, ok := elementAt(file.messages, index); ok {
			return messageCommentTarget(message, rest)
		}
	case fileEnumTag:
		if enum, ok := elementAt(file.enums, index); ok {
			return enumCommentTarget(enum, rest)
		}
	case fileServiceTag:
		if service, ok := elementAt(file.services, index); ok {
			return serviceCommentTarget(service, rest)
		}
	case fileExtensionTag:
		if extension, ok := elementAt(file.definedExtensions, index); ok && len(rest) == 0 {
			return extension, true
		}
	}
	return nil, false
}

func messageCommentTarget(message *Message, path []int32) (commentable, bool) {
	if len(path) == 0 {
		return message, true
	}
	if len(path) < 2 {
		return nil, false
	}
	tag, index, rest := path[0], path[1], path[2:]
	switch tag {
	case messageFieldTag:
		if field, ok := elementAt(message.fields, index); ok && field != nil && len(rest) == 0 {
			return field, true
		}
	case messageNestedTag:
		if nested, ok := elementAt(message.nested, index); ok {
			return messageCommentTarget(nested, rest)
		}
	case messageEnumTag:
		if enum, ok := elementAt(message.enums, index); ok {
			return enumCommentTarget(enum, rest)
		}
	case messageExtensionTag:
		if extension, ok := elementAt(message.definedExtensions, index); ok && len(rest) == 0 {
			return extension, true
		}
	case messageOneofTag:
		if oneof, ok := elementAt(message.oneofs, index); ok && len(rest) == 0 {
			return oneof, true
		}
	}
	return nil, false
}

func enumCommentTarget(enum *Enum, path []int32) (commentable, bool) {
	switch {
	case len(path) == 0:
		return enum, true
	case len(path) == 2 && path[0] == enumValueTag:
		if value, ok := elementAt(enum.values, path[1]); ok {
			return value, true
		}
	}
	return nil, false
}

func serviceCommentTarget(service *Service, path []int32) (commentable, bool) {
	switch {
	case len(path) == 0:
		return service, true
	case len(path) == 2 && path[0] == serviceMethodTag:
		if method, ok := elementAt(service.methods, path[1]); ok {
			return method, true
		}
	}
	return nil, false
}

func elementAt[T any](values []T, index int32) (T, bool) {
	if index < 0 || int(index) >= len(values) {
		var zero T
		return zero, false
	}
	return values[index], true
}

func (m *Message) setComments(comments Comments)   { m.comments = comments }
func (e *Enum) setComments(comments Comments)      { e.comments = comments }
func (e *EnumValue) setComments(comments Comments) { e.comments = comments }
func (o *Oneof) setComments(comments Comments)     { o.comments = comments }
func (s *Service) setComments(comments Comments)   { s.comments = comments }
func (m *Method) setComments(comments Comments)    { m.comments = comments }
func (e *Extension) setComments(comments Comments) { e.comments = comments }
