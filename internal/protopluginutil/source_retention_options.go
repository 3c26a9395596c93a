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

// Package protopluginutil shapes FileDescriptorProtos the way protoc hands them to plugins.
package protopluginutil

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// optionsFieldName is the name of the options field of every descriptor message that has one.
const optionsFieldName protoreflect.Name = "options"

// StripSourceRetentionOptions returns a FileDescriptorProto without the options that are
// declared with retention = RETENTION_SOURCE, as in the proto_file field of a
// CodeGeneratorRequest.
//
// The source locations of removed options are removed as well. An options message left
// empty is cleared entirely.
//
// The input is never modified. If it has no source-retention options, it is returned as is.
func StripSourceRetentionOptions(file *descriptorpb.FileDescriptorProto) (*descriptorpb.FileDescriptorProto, error) {
	newFile, ok := proto.Clone(file).(*descriptorpb.FileDescriptorProto)
	if !ok {
		return nil, fmt.Errorf("cloning %q resulted in unexpected type", file.GetName())
	}
	removedPaths := &sourcePathTrie{}
	changed, err := stripDescriptor(newFile.ProtoReflect(), nil, removedPaths)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.GetName(), err)
	}
	if !changed {
		return file, nil
	}
	newFile.SourceCodeInfo = stripSourceLocations(newFile.GetSourceCodeInfo(), removedPaths)
	return newFile, nil
}

// *** PRIVATE ***

// stripDescriptor strips the options of the descriptor message and of every descriptor
// message nested in its repeated fields. The path elements are the descriptor field numbers,
// which is the layout of SourceCodeInfo paths.
func stripDescriptor(
	message protoreflect.Message,
	path sourcePath,
	removedPaths *sourcePathTrie,
) (bool, error) {
	var changed bool
	fields := message.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		field := fields.Get(i)
		if field.Message() == nil || !message.Has(field) {
			continue
		}
		fieldPath := path.push(int32(field.Number()))
		switch {
		case field.Name() == optionsFieldName:
			cleared, optionsChanged, err := stripOptions(message.Get(field).Message(), fieldPath, removedPaths)
			if err != nil {
				return false, err
			}
			if cleared {
				message.Clear(field)
			}
			changed = changed || optionsChanged
		case field.IsList():
			list := message.Mutable(field).List()
			for j := 0; j < list.Len(); j++ {
				elementChanged, err := stripDescriptor(list.Get(j).Message(), fieldPath.push(int32(j)), removedPaths)
				if err != nil {
					return false, err
				}
				changed = changed || elementChanged
			}
		}
	}
	return changed, nil
}

// stripOptions removes the source-retention fields of the options message in place.
//
// cleared is true if nothing would be left, in which case the caller clears the whole message.
func stripOptions(
	options protoreflect.Message,
	path sourcePath,
	removedPaths *sourcePathTrie,
) (cleared bool, changed bool, retErr error) {
	var sourceFields []protoreflect.FieldDescriptor
	var numFieldsToKeep int
	options.Range(func(field protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		fieldOptions, ok := field.Options().(*descriptorpb.FieldOptions)
		if !ok {
			retErr = fmt.Errorf("field options of %s is unexpected type %T", field.FullName(), field.Options())
			return false
		}
		if fieldOptions.GetRetention() == descriptorpb.FieldOptions_RETENTION_SOURCE {
			sourceFields = append(sourceFields, field)
		} else {
			numFieldsToKeep++
		}
		return true
	})
	if retErr != nil || len(sourceFields) == 0 {
		return false, false, retErr
	}
	if numFieldsToKeep == 0 && len(options.GetUnknown()) == 0 {
		removedPaths.addPath(path)
		return true, true, nil
	}
	for _, field := range sourceFields {
		options.Clear(field)
		removedPaths.addPath(path.push(int32(field.Number())))
	}
	return false, true, nil
}

func stripSourceLocations(
	sourceCodeInfo *descriptorpb.SourceCodeInfo,
	removedPaths *sourcePathTrie,
) *descriptorpb.SourceCodeInfo {
	if len(sourceCodeInfo.GetLocation()) == 0 {
		return sourceCodeInfo
	}
	locations := make([]*descriptorpb.SourceCodeInfo_Location, 0, len(sourceCodeInfo.GetLocation()))
	for _, location := range sourceCodeInfo.GetLocation() {
		if !removedPaths.isRemoved(location.GetPath()) {
			locations = append(locations, location)
		}
	}
	sourceCodeInfo.Location = locations
	return sourceCodeInfo
}

type sourcePath []int32

// push returns a new path, never sharing the backing array of p.
func (p sourcePath) push(element int32) sourcePath {
	return append(p[:len(p):len(p)], element)
}

// sourcePathTrie holds removed paths. A removed path removes every path it prefixes.
type sourcePathTrie struct {
	removed  bool
	children map[int32]*sourcePathTrie
}

func (t *sourcePathTrie) addPath(path sourcePath) {
	if len(path) == 0 {
		t.removed = true
		return
	}
	child, ok := t.children[path[0]]
	if !ok {
		if t.children == nil {
			t.children = make(map[int32]*sourcePathTrie)
		}
		child = &sourcePathTrie{}
		t.children[path[0]] = child
	}
	child.addPath(path[1:])
}

func (t *sourcePathTrie) isRemoved(path []int32) bool {
	for node := t; node != nil; path = path[1:] {
		if node.removed {
			return true
		}
		if len(path) == 0 {
			return false
		}
		node = node.children[path[0]]
	}
	return false
}
