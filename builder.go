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
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"
)

// builder holds the construction-time state of Build.
//
// addFile instantiates every node of a file and registers it by fully-qualified name.
// It does not look at any other file. Once every file has been added, resolve links
// the nodes to each other, see resolve.go.
type builder struct {
	states         []*fileState
	filesByName    map[string]*File
	packages       []*Package
	packagesByName map[string]*Package
	nodes          map[string]Node
}

// fileState is the work left for resolve after a file has been added.
type fileState struct {
	file *File
	// messages are all messages of the file in pre-order, map entries included.
	messages []*Message
	// extensions are all extensions declared in the file, at any level.
	extensions []*Extension
	// pending are the repeated message fields. Whether these are maps is only known
	// once the type name is resolved.
	pending []pendingField
}

type pendingField struct {
	detail *fieldDetail
	index  int
}

func newBuilder() *builder {
	return &builder{
		filesByName:    make(map[string]*File),
		packagesByName: make(map[string]*Package),
		nodes:          make(map[string]Node),
	}
}

func (b *builder) files() []*File {
	files := make([]*File, len(b.states))
	for i, state := range b.states {
		files[i] = state.file
	}
	return files
}

func (b *builder) ast() *AST {
	ast := &AST{
		files:          b.files(),
		filesByName:    b.filesByName,
		packages:       b.packages,
		packagesByName: b.packagesByName,
		nodes:          b.nodes,
	}
	for _, file := range ast.files {
		if file.BuildTarget() {
			ast.targets = append(ast.targets, file)
		}
	}
	return ast
}

func (b *builder) register(node Node) error {
	fullyQualifiedName := node.FullyQualifiedName()
	if _, ok := b.nodes[fullyQualifiedName]; ok {
		return &DuplicateNodeError{FullyQualifiedName: fullyQualifiedName}
	}
	b.nodes[fullyQualifiedName] = node
	return nil
}

func (b *builder) addFile(fileDescriptorProto *descriptorpb.FileDescriptorProto, buildTarget bool) error {
	syntax, err := ParseSyntax(fileDescriptorProto.GetSyntax())
	if err != nil {
		return err
	}
	file := &File{
		descriptor:  fileDescriptorProto,
		syntax:      syntax,
		buildTarget: buildTarget,
		usedImports: make(map[*File]struct{}),
	}
	state := &fileState{file: file}
	b.states = append(b.states, state)
	b.filesByName[file.Path()] = file
	pkg, err := b.getOrAddPackage(fileDescriptorProto.GetPackage())
	if err != nil {
		return err
	}
	pkg.addFile(file)

	for _, enumDescriptorProto := range fileDescriptorProto.GetEnumType() {
		enum, err := b.newEnum(file, enumDescriptorProto)
		if err != nil {
			return err
		}
		file.enums = append(file.enums, enum)
	}
	for _, descriptorProto := range fileDescriptorProto.GetMessageType() {
		message, err := b.newMessage(state, file, descriptorProto)
		if err != nil {
			return err
		}
		file.messages = append(file.messages, message)
	}
	for _, serviceDescriptorProto := range fileDescriptorProto.GetService() {
		service, err := b.newService(file, serviceDescriptorProto)
		if err != nil {
			return err
		}
		file.services = append(file.services, service)
	}
	for _, fieldDescriptorProto := range fileDescriptorProto.GetExtension() {
		extension, err := b.newExtension(state, file, fieldDescriptorProto)
		if err != nil {
			return err
		}
		file.definedExtensions = append(file.definedExtensions, extension)
	}
	return nil
}

// getOrAddPackage returns the package with the name, creating it if this is the first file
// that declares it.
func (b *builder) getOrAddPackage(name string) (*Package, error) {
	if pkg, ok := b.packagesByName[name]; ok {
		return pkg, nil
	}
	pkg := &Package{name: name}
	if name != "" {
		if err := b.register(pkg); err != nil {
			return nil, err
		}
	}
	b.packages = append(b.packages, pkg)
	b.packagesByName[name] = pkg
	return pkg, nil
}

func (b *builder) newMessage(state *fileState, container Container, descriptorProto *descriptorpb.DescriptorProto) (*Message, error) {
	message := &Message{
		descriptor:         descriptorProto,
		fullyQualifiedName: joinFullyQualifiedName(container.FullyQualifiedName(), descriptorProto.GetName()),
		container:          container,
		file:               state.file,
		maps:               make(map[string]*Message),
	}
	if err := b.register(message); err != nil {
		return nil, err
	}
	state.messages = append(state.messages, message)

	for _, enumDescriptorProto := range descriptorProto.GetEnumType() {
		enum, err := b.newEnum(message, enumDescriptorProto)
		if err != nil {
			return nil, err
		}
		message.enums = append(message.enums, enum)
	}
	for _, nestedDescriptorProto := range descriptorProto.GetNestedType() {
		nested, err := b.newMessage(state, message, nestedDescriptorProto)
		if err != nil {
			return nil, err
		}
		message.nested = append(message.nested, nested)
		if nested.IsMapEntry() {
			message.mapEntries = append(message.mapEntries, nested)
			message.maps[nested.FullyQualifiedName()] = nested
		} else {
			message.messages = append(message.messages, nested)
		}
	}
	for i, oneofDescriptorProto := range descriptorProto.GetOneofDecl() {
		oneof := &Oneof{
			descriptor:         oneofDescriptorProto,
			fullyQualifiedName: joinFullyQualifiedName(message.fullyQualifiedName, oneofDescriptorProto.GetName()),
			message:            message,
			synthetic:          isSyntheticOneof(descriptorProto, int32(i)),
		}
		if err := b.register(oneof); err != nil {
			return nil, err
		}
		message.oneofs = append(message.oneofs, oneof)
	}
	message.fields = make([]Field, len(descriptorProto.GetField()))
	for i, fieldDescriptorProto := range descriptorProto.GetField() {
		field, err := b.newField(state, message, i, fieldDescriptorProto)
		if err != nil {
			return nil, err
		}
		message.fields[i] = field
	}
	for _, fieldDescriptorProto := range descriptorProto.GetExtension() {
		extension, err := b.newExtension(state, message, fieldDescriptorProto)
		if err != nil {
			return nil, err
		}
		message.definedExtensions = append(message.definedExtensions, extension)
	}
	return message, nil
}

// newField returns nil for repeated message fields, which are added to the pending fields
// of the state instead.
func (b *builder) newField(state *fileState, message *Message, index int, fieldDescriptorProto *descriptorpb.FieldDescriptorProto) (Field, error) {
	fullyQualifiedName := joinFullyQualifiedName(message.fullyQualifiedName, fieldDescriptorProto.GetName())
	valueType, err := NewType(fieldDescriptorProto)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fullyQualifiedName, err)
	}
	if valueType.Kind == TypeKindGroup {
		return nil, &GroupNotSupportedError{FullyQualifiedName: fullyQualifiedName}
	}
	label, err := newLabel(fieldDescriptorProto.GetLabel())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fullyQualifiedName, err)
	}
	detail := &fieldDetail{
		descriptor:         fieldDescriptorProto,
		fullyQualifiedName: fullyQualifiedName,
		message:            message,
		label:              label,
		valueType:          valueType,
	}
	switch {
	case fieldDescriptorProto.OneofIndex != nil:
		oneofIndex := fieldDescriptorProto.GetOneofIndex()
		if oneofIndex < 0 || int(oneofIndex) >= len(message.oneofs) {
			return nil, &InvalidIndexError{
				FullyQualifiedName: fullyQualifiedName,
				FieldName:          "oneof_index",
				Index:              oneofIndex,
			}
		}
		detail.kind = FieldKindOneof
		detail.oneof = message.oneofs[oneofIndex]
	case label == LabelRepeated:
		detail.kind = FieldKindRepeated
		if valueType.Kind == TypeKindMessage {
			state.pending = append(state.pending, pendingField{detail: detail, index: index})
			return nil, nil
		}
	case valueType.Kind == TypeKindEnum:
		detail.kind = FieldKindEnum
	case valueType.Kind == TypeKindMessage:
		detail.kind = FieldKindEmbed
	default:
		detail.kind = FieldKindScalar
	}
	field := newField(detail)
	if detail.oneof != nil {
		detail.oneof.addField(field)
	}
	if err := b.register(field); err != nil {
		return nil, err
	}
	return field, nil
}

func (b *builder) newEnum(container Container, enumDescriptorProto *descriptorpb.EnumDescriptorProto) (*Enum, error) {
	enum := &Enum{
		descriptor:         enumDescriptorProto,
		fullyQualifiedName: joinFullyQualifiedName(container.FullyQualifiedName(), enumDescriptorProto.GetName()),
		container:          container,
		file:               container.File(),
	}
	if err := b.register(enum); err != nil {
		return nil, err
	}
	for _, enumValueDescriptorProto := range enumDescriptorProto.GetValue() {
		value := &EnumValue{
			descriptor:         enumValueDescriptorProto,
			fullyQualifiedName: joinFullyQualifiedName(enum.fullyQualifiedName, enumValueDescriptorProto.GetName()),
			enum:               enum,
		}
		if err := b.register(value); err != nil {
			return nil, err
		}
		enum.values = append(enum.values, value)
	}
	return enum, nil
}

func (b *builder) newService(file *File, serviceDescriptorProto *descriptorpb.ServiceDescriptorProto) (*Service, error) {
	service := &Service{
		descriptor:         serviceDescriptorProto,
		fullyQualifiedName: joinFullyQualifiedName(file.FullyQualifiedName(), serviceDescriptorProto.GetName()),
		file:               file,
	}
	if err := b.register(service); err != nil {
		return nil, err
	}
	for _, methodDescriptorProto := range serviceDescriptorProto.GetMethod() {
		method := &Method{
			descriptor:         methodDescriptorProto,
			fullyQualifiedName: joinFullyQualifiedName(service.fullyQualifiedName, methodDescriptorProto.GetName()),
			service:            service,
		}
		if err := b.register(method); err != nil {
			return nil, err
		}
		service.methods = append(service.methods, method)
	}
	return service, nil
}

func (b *builder) newExtension(state *fileState, container Container, fieldDescriptorProto *descriptorpb.FieldDescriptorProto) (*Extension, error) {
	fullyQualifiedName := joinFullyQualifiedName(container.FullyQualifiedName(), fieldDescriptorProto.GetName())
	valueType, err := NewType(fieldDescriptorProto)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fullyQualifiedName, err)
	}
	if valueType.Kind == TypeKindGroup {
		return nil, &GroupNotSupportedError{FullyQualifiedName: fullyQualifiedName}
	}
	label, err := newLabel(fieldDescriptorProto.GetLabel())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fullyQualifiedName, err)
	}
	extension := &Extension{
		descriptor:         fieldDescriptorProto,
		fullyQualifiedName: fullyQualifiedName,
		container:          container,
		file:               state.file,
		label:              label,
		valueType:          valueType,
	}
	if err := b.register(extension); err != nil {
		return nil, err
	}
	state.extensions = append(state.extensions, extension)
	return extension, nil
}
