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
	"strings"
)

// resolve links the nodes registered by addFile.
//
// Import edges of all files are linked first, so that public imports are known when usage
// is recorded. Then, file by file in input order, extensions, fields, pending repeated
// message fields and methods are resolved.
func (b *builder) resolve() error {
	for _, state := range b.states {
		if err := b.resolveImports(state.file); err != nil {
			return fmt.Errorf("%s: %w", state.file.Path(), err)
		}
	}
	for _, state := range b.states {
		if err := b.resolveFile(state); err != nil {
			return fmt.Errorf("%s: %w", state.file.Path(), err)
		}
	}
	return nil
}

func (b *builder) resolveImports(file *File) error {
	for _, dependency := range file.descriptor.GetDependency() {
		imported, ok := b.filesByName[dependency]
		if !ok {
			return &DependencyNotFoundError{File: file.Path(), Dependency: dependency}
		}
		file.addImport(imported)
		imported.addDependent(file)
	}
	for _, index := range file.descriptor.GetPublicDependency() {
		if index < 0 || int(index) >= len(file.imports) {
			return &InvalidIndexError{
				FullyQualifiedName: file.Path(),
				FieldName:          "public_dependency",
				Index:              index,
			}
		}
		file.publicImports = append(file.publicImports, file.imports[index])
	}
	return nil
}

func (b *builder) resolveFile(state *fileState) error {
	for _, extension := range state.extensions {
		if err := b.resolveExtension(extension); err != nil {
			return err
		}
	}
	// Map entry fields are resolved here, before the pending fields that become maps need them.
	for _, message := range state.messages {
		for _, field := range message.fields {
			if field == nil {
				continue
			}
			if err := b.resolveField(field); err != nil {
				return err
			}
		}
	}
	for _, pending := range state.pending {
		if err := b.resolvePendingField(pending); err != nil {
			return err
		}
	}
	for _, service := range state.file.services {
		for _, method := range service.methods {
			if err := b.resolveMethod(method); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) resolveExtension(extension *Extension) error {
	scope := extension.container.FullyQualifiedName()
	extendeeName := extension.descriptor.GetExtendee()
	node, ok := b.lookup(scope, extendeeName)
	if !ok {
		return &ExtendeeNotFoundError{Extension: extension.fullyQualifiedName, Extendee: extendeeName}
	}
	extendee, ok := node.(*Message)
	if !ok {
		return &InvalidNodeError{
			FullyQualifiedName: node.FullyQualifiedName(),
			Expected:           []NodeKind{NodeKindMessage},
			Actual:             node.Kind(),
		}
	}
	extension.extendee = extendee
	extendee.appliedExtensions = append(extendee.appliedExtensions, extension)
	extension.file.markImportUsed(extendee.file)

	if !hasReference(extension.valueType) {
		return nil
	}
	target, err := b.lookupType(scope, extension.valueType.Name)
	if err != nil {
		return err
	}
	if err := extension.setValue(target); err != nil {
		return fmt.Errorf("%s: %w", extension.fullyQualifiedName, err)
	}
	extension.file.markImportUsed(fileOf(target))
	return nil
}

func (b *builder) resolveField(field Field) error {
	valueType := field.ValueType()
	if !hasReference(valueType) {
		return nil
	}
	message := field.Message()
	target, err := b.lookupType(message.fullyQualifiedName, valueType.Name)
	if err != nil {
		return err
	}
	if err := field.setValue(target); err != nil {
		return fmt.Errorf("%s: %w", field.FullyQualifiedName(), err)
	}
	b.recordUsage(message, target)
	return nil
}

// resolvePendingField builds the repeated message field, or the map field if the type
// name resolves to a map entry, and puts it in place in the fields of its message.
func (b *builder) resolvePendingField(pending pendingField) error {
	detail := pending.detail
	message := detail.message
	target, err := b.lookupType(message.fullyQualifiedName, detail.valueType.Name)
	if err != nil {
		return err
	}
	var field Field
	if entry, ok := target.(*Message); ok && entry.IsMapEntry() {
		field, err = newMapField(detail, entry)
		if err != nil {
			return err
		}
	} else {
		field = newField(detail)
		if err := field.setValue(target); err != nil {
			return fmt.Errorf("%s: %w", detail.fullyQualifiedName, err)
		}
		b.recordUsage(message, target)
	}
	message.fields[pending.index] = field
	return b.register(field)
}

func (b *builder) resolveMethod(method *Method) error {
	scope := method.service.fullyQualifiedName
	resolveMessage := func(direction string, typeName string) (*Message, error) {
		if typeName == "" {
			return nil, &MissingMethodError{Method: method.fullyQualifiedName, Direction: direction}
		}
		node, ok := b.lookup(scope, typeName)
		if !ok {
			return nil, &MissingMethodError{Method: method.fullyQualifiedName, Direction: direction, TypeName: typeName}
		}
		message, ok := node.(*Message)
		if !ok {
			return nil, &InvalidNodeError{
				FullyQualifiedName: node.FullyQualifiedName(),
				Expected:           []NodeKind{NodeKindMessage},
				Actual:             node.Kind(),
			}
		}
		method.File().markImportUsed(message.file)
		return message, nil
	}
	input, err := resolveMessage("input", method.descriptor.GetInputType())
	if err != nil {
		return err
	}
	output, err := resolveMessage("output", method.descriptor.GetOutputType())
	if err != nil {
		return err
	}
	method.input = input
	method.output = output
	return nil
}

// recordUsage records that a field of message references the target.
//
// Fields of map entries are recorded on the message declaring the map field.
func (b *builder) recordUsage(message *Message, target Node) {
	owner := message
	for owner.IsMapEntry() {
		parent, ok := owner.container.(*Message)
		if !ok {
			break
		}
		owner = parent
	}
	switch target := target.(type) {
	case *Message:
		if !target.IsMapEntry() {
			target.addDependent(owner)
		}
	case *Enum:
		target.addDependent(owner)
	}
	targetFile := fileOf(target)
	owner.addImport(targetFile)
	owner.file.markImportUsed(targetFile)
}

// lookupType is lookup, returning a *NodeNotFoundError if the type name does not resolve.
func (b *builder) lookupType(scope string, typeName string) (Node, error) {
	node, ok := b.lookup(scope, typeName)
	if !ok {
		return nil, &NodeNotFoundError{FullyQualifiedName: typeName}
	}
	return node, nil
}

// lookup resolves a type name referenced from within the scope.
//
// Fully-qualified names start with a dot and are looked up directly. Other names are
// looked up in the scope and then in each enclosing scope, and only match messages and enums.
func (b *builder) lookup(scope string, typeName string) (Node, bool) {
	if strings.HasPrefix(typeName, ".") {
		node, ok := b.nodes[typeName]
		return node, ok
	}
	for {
		if node, ok := b.nodes[joinFullyQualifiedName(scope, typeName)]; ok {
			switch node.(type) {
			case *Message, *Enum:
				return node, true
			}
		}
		if scope == "" {
			return nil, false
		}
		scope = parentFullyQualifiedName(scope)
	}
}

func hasReference(valueType Type) bool {
	return valueType.Kind == TypeKindEnum || valueType.Kind == TypeKindMessage
}
