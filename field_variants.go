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

// ScalarField is a singular scalar field.
type ScalarField struct {
	*fieldDetail
	scalarValue
}

// EnumField is a singular enum field.
type EnumField struct {
	*fieldDetail
	enumValue
}

// EmbedField is a singular message field.
type EmbedField struct {
	*fieldDetail
	embedValue
}

// MappedScalarField is a map field with a scalar value.
type MappedScalarField struct {
	*fieldDetail
	scalarValue
	mapEntry
}

// MappedEnumField is a map field with an enum value.
type MappedEnumField struct {
	*fieldDetail
	enumValue
	mapEntry
}

// MappedEmbedField is a map field with a message value.
type MappedEmbedField struct {
	*fieldDetail
	embedValue
	mapEntry
}

// OneofScalarField is a scalar member of a oneof.
type OneofScalarField struct {
	*fieldDetail
	scalarValue
}

// OneofEnumField is an enum member of a oneof.
type OneofEnumField struct {
	*fieldDetail
	enumValue
}

// OneofEmbedField is a message member of a oneof.
type OneofEmbedField struct {
	*fieldDetail
	embedValue
}

// RepeatedScalarField is a repeated scalar field.
type RepeatedScalarField struct {
	*fieldDetail
	scalarValue
}

// RepeatedEnumField is a repeated enum field.
type RepeatedEnumField struct {
	*fieldDetail
	enumValue
}

// RepeatedEmbedField is a repeated message field that is not a map.
type RepeatedEmbedField struct {
	*fieldDetail
	embedValue
}

func (*OneofScalarField) isOneofField() {}
func (*OneofEnumField) isOneofField()   {}
func (*OneofEmbedField) isOneofField()  {}

func (*RepeatedScalarField) isRepeatedField() {}
func (*RepeatedEnumField) isRepeatedField()   {}
func (*RepeatedEmbedField) isRepeatedField()  {}

// *** PRIVATE ***

type scalarValue struct {
	scalar Scalar
}

// Scalar returns the scalar kind of the value.
func (s *scalarValue) Scalar() Scalar { return s.scalar }

// IsWellKnownType always returns false for scalar values.
func (*scalarValue) IsWellKnownType() bool { return false }

// WellKnownType always returns false for scalar values.
func (*scalarValue) WellKnownType() (WellKnownType, bool) { return "", false }

func (*scalarValue) setValue(Node) error {
	panic("protoast: setValue called on a field with a scalar value")
}

type enumValue struct {
	enum *Enum
}

// Enum returns the resolved enum of the value.
func (e *enumValue) Enum() *Enum { return e.enum }

// IsWellKnownType returns true if the resolved enum is a well-known enum.
func (e *enumValue) IsWellKnownType() bool {
	_, ok := e.WellKnownType()
	return ok
}

// WellKnownType returns the well-known type of the resolved enum.
func (e *enumValue) WellKnownType() (WellKnownType, bool) {
	if e.enum == nil {
		return "", false
	}
	return e.enum.WellKnownType()
}

func (e *enumValue) setValue(node Node) error {
	enum, ok := node.(*Enum)
	if !ok {
		return &InvalidNodeError{
			FullyQualifiedName: node.FullyQualifiedName(),
			Expected:           []NodeKind{NodeKindEnum},
			Actual:             node.Kind(),
		}
	}
	e.enum = enum
	return nil
}

type embedValue struct {
	embed *Message
}

// Embed returns the resolved message of the value.
func (e *embedValue) Embed() *Message { return e.embed }

// IsWellKnownType returns true if the resolved message is a well-known type.
func (e *embedValue) IsWellKnownType() bool {
	_, ok := e.WellKnownType()
	return ok
}

// WellKnownType returns the well-known type of the resolved message.
func (e *embedValue) WellKnownType() (WellKnownType, bool) {
	if e.embed == nil {
		return "", false
	}
	return e.embed.WellKnownType()
}

func (e *embedValue) setValue(node Node) error {
	message, ok := node.(*Message)
	if !ok {
		return &InvalidNodeError{
			FullyQualifiedName: node.FullyQualifiedName(),
			Expected:           []NodeKind{NodeKindMessage},
			Actual:             node.Kind(),
		}
	}
	e.embed = message
	return nil
}

type mapEntry struct {
	entry *Message
	key   Key
	value Field
}

// Key returns the kind of the map key.
func (m *mapEntry) Key() Key { return m.key }

// Entry returns the synthetic map entry message.
func (m *mapEntry) Entry() *Message { return m.entry }

// Value returns the value field of the map entry message.
func (m *mapEntry) Value() Field { return m.value }

// newField returns the variant for the kind and value type of the detail.
//
// The kind must not be FieldKindMap, see newMapField.
func newField(detail *fieldDetail) Field {
	scalar := scalarValue{scalar: detail.valueType.Scalar}
	switch detail.kind {
	case FieldKindOneof:
		switch detail.valueType.Kind {
		case TypeKindEnum:
			return &OneofEnumField{fieldDetail: detail}
		case TypeKindMessage:
			return &OneofEmbedField{fieldDetail: detail}
		default:
			return &OneofScalarField{fieldDetail: detail, scalarValue: scalar}
		}
	case FieldKindRepeated:
		switch detail.valueType.Kind {
		case TypeKindEnum:
			return &RepeatedEnumField{fieldDetail: detail}
		case TypeKindMessage:
			return &RepeatedEmbedField{fieldDetail: detail}
		default:
			return &RepeatedScalarField{fieldDetail: detail, scalarValue: scalar}
		}
	case FieldKindEnum:
		return &EnumField{fieldDetail: detail}
	case FieldKindEmbed:
		return &EmbedField{fieldDetail: detail}
	default:
		return &ScalarField{fieldDetail: detail, scalarValue: scalar}
	}
}

// newMapField builds the map variant for a repeated field whose value type is the entry message.
//
// The entry must be nested in the message of the field. The key is the first field of the
// entry and the value is the second. The value field must already be resolved.
func newMapField(detail *fieldDetail, entry *Message) (Field, error) {
	invalid := func(reason MapEntryReason) error {
		return &InvalidMapEntryError{FullyQualifiedName: detail.fullyQualifiedName, Reason: reason}
	}
	if detail.valueType.Kind != TypeKindMessage {
		return nil, invalid(MapEntryFieldNotEmbed)
	}
	if !entry.IsMapEntry() {
		return nil, invalid(MapEntryEmbedNotMap)
	}
	// Only an entry nested in the message of the field is its map entry.
	if parent, ok := entry.container.(*Message); !ok || parent != detail.message {
		return nil, invalid(MapEntryEmbedNotMap)
	}
	if len(entry.fields) < 1 || entry.fields[0] == nil {
		return nil, invalid(MapEntryMissingKey)
	}
	keyField, ok := entry.fields[0].(*ScalarField)
	if !ok {
		return nil, invalid(MapEntryInvalidKey)
	}
	key, ok := newKey(keyField.Scalar())
	if !ok {
		return nil, invalid(MapEntryInvalidKey)
	}
	if len(entry.fields) < 2 || entry.fields[1] == nil {
		return nil, invalid(MapEntryMissingValue)
	}
	value := entry.fields[1]
	detail.kind = FieldKindMap
	detail.valueType = value.ValueType()
	mapped := mapEntry{entry: entry, key: key, value: value}
	switch value := value.(type) {
	case *ScalarField:
		return &MappedScalarField{fieldDetail: detail, scalarValue: value.scalarValue, mapEntry: mapped}, nil
	case *EnumField:
		return &MappedEnumField{fieldDetail: detail, enumValue: value.enumValue, mapEntry: mapped}, nil
	case *EmbedField:
		return &MappedEmbedField{fieldDetail: detail, embedValue: value.embedValue, mapEntry: mapped}, nil
	default:
		return nil, invalid(MapEntryMissingValue)
	}
}
