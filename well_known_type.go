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

// WellKnownPackage is the package containing the well-known types.
const WellKnownPackage = "google.protobuf"

// WellKnownType is a message or enum in the google.protobuf package with special handling.
type WellKnownType string

const (
	WellKnownTypeAny           WellKnownType = "Any"
	WellKnownTypeAPI           WellKnownType = "Api"
	WellKnownTypeBoolValue     WellKnownType = "BoolValue"
	WellKnownTypeBytesValue    WellKnownType = "BytesValue"
	WellKnownTypeDoubleValue   WellKnownType = "DoubleValue"
	WellKnownTypeDuration      WellKnownType = "Duration"
	WellKnownTypeEmpty         WellKnownType = "Empty"
	WellKnownTypeEnum          WellKnownType = "Enum"
	WellKnownTypeEnumValue     WellKnownType = "EnumValue"
	WellKnownTypeField         WellKnownType = "Field"
	WellKnownTypeFieldMask     WellKnownType = "FieldMask"
	WellKnownTypeFloatValue    WellKnownType = "FloatValue"
	WellKnownTypeInt32Value    WellKnownType = "Int32Value"
	WellKnownTypeInt64Value    WellKnownType = "Int64Value"
	WellKnownTypeListValue     WellKnownType = "ListValue"
	WellKnownTypeMethod        WellKnownType = "Method"
	WellKnownTypeMixin         WellKnownType = "Mixin"
	WellKnownTypeOption        WellKnownType = "Option"
	WellKnownTypeSourceContext WellKnownType = "SourceContext"
	WellKnownTypeStringValue   WellKnownType = "StringValue"
	WellKnownTypeStruct        WellKnownType = "Struct"
	WellKnownTypeTimestamp     WellKnownType = "Timestamp"
	WellKnownTypeType          WellKnownType = "Type"
	WellKnownTypeUInt32Value   WellKnownType = "UInt32Value"
	WellKnownTypeUInt64Value   WellKnownType = "UInt64Value"
	WellKnownTypeValue         WellKnownType = "Value"

	WellKnownTypeFieldCardinality WellKnownType = "Field.Cardinality"
	WellKnownTypeFieldKind        WellKnownType = "Field.Kind"
	WellKnownTypeNullValue        WellKnownType = "NullValue"
	WellKnownTypeSyntax           WellKnownType = "Syntax"
)

var wellKnownMessages = map[string]WellKnownType{
	string(WellKnownTypeAny):           WellKnownTypeAny,
	string(WellKnownTypeAPI):           WellKnownTypeAPI,
	string(WellKnownTypeBoolValue):     WellKnownTypeBoolValue,
	string(WellKnownTypeBytesValue):    WellKnownTypeBytesValue,
	string(WellKnownTypeDoubleValue):   WellKnownTypeDoubleValue,
	string(WellKnownTypeDuration):      WellKnownTypeDuration,
	string(WellKnownTypeEmpty):         WellKnownTypeEmpty,
	string(WellKnownTypeEnum):          WellKnownTypeEnum,
	string(WellKnownTypeEnumValue):     WellKnownTypeEnumValue,
	string(WellKnownTypeField):         WellKnownTypeField,
	string(WellKnownTypeFieldMask):     WellKnownTypeFieldMask,
	string(WellKnownTypeFloatValue):    WellKnownTypeFloatValue,
	string(WellKnownTypeInt32Value):    WellKnownTypeInt32Value,
	string(WellKnownTypeInt64Value):    WellKnownTypeInt64Value,
	string(WellKnownTypeListValue):     WellKnownTypeListValue,
	string(WellKnownTypeMethod):        WellKnownTypeMethod,
	string(WellKnownTypeMixin):         WellKnownTypeMixin,
	string(WellKnownTypeOption):        WellKnownTypeOption,
	string(WellKnownTypeSourceContext): WellKnownTypeSourceContext,
	string(WellKnownTypeStringValue):   WellKnownTypeStringValue,
	string(WellKnownTypeStruct):        WellKnownTypeStruct,
	string(WellKnownTypeTimestamp):     WellKnownTypeTimestamp,
	string(WellKnownTypeType):          WellKnownTypeType,
	string(WellKnownTypeUInt32Value):   WellKnownTypeUInt32Value,
	string(WellKnownTypeUInt64Value):   WellKnownTypeUInt64Value,
	string(WellKnownTypeValue):         WellKnownTypeValue,
}

var wellKnownEnums = map[string]WellKnownType{
	string(WellKnownTypeFieldCardinality): WellKnownTypeFieldCardinality,
	string(WellKnownTypeFieldKind):        WellKnownTypeFieldKind,
	string(WellKnownTypeNullValue):        WellKnownTypeNullValue,
	string(WellKnownTypeSyntax):           WellKnownTypeSyntax,
}

// String implements fmt.Stringer.
func (w WellKnownType) String() string { return string(w) }

// FullyQualifiedName returns the fully-qualified name of the well-known type.
func (w WellKnownType) FullyQualifiedName() string {
	return joinFullyQualifiedName(packageFullyQualifiedName(WellKnownPackage), string(w))
}

// lookupWellKnownType returns the WellKnownType for a fully-qualified name, if any.
//
// The name is matched relative to the google.protobuf package, so nested well-known
// enums such as Field.Kind are recognized.
func lookupWellKnownType(fullyQualifiedName string, table map[string]WellKnownType) (WellKnownType, bool) {
	prefix := packageFullyQualifiedName(WellKnownPackage) + "."
	if len(fullyQualifiedName) <= len(prefix) || fullyQualifiedName[:len(prefix)] != prefix {
		return "", false
	}
	wellKnownType, ok := table[fullyQualifiedName[len(prefix):]]
	return wellKnownType, ok
}
