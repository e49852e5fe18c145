package node

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// FromStruct converts a protobuf Struct into a mapping. A nil Struct yields an
// empty mapping.
func FromStruct(s *structpb.Struct) (*Mapping, error) {
	return fromStruct(s, nil, 0)
}

// FromValue converts a protobuf Value into a node. A nil Value yields Null.
func FromValue(v *structpb.Value) (Node, error) {
	return fromValue(v, nil, 0)
}

func fromStruct(s *structpb.Struct, path []string, depth int) (*Mapping, error) {
	if depth >= DefaultMaxDepth {
		return nil, fmt.Errorf("%w: %d at %s", ErrTooDeep, DefaultMaxDepth, FormatPath(path))
	}
	values := make(map[string]Node, len(s.GetFields()))
	for k, field := range s.GetFields() {
		n, err := fromValue(field, append(path, k), depth+1)
		if err != nil {
			return nil, err
		}
		values[k] = n
	}
	return newMapping(values), nil
}

func fromValue(v *structpb.Value, path []string, depth int) (Node, error) {
	switch kind := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return Null{}, nil
	case *structpb.Value_BoolValue:
		return Bool(kind.BoolValue), nil
	case *structpb.Value_NumberValue:
		return number(kind.NumberValue, path)
	case *structpb.Value_StringValue:
		return String(kind.StringValue), nil
	case *structpb.Value_StructValue:
		return fromStruct(kind.StructValue, path, depth)
	case *structpb.Value_ListValue:
		if depth >= DefaultMaxDepth {
			return nil, fmt.Errorf("%w: %d at %s", ErrTooDeep, DefaultMaxDepth, FormatPath(path))
		}
		values := kind.ListValue.GetValues()
		items := make([]Node, len(values))
		for i, item := range values {
			n, err := fromValue(item, append(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &Sequence{items: items}, nil
	default:
		return nil, fmt.Errorf("%w: %T at %s", ErrUnsupportedValue, kind, FormatPath(path))
	}
}

// ToStruct converts m into a protobuf Struct.
func (m *Mapping) ToStruct() *structpb.Struct {
	fields := make(map[string]*structpb.Value, m.Len())
	for k, v := range m.All() {
		fields[k] = ToValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

// ToValue converts n into a protobuf Value.
func ToValue(n Node) *structpb.Value {
	switch v := n.(type) {
	case Bool:
		return structpb.NewBoolValue(bool(v))
	case Number:
		return structpb.NewNumberValue(float64(v))
	case String:
		return structpb.NewStringValue(string(v))
	case *Mapping:
		return structpb.NewStructValue(v.ToStruct())
	case *Sequence:
		values := make([]*structpb.Value, v.Len())
		for i, item := range v.All() {
			values[i] = ToValue(item)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values})
	default:
		return structpb.NewNullValue()
	}
}
