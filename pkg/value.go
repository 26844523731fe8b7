package confreader

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is the typed content of an OKS attribute.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	List  []Value
}

// kindOfType maps an OKS attribute type to the kind it is coerced to.
func kindOfType(oksType string) Kind {
	switch oksType {
	case "bool":
		return KindBool
	case "s8", "s16", "s32", "s64":
		return KindInt
	case "u8", "u16", "u32", "u64":
		return KindUint
	case "float", "double":
		return KindFloat
	case "string", "enum", "date", "time", "class":
		return KindString
	default:
		return KindInvalid
	}
}

func bitSize(oksType string) int {
	n, err := strconv.Atoi(oksType[1:])
	if err != nil {
		return 64
	}
	return n
}

func integerBase(literal string) (string, int) {
	lower := strings.ToLower(literal)
	if strings.HasPrefix(lower, "0x") {
		return literal[2:], 16
	}
	if strings.HasPrefix(lower, "-0x") {
		return "-" + literal[3:], 16
	}
	return literal, 10
}

// parseValue coerces the literal val of an attribute to its declared type.
func parseValue(oksType string, literal string) (Value, error) {
	literal = strings.TrimSpace(literal)
	switch kindOfType(oksType) {
	case KindBool:
		switch strings.ToLower(literal) {
		case "1", "true", "yes", "on":
			return Value{Kind: KindBool, Bool: true}, nil
		case "0", "false", "no", "off", "":
			return Value{Kind: KindBool, Bool: false}, nil
		}
		return Value{}, fmt.Errorf("invalid bool literal %q", literal)
	case KindInt:
		digits, base := integerBase(literal)
		v, err := strconv.ParseInt(digits, base, bitSize(oksType))
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s literal %q: %w", oksType, literal, err)
		}
		return Value{Kind: KindInt, Int: v}, nil
	case KindUint:
		digits, base := integerBase(literal)
		v, err := strconv.ParseUint(digits, base, bitSize(oksType))
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s literal %q: %w", oksType, literal, err)
		}
		return Value{Kind: KindUint, Uint: v}, nil
	case KindFloat:
		size := 64
		if oksType == "float" {
			size = 32
		}
		v, err := strconv.ParseFloat(literal, size)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s literal %q: %w", oksType, literal, err)
		}
		return Value{Kind: KindFloat, Float: v}, nil
	case KindString:
		return Value{Kind: KindString, Str: literal}, nil
	}
	return Value{}, fmt.Errorf("unknown attribute type %q", oksType)
}

// AsBool returns the value as a bool. Only bool attributes qualify.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// AsInt returns signed and unsigned integer attributes as int64.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindUint:
		if v.Uint > 1<<63-1 {
			return 0, false
		}
		return int64(v.Uint), true
	}
	return 0, false
}

// Interface returns the Go value held, for printing and serialization.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindUint:
		return v.Uint
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindList:
		values := make([]any, len(v.List))
		for i, item := range v.List {
			values[i] = item.Interface()
		}
		return values
	}
	return nil
}

func (v Value) String() string {
	return fmt.Sprintf("%v", v.Interface())
}
