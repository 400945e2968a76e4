package template

import (
	"fmt"
	"strconv"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output kind_string.go

// Kind tags the payload of a [Value].
type Kind uint8

const (
	KindNil    Kind = iota // no value
	KindString             // plain string, escaped on output
	KindSafe               // pre-escaped string, written verbatim
	KindInt                // int64
	KindFloat              // float64
	KindBool               // bool
	KindList               // []any
	KindMap                // map[string]any
	KindHandle             // Handle
	KindOther              // any other Go value
)

// SafeString is text that has already been escaped and must be written to
// output verbatim.
type SafeString string

// Handle is an opaque object bound into a scope whose attributes are
// resolved on access.
type Handle interface {
	Attr(name string) (Value, error)
}

// Value is a tagged scope binding.
//
// The zero Value has kind [KindNil].
type Value struct {
	v    any
	kind Kind
}

// Nil returns the nil Value.
func Nil() Value { return Value{} }

// String returns a plain string Value.
func String(s string) Value { return Value{kind: KindString, v: s} }

// Safe returns a Value written to output without escaping.
func Safe(s SafeString) Value { return Value{kind: KindSafe, v: s} }

// Int returns an integer Value.
func Int(n int64) Value { return Value{kind: KindInt, v: n} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, v: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, v: b} }

// HandleValue returns a Value bound to h.
func HandleValue(h Handle) Value {
	if h == nil {
		return Value{}
	}

	return Value{kind: KindHandle, v: h}
}

// ValueOf tags an arbitrary Go value, such as one decoded from YAML or
// produced by an expression.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return String(x)
	case SafeString:
		return Safe(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case []any:
		return Value{kind: KindList, v: x}
	case map[string]any:
		return Value{kind: KindMap, v: x}
	case Handle:
		return HandleValue(x)
	default:
		return Value{kind: KindOther, v: x}
	}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v holds no value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Handle returns the handle held by v.
func (v Value) Handle() (Handle, bool) {
	h, ok := v.v.(Handle)

	return h, ok && v.kind == KindHandle
}

// Native returns the untagged Go value used in expression environments.
func (v Value) Native() any { return v.v }

// String formats v for output. Nil formats as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindString:
		return v.v.(string)
	case KindSafe:
		return string(v.v.(SafeString))
	case KindInt:
		return strconv.FormatInt(v.v.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.v.(float64), 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.v.(bool))
	default:
		return fmt.Sprint(v.v)
	}
}
