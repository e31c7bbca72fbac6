package form

import (
	"strconv"
	"strings"
)

// VarFormType is the hidden field naming the namespace a form belongs to.
const VarFormType = "FORM_TYPE"

// FieldType enumerates data form field types. The zero value is an untyped
// field, which receivers treat as text-single.
type FieldType string

const (
	FieldUntyped     FieldType = ""
	FieldBoolean     FieldType = "boolean"
	FieldFixed       FieldType = "fixed"
	FieldHidden      FieldType = "hidden"
	FieldJIDMulti    FieldType = "jid-multi"
	FieldJIDSingle   FieldType = "jid-single"
	FieldListMulti   FieldType = "list-multi"
	FieldListSingle  FieldType = "list-single"
	FieldTextMulti   FieldType = "text-multi"
	FieldTextPrivate FieldType = "text-private"
	FieldTextSingle  FieldType = "text-single"
)

// Field is a single form entry identified by Var.
type Field struct {
	Var   string
	Type  FieldType
	Label string
	// Value holds a bool, a string, a []string or nil when unset.
	Value any
}

func (f Field) clone() Field {
	if vs, ok := f.Value.([]string); ok {
		cp := make([]string, len(vs))
		copy(cp, vs)
		f.Value = cp
	}
	return f
}

// ValueString renders a field value the way it is compared and transmitted.
// Booleans become "1" or "0"; multi-valued fields are newline joined.
func ValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "1"
		}
		return "0"
	case string:
		return t
	case []string:
		return strings.Join(t, "\n")
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// EqualValues reports whether two field values are equivalent. Boolean
// lexical forms ("1", "true", "0", "false") compare equal to their bool.
func EqualValues(a, b any) bool {
	if ab, ok := asBool(a); ok {
		if bb, ok := asBool(b); ok {
			return ab == bb
		}
	}
	return ValueString(a) == ValueString(b)
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch t {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}
	}
	return false, false
}
