package form

// Type is the role of a form within an exchange.
type Type string

const (
	TypeForm   Type = "form"
	TypeSubmit Type = "submit"
	TypeCancel Type = "cancel"
	TypeResult Type = "result"
)

// Form is an ordered, var-unique collection of fields. The zero value is an
// empty form without a type. A Form is not safe for concurrent mutation.
type Form struct {
	Type   Type
	fields []Field
	index  map[string]int
}

// New returns an empty form of the given type.
func New(t Type) *Form {
	return &Form{Type: t, index: make(map[string]int)}
}

// AddField appends f, or updates the field with the same var in place. On
// update the value is always replaced while type and label are only replaced
// when set on f.
func (f *Form) AddField(field Field) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[field.Var]; ok {
		existing := &f.fields[i]
		if field.Type != FieldUntyped {
			existing.Type = field.Type
		}
		if field.Label != "" {
			existing.Label = field.Label
		}
		existing.Value = field.clone().Value
		return
	}
	f.index[field.Var] = len(f.fields)
	f.fields = append(f.fields, field.clone())
}

// Field returns a copy of the field named v.
func (f *Form) Field(v string) (Field, bool) {
	if f == nil {
		return Field{}, false
	}
	i, ok := f.index[v]
	if !ok {
		return Field{}, false
	}
	return f.fields[i].clone(), true
}

// Has reports whether a field named v exists.
func (f *Form) Has(v string) bool {
	_, ok := f.Field(v)
	return ok
}

// Value returns the value of field v, or nil when absent.
func (f *Form) Value(v string) any {
	field, _ := f.Field(v)
	return field.Value
}

// SetValue replaces the value of an existing field. It returns false when no
// field named v exists.
func (f *Form) SetValue(v string, value any) bool {
	if f == nil {
		return false
	}
	i, ok := f.index[v]
	if !ok {
		return false
	}
	f.fields[i].Value = Field{Value: value}.clone().Value
	return true
}

// Fields returns a copy of the fields in insertion order.
func (f *Form) Fields() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, len(f.fields))
	for i, field := range f.fields {
		out[i] = field.clone()
	}
	return out
}

// Vars returns the field vars in insertion order.
func (f *Form) Vars() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = field.Var
	}
	return out
}

// Len returns the number of fields.
func (f *Form) Len() int {
	if f == nil {
		return 0
	}
	return len(f.fields)
}

// FormType returns the value of the FORM_TYPE field, if any.
func (f *Form) FormType() string {
	field, ok := f.Field(VarFormType)
	if !ok {
		return ""
	}
	return ValueString(field.Value)
}

// Clone returns a deep copy; a nil form clones to nil.
func (f *Form) Clone() *Form {
	if f == nil {
		return nil
	}
	cp := &Form{
		Type:   f.Type,
		fields: make([]Field, len(f.fields)),
		index:  make(map[string]int, len(f.fields)),
	}
	for i, field := range f.fields {
		cp.fields[i] = field.clone()
		cp.index[field.Var] = i
	}
	return cp
}
