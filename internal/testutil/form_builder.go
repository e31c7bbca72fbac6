package testutil

import (
	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
)

// FormBuilder helps construct forms with fluent chaining for tests.
// Example:
//
//	f := NewFormBuilder(form.TypeSubmit).PublishOptions().Field("pubsub#access_model", "open").Build()
type FormBuilder struct {
	typ    form.Type
	fields []form.Field
}

// NewFormBuilder creates a builder for a form of the given type.
func NewFormBuilder(t form.Type) *FormBuilder {
	return &FormBuilder{typ: t}
}

// PublishOptions adds the hidden publish-options FORM_TYPE field (chainable).
func (b *FormBuilder) PublishOptions() *FormBuilder {
	return b.Hidden(form.VarFormType, core.NSPublishOptions)
}

// Hidden adds a hidden field (chainable).
func (b *FormBuilder) Hidden(v string, val any) *FormBuilder {
	b.fields = append(b.fields, form.Field{Var: v, Type: form.FieldHidden, Value: val})
	return b
}

// Field adds an untyped field (chainable).
func (b *FormBuilder) Field(v string, val any) *FormBuilder {
	b.fields = append(b.fields, form.Field{Var: v, Value: val})
	return b
}

// Build returns the form with fields added in order.
func (b *FormBuilder) Build() *form.Form {
	f := form.New(b.typ)
	for _, field := range b.fields {
		f.AddField(field)
	}
	return f
}

// Payload returns a raw payload in namespace ns.
func Payload(ns, body string) core.RawPayload {
	return core.RawPayload{NS: ns, Body: []byte(body)}
}
