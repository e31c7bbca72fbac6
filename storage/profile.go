package storage

import (
	"github.com/hupe1980/privstore/core"
	"github.com/hupe1980/privstore/form"
)

// Setting is a single node configuration value the profile enforces.
type Setting struct {
	Var   string
	Value any
}

// Profile is an ordered set of node configuration values.
type Profile []Setting

var privateProfile = Profile{
	{Var: core.FieldPersistItems, Value: true},
	{Var: core.FieldAccessModel, Value: core.AccessWhitelist},
}

// DefaultProfile returns a copy of the persistent private storage profile:
// items are persisted and only whitelisted entities (the owner) may read them.
func DefaultProfile() Profile {
	out := make(Profile, len(privateProfile))
	copy(out, privateProfile)
	return out
}

// Apply returns a copy of f in which every profile field is present exactly
// once and carries the profile's value. Fields missing from f are appended
// untyped. f itself is not modified; a nil f yields an empty submit form.
func (p Profile) Apply(f *form.Form) *form.Form {
	out := f.Clone()
	if out == nil {
		out = form.New(form.TypeSubmit)
	}
	for _, s := range p {
		if !out.Has(s.Var) {
			out.AddField(form.Field{Var: s.Var})
		}
		out.SetValue(s.Var, s.Value)
	}
	return out
}

// Satisfied reports whether every profile value is already present in f.
func (p Profile) Satisfied(f *form.Form) bool {
	for _, s := range p {
		field, ok := f.Field(s.Var)
		if !ok || !form.EqualValues(field.Value, s.Value) {
			return false
		}
	}
	return true
}
