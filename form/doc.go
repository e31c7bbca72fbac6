// Package form implements the data form model used to carry node
// configuration and publish options.
//
// A Form is an ordered list of fields that is unique by field var. Adding a
// field whose var is already present updates that field in place, so callers
// can layer values onto a form without producing duplicates:
//
//	f := form.New(form.TypeSubmit)
//	f.AddField(form.Field{Var: form.VarFormType, Type: form.FieldHidden, Value: ns})
//	f.AddField(form.Field{Var: "pubsub#persist_items", Value: true})
//
// Wire encoding is left to the transport; this package only models the
// content.
package form
