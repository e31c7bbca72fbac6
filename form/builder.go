package form

// Builder is the default form factory.
type Builder struct{}

// NewSubmit returns an empty submit form.
func (Builder) NewSubmit() *Form {
	return New(TypeSubmit)
}
