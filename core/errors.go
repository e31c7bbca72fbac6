package core

import (
	"errors"
	"fmt"
)

// Condition is a defined stanza error condition.
type Condition string

const (
	ConditionBadRequest         Condition = "bad-request"
	ConditionConflict           Condition = "conflict"
	ConditionFeatureNotImpl     Condition = "feature-not-implemented"
	ConditionForbidden          Condition = "forbidden"
	ConditionItemNotFound       Condition = "item-not-found"
	ConditionNotAcceptable      Condition = "not-acceptable"
	ConditionServiceUnavailable Condition = "service-unavailable"
)

// StanzaError is a protocol level failure reported by the pub/sub service,
// for example an access denial on a private node.
type StanzaError struct {
	Condition Condition
	// PubSubCondition carries the application specific condition, such as
	// "precondition-not-met", when the service supplies one.
	PubSubCondition string
	Text            string
}

func (e *StanzaError) Error() string {
	msg := "pubsub: " + string(e.Condition)
	if e.PubSubCondition != "" {
		msg += " (" + e.PubSubCondition + ")"
	}
	if e.Text != "" {
		msg += ": " + e.Text
	}
	return msg
}

// Is matches another *StanzaError with the same condition. A target without a
// PubSubCondition matches any application condition.
func (e *StanzaError) Is(target error) bool {
	var t *StanzaError
	if !errors.As(target, &t) {
		return false
	}
	if t.Condition != e.Condition {
		return false
	}
	return t.PubSubCondition == "" || t.PubSubCondition == e.PubSubCondition
}

// Sentinels for errors.Is checks against service failures.
var (
	ErrBadRequest         = &StanzaError{Condition: ConditionBadRequest}
	ErrConflict           = &StanzaError{Condition: ConditionConflict}
	ErrForbidden          = &StanzaError{Condition: ConditionForbidden}
	ErrItemNotFound       = &StanzaError{Condition: ConditionItemNotFound}
	ErrNotAcceptable      = &StanzaError{Condition: ConditionNotAcceptable}
	ErrPreconditionNotMet = &StanzaError{Condition: ConditionConflict, PubSubCondition: "precondition-not-met"}

	// ErrTimeout is returned when no reply arrives within the request timeout.
	ErrTimeout = fmt.Errorf("pubsub: response timeout")
	// ErrTransport is returned when the underlying stream is lost.
	ErrTransport = fmt.Errorf("pubsub: transport failure")
)

// NewStanzaError builds a StanzaError with a formatted text.
func NewStanzaError(cond Condition, format string, args ...any) *StanzaError {
	return &StanzaError{Condition: cond, Text: fmt.Sprintf(format, args...)}
}
