// Package generator holds the generator form's view state as a plain value.
//
// A State is owned by the presentation controller (the CLI REPL) and passed
// to rendering code; every transition returns a new State and never mutates
// the receiver, so a State can be kept, compared or serialized freely.
package generator

import (
	"errors"

	"github.com/dmitrijs2005/kodex/internal/payload"
)

// BuildFunc turns form input into a payload.
type BuildFunc func(kind payload.Kind, in payload.Input, encrypt bool) (string, error)

type State struct {
	Kind        payload.Kind  `json:"kind"`
	Fields      payload.Input `json:"fields"`
	Encrypt     bool          `json:"encrypt"`
	ErrorFields []string      `json:"error_fields,omitempty"`
	Payload     string        `json:"payload,omitempty"`
}

// New returns a blank form for kind with field defaults applied.
func New(kind payload.Kind) State {
	fields := payload.Input{}
	for _, spec := range payload.Fields(kind) {
		if spec.Default != "" {
			fields[spec.Name] = spec.Default
		}
	}
	return State{Kind: kind, Fields: fields}
}

// Specs lists the form fields for the current kind.
func (s State) Specs() []payload.FieldSpec {
	return payload.Fields(s.Kind)
}

// SetKind switches to another kind and clears the form. The encrypt toggle
// is kept.
func (s State) SetKind(kind payload.Kind) State {
	next := New(kind)
	next.Encrypt = s.Encrypt
	return next
}

// SetField stores a value, clears that field's error and drops any
// previously built payload.
func (s State) SetField(name, value string) State {
	next := s.clone()
	next.Fields[name] = value
	next.ErrorFields = without(next.ErrorFields, name)
	next.Payload = ""
	return next
}

func (s State) SetEncrypt(on bool) State {
	next := s.clone()
	next.Encrypt = on
	next.Payload = ""
	return next
}

// HasError reports whether name was flagged by the last Submit.
func (s State) HasError(name string) bool {
	for _, f := range s.ErrorFields {
		if f == name {
			return true
		}
	}
	return false
}

// Submit runs build. Missing required fields are recorded in ErrorFields;
// on success Payload holds the result and ErrorFields is empty.
func (s State) Submit(build BuildFunc) (State, error) {
	next := s.clone()
	next.Payload = ""
	next.ErrorFields = nil

	p, err := build(s.Kind, next.Fields, s.Encrypt)
	if err != nil {
		var mfe *payload.MissingFieldsError
		if errors.As(err, &mfe) {
			next.ErrorFields = append([]string(nil), mfe.Fields...)
		}
		return next, err
	}
	next.Payload = p
	return next, nil
}

// Reset clears the form but keeps kind and the encrypt toggle.
func (s State) Reset() State {
	return s.SetKind(s.Kind)
}

func (s State) clone() State {
	next := s
	next.Fields = make(payload.Input, len(s.Fields))
	for k, v := range s.Fields {
		next.Fields[k] = v
	}
	next.ErrorFields = append([]string(nil), s.ErrorFields...)
	return next
}

func without(list []string, name string) []string {
	out := list[:0:0]
	for _, x := range list {
		if x != name {
			out = append(out, x)
		}
	}
	return out
}
