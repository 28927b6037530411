// Package workflow models the modal flows of the admin portal: confirmation
// before destructive actions and staged create/edit forms.
package workflow

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type FormState int

const (
	FormClosed FormState = iota
	FormOpen
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormOpen:
		return "open"
	case FormSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Validatable is implemented by DTOs that check themselves before submit.
type Validatable interface {
	Ok(ctx context.Context) (map[string]string, bool)
}

type fieldErrorer interface {
	FieldErrors() serrors.ValidationErrors
}

type SubmitFunc[T any] func(ctx context.Context, mode Mode, value T) error

type Form[T any] struct {
	mu       sync.Mutex
	state    FormState
	mode     Mode
	value    T
	errors   map[string]string
	template func() T
	submit   SubmitFunc[T]
}

// NewForm builds a form whose create flow starts from template().
func NewForm[T any](template func() T, submit SubmitFunc[T]) *Form[T] {
	if template == nil {
		template = func() T {
			var zero T
			return zero
		}
	}
	return &Form[T]{template: template, submit: submit}
}

func (f *Form[T]) OpenCreate() error {
	return f.open(ModeCreate, f.template())
}

// OpenEdit opens the form prefilled with the entity's current values.
func (f *Form[T]) OpenEdit(prefill T) error {
	return f.open(ModeEdit, prefill)
}

func (f *Form[T]) open(mode Mode, value T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return ErrInFlight
	}
	f.state = FormOpen
	f.mode = mode
	f.value = value
	f.errors = nil
	return nil
}

// Set edits the staged value.
func (f *Form[T]) Set(edit func(*T)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormOpen {
		return ErrNotOpen
	}
	edit(&f.value)
	return nil
}

// Submit validates and sends the staged value. On success the form closes; on
// failure it stays open with field errors from validation or the backend.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FormOpen {
		f.mu.Unlock()
		return ErrNotOpen
	}
	value, mode := f.value, f.mode
	if v, ok := any(&value).(Validatable); ok {
		if errs, valid := v.Ok(ctx); !valid {
			f.errors = errs
			f.value = value
			f.mu.Unlock()
			return serrors.FromMessages(errs)
		}
		f.value = value
	}
	f.state = FormSubmitting
	f.errors = nil
	f.mu.Unlock()

	err := f.submit(ctx, mode, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.closeLocked()
		return nil
	}
	f.state = FormOpen
	f.errors = fieldErrors(err)
	return err
}

// Close discards the staged value. It is refused while submitting.
func (f *Form[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return ErrInFlight
	}
	f.closeLocked()
	return nil
}

func (f *Form[T]) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form[T]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *Form[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *Form[T]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

func (f *Form[T]) closeLocked() {
	var zero T
	f.state = FormClosed
	f.value = zero
	f.errors = nil
}

func fieldErrors(err error) map[string]string {
	var fe fieldErrorer
	if errors.As(err, &fe) {
		if msgs := fe.FieldErrors().Messages(); len(msgs) > 0 {
			return msgs
		}
	}
	var verrs serrors.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Messages()
	}
	return nil
}
