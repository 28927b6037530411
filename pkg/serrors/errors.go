package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// BaseError is the common error shape surfaced to admins: a stable code, a
// default English message and an optional locale key for translated UIs.
type BaseError struct {
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	LocaleKey    string            `json:"locale_key,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	if len(e.TemplateData) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.TemplateData))
	for k := range e.TemplateData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, e.TemplateData[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// Is matches sentinel errors by code so wrapped copies carrying template data
// still satisfy errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	merged := make(map[string]string, len(e.TemplateData)+len(data))
	for k, v := range e.TemplateData {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	return &BaseError{
		Code:         e.Code,
		Message:      e.Message,
		LocaleKey:    e.LocaleKey,
		TemplateData: merged,
	}
}

func NewFieldRequiredError(field string) *BaseError {
	return NewError(
		"FIELD_REQUIRED",
		fmt.Sprintf("%s is required", field),
		"Errors.FieldRequired",
	).WithTemplateData(map[string]string{"field": field})
}

// ValidationErrors maps a form field (JSON name) to its error.
type ValidationErrors map[string]*BaseError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field].Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = NewError("VALIDATION", message, "").WithTemplateData(map[string]string{"field": field})
}

// FromMessages builds ValidationErrors from a DTO's Ok output.
func FromMessages(messages map[string]string) ValidationErrors {
	out := make(ValidationErrors, len(messages))
	for field, msg := range messages {
		out.Add(field, msg)
	}
	return out
}

// Messages flattens the errors for inline form display.
func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for field, err := range v {
		out[field] = err.Message
	}
	return out
}

// ProcessValidatorErrors converts validator output into field errors keyed by
// the struct field's JSON name. fieldName may return "" to fall back to the
// validator's reported field name.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldName func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		name := ""
		if fieldName != nil {
			name = fieldName(fe.StructField())
		}
		if name == "" {
			name = fe.Field()
		}
		out[name] = NewError(
			"VALIDATION_"+strings.ToUpper(fe.Tag()),
			validationMessage(name, fe),
			"Errors."+fe.Tag(),
		).WithTemplateData(map[string]string{"field": name, "param": fe.Param()})
	}
	return out
}

var translator = newTranslator()

func newTranslator() ut.Translator {
	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator(english.Locale())
	for key, text := range map[string]string{
		"required": "{0} is required",
		"url":      "{0} must be a valid URL",
		"email":    "{0} must be a valid email",
		"oneof":    "{0} must be one of [{1}]",
		"min":      "{0} must be at least {1}",
		"max":      "{0} must be at most {1}",
		"gt":       "{0} must be greater than {1}",
		"lt":       "{0} must be less than {1}",
		"invalid":  "{0} is invalid",
	} {
		if err := trans.Add(key, text, false); err != nil {
			panic(err)
		}
	}
	return trans
}

func validationMessage(field string, fe validator.FieldError) string {
	key := fe.Tag()
	switch key {
	case "required_if", "required_with", "required_without":
		key = "required"
	case "http_url":
		key = "url"
	case "gte":
		key = "min"
	case "lte":
		key = "max"
	}
	msg, err := translator.T(key, field, fe.Param())
	if err != nil {
		msg, _ = translator.T("invalid", field)
	}
	return msg
}
