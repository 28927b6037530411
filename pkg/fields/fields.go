// Package fields types the custom fields of club forms. A Record holds one
// Value per field definition, keyed by the definition's id.
package fields

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robocore-nitk/club-admin/pkg/constants"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type Type string

const (
	TypeText     Type = "text"
	TypeTextarea Type = "textarea"
	TypeURL      Type = "url"
	TypeDate     Type = "date"
	TypeNumber   Type = "number"
	TypeSelect   Type = "select"
	TypeEmail    Type = "email"
)

const DateLayout = "2006-01-02"

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeURL, TypeDate, TypeNumber, TypeSelect, TypeEmail:
		return true
	default:
		return false
	}
}

type Definition struct {
	ID       int64    `json:"id"`
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     Type     `json:"field_type"`
	Required bool     `json:"is_required"`
	Options  []string `json:"options,omitempty"`
	// LimitToSIG restricts the field to applicants of one SIG.
	LimitToSIG string `json:"limit_to_sig,omitempty"`
}

type Schema struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Fields []Definition `json:"fields"`
}

func (s Schema) ByKey(key string) (Definition, bool) {
	for _, d := range s.Fields {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

func (s Schema) ByID(id int64) (Definition, bool) {
	for _, d := range s.Fields {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Value is a tagged union over the field types. The zero Value is unset.
type Value struct {
	kind Type
	text string
	num  float64
	date time.Time
}

func Text(s string) Value { return Value{kind: TypeText, text: s} }
func Textarea(s string) Value { return Value{kind: TypeTextarea, text: s} }
func URL(s string) Value { return Value{kind: TypeURL, text: s} }
func Email(s string) Value { return Value{kind: TypeEmail, text: s} }
func Choice(s string) Value { return Value{kind: TypeSelect, text: s} }
func Number(f float64) Value { return Value{kind: TypeNumber, num: f} }
func Date(t time.Time) Value { return Value{kind: TypeDate, date: t} }
func (v Value) Kind() Type { return v.kind }
func (v Value) IsSet() bool { return v.kind != "" }
func (v Value) Float() float64 { return v.num }
func (v Value) Time() time.Time { return v.date }

func (v Value) IsEmpty() bool {
	switch v.kind {
	case "":
		return true
	case TypeNumber:
		return false
	case TypeDate:
		return v.date.IsZero()
	default:
		return strings.TrimSpace(v.text) == ""
	}
}

func (v Value) String() string {
	switch v.kind {
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeDate:
		if v.date.IsZero() {
			return ""
		}
		return v.date.Format(DateLayout)
	default:
		return v.text
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case "":
		return []byte("null"), nil
	case TypeNumber:
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.String())
	}
}

// Parse converts a raw wire value into a Value of the definition's type.
func (d Definition) Parse(raw any) (Value, error) {
	if raw == nil {
		return Value{}, nil
	}
	switch d.Type {
	case TypeNumber:
		switch n := raw.(type) {
		case float64:
			return Number(n), nil
		case string:
			if strings.TrimSpace(n) == "" {
				return Value{}, nil
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %q is not a number", d.Key, n)
			}
			return Number(f), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return Value{}, fmt.Errorf("%s: %q is not a number", d.Key, n)
			}
			return Number(f), nil
		}
	case TypeDate:
		if s, ok := raw.(string); ok {
			if strings.TrimSpace(s) == "" {
				return Value{}, nil
			}
			for _, layout := range []string{DateLayout, time.RFC3339} {
				if t, err := time.Parse(layout, s); err == nil {
					return Date(t), nil
				}
			}
			return Value{}, fmt.Errorf("%s: %q is not a date", d.Key, s)
		}
	default:
		if !d.Type.Valid() {
			return Value{}, fmt.Errorf("%s: unknown field type %q", d.Key, d.Type)
		}
		switch s := raw.(type) {
		case string:
			return Value{kind: d.Type, text: s}, nil
		case float64:
			return Value{kind: d.Type, text: strconv.FormatFloat(s, 'f', -1, 64)}, nil
		case bool:
			return Value{kind: d.Type, text: strconv.FormatBool(s)}, nil
		}
	}
	return Value{}, fmt.Errorf("%s: unexpected %T for %s field", d.Key, raw, d.Type)
}

// Record maps a field definition id to its value.
type Record map[int64]Value

// Decode reads a response keyed by field key. Keys unknown to the schema are
// returned separately so callers can still show them.
func (s Schema) Decode(raw map[string]any) (Record, map[string]any, error) {
	rec := Record{}
	extra := map[string]any{}
	var errs []string
	for key, v := range raw {
		def, ok := s.ByKey(key)
		if !ok {
			extra[key] = v
			continue
		}
		val, err := def.Parse(v)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if val.IsSet() {
			rec[def.ID] = val
		}
	}
	if len(errs) > 0 {
		slices.Sort(errs)
		return rec, extra, fmt.Errorf("decode responses: %s", strings.Join(errs, "; "))
	}
	return rec, extra, nil
}

// Encode converts a record back to the key-indexed wire form.
func (s Schema) Encode(rec Record) map[string]any {
	out := make(map[string]any, len(rec))
	for id, v := range rec {
		def, ok := s.ByID(id)
		if !ok || !v.IsSet() {
			continue
		}
		if v.kind == TypeNumber {
			out[def.Key] = v.num
			continue
		}
		out[def.Key] = v.String()
	}
	return out
}

// Validate checks rec against the schema. sig limits SIG-specific fields;
// an empty sig applies every field. Errors are keyed by field key.
func (s Schema) Validate(rec Record, sig string) serrors.ValidationErrors {
	errs := serrors.ValidationErrors{}
	for _, def := range s.Fields {
		if def.LimitToSIG != "" && sig != "" && def.LimitToSIG != sig {
			continue
		}
		v, ok := rec[def.ID]
		if !ok || v.IsEmpty() {
			if def.Required {
				errs[def.Key] = serrors.NewFieldRequiredError(def.Label)
			}
			continue
		}
		if v.kind != def.Type {
			errs.Add(def.Key, fmt.Sprintf("%s must be a %s value", def.Label, def.Type))
			continue
		}
		switch def.Type {
		case TypeURL:
			if constants.Validate.Var(v.text, "url") != nil {
				errs.Add(def.Key, fmt.Sprintf("%s must be a valid URL", def.Label))
			}
		case TypeEmail:
			if constants.Validate.Var(v.text, "email") != nil {
				errs.Add(def.Key, fmt.Sprintf("%s must be a valid email", def.Label))
			}
		case TypeSelect:
			if len(def.Options) > 0 && !slices.Contains(def.Options, v.text) {
				errs.Add(def.Key, fmt.Sprintf("%s must be one of [%s]", def.Label, strings.Join(def.Options, ", ")))
			}
		}
	}
	for id := range rec {
		if _, ok := s.ByID(id); !ok {
			errs.Add(strconv.FormatInt(id, 10), "unknown field")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
