package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	KindForbidden
	KindServer
	KindClient
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindForbidden:
		return "forbidden"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	default:
		return "unknown"
	}
}

// Error is returned for every failed call except cancellation, which is
// returned as the context error itself.
type Error struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Code    string
	Message string
	// Fields holds per-field messages from the backend's validation response.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	if e.Status > 0 {
		fmt.Fprintf(&b, "status=%d ", e.Status)
	}
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldErrors returns the first message per field, for inline form display.
func (e *Error) FieldErrors() serrors.ValidationErrors {
	out := serrors.ValidationErrors{}
	for field, msgs := range e.Fields {
		if len(msgs) == 0 {
			continue
		}
		out.Add(field, msgs[0])
	}
	return out
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func IsStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == status
}

// UserMessage picks the text an admin should see for err.
func UserMessage(err error, fallback string) string {
	apiErr, ok := AsError(err)
	if !ok {
		return fallback
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if len(apiErr.Fields) > 0 {
		fields := make([]string, 0, len(apiErr.Fields))
		for field := range apiErr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		first := apiErr.Fields[fields[0]]
		if len(first) > 0 {
			return fmt.Sprintf("%s: %s", fields[0], first[0])
		}
	}
	return fallback
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusForbidden:
		return KindForbidden
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindClient
	}
}

// parseErrorBody understands the backend's error shapes: {"detail": ...},
// {"error": ...} and per-field lists such as {"title": ["This field is required."]}.
func parseErrorBody(e *Error, body []byte) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		if s := strings.TrimSpace(string(body)); s != "" && len(s) <= 200 && !strings.HasPrefix(s, "<") {
			e.Message = s
		}
		return
	}
	for key, value := range raw {
		switch key {
		case "detail", "error", "message":
			var s string
			if json.Unmarshal(value, &s) == nil && e.Message == "" {
				e.Message = s
			}
			continue
		case "code":
			var s string
			if json.Unmarshal(value, &s) == nil {
				e.Code = s
			}
			continue
		}

		var list []string
		if json.Unmarshal(value, &list) == nil {
			if e.Fields == nil {
				e.Fields = map[string][]string{}
			}
			e.Fields[key] = list
			continue
		}
		var single string
		if json.Unmarshal(value, &single) == nil {
			if e.Fields == nil {
				e.Fields = map[string][]string{}
			}
			e.Fields[key] = []string{single}
		}
	}
	if msgs, ok := e.Fields["non_field_errors"]; ok && e.Message == "" && len(msgs) > 0 {
		e.Message = msgs[0]
	}
}
