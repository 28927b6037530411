package fields

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func applicationSchema() Schema {
	return Schema{
		ID:    3,
		Title: "Recruitment 2025",
		Fields: []Definition{
			{ID: 1, Key: "roll_number", Label: "Roll Number", Type: TypeText, Required: true},
			{ID: 2, Key: "name", Label: "Name", Type: TypeText, Required: true},
			{ID: 3, Key: "sig", Label: "SIG", Type: TypeSelect, Required: true, Options: []string{"Electronics", "Mechanical", "Software"}},
			{ID: 4, Key: "github", Label: "GitHub", Type: TypeURL, LimitToSIG: "Software"},
			{ID: 5, Key: "cgpa", Label: "CGPA", Type: TypeNumber},
			{ID: 6, Key: "dob", Label: "Date of Birth", Type: TypeDate},
		},
	}
}

func TestSchema_DecodeAndEncode(t *testing.T) {
	s := applicationSchema()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"roll_number": "221CS330",
		"name": "Chitra S",
		"sig": "Software",
		"cgpa": 9.1,
		"dob": "2004-05-17",
		"hostel": "Block 4"
	}`), &raw))

	rec, extra, err := s.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"hostel": "Block 4"}, extra)
	require.Equal(t, "221CS330", rec[1].String())
	require.Equal(t, TypeNumber, rec[5].Kind())
	require.InDelta(t, 9.1, rec[5].Float(), 1e-9)
	require.Equal(t, time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC), rec[6].Time())

	encoded := s.Encode(rec)
	require.Equal(t, "2004-05-17", encoded["dob"])
	require.InDelta(t, 9.1, encoded["cgpa"], 1e-9)
	require.NotContains(t, encoded, "hostel")
}

func TestSchema_DecodeReportsBadValues(t *testing.T) {
	s := applicationSchema()
	_, _, err := s.Decode(map[string]any{"cgpa": "nine", "dob": "yesterday"})
	require.ErrorContains(t, err, "cgpa")
	require.ErrorContains(t, err, "dob")
}

func TestSchema_Validate(t *testing.T) {
	s := applicationSchema()

	errs := s.Validate(Record{
		1: Text("221CS330"),
		3: Choice("Robotics"),
		4: URL("not a url"),
	}, "Software")
	require.Len(t, errs, 3)
	require.Equal(t, "Name is required", errs["name"].Message)
	require.Contains(t, errs["sig"].Message, "must be one of")
	require.Equal(t, "GitHub must be a valid URL", errs["github"].Message)

	errs = s.Validate(Record{
		1: Text("221ME204"),
		2: Text("Bharath K"),
		3: Choice("Mechanical"),
		4: URL("not a url"),
	}, "Mechanical")
	require.Nil(t, errs)
}

func TestSchema_ValidateTypeMismatchAndUnknown(t *testing.T) {
	s := applicationSchema()
	errs := s.Validate(Record{
		1:  Number(221),
		2:  Text("x"),
		3:  Choice("Software"),
		99: Text("?"),
	}, "")
	require.Contains(t, errs, "roll_number")
	require.Contains(t, errs, "99")
}

func TestValue_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Value{"n": Number(2.5), "t": Text("hi"), "u": {}})
	require.NoError(t, err)
	require.JSONEq(t, `{"n": 2.5, "t": "hi", "u": null}`, string(b))
	require.True(t, Text("  ").IsEmpty())
	require.False(t, Number(0).IsEmpty())
}
