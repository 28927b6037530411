package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewForm_Seeds(t *testing.T) {
	f := NewForm(4, nil, "")
	require.InDelta(t, 10, f.MaxScore, 0)
	require.Zero(t, f.RawScore)

	prev := 7.5
	f = NewForm(4, &prev, "good wiring")
	require.InDelta(t, 7.5, f.RawScore, 0)
	require.Equal(t, "good wiring", f.Notes)
}

func TestForm_Normalized(t *testing.T) {
	f := Form{MaxScore: 20, RawScore: 13}
	require.Equal(t, "6.5", f.Normalized().String())
	require.Equal(t, "65", f.Percent().String())

	f = Form{MaxScore: 3, RawScore: 2}
	require.Equal(t, "6.67", f.Normalized().String())
	require.Equal(t, "66.67", f.Percent().String())

	f = Form{MaxScore: 0, RawScore: 2}
	require.True(t, f.Normalized().IsZero())
}

func TestForm_Ok(t *testing.T) {
	f := Form{MaxScore: 10, RawScore: 12}
	errs, ok := f.Ok(context.Background())
	require.False(t, ok)
	require.Contains(t, errs, "raw_score")

	f = Form{MaxScore: 0, RawScore: 0}
	errs, ok = f.Ok(context.Background())
	require.False(t, ok)
	require.Contains(t, errs, "max_score")

	f = Form{MaxScore: 10, RawScore: 10, Notes: "  solid  "}
	_, ok = f.Ok(context.Background())
	require.True(t, ok)
	require.Equal(t, "solid", f.Notes)
}
