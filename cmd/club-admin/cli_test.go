package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	verrs := serrors.ValidationErrors{}
	verrs.Add("title", "required")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"validation", verrs, exitValidation},
		{"not synced", fmt.Errorf("slot 4: %w", services.ErrStatusNotSynced), exitNotSynced},
		{"api", &apiclient.Error{Kind: apiclient.KindServer, Status: 500, Method: "GET", Path: "/x"}, exitAPI},
		{"usage kept", withCode(exitUsage, errors.New("bad flag")), exitUsage},
		{"other", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, exitCode(classify(tc.err)))
		})
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)

	got, err := parseTime("2024-08-01 09:00", ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 1, 3, 30, 0, 0, time.UTC), got.UTC())

	got, err = parseTime(" 2024-08-01T03:30:00Z ", ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 1, 3, 30, 0, 0, time.UTC), got.UTC())

	got, err = parseTime("2024-08-01", ist)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())

	_, err = parseTime("tomorrow", ist)
	require.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	ids, err := parseIDs([]string{"11,12", " 13 ", ""})
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12, 13}, ids)

	_, err = parseIDs([]string{"11,x"})
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = idArg([]string{"-2"}, "slot")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}
