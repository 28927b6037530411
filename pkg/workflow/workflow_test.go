package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

func TestConfirmGate_CancelIssuesNoCalls(t *testing.T) {
	calls := 0
	gate := NewConfirmGate(func(context.Context, int64) error {
		calls++
		return nil
	})

	require.NoError(t, gate.Request(7))
	require.Equal(t, GateConfirming, gate.State())
	target, pending := gate.Target()
	require.True(t, pending)
	require.Equal(t, int64(7), target)

	require.NoError(t, gate.Cancel())
	require.Equal(t, GateIdle, gate.State())

	ran, err := gate.Confirm(context.Background())
	require.NoError(t, err)
	require.False(t, ran)
	require.Zero(t, calls)
}

func TestConfirmGate_ConfirmRunsOnceForTarget(t *testing.T) {
	var got []int64
	gate := NewConfirmGate(func(_ context.Context, id int64) error {
		got = append(got, id)
		return nil
	})

	require.NoError(t, gate.Request(3))
	require.NoError(t, gate.Request(4))
	ran, err := gate.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, []int64{4}, got)

	ran, err = gate.Confirm(context.Background())
	require.NoError(t, err)
	require.False(t, ran)
	require.Equal(t, GateIdle, gate.State())
}

func TestConfirmGate_RefusesCancelWhileInFlight(t *testing.T) {
	var gate *ConfirmGate[int64]
	gate = NewConfirmGate(func(context.Context, int64) error {
		require.Equal(t, GateInFlight, gate.State())
		require.ErrorIs(t, gate.Cancel(), ErrInFlight)
		require.ErrorIs(t, gate.Request(9), ErrInFlight)
		return errors.New("delete failed")
	})

	require.NoError(t, gate.Request(1))
	ran, err := gate.Confirm(context.Background())
	require.True(t, ran)
	require.EqualError(t, err, "delete failed")
	require.Equal(t, GateIdle, gate.State())
}

type driveForm struct {
	Title            string `json:"title"`
	RegistrationLink string `json:"registration_link"`
}

func (d *driveForm) Ok(context.Context) (map[string]string, bool) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return map[string]string{"title": "title is required"}, false
	}
	return map[string]string{}, true
}

type serverFieldError struct{}

func (serverFieldError) Error() string { return "400" }

func (serverFieldError) FieldErrors() serrors.ValidationErrors {
	v := serrors.ValidationErrors{}
	v.Add("registration_link", "Enter a valid URL.")
	return v
}

func TestForm_CreateFromTemplate(t *testing.T) {
	var submitted []driveForm
	form := NewForm(func() driveForm { return driveForm{RegistrationLink: "https://"} },
		func(_ context.Context, mode Mode, v driveForm) error {
			require.Equal(t, ModeCreate, mode)
			submitted = append(submitted, v)
			return nil
		})

	require.ErrorIs(t, form.Submit(context.Background()), ErrNotOpen)
	require.NoError(t, form.OpenCreate())
	require.Equal(t, "https://", form.Value().RegistrationLink)

	require.NoError(t, form.Set(func(d *driveForm) { d.Title = "  Recruitment 2025 " }))
	require.NoError(t, form.Submit(context.Background()))

	require.Equal(t, FormClosed, form.State())
	require.Equal(t, []driveForm{{Title: "Recruitment 2025", RegistrationLink: "https://"}}, submitted)
	require.ErrorIs(t, form.Set(func(*driveForm) {}), ErrNotOpen)
}

func TestForm_ValidationKeepsFormOpen(t *testing.T) {
	calls := 0
	form := NewForm[driveForm](nil, func(context.Context, Mode, driveForm) error {
		calls++
		return nil
	})
	require.NoError(t, form.OpenCreate())

	err := form.Submit(context.Background())
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, FormOpen, form.State())
	require.Equal(t, map[string]string{"title": "title is required"}, form.Errors())
	require.Zero(t, calls)
}

func TestForm_ServerErrorsMergedAndRetry(t *testing.T) {
	fail := true
	form := NewForm[driveForm](nil, func(_ context.Context, mode Mode, v driveForm) error {
		require.Equal(t, ModeEdit, mode)
		if fail {
			return serverFieldError{}
		}
		return nil
	})

	require.NoError(t, form.OpenEdit(driveForm{Title: "Drive", RegistrationLink: "bad"}))
	require.Error(t, form.Submit(context.Background()))
	require.Equal(t, FormOpen, form.State())
	require.Equal(t, "Enter a valid URL.", form.Errors()["registration_link"])
	require.Equal(t, "bad", form.Value().RegistrationLink)

	fail = false
	require.NoError(t, form.Set(func(d *driveForm) { d.RegistrationLink = "https://forms.example.com" }))
	require.NoError(t, form.Submit(context.Background()))
	require.Equal(t, FormClosed, form.State())
	require.Empty(t, form.Errors())
}

func TestForm_CloseRefusedWhileSubmitting(t *testing.T) {
	var form *Form[driveForm]
	form = NewForm[driveForm](nil, func(context.Context, Mode, driveForm) error {
		require.Equal(t, FormSubmitting, form.State())
		require.ErrorIs(t, form.Close(), ErrInFlight)
		require.ErrorIs(t, form.OpenCreate(), ErrInFlight)
		return nil
	})
	require.NoError(t, form.OpenEdit(driveForm{Title: "x"}))
	require.NoError(t, form.Submit(context.Background()))
}
