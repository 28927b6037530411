package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	sentinel := NewError("DRIVE_NOT_FOUND", "drive not found", "")
	wrapped := fmt.Errorf("load: %w", sentinel.WithTemplateData(map[string]string{"id": "7"}))

	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "drive not found (id=7)", errors.Unwrap(wrapped).Error())
}

func TestProcessValidatorErrors(t *testing.T) {
	type dto struct {
		Title string `validate:"required"`
		Link  string `validate:"omitempty,url"`
	}
	err := validator.New().Struct(&dto{Link: "not a url"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	out := ProcessValidatorErrors(verrs, func(field string) string {
		switch field {
		case "Title":
			return "title"
		case "Link":
			return "registration_link"
		}
		return ""
	})

	require.Len(t, out, 2)
	require.Equal(t, "title is required", out["title"].Message)
	require.Equal(t, "registration_link must be a valid URL", out["registration_link"].Message)
	require.Contains(t, out.Error(), "title: title is required")
}

func TestProcessValidatorErrors_Bounds(t *testing.T) {
	type dto struct {
		Drive    int64 `validate:"gt=0"`
		Order    int   `validate:"gte=1"`
		Score    int   `validate:"lt=100"`
		Duration int   `validate:"lte=240"`
	}
	err := validator.New().Struct(&dto{Score: 100, Duration: 300})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	out := ProcessValidatorErrors(verrs, func(field string) string { return field })

	require.Equal(t, "Drive must be greater than 0", out["Drive"].Message)
	require.Equal(t, "Order must be at least 1", out["Order"].Message)
	require.Equal(t, "Score must be less than 100", out["Score"].Message)
	require.Equal(t, "Duration must be at most 240", out["Duration"].Message)
}
