// Package evaluation models the interview scoring form. Only the raw score and
// notes are persisted; max score and the normalised figures are display-only.
package evaluation

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robocore-nitk/club-admin/pkg/constants"
)

const DefaultMaxScore = 10

var (
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

type Form struct {
	ApplicationID int64   `json:"-"`
	MaxScore      float64 `json:"max_score" validate:"gt=0"`
	RawScore      float64 `json:"raw_score" validate:"gte=0,ltefield=MaxScore"`
	Notes         string  `json:"notes"`
}

// NewForm seeds the form from the application's previous score, if any.
func NewForm(applicationID int64, previous *float64, notes string) Form {
	f := Form{
		ApplicationID: applicationID,
		MaxScore:      DefaultMaxScore,
		Notes:         notes,
	}
	if previous != nil {
		f.RawScore = *previous
	}
	return f
}

func (f *Form) Ok(ctx context.Context) (map[string]string, bool) {
	f.Notes = strings.TrimSpace(f.Notes)
	return constants.ValidateStruct(f)
}

// Normalized is the raw score scaled to 10, rounded to 2 places.
func (f Form) Normalized() decimal.Decimal {
	return f.ratio().Mul(ten).Round(2)
}

func (f Form) Percent() decimal.Decimal {
	return f.ratio().Mul(hundred).Round(2)
}

func (f Form) ratio() decimal.Decimal {
	maxScore := decimal.NewFromFloat(f.MaxScore)
	if maxScore.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f.RawScore).Div(maxScore)
}
