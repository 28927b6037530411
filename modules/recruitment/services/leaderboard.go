package services

import (
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/xuri/excelize/v2"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/pkg/listview"
)

const (
	FacetSIG    = "sig"
	FacetStatus = "status"
)

// LeaderboardSpec searches candidate name and identifier, facets by SIG and
// status and sorts by any score field.
func LeaderboardSpec() listview.Spec[application.Application] {
	sortKeys := make(map[string]func(application.Application) float64, len(application.ScoreFields))
	for _, f := range application.ScoreFields {
		sortKeys[string(f)] = func(a application.Application) float64 { return a.Score(f) }
	}
	return listview.Spec[application.Application]{
		SearchFields: func(a application.Application) []string {
			return []string{a.Identifier(), a.CandidateName()}
		},
		Facets: map[string]func(application.Application) string{
			FacetSIG:    application.Application.SIGName,
			FacetStatus: func(a application.Application) string { return string(a.Status()) },
		},
		SortKeys: sortKeys,
	}
}

// LeaderboardQuery is the default view: highest total first.
func LeaderboardQuery(search, sig string, page, pageSize int) listview.Query {
	return listview.Query{
		Search:    search,
		Facets:    map[string]string{FacetSIG: sig},
		SortKey:   string(application.ScoreTotal),
		Direction: listview.Desc,
		Page:      page,
		PageSize:  pageSize,
	}
}

// SIGs lists the distinct SIG names present, for the facet dropdown.
func SIGs(apps []application.Application) []string {
	var out []string
	for _, a := range apps {
		if a.SIGName() != "" && !slices.Contains(out, a.SIGName()) {
			out = append(out, a.SIGName())
		}
	}
	sort.Strings(out)
	return out
}

// FindCandidates ranks applications by fuzzy match of query against
// "name identifier", best first. Candidates that do not match are dropped.
func FindCandidates(apps []application.Application, query string, limit int) []application.Application {
	query = strings.TrimSpace(query)
	if query == "" {
		if limit > 0 && len(apps) > limit {
			return slices.Clone(apps[:limit])
		}
		return slices.Clone(apps)
	}
	targets := make([]string, len(apps))
	for i, a := range apps {
		targets[i] = a.CandidateName() + " " + a.Identifier()
	}
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	out := make([]application.Application, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, apps[r.OriginalIndex])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

var leaderboardHeader = []any{"Rank", "Identifier", "Candidate", "SIG", "OA", "Assessment", "Interview", "Total", "Status", "Interview time"}

// ExportLeaderboard writes apps, in the given order, as an xlsx workbook.
func ExportLeaderboard(w io.Writer, apps []application.Application, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Leaderboard"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if err := f.SetSheetRow(sheet, "A1", &leaderboardHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "header style")
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "apply header style")
	}

	for i, a := range apps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			i + 1,
			a.Identifier(),
			a.CandidateName(),
			a.SIGName(),
			scoreCell(a.OAScore()),
			scoreCell(a.AssessmentScore()),
			scoreCell(a.InterviewScore()),
			a.Total(),
			string(a.Status()),
			timeCell(a.InterviewTime(), loc),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}
	if err := f.SetColWidth(sheet, "B", "C", 24); err != nil {
		return errors.Wrap(err, "column width")
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func scoreCell(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}

func timeCell(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format("02 Jan 2006 15:04")
	}
	return t.Format("02 Jan 2006 15:04")
}
