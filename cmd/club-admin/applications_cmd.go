package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
	"github.com/robocore-nitk/club-admin/pkg/listview"
)

func newApplicationsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "applications", Aliases: []string{"apps"}, Short: "Applications and the leaderboard"}

	var (
		search string
		sig    string
		sortBy string
		asc    bool
		page   int
	)
	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show one page of the leaderboard",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			if err := applyLeaderboardFlags(rt, search, sig, sortBy, asc); err != nil {
				return err
			}
			rt.ctl.SetPage(page)
			return writeJSONLine(rt.ctl.Leaderboard())
		}),
	}
	addLeaderboardFlags(leaderboardCmd, &search, &sig, &sortBy, &asc)
	leaderboardCmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.AddCommand(leaderboardCmd)

	var out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered leaderboard to an xlsx file",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			if err := applyLeaderboardFlags(rt, search, sig, sortBy, asc); err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return withCode(exitUsage, err)
			}
			if err := rt.ctl.ExportLeaderboard(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}),
	}
	addLeaderboardFlags(exportCmd, &search, &sig, &sortBy, &asc)
	exportCmd.Flags().StringVarP(&out, "out", "o", "leaderboard.xlsx", "Output file")
	cmd.AddCommand(exportCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an application through the pipeline",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "application")
			if err != nil {
				return err
			}
			next, err := application.ParseStatus(args[1])
			if err != nil {
				return withCode(exitUsage, err)
			}
			return rt.ctl.SetApplicationStatus(cmd.Context(), id, next)
		}),
	})

	var (
		raw      float64
		maxScore float64
		field    string
		notes    string
		preview  bool
	)
	evaluateCmd := &cobra.Command{
		Use:   "evaluate <id>",
		Short: "Record a score for an application",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "application")
			if err != nil {
				return err
			}
			scoreField, ok := application.ParseScoreField(field)
			if !ok || scoreField == application.ScoreTotal {
				return withCode(exitUsage, fmt.Errorf("cannot evaluate %q", field))
			}
			if err := rt.ctl.OpenEvaluation(id, scoreField); err != nil {
				return err
			}
			_ = rt.ctl.EvaluationForm.Set(func(f *evaluation.Form) {
				f.RawScore = raw
				f.MaxScore = maxScore
				if cmd.Flags().Changed("notes") {
					f.Notes = notes
				}
			})
			if preview {
				vm := rt.ctl.EvaluationPreview()
				_ = rt.ctl.EvaluationForm.Close()
				return writeJSONLine(vm)
			}
			if err := rt.ctl.SubmitEvaluation(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.EvaluationForm.Errors()})
				return err
			}
			return nil
		}),
	}
	ef := evaluateCmd.Flags()
	ef.Float64Var(&raw, "raw", 0, "Raw score")
	ef.Float64Var(&maxScore, "max", evaluation.DefaultMaxScore, "Maximum score (display only)")
	ef.StringVar(&field, "field", string(application.ScoreInterview), "Score to record: oa_score, assessment_score or interview_score")
	ef.StringVar(&notes, "notes", "", "Interviewer notes")
	ef.BoolVar(&preview, "preview", false, "Show the normalised score without saving")
	cmd.AddCommand(evaluateCmd)
	return cmd
}

func addLeaderboardFlags(cmd *cobra.Command, search, sig, sortBy *string, asc *bool) {
	cmd.Flags().StringVar(search, "search", "", "Filter by name or identifier")
	cmd.Flags().StringVar(sig, "sig", "", "Filter by SIG")
	cmd.Flags().StringVar(sortBy, "sort", string(application.ScoreTotal), "Sort by total, oa_score, assessment_score or interview_score")
	cmd.Flags().BoolVar(asc, "asc", false, "Sort ascending")
}

func applyLeaderboardFlags(rt *runtime, search, sig, sortBy string, asc bool) error {
	field, ok := application.ParseScoreField(sortBy)
	if !ok {
		return withCode(exitUsage, fmt.Errorf("unknown sort field %q", sortBy))
	}
	dir := listview.Desc
	if asc {
		dir = listview.Asc
	}
	rt.ctl.SetSearch(search)
	rt.ctl.SetSIG(sig)
	rt.ctl.SetSort(field, dir)
	return nil
}
