package main

import (
	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
)

func newTimelineCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "timeline", Short: "The selected drive's timeline"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List timeline events by date",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			return writeJSONLines(rt.ctl.Timeline())
		}),
	})

	var (
		title     string
		date      string
		tentative bool
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a timeline event",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			at, err := parseTime(date, rt.conf.Location())
			if err != nil {
				return withCode(exitUsage, err)
			}
			if err := rt.ctl.TimelineForm.OpenCreate(); err != nil {
				return err
			}
			_ = rt.ctl.TimelineForm.Set(func(d *drive.TimelineEventDTO) {
				d.Title = title
				d.Date = at
				d.IsTentative = tentative
			})
			if err := rt.ctl.SubmitTimelineForm(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.TimelineForm.Errors()})
				return err
			}
			return writeJSONLines(rt.ctl.Timeline())
		}),
	}
	addCmd.Flags().StringVar(&title, "title", "", "Title")
	addCmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&tentative, "tentative", false, "Mark the date as tentative")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle an event's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "timeline event")
			if err != nil {
				return err
			}
			return rt.ctl.ToggleTimelineCompleted(cmd.Context(), id)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reschedule <id> <date>",
		Short: "Move an event; the first date is kept as the original",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "timeline event")
			if err != nil {
				return err
			}
			at, err := parseTime(args[1], rt.conf.Location())
			if err != nil {
				return withCode(exitUsage, err)
			}
			return rt.ctl.RescheduleTimeline(cmd.Context(), id, at)
		}),
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a timeline event",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "timeline event")
			if err != nil {
				return err
			}
			return confirmDelete(cmd.Context(), rt.ctl, rt.ctl.DeleteTimeline, "Timeline event", id, yes)
		}),
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	cmd.AddCommand(deleteCmd)
	return cmd
}
