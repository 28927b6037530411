package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
)

func newAssignmentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "assignments", Short: "The selected drive's assignments"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List assignments",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			return writeJSONLines(rt.ctl.Assignments())
		}),
	})

	var (
		sigID       int64
		title       string
		description string
		link        string
		file        string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Publish an assignment for one SIG",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			var body []byte
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return withCode(exitUsage, err)
				}
				body = b
			}
			if err := rt.ctl.AssignmentForm.OpenCreate(); err != nil {
				return err
			}
			_ = rt.ctl.AssignmentForm.Set(func(d *drive.AssignmentDTO) {
				d.SIGID = sigID
				d.Title = title
				d.Description = description
				d.ExternalLink = strings.TrimSpace(link)
				if d.ExternalLink != "" && len(body) == 0 {
					d.SubmissionType = drive.SubmissionLink
				}
				if len(body) > 0 {
					d.FileName = filepath.Base(file)
					d.File = body
				}
			})
			if err := rt.ctl.SubmitAssignmentForm(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.AssignmentForm.Errors()})
				return err
			}
			return writeJSONLines(rt.ctl.Assignments())
		}),
	}
	f := createCmd.Flags()
	f.Int64Var(&sigID, "sig", 0, "SIG id")
	f.StringVar(&title, "title", "", "Title")
	f.StringVar(&description, "description", "", "Description")
	f.StringVar(&link, "link", "", "External link")
	f.StringVar(&file, "file", "", "Problem statement to upload")
	cmd.AddCommand(createCmd)

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "assignment")
			if err != nil {
				return err
			}
			return confirmDelete(cmd.Context(), rt.ctl, rt.ctl.DeleteAssignment, "Assignment", id, yes)
		}),
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	cmd.AddCommand(deleteCmd)
	return cmd
}
