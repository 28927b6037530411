package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
)

func idArg(args []string, what string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, withCode(exitUsage, fmt.Errorf("invalid %s id %q", what, args[0]))
	}
	return id, nil
}

func newDrivesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "drives", Short: "Recruitment drives"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List drives",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			return writeJSONLines(rt.ctl.Drives())
		}),
	})

	var create drive.CreateDTO
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a drive",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			if err := rt.ctl.DriveForm.OpenCreate(); err != nil {
				return err
			}
			if err := rt.ctl.DriveForm.Set(func(d *drive.UpdateDTO) {
				d.CreateDTO = create
			}); err != nil {
				return err
			}
			if err := rt.ctl.SubmitDriveForm(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.DriveForm.Errors()})
				return err
			}
			return writeJSONLines(rt.ctl.Drives())
		}),
	}
	f := createCmd.Flags()
	f.StringVar(&create.Title, "title", "", "Title")
	f.StringVar(&create.Description, "description", "", "Description")
	f.StringVar(&create.RegistrationLink, "registration-link", "", "Registration link")
	f.BoolVar(&create.IsActive, "active", false, "Make this the active drive")
	f.BoolVar(&create.IsPublic, "public", true, "Show on the public site")
	f.Int64Var(&create.FormID, "form", 0, "Club form to import candidates from")
	f.StringVar(&create.PrimaryField, "primary-field", "", "Form field holding the candidate identifier")
	f.StringVar(&create.CandidateNameField, "name-field", "", "Form field holding the candidate name")
	f.StringVar(&create.SIGField, "sig-field", "", "Form field holding the SIG")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "set-link <id> <url>",
		Short: "Change a drive's registration link",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "drive")
			if err != nil {
				return err
			}
			return rt.ctl.UpdateRegistrationLink(cmd.Context(), id, args[1])
		}),
	})

	var edit drive.CreateDTO
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a drive; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "drive")
			if err != nil {
				return err
			}
			if err := rt.ctl.OpenEditDrive(id); err != nil {
				return withCode(exitUsage, err)
			}
			changed := cmd.Flags().Changed
			if err := rt.ctl.DriveForm.Set(func(d *drive.UpdateDTO) {
				if changed("title") {
					d.Title = edit.Title
				}
				if changed("description") {
					d.Description = edit.Description
				}
				if changed("registration-link") {
					d.RegistrationLink = edit.RegistrationLink
				}
				if changed("active") {
					d.IsActive = edit.IsActive
				}
				if changed("public") {
					d.IsPublic = edit.IsPublic
				}
				if changed("form") {
					d.FormID = edit.FormID
				}
				if changed("primary-field") {
					d.PrimaryField = edit.PrimaryField
				}
				if changed("name-field") {
					d.CandidateNameField = edit.CandidateNameField
				}
				if changed("sig-field") {
					d.SIGField = edit.SIGField
				}
			}); err != nil {
				return err
			}
			if err := rt.ctl.SubmitDriveForm(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.DriveForm.Errors()})
				return err
			}
			return writeJSONLines(rt.ctl.Drives())
		}),
	}
	f = editCmd.Flags()
	f.StringVar(&edit.Title, "title", "", "Title")
	f.StringVar(&edit.Description, "description", "", "Description")
	f.StringVar(&edit.RegistrationLink, "registration-link", "", "Registration link")
	f.BoolVar(&edit.IsActive, "active", false, "Active flag")
	f.BoolVar(&edit.IsPublic, "public", true, "Show on the public site")
	f.Int64Var(&edit.FormID, "form", 0, "Club form to import candidates from; 0 unlinks")
	f.StringVar(&edit.PrimaryField, "primary-field", "", "Form field holding the candidate identifier")
	f.StringVar(&edit.CandidateNameField, "name-field", "", "Form field holding the candidate name")
	f.StringVar(&edit.SIGField, "sig-field", "", "Form field holding the SIG")
	cmd.AddCommand(editCmd)

	for _, active := range []bool{true, false} {
		use, short := "activate <id>", "Make a drive the active one"
		if !active {
			use, short = "deactivate <id>", "Clear a drive's active flag"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
				id, err := idArg(args, "drive")
				if err != nil {
					return err
				}
				return rt.ctl.SetDriveActive(cmd.Context(), id, active)
			}),
		})
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a drive",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "drive")
			if err != nil {
				return err
			}
			return confirmDelete(cmd.Context(), rt.ctl, rt.ctl.DeleteDrive, "Drive", id, yes)
		}),
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	cmd.AddCommand(deleteCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Import candidates from the drive's form",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			return rt.ctl.SyncCandidates(cmd.Context())
		}),
	})
	return cmd
}
