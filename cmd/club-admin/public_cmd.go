package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/mappers"
	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
)

func newPublicCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "public", Short: "Calls the public recruitment page makes"}

	cmd.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "Show the drive open for registration",
		RunE: withPublicRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			drives := rt.app.Service(services.DriveService{}).(*services.DriveService)
			d, err := drives.GetActivePublic(cmd.Context())
			if errors.Is(err, drive.ErrNoActiveDrive) {
				return writeJSONLine(map[string]any{"active": nil})
			}
			if err != nil {
				return err
			}
			return writeJSONLine(map[string]any{"active": mappers.DriveToViewModel(d, rt.conf.Location())})
		}),
	})

	var (
		dto  drive.SubmissionDTO
		file string
	)
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a candidate's assessment to the active drive",
		RunE: withPublicRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			drives := rt.app.Service(services.DriveService{}).(*services.DriveService)
			if dto.DriveID == 0 {
				d, err := drives.GetActivePublic(cmd.Context())
				if err != nil {
					return err
				}
				dto.DriveID = d.ID()
			}
			if file != "" {
				body, err := os.ReadFile(file)
				if err != nil {
					return withCode(exitUsage, err)
				}
				dto.FileName = filepath.Base(file)
				dto.File = body
			}
			if err := drives.SubmitAssessment(cmd.Context(), &dto); err != nil {
				return err
			}
			return writeJSONLine(map[string]any{"submitted": true, "drive": dto.DriveID, "identifier": dto.Identifier})
		}),
	}
	f := submitCmd.Flags()
	f.Int64Var(&dto.DriveID, "drive-id", 0, "Drive id (default: the active public drive)")
	f.StringVar(&dto.CandidateName, "name", "", "Candidate name")
	f.StringVar(&dto.Identifier, "identifier", "", "Roll number or other identifier")
	f.StringVar(&dto.SIG, "sig", "", "SIG applied to")
	f.StringVar(&dto.SolutionLink, "link", "", "Solution link")
	f.StringVar(&file, "file", "", "Solution file")
	cmd.AddCommand(submitCmd)
	return cmd
}
