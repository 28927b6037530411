package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFiles []string
	driveID  int64
}

type runFunc func(cmd *cobra.Command, rt *runtime, args []string) error

// withRuntime wraps a command body with a mounted admin session.
func withRuntime(opts *rootOptions, run runFunc) func(*cobra.Command, []string) error {
	return runWith(opts, true, run)
}

// withPublicRuntime is withRuntime for the public site calls, which need no
// admin lists.
func withPublicRuntime(opts *rootOptions, run runFunc) func(*cobra.Command, []string) error {
	return runWith(opts, false, run)
}

func runWith(opts *rootOptions, mount bool, run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context(), runtimeOptions{
			envFiles: opts.envFiles,
			driveID:  opts.driveID,
			stderr:   cmd.ErrOrStderr(),
			mount:    mount,
		})
		if err != nil {
			return err
		}
		defer rt.close()
		return classify(run(cmd, rt, args))
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "club-admin",
		Short:         "Club admin console: recruitment drives, applications and interview panels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load")
	cmd.PersistentFlags().Int64Var(&opts.driveID, "drive", 0, "Drive id (default: the active drive)")

	cmd.AddCommand(newDrivesCmd(opts))
	cmd.AddCommand(newTimelineCmd(opts))
	cmd.AddCommand(newAssignmentsCmd(opts))
	cmd.AddCommand(newApplicationsCmd(opts))
	cmd.AddCommand(newPanelsCmd(opts))
	cmd.AddCommand(newSlotsCmd(opts))
	cmd.AddCommand(newPublicCmd(opts))
	cmd.AddCommand(newLogCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
