package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
	"github.com/robocore-nitk/club-admin/modules/logging/services"
)

func newLogCmd(opts *rootOptions) *cobra.Command {
	var params actionlog.FindParams
	var since string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recorded admin actions, newest first",
		RunE: withPublicRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			if !rt.conf.ActionLogEnabled {
				return withCode(exitUsage, errors.New("action log is disabled (ACTION_LOG_ENABLED=false)"))
			}
			if since != "" {
				from, err := parseTime(since, rt.conf.Location())
				if err != nil {
					return withCode(exitUsage, err)
				}
				params.From = &from
			}
			svc := rt.app.Service(services.LogsService{}).(*services.LogsService)
			logs, total, err := svc.ListActionLogs(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if err := writeJSONLines(logs); err != nil {
				return err
			}
			rt.logger.WithField("total", total).Debug("action log listed")
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&params.Subject, "subject", "", "Only this subject (drive, application, panel, interview_slot, ...)")
	f.StringVar(&params.Action, "action", "", "Only this action")
	f.Int64Var(&params.SubjectID, "id", 0, "Only this subject id")
	f.StringVar(&since, "since", "", "Only entries at or after this time")
	f.IntVar(&params.Limit, "limit", 50, "Maximum entries")
	return cmd
}
