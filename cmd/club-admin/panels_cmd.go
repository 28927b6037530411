package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
)

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, withCode(exitUsage, fmt.Errorf("invalid id %q", part))
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func newPanelsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "panels", Short: "Interview panels"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List panels with their slots",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			return writeJSONLines(rt.ctl.Panels())
		}),
	})

	var (
		number  int
		name    string
		members []string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a panel for the selected drive",
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			ids, err := parseIDs(members)
			if err != nil {
				return err
			}
			if err := rt.ctl.PanelForm.OpenCreate(); err != nil {
				return err
			}
			_ = rt.ctl.PanelForm.Set(func(d *panel.CreateDTO) {
				if number > 0 {
					d.PanelNumber = number
				}
				d.Name = name
				d.Members = ids
			})
			if err := rt.ctl.SubmitPanelForm(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.PanelForm.Errors()})
				return err
			}
			return writeJSONLines(rt.ctl.Panels())
		}),
	}
	createCmd.Flags().IntVar(&number, "number", 0, "Panel number (default: the next free number)")
	createCmd.Flags().StringVar(&name, "name", "", "Panel name")
	createCmd.Flags().StringSliceVar(&members, "member", nil, "Member user ids")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "members <id> [user-id...]",
		Short: "Replace a panel's members",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "panel")
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			return rt.ctl.SetPanelMembers(cmd.Context(), id, ids)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a panel",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "panel")
			if err != nil {
				return err
			}
			return rt.ctl.RenamePanel(cmd.Context(), id, args[1])
		}),
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a panel",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "panel")
			if err != nil {
				return err
			}
			return confirmDelete(cmd.Context(), rt.ctl, rt.ctl.DeletePanel, "Panel", id, yes)
		}),
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	cmd.AddCommand(deleteCmd)

	var (
		start    string
		duration int
		apps     []string
		dryRun   bool
	)
	generateCmd := &cobra.Command{
		Use:   "generate-slots <panel-id>",
		Short: "Schedule back-to-back interview slots",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "panel")
			if err != nil {
				return err
			}
			at, err := parseTime(start, rt.conf.Location())
			if err != nil {
				return withCode(exitUsage, err)
			}
			if err := rt.ctl.OpenGenerateSlots(id, at, duration); err != nil {
				return err
			}
			if len(apps) > 0 {
				ids, err := parseIDs(apps)
				if err != nil {
					return err
				}
				_ = rt.ctl.SlotsForm.Set(func(d *panel.GenerateSlotsDTO) {
					d.ApplicationIDs = ids
				})
			}
			if dryRun {
				times := rt.ctl.SlotPreview()
				ids := rt.ctl.SlotsForm.Value().ApplicationIDs
				_ = rt.ctl.SlotsForm.Close()
				return writeJSONLine(map[string]any{"application_ids": ids, "times": times})
			}
			if err := rt.ctl.SubmitGenerateSlots(cmd.Context()); err != nil {
				_ = writeJSONLine(map[string]any{"errors": rt.ctl.SlotsForm.Errors()})
				return err
			}
			return writeJSONLines(rt.ctl.Panels())
		}),
	}
	gf := generateCmd.Flags()
	gf.StringVar(&start, "start", "", "First slot start (YYYY-MM-DD HH:MM)")
	gf.IntVar(&duration, "duration", 30, "Minutes per slot")
	gf.StringSliceVar(&apps, "app", nil, "Application ids (default: every unscheduled candidate)")
	gf.BoolVar(&dryRun, "dry-run", false, "Print the slot times without scheduling")
	_ = generateCmd.MarkFlagRequired("start")
	cmd.AddCommand(generateCmd)
	return cmd
}

func newSlotsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "slots", Short: "Interview slots"}

	cmd.AddCommand(&cobra.Command{
		Use:   "status <slot-id> <status>",
		Short: "Mark a slot SCHEDULED, ONGOING, COMPLETED or DELAYED",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "slot")
			if err != nil {
				return err
			}
			status, err := panel.ParseSlotStatus(args[1])
			if err != nil {
				return withCode(exitUsage, err)
			}
			return rt.ctl.SetSlotStatus(cmd.Context(), id, status)
		}),
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <slot-id>",
		Short: "Delete an interview slot",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			id, err := idArg(args, "slot")
			if err != nil {
				return err
			}
			return confirmDelete(cmd.Context(), rt.ctl, rt.ctl.DeleteSlot, "Slot", id, yes)
		}),
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	cmd.AddCommand(deleteCmd)
	return cmd
}
