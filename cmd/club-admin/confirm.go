package main

import (
	"context"
	"fmt"

	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/controllers"
	"github.com/robocore-nitk/club-admin/pkg/workflow"
)

// confirmDelete stages a delete and only runs it when the admin passed --yes.
func confirmDelete(ctx context.Context, ctl *controllers.RecruitmentController, gate *workflow.ConfirmGate[int64], what string, id int64, yes bool) error {
	if err := gate.Request(id); err != nil {
		return err
	}
	if !yes {
		_ = gate.Cancel()
		return withCode(exitUsage, fmt.Errorf("refusing to delete %s %d without --yes", what, id))
	}
	return ctl.ConfirmDelete(ctx, gate, what)
}
