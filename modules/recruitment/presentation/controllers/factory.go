package controllers

import (
	"time"

	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/application"
)

// NewRecruitmentControllerFromApp builds the controller from the services the
// recruitment module registered on app.
func NewRecruitmentControllerFromApp(app application.Application, loc *time.Location, pageSize int) *RecruitmentController {
	return NewRecruitmentController(RecruitmentControllerDeps{
		Drives:       app.Service(services.DriveService{}).(*services.DriveService),
		Timeline:     app.Service(services.TimelineService{}).(*services.TimelineService),
		Assignments:  app.Service(services.AssignmentService{}).(*services.AssignmentService),
		Applications: app.Service(services.ApplicationService{}).(*services.ApplicationService),
		Panels:       app.Service(services.PanelService{}).(*services.PanelService),
		Toast:        app.Toast(),
		Logger:       app.Logger(),
		Location:     loc,
		PageSize:     pageSize,
	})
}
