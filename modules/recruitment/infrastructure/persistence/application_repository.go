package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence/models"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
)

const applicationsPath = "/recruitment/applications/"

type ApplicationRepository struct {
	client *apiclient.Client
}

func NewApplicationRepository(client *apiclient.Client) application.Repository {
	return &ApplicationRepository{client: client}
}

func (r *ApplicationRepository) List(ctx context.Context, driveID int64) ([]application.Application, error) {
	page, err := apiclient.List[models.Application](ctx, r.client, applicationsPath, byDrive(driveID))
	if err != nil {
		return nil, errors.Wrap(err, "list applications")
	}
	out := make([]application.Application, 0, len(page.Results))
	for _, m := range page.Results {
		out = append(out, toDomainApplication(m))
	}
	return out, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, id int64, patch application.Patch) (application.Application, error) {
	var out models.Application
	if err := r.client.Patch(ctx, itemPath(applicationsPath, id), toDBApplicationPatch(patch), &out); err != nil {
		return application.Application{}, notFound(err, application.ErrNotFound)
	}
	return toDomainApplication(out), nil
}
