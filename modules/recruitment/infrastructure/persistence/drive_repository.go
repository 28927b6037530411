package persistence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence/models"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/fields"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

const (
	drivesPath      = "/recruitment/drives/"
	timelinePath    = "/recruitment/timeline/"
	assignmentsPath = "/recruitment/assignments/"
	formsPath       = "/forms/"
)

// UploadTypes are the file types accepted for assignment briefs and
// assessment submissions.
var UploadTypes = []string{
	"application/pdf",
	"application/zip",
	"text/plain",
	"image/png",
	"image/jpeg",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func itemPath(base string, id int64) string {
	return base + strconv.FormatInt(id, 10) + "/"
}

func byDrive(driveID int64) url.Values {
	return url.Values{"drive_id": {strconv.FormatInt(driveID, 10)}}
}

func notFound(err error, sentinel error) error {
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return sentinel
	}
	return err
}

func uploadFile(field string, u *drive.Upload) (apiclient.File, error) {
	f := apiclient.File{Field: field, Name: u.Name, Content: u.Content}
	if !f.Allowed(UploadTypes...) {
		errs := serrors.ValidationErrors{}
		errs.Add(field, fmt.Sprintf("%s: file type %s is not accepted", u.Name, f.ContentType()))
		return apiclient.File{}, errs
	}
	return f, nil
}

type DriveRepository struct {
	client *apiclient.Client
}

func NewDriveRepository(client *apiclient.Client) drive.Repository {
	return &DriveRepository{client: client}
}

func (r *DriveRepository) List(ctx context.Context) ([]drive.Drive, error) {
	page, err := apiclient.List[models.Drive](ctx, r.client, drivesPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list drives")
	}
	out := make([]drive.Drive, 0, len(page.Results))
	for _, m := range page.Results {
		out = append(out, toDomainDrive(m))
	}
	return out, nil
}

func (r *DriveRepository) GetActivePublic(ctx context.Context) (drive.Drive, error) {
	var m models.Drive
	if err := r.client.Get(ctx, drivesPath+"active_public/", nil, &m); err != nil {
		return drive.Drive{}, notFound(err, drive.ErrNoActiveDrive)
	}
	return toDomainDrive(m), nil
}

func (r *DriveRepository) Create(ctx context.Context, d drive.Drive) (drive.Drive, error) {
	var out models.Drive
	if err := r.client.Post(ctx, drivesPath, toDBDrive(d), &out); err != nil {
		return drive.Drive{}, err
	}
	return toDomainDrive(out), nil
}

func (r *DriveRepository) Update(ctx context.Context, id int64, patch drive.Patch) (drive.Drive, error) {
	var out models.Drive
	if err := r.client.Patch(ctx, itemPath(drivesPath, id), toDBDrivePatch(patch), &out); err != nil {
		return drive.Drive{}, notFound(err, drive.ErrNotFound)
	}
	return toDomainDrive(out), nil
}

func (r *DriveRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, itemPath(drivesPath, id)); err != nil {
		return notFound(err, drive.ErrNotFound)
	}
	return nil
}

func (r *DriveRepository) SyncCandidates(ctx context.Context, id int64) (drive.SyncResult, error) {
	var out models.SyncResult
	if err := r.client.Post(ctx, itemPath(drivesPath, id)+"sync_candidates/", nil, &out); err != nil {
		return drive.SyncResult{}, notFound(err, drive.ErrNotFound)
	}
	return drive.SyncResult{Created: out.Created, Updated: out.Updated, Skipped: out.Skipped}, nil
}

func (r *DriveRepository) SubmitAssessment(ctx context.Context, dto drive.SubmissionDTO) error {
	var files []apiclient.File
	if len(dto.File) > 0 {
		f, err := uploadFile("assessment_file", &drive.Upload{Name: dto.FileName, Content: dto.File})
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	body, err := apiclient.NewMultipart(models.Submission{
		Drive:         dto.DriveID,
		CandidateName: dto.CandidateName,
		Identifier:    dto.Identifier,
		SIG:           dto.SIG,
		SolutionLink:  dto.SolutionLink,
	}, files...)
	if err != nil {
		return err
	}
	return r.client.PostMultipart(ctx, drivesPath+"submit_assessment/", body, nil)
}

type TimelineRepository struct {
	client *apiclient.Client
}

func NewTimelineRepository(client *apiclient.Client) drive.TimelineRepository {
	return &TimelineRepository{client: client}
}

func (r *TimelineRepository) List(ctx context.Context, driveID int64) ([]drive.TimelineEvent, error) {
	page, err := apiclient.List[models.TimelineEvent](ctx, r.client, timelinePath, byDrive(driveID))
	if err != nil {
		return nil, errors.Wrap(err, "list timeline")
	}
	out := make([]drive.TimelineEvent, 0, len(page.Results))
	for _, m := range page.Results {
		out = append(out, toDomainTimelineEvent(m))
	}
	return drive.SortTimeline(out), nil
}

func (r *TimelineRepository) Create(ctx context.Context, e drive.TimelineEvent) (drive.TimelineEvent, error) {
	var out models.TimelineEvent
	if err := r.client.Post(ctx, timelinePath, toDBTimelineEvent(e), &out); err != nil {
		return drive.TimelineEvent{}, err
	}
	return toDomainTimelineEvent(out), nil
}

func (r *TimelineRepository) Update(ctx context.Context, id int64, patch drive.TimelinePatch) (drive.TimelineEvent, error) {
	var out models.TimelineEvent
	if err := r.client.Patch(ctx, itemPath(timelinePath, id), toDBTimelinePatch(patch), &out); err != nil {
		return drive.TimelineEvent{}, err
	}
	return toDomainTimelineEvent(out), nil
}

func (r *TimelineRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(timelinePath, id))
}

type AssignmentRepository struct {
	client *apiclient.Client
}

func NewAssignmentRepository(client *apiclient.Client) drive.AssignmentRepository {
	return &AssignmentRepository{client: client}
}

func (r *AssignmentRepository) List(ctx context.Context, driveID int64) ([]drive.Assignment, error) {
	page, err := apiclient.List[models.Assignment](ctx, r.client, assignmentsPath, byDrive(driveID))
	if err != nil {
		return nil, errors.Wrap(err, "list assignments")
	}
	out := make([]drive.Assignment, 0, len(page.Results))
	for _, m := range page.Results {
		out = append(out, toDomainAssignment(m))
	}
	return out, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a drive.Assignment, file *drive.Upload) (drive.Assignment, error) {
	var out models.Assignment
	if file == nil {
		if err := r.client.Post(ctx, assignmentsPath, toDBAssignment(a), &out); err != nil {
			return drive.Assignment{}, err
		}
		return toDomainAssignment(out), nil
	}

	f, err := uploadFile("file", file)
	if err != nil {
		return drive.Assignment{}, err
	}
	body, err := apiclient.NewMultipart(toDBAssignment(a), f)
	if err != nil {
		return drive.Assignment{}, err
	}
	if err := r.client.PostMultipart(ctx, assignmentsPath, body, &out); err != nil {
		return drive.Assignment{}, err
	}
	return toDomainAssignment(out), nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, itemPath(assignmentsPath, id))
}

type FormSchemaRepository struct {
	client *apiclient.Client
}

func NewFormSchemaRepository(client *apiclient.Client) drive.FormSchemaRepository {
	return &FormSchemaRepository{client: client}
}

func (r *FormSchemaRepository) GetSchema(ctx context.Context, formID int64) (fields.Schema, error) {
	var out fields.Schema
	if err := r.client.Get(ctx, itemPath(formsPath, formID), nil, &out); err != nil {
		return fields.Schema{}, errors.Wrapf(err, "get form %d", formID)
	}
	return out, nil
}
