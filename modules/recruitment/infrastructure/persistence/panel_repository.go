package persistence

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence/models"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
)

const (
	panelsPath = "/recruitment/panels/"
	slotsPath  = "/recruitment/slots/"
)

type PanelRepository struct {
	client *apiclient.Client
}

func NewPanelRepository(client *apiclient.Client) panel.Repository {
	return &PanelRepository{client: client}
}

func (r *PanelRepository) List(ctx context.Context, driveID int64) ([]panel.Panel, error) {
	page, err := apiclient.List[models.Panel](ctx, r.client, panelsPath, byDrive(driveID))
	if err != nil {
		return nil, errors.Wrap(err, "list panels")
	}
	out := make([]panel.Panel, 0, len(page.Results))
	for _, m := range page.Results {
		out = append(out, toDomainPanel(m))
	}
	return out, nil
}

func (r *PanelRepository) Create(ctx context.Context, p panel.Panel) (panel.Panel, error) {
	var out models.Panel
	if err := r.client.Post(ctx, panelsPath, toDBPanel(p), &out); err != nil {
		return panel.Panel{}, err
	}
	return toDomainPanel(out), nil
}

func (r *PanelRepository) Update(ctx context.Context, id int64, patch panel.Patch) (panel.Panel, error) {
	var out models.Panel
	if err := r.client.Patch(ctx, itemPath(panelsPath, id), toDBPanelPatch(patch), &out); err != nil {
		return panel.Panel{}, notFound(err, panel.ErrNotFound)
	}
	return toDomainPanel(out), nil
}

func (r *PanelRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, itemPath(panelsPath, id)); err != nil {
		return notFound(err, panel.ErrNotFound)
	}
	return nil
}

// GenerateSlots returns how many slots the backend created. Older backends
// answer with the slot list, newer ones with {"created": n}.
func (r *PanelRepository) GenerateSlots(ctx context.Context, dto panel.GenerateSlotsDTO) (int, error) {
	var raw json.RawMessage
	if err := r.client.Post(ctx, itemPath(panelsPath, dto.PanelID)+"generate_slots/", toDBGenerateSlots(dto), &raw); err != nil {
		return 0, notFound(err, panel.ErrNotFound)
	}
	return generatedCount(raw, len(dto.ApplicationIDs))
}

func generatedCount(raw json.RawMessage, requested int) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return requested, nil
	}
	if trimmed[0] == '[' {
		var slots []models.InterviewSlot
		if err := json.Unmarshal(trimmed, &slots); err != nil {
			return 0, errors.Wrap(err, "decode generated slots")
		}
		return len(slots), nil
	}
	var res models.GenerateSlotsResult
	if err := json.Unmarshal(trimmed, &res); err != nil {
		return 0, errors.Wrap(err, "decode generate_slots result")
	}
	if res.Created == 0 && len(res.Slots) > 0 {
		return len(res.Slots), nil
	}
	return res.Created, nil
}

type SlotRepository struct {
	client *apiclient.Client
}

func NewSlotRepository(client *apiclient.Client) panel.SlotRepository {
	return &SlotRepository{client: client}
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, id int64, status panel.SlotStatus) (panel.InterviewSlot, error) {
	var out models.InterviewSlot
	if err := r.client.Patch(ctx, itemPath(slotsPath, id), models.SlotPatch{Status: string(status)}, &out); err != nil {
		return panel.InterviewSlot{}, notFound(err, panel.ErrSlotNotFound)
	}
	return toDomainSlot(out), nil
}

func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, itemPath(slotsPath, id)); err != nil {
		return notFound(err, panel.ErrSlotNotFound)
	}
	return nil
}
