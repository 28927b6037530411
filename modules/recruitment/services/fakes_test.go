package services

import (
	"context"
	"sync"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/fields"
	"github.com/robocore-nitk/club-admin/pkg/logging"
)

// recorder collects every event published on the bus.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func newBus() (eventbus.EventBusWithError, *recorder) {
	bus := eventbus.NewEventPublisher(logging.Discard())
	rec := &recorder{}
	record := func(e any) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, e)
	}
	bus.Subscribe(func(e drive.CreatedEvent) { record(e) })
	bus.Subscribe(func(e drive.ActivatedEvent) { record(e) })
	bus.Subscribe(func(e drive.UpdatedEvent) { record(e) })
	bus.Subscribe(func(e application.StatusChangedEvent) { record(e) })
	bus.Subscribe(func(e application.EvaluatedEvent) { record(e) })
	bus.Subscribe(func(e panel.SlotsGeneratedEvent) { record(e) })
	bus.Subscribe(func(e panel.SlotStatusChangedEvent) { record(e) })
	return bus, rec
}

func (r *recorder) Events() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.events...)
}

type fakeDrives struct {
	drive.Repository
	created []drive.Drive
	patches map[int64]drive.Patch
}

func (f *fakeDrives) Create(ctx context.Context, d drive.Drive) (drive.Drive, error) {
	f.created = append(f.created, d)
	return drive.New(d.Title(), drive.WithID(int64(len(f.created))), drive.WithActive(d.IsActive())), nil
}

func (f *fakeDrives) Update(ctx context.Context, id int64, patch drive.Patch) (drive.Drive, error) {
	if f.patches == nil {
		f.patches = map[int64]drive.Patch{}
	}
	f.patches[id] = patch
	d := drive.New("updated", drive.WithID(id))
	if patch.RegistrationLink != nil {
		d = d.SetRegistrationLink(*patch.RegistrationLink)
	}
	if patch.IsActive != nil {
		d = d.SetActive(*patch.IsActive)
	}
	return d, nil
}

type fakeForms struct {
	schema fields.Schema
	calls  int
}

func (f *fakeForms) GetSchema(ctx context.Context, formID int64) (fields.Schema, error) {
	f.calls++
	return f.schema, nil
}

type fakeApplications struct {
	mu      sync.Mutex
	items   map[int64]application.Application
	patches []application.Patch
	err     error
}

func newFakeApplications(apps ...application.Application) *fakeApplications {
	f := &fakeApplications{items: map[int64]application.Application{}}
	for _, a := range apps {
		f.items[a.ID()] = a
	}
	return f
}

func (f *fakeApplications) List(ctx context.Context, driveID int64) ([]application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]application.Application, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeApplications) Update(ctx context.Context, id int64, patch application.Patch) (application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.err != nil {
		return application.Application{}, f.err
	}
	a, ok := f.items[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	if patch.Status != nil {
		a = a.SetStatus(*patch.Status)
	}
	if patch.InterviewScore != nil {
		a = a.SetScore(application.ScoreInterview, *patch.InterviewScore)
	}
	if patch.OAScore != nil {
		a = a.SetScore(application.ScoreOA, *patch.OAScore)
	}
	if patch.Notes != nil {
		a = a.SetNotes(*patch.Notes)
	}
	f.items[id] = a
	return a, nil
}

type fakePanels struct {
	panel.Repository
	generated []panel.GenerateSlotsDTO
}

func (f *fakePanels) GenerateSlots(ctx context.Context, dto panel.GenerateSlotsDTO) (int, error) {
	f.generated = append(f.generated, dto)
	return len(dto.ApplicationIDs), nil
}

type fakeSlots struct {
	updates []panel.SlotStatus
}

func (f *fakeSlots) UpdateStatus(ctx context.Context, id int64, status panel.SlotStatus) (panel.InterviewSlot, error) {
	f.updates = append(f.updates, status)
	return panel.NewSlot(5, 11, slotStart, panel.WithSlotID(id), panel.WithSlotStatus(status)), nil
}

func (f *fakeSlots) Delete(ctx context.Context, id int64) error { return nil }
