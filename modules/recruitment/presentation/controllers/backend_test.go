package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence"
	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence/models"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/viewmodels"
	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/fields"
	"github.com/robocore-nitk/club-admin/pkg/logging"
	"github.com/robocore-nitk/club-admin/pkg/toast"
)

var (
	ist = time.FixedZone("IST", 5*3600+1800)
	// 09:00 IST
	slotStart = time.Date(2025, 8, 12, 3, 30, 0, 0, time.UTC)
)

type failure struct {
	status int
	body   string
}

// backend is an in-memory recruitment API. Every route counts its calls and
// can be told to fail its next request.
type backend struct {
	t            *testing.T
	mu           sync.Mutex
	drives       []models.Drive
	timeline     []models.TimelineEvent
	applications []models.Application
	panels       []models.Panel
	sync         models.SyncResult
	nextSlotID   int64
	calls        map[string]int
	fail         map[string]failure
	drivePatches []map[string]any
}

func newBackend(t *testing.T) *backend {
	form := int64(7)
	return &backend{
		t: t,
		drives: []models.Drive{
			{ID: 1, Title: "Recruitment 2024", IsPublic: true},
			{ID: 2, Title: "Recruitment 2025", IsActive: true, IsPublic: true, RegistrationLink: "https://forms.gle/old", Form: &form, PrimaryField: "roll"},
		},
		timeline: []models.TimelineEvent{
			{ID: 21, Drive: 2, Title: "Interviews", Date: time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC), Order: 1},
			{ID: 20, Drive: 2, Title: "Online assessment", Date: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)},
		},
		applications: []models.Application{
			newApplication(11, "221CS101", "Asha Rao", "Software", 9),
			newApplication(12, "221EC102", "Bilal Khan", "Electronics", 7),
			newApplication(13, "221ME103", "Chitra Nair", "Mechanical", 8),
		},
		panels:     []models.Panel{{ID: 1, Drive: 2, PanelNumber: 1, Name: "Software", Members: []int64{}}},
		nextSlotID: 100,
		calls:      map[string]int{},
		fail:       map[string]failure{},
	}
}

func newApplication(id int64, identifier, name, sig string, interview float64) models.Application {
	return models.Application{
		ID:             id,
		Drive:          2,
		Identifier:     identifier,
		CandidateName:  name,
		SIGName:        sig,
		InterviewScore: decimal.NewNullDecimal(decimal.NewFromFloat(interview)),
		Status:         "PENDING",
	}
}

func (b *backend) failNext(pattern string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[pattern] = failure{status: status, body: body}
}

func (b *backend) lastDrivePatch() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(b.t, b.drivePatches)
	return b.drivePatches[len(b.drivePatches)-1]
}

func (b *backend) count(pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[pattern]
}

func (b *backend) application(id int64) models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.applications {
		if a.ID == id {
			return a
		}
	}
	b.t.Fatalf("no application %d", id)
	return models.Application{}
}

func (b *backend) route(mux *http.ServeMux, pattern string, fn func(w http.ResponseWriter, r *http.Request) any) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[pattern]++
		f, failing := b.fail[pattern]
		delete(b.fail, pattern)
		if failing {
			b.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		out := fn(w, r)
		b.mu.Unlock()

		if out == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
}

func pathID(t *testing.T, r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	require.NoError(t, err)
	return id
}

func driveParam(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get("drive_id"), 10, 64)
	return id
}

func byDrive[T any](items []T, driveOf func(T) int64, id int64) []T {
	out := []T{}
	for _, it := range items {
		if driveOf(it) == id {
			out = append(out, it)
		}
	}
	return out
}

func (b *backend) mux() *http.ServeMux {
	t := b.t
	mux := http.NewServeMux()

	b.route(mux, "GET /api/recruitment/drives/{$}", func(w http.ResponseWriter, r *http.Request) any {
		return map[string]any{"count": len(b.drives), "results": b.drives}
	})
	b.route(mux, "PATCH /api/recruitment/drives/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		b.drivePatches = append(b.drivePatches, body)
		var patch models.DrivePatch
		require.NoError(t, json.Unmarshal(raw, &patch))
		var out models.Drive
		for i := range b.drives {
			d := &b.drives[i]
			if patch.IsActive != nil && *patch.IsActive {
				d.IsActive = d.ID == id
			}
			if d.ID != id {
				continue
			}
			if patch.IsActive != nil {
				d.IsActive = *patch.IsActive
			}
			if patch.Title != nil {
				d.Title = *patch.Title
			}
			if patch.RegistrationLink != nil {
				d.RegistrationLink = *patch.RegistrationLink
			}
			if patch.Form != nil {
				form := int64(*patch.Form)
				d.Form = &form
			} else if v, ok := body["form"]; ok && v == nil {
				d.Form = nil
			}
			out = *d
		}
		return out
	})
	b.route(mux, "DELETE /api/recruitment/drives/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		b.drives = slices.DeleteFunc(b.drives, func(d models.Drive) bool { return d.ID == id })
		return nil
	})
	b.route(mux, "POST /api/recruitment/drives/{id}/sync_candidates/", func(w http.ResponseWriter, r *http.Request) any {
		return b.sync
	})

	b.route(mux, "GET /api/forms/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		return fields.Schema{ID: pathID(t, r), Title: "Recruitment form", Fields: []fields.Definition{
			{Key: "roll", Label: "Roll number", Type: fields.TypeText},
			{Key: "name", Label: "Name", Type: fields.TypeText},
		}}
	})

	b.route(mux, "GET /api/recruitment/timeline/{$}", func(w http.ResponseWriter, r *http.Request) any {
		return byDrive(b.timeline, func(e models.TimelineEvent) int64 { return e.Drive }, driveParam(r))
	})
	b.route(mux, "PATCH /api/recruitment/timeline/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		var patch models.TimelinePatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		for i := range b.timeline {
			e := &b.timeline[i]
			if e.ID != id {
				continue
			}
			if patch.IsCompleted != nil {
				e.IsCompleted = *patch.IsCompleted
			}
			if patch.Date != nil {
				if e.OriginalDate == nil {
					original := e.Date
					e.OriginalDate = &original
				}
				e.Date = *patch.Date
			}
			return *e
		}
		return nil
	})
	b.route(mux, "GET /api/recruitment/assignments/{$}", func(w http.ResponseWriter, r *http.Request) any {
		return []models.Assignment{}
	})

	b.route(mux, "GET /api/recruitment/applications/{$}", func(w http.ResponseWriter, r *http.Request) any {
		return byDrive(b.applications, func(a models.Application) int64 { return a.Drive }, driveParam(r))
	})
	b.route(mux, "PATCH /api/recruitment/applications/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		var patch models.ApplicationPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		for i := range b.applications {
			a := &b.applications[i]
			if a.ID != id {
				continue
			}
			if patch.Status != nil {
				a.Status = *patch.Status
			}
			if patch.InterviewScore != nil {
				a.InterviewScore = decimal.NewNullDecimal(*patch.InterviewScore)
			}
			if patch.Notes != nil {
				a.Notes = *patch.Notes
			}
			return *a
		}
		return nil
	})

	b.route(mux, "GET /api/recruitment/panels/{$}", func(w http.ResponseWriter, r *http.Request) any {
		return byDrive(b.panels, func(p models.Panel) int64 { return p.Drive }, driveParam(r))
	})
	b.route(mux, "PATCH /api/recruitment/panels/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		var patch models.PanelPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		for i := range b.panels {
			if b.panels[i].ID != id {
				continue
			}
			if patch.Members != nil {
				b.panels[i].Members = *patch.Members
			}
			if patch.Name != nil {
				b.panels[i].Name = *patch.Name
			}
			return b.panels[i]
		}
		return nil
	})
	b.route(mux, "POST /api/recruitment/panels/{id}/generate_slots/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		var req models.GenerateSlots
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for i := range b.panels {
			if b.panels[i].ID != id {
				continue
			}
			for n, appID := range req.ApplicationIDs {
				b.nextSlotID++
				b.panels[i].Slots = append(b.panels[i].Slots, models.InterviewSlot{
					ID:          b.nextSlotID,
					Panel:       id,
					Application: appID,
					StartTime:   req.StartTime.Add(time.Duration(n*req.Duration) * time.Minute),
					Status:      "SCHEDULED",
				})
			}
		}
		return map[string]int{"created": len(req.ApplicationIDs)}
	})
	b.route(mux, "PATCH /api/recruitment/slots/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		var patch models.SlotPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		for i := range b.panels {
			for j := range b.panels[i].Slots {
				if s := &b.panels[i].Slots[j]; s.ID == id {
					s.Status = patch.Status
					return *s
				}
			}
		}
		return nil
	})
	b.route(mux, "DELETE /api/recruitment/slots/{id}/", func(w http.ResponseWriter, r *http.Request) any {
		id := pathID(t, r)
		for i := range b.panels {
			b.panels[i].Slots = slices.DeleteFunc(b.panels[i].Slots, func(s models.InterviewSlot) bool { return s.ID == id })
		}
		return nil
	})
	return mux
}

func (b *backend) seedSlots(panelID int64, appIDs ...int64) {
	for n, appID := range appIDs {
		b.nextSlotID++
		b.panels[panelID-1].Slots = append(b.panels[panelID-1].Slots, models.InterviewSlot{
			ID:          b.nextSlotID,
			Panel:       panelID,
			Application: appID,
			StartTime:   slotStart.Add(time.Duration(n*20) * time.Minute),
			Status:      "SCHEDULED",
		})
	}
}

func newController(t *testing.T, b *backend, pageSize int) (*RecruitmentController, *clockwork.FakeClock) {
	t.Helper()
	srv := httptest.NewServer(b.mux())
	t.Cleanup(srv.Close)
	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	bus := eventbus.NewEventPublisher(logging.Discard())
	applications := services.NewApplicationService(persistence.NewApplicationRepository(client), bus)
	clock := clockwork.NewFakeClock()
	c := NewRecruitmentController(RecruitmentControllerDeps{
		Drives:       services.NewDriveService(persistence.NewDriveRepository(client), persistence.NewFormSchemaRepository(client), bus),
		Timeline:     services.NewTimelineService(persistence.NewTimelineRepository(client), bus),
		Assignments:  services.NewAssignmentService(persistence.NewAssignmentRepository(client), bus),
		Applications: applications,
		Panels: services.NewPanelService(
			persistence.NewPanelRepository(client),
			persistence.NewSlotRepository(client),
			applications,
			bus,
		),
		Toast:    toast.New(toast.WithClock(clock)),
		Location: ist,
		PageSize: pageSize,
	})
	return c, clock
}

func requireToast(t *testing.T, c *RecruitmentController, kind toast.Kind, message string) {
	t.Helper()
	require.Equal(t, toast.State{Visible: true, Message: message, Kind: kind}, c.Toast().State())
}

func identifiers(items []*viewmodels.Application) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Identifier)
	}
	return out
}
