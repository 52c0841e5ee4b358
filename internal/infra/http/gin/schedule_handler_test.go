package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villadesk/internal/app/commands"
	"villadesk/internal/app/dto"
	scheduleapp "villadesk/internal/app/handlers/schedule"
	villaapp "villadesk/internal/app/handlers/villas"
	"villadesk/internal/app/middleware"
	"villadesk/internal/app/queries"
	"villadesk/internal/domain/calendar"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	domainvillas "villadesk/internal/domain/villas"
	"villadesk/internal/infra/config"
	"villadesk/internal/infra/obs"
	"villadesk/internal/infra/storage/memory"
)

type testEnv struct {
	handler  http.Handler
	schedule *memory.ScheduleRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	villas := memory.NewVillaRepository()
	locations := memory.NewLocationRepository()
	scheduleRepo := memory.NewScheduleRepository()
	box := memory.NewOutbox()

	require.NoError(t, locations.Save(ctx, &domainvillas.Location{ID: "loc-1", Name: "Coast"}))
	villa, err := domainvillas.NewVilla(domainvillas.CreateVillaParams{
		ID:               "villa-1",
		LocationID:       "loc-1",
		Name:             "Sea View",
		GuestsLimit:      6,
		NightlyRateCents: 15000,
		Now:              now,
	})
	require.NoError(t, err)
	require.NoError(t, villa.Activate(now))
	require.NoError(t, villas.Save(ctx, villa))

	factory := memory.Factory{
		VillasRepo:    villas,
		LocationsRepo: locations,
		ScheduleRepo:  scheduleRepo,
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, scheduleapp.BlockDatesCommand{}.Key(), &scheduleapp.BlockDatesHandler{
		UoWFactory: factory,
		Outbox:     box,
	})
	commands.RegisterHandler(commandBus, scheduleapp.UpdateBlockedDateCommand{}.Key(), &scheduleapp.UpdateBlockedDateHandler{
		UoWFactory: factory,
		Outbox:     box,
	})
	commands.RegisterHandler(commandBus, scheduleapp.ReleaseBlockedDateCommand{}.Key(), &scheduleapp.ReleaseBlockedDateHandler{
		UoWFactory: factory,
		Outbox:     box,
	})
	dispatcher := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, scheduleapp.GetCalendarQuery{}.Key(), &scheduleapp.GetCalendarHandler{
		UoWFactory: factory,
		Projector:  calendar.Projector{FirstDay: time.Sunday},
	})
	queries.RegisterHandler(queryBus, scheduleapp.ListBlockedDatesQuery{}.Key(), &scheduleapp.ListBlockedDatesHandler{
		UoWFactory: factory,
	})
	queries.RegisterHandler(queryBus, villaapp.SearchAvailableQuery{}.Key(), &villaapp.SearchAvailableHandler{
		UoWFactory: factory,
	})
	asker := middleware.ChainQueries(queryBus)

	fixedNow := func() time.Time { return time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC) }
	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Schedule: ScheduleHandler{Commands: dispatcher, Queries: asker, Now: fixedNow},
		Villa:    VillaHandler{Queries: asker},
	})
	return testEnv{handler: server.Handler, schedule: scheduleRepo}
}

func (e testEnv) do(t *testing.T, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestCalendarEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.schedule.Save(ctx, domainschedule.BlockedDateRecord{
		ID:         "rec-1",
		Scope:      domainschedule.ScopeLocation,
		LocationID: "loc-1",
		Range: dateonly.Range{
			Start: dateonly.MustParse("2025-07-10"),
			End:   dateonly.MustParse("2025-07-12"),
		},
		Reason:    "regional works",
		IsBlocked: true,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}))

	rec := env.do(t, http.MethodGet, "/api/v1/villas/villa-1/calendar?year=2025&month=7", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var month dto.CalendarMonth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &month))
	assert.Equal(t, "villa-1", month.VillaID)
	require.Len(t, month.Cells, calendar.GridCells)

	blocked := 0
	todays := 0
	for _, cell := range month.Cells {
		if cell.Blocked != nil {
			blocked++
		}
		if cell.Today {
			todays++
			assert.Equal(t, "2025-07-01", cell.Date)
		}
	}
	assert.Equal(t, 3, blocked)
	assert.Equal(t, 1, todays)
}

func TestCalendarEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/villas/villa-1/calendar?month=7", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/villas/villa-1/calendar?year=2025", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/villas/nope/calendar?year=2025&month=7", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Global preview without a villa id works.
	rec = env.do(t, http.MethodGet, "/api/v1/calendar?year=2025&month=7", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBlockedDatesLifecycle(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"scope":     3,
		"villaId":   "villa-1",
		"startDate": "2025-07-10",
		"endDate":   "2025-07-12",
		"reason":    "owner stay",
		"color":     "#336699",
		"isBlocked": true,
	}
	rec := env.do(t, http.MethodPost, "/api/v1/blocked-dates", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created scheduleapp.BlockDatesResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.RecordID)

	rec = env.do(t, http.MethodGet, "/api/v1/blocked-dates?villaId=villa-1&locationId=loc-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.BlockedDateList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Records, 1)
	assert.Equal(t, created.RecordID, list.Records[0].ID)
	assert.Equal(t, "loc-1", list.Records[0].LocationID)

	update := map[string]any{
		"startDate": "2025-07-10",
		"endDate":   "2025-07-15",
		"reason":    "owner stay extended",
		"isBlocked": true,
	}
	rec = env.do(t, http.MethodPut, "/api/v1/blocked-dates/"+created.RecordID, update, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.schedule.ByID(context.Background(), domainschedule.RecordID(created.RecordID))
	require.NoError(t, err)
	assert.Equal(t, "owner stay extended", stored.Reason)
	assert.Equal(t, dateonly.MustParse("2025-07-15"), stored.Range.End)

	rec = env.do(t, http.MethodDelete, "/api/v1/blocked-dates/"+created.RecordID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = env.schedule.ByID(context.Background(), domainschedule.RecordID(created.RecordID))
	assert.ErrorIs(t, err, domainschedule.ErrRecordNotFound)

	rec = env.do(t, http.MethodDelete, "/api/v1/blocked-dates/"+created.RecordID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockedDatesValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/blocked-dates", map[string]any{
		"scope":     1,
		"startDate": "2025-07-12",
		"endDate":   "2025-07-10",
		"reason":    "inverted",
		"isBlocked": true,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/blocked-dates", map[string]any{
		"scope":     1,
		"startDate": "not-a-date",
		"endDate":   "2025-07-10",
		"reason":    "bad date",
		"isBlocked": true,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/blocked-dates", map[string]any{
		"scope":     3,
		"villaId":   "unknown",
		"startDate": "2025-07-10",
		"endDate":   "2025-07-12",
		"reason":    "ghost villa",
		"isBlocked": true,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockedDatesIdempotencyHeader(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"scope":     1,
		"startDate": "2025-07-10",
		"endDate":   "2025-07-12",
		"reason":    "platform freeze",
		"isBlocked": true,
	}
	headers := map[string]string{"Idempotency-Key": "req-1"}

	first := env.do(t, http.MethodPost, "/api/v1/blocked-dates", body, headers)
	require.Equal(t, http.StatusCreated, first.Code)
	second := env.do(t, http.MethodPost, "/api/v1/blocked-dates", body, headers)
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b scheduleapp.BlockDatesResult
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.RecordID, b.RecordID)

	records, err := env.schedule.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestVillaSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/villas/search?locationId=loc-1&from=2025-07-01&to=2025-07-05&guests=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.VillaList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "villa-1", list.Villas[0].ID)

	// Block the whole window and the villa disappears from results.
	require.NoError(t, env.schedule.Save(context.Background(), domainschedule.BlockedDateRecord{
		ID:         "block",
		Scope:      domainschedule.ScopeVilla,
		VillaID:    "villa-1",
		LocationID: "loc-1",
		Range: dateonly.Range{
			Start: dateonly.MustParse("2025-07-03"),
			End:   dateonly.MustParse("2025-07-03"),
		},
		Reason:    "repairs",
		IsBlocked: true,
		CreatedAt: time.Now().UTC(),
	}))

	rec = env.do(t, http.MethodGet, "/api/v1/villas/search?locationId=loc-1&from=2025-07-01&to=2025-07-05&guests=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Zero(t, list.Total)

	rec = env.do(t, http.MethodGet, "/api/v1/villas/search?locationId=loc-1&from=bad&to=2025-07-05", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
