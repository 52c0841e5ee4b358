package villas

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	domainvillas "villadesk/internal/domain/villas"
	"villadesk/internal/infra/storage/memory"
)

func TestSearchAvailableHandler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	villas := memory.NewVillaRepository()
	locations := memory.NewLocationRepository()
	scheduleRepo := memory.NewScheduleRepository()

	addVilla := func(id string, rate int64) {
		villa, err := domainvillas.NewVilla(domainvillas.CreateVillaParams{
			ID:               domainvillas.VillaID(id),
			LocationID:       "loc-1",
			Name:             "Villa " + id,
			GuestsLimit:      6,
			NightlyRateCents: rate,
			Now:              now,
		})
		require.NoError(t, err)
		require.NoError(t, villa.Activate(now))
		require.NoError(t, villas.Save(ctx, villa))
	}
	addVilla("a", 20000)
	addVilla("b", 10000)

	require.NoError(t, scheduleRepo.Save(ctx, domainschedule.BlockedDateRecord{
		ID:         "block-a",
		Scope:      domainschedule.ScopeVilla,
		VillaID:    "a",
		LocationID: "loc-1",
		Range: dateonly.Range{
			Start: dateonly.MustParse("2025-07-03"),
			End:   dateonly.MustParse("2025-07-03"),
		},
		Reason:    "repairs",
		IsBlocked: true,
		CreatedAt: now,
	}))

	handler := &SearchAvailableHandler{UoWFactory: memory.Factory{
		VillasRepo:    villas,
		LocationsRepo: locations,
		ScheduleRepo:  scheduleRepo,
	}}

	t.Run("blocked villa excluded", func(t *testing.T) {
		list, err := handler.Handle(ctx, SearchAvailableQuery{
			LocationID: "loc-1",
			From:       dateonly.MustParse("2025-07-01"),
			To:         dateonly.MustParse("2025-07-05"),
			Guests:     2,
		})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "b", list.Villas[0].ID)
	})

	t.Run("cheapest first outside the block", func(t *testing.T) {
		list, err := handler.Handle(ctx, SearchAvailableQuery{
			LocationID: "loc-1",
			From:       dateonly.MustParse("2025-07-10"),
			To:         dateonly.MustParse("2025-07-12"),
		})
		require.NoError(t, err)
		require.Equal(t, 2, list.Total)
		assert.Equal(t, "b", list.Villas[0].ID)
		assert.Equal(t, "a", list.Villas[1].ID)
	})

	t.Run("inverted stay rejected", func(t *testing.T) {
		_, err := handler.Handle(ctx, SearchAvailableQuery{
			LocationID: "loc-1",
			From:       dateonly.MustParse("2025-07-05"),
			To:         dateonly.MustParse("2025-07-01"),
		})
		assert.ErrorIs(t, err, dateonly.ErrInvalidRange)
	})
}
