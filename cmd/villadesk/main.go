package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villadesk/internal/app/commands"
	"villadesk/internal/app/middleware"
	appoutbox "villadesk/internal/app/outbox"
	"villadesk/internal/app/queries"
	"villadesk/internal/app/uow"
	"villadesk/internal/domain/calendar"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	domainvillas "villadesk/internal/domain/villas"
	"villadesk/internal/infra/broker/kafka"
	"villadesk/internal/infra/config"
	mongodb "villadesk/internal/infra/db/mongo"
	ginserver "villadesk/internal/infra/http/gin"
	"villadesk/internal/infra/obs"
	infraoutbox "villadesk/internal/infra/outbox"
	"villadesk/internal/infra/storage/memory"

	scheduleapp "villadesk/internal/app/handlers/schedule"
	villaapp "villadesk/internal/app/handlers/villas"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		// Without Mongo and Kafka the service still runs: in-memory
		// repositories and outbox, good enough for local work. The rest
		// of the environment (week start, TTLs, fixtures) still applies.
		logger.Warn("continuing without external services", "error", err)
		cfg, err = config.LoadDev()
		if err != nil {
			logger.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	if cfg.FixturesPath != "" {
		if err := app.loadFixtures(ctx, cfg.FixturesPath, logger); err != nil {
			logger.Warn("fixtures load failed", "error", err, "path", cfg.FixturesPath)
		}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers  ginserver.Handlers
	worker    *infraoutbox.Worker
	ready     func() error
	villas    domainvillas.VillaRepository
	locations domainvillas.LocationRepository
	schedule  domainschedule.Repository
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var app application

	var (
		factory uow.UoWFactory
		box     appoutbox.Outbox
	)

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		app.villas = mongodb.NewVillaRepository(client.DB)
		app.locations = mongodb.NewLocationRepository(client.DB)
		app.schedule = mongodb.NewScheduleRepository(client.DB)
		store := infraoutbox.NewStore(client.DB)
		box = store
		factory = mongodb.Factory{
			DB:            client.DB,
			VillasRepo:    app.villas,
			LocationsRepo: app.locations,
			ScheduleRepo:  app.schedule,
		}
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka producer: %w", err)
			}
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		}
	} else {
		logger.Info("running with in-memory storage")
		app.villas = memory.NewVillaRepository()
		app.locations = memory.NewLocationRepository()
		app.schedule = memory.NewScheduleRepository()
		box = memory.NewOutbox()
		factory = memory.Factory{
			VillasRepo:    app.villas,
			LocationsRepo: app.locations,
			ScheduleRepo:  app.schedule,
		}
		app.ready = func() error { return nil }
	}

	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	projector := calendar.Projector{FirstDay: cfg.WeekStart}
	app.handlers = buildHandlers(factory, box, idStore, projector)
	return app, nil
}

func buildHandlers(factory uow.UoWFactory, box appoutbox.Outbox, idStore middleware.IdempotencyStore, projector calendar.Projector) ginserver.Handlers {
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, scheduleapp.BlockDatesCommand{}.Key(), &scheduleapp.BlockDatesHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, scheduleapp.UpdateBlockedDateCommand{}.Key(), &scheduleapp.UpdateBlockedDateHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, scheduleapp.ReleaseBlockedDateCommand{}.Key(), &scheduleapp.ReleaseBlockedDateHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, scheduleapp.GetCalendarQuery{}.Key(), &scheduleapp.GetCalendarHandler{
		UoWFactory: factory,
		Projector:  projector,
	})
	queries.RegisterHandler(queryBus, scheduleapp.ListBlockedDatesQuery{}.Key(), &scheduleapp.ListBlockedDatesHandler{
		UoWFactory: factory,
	})
	queries.RegisterHandler(queryBus, villaapp.SearchAvailableQuery{}.Key(), &villaapp.SearchAvailableHandler{
		UoWFactory: factory,
	})

	dispatcher := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	asker := middleware.ChainQueries(queryBus)

	return ginserver.Handlers{
		Schedule: ginserver.ScheduleHandler{Commands: dispatcher, Queries: asker},
		Villa:    ginserver.VillaHandler{Queries: asker},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type fixtureFile struct {
	Locations []locationFixture    `json:"locations"`
	Villas    []villaFixture       `json:"villas"`
	Blocks    []blockedDateFixture `json:"blockedDates"`
}

type locationFixture struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

type villaFixture struct {
	ID               string `json:"id"`
	LocationID       string `json:"locationId"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	GuestsLimit      int    `json:"guestsLimit"`
	Bedrooms         int    `json:"bedrooms"`
	Bathrooms        int    `json:"bathrooms"`
	NightlyRateCents int64  `json:"nightlyRateCents"`
}

type blockedDateFixture struct {
	ID         string `json:"id"`
	Scope      int    `json:"scope"`
	LocationID string `json:"locationId"`
	VillaID    string `json:"villaId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
	Color      string `json:"color"`
	IsBlocked  bool   `json:"isBlocked"`
}

func (a application) loadFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures fixtureFile
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures.Locations {
		location := &domainvillas.Location{
			ID:        domainvillas.LocationID(fx.ID),
			Name:      fx.Name,
			Region:    fx.Region,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := a.locations.Save(ctx, location); err != nil {
			logger.Error("cannot store fixture location", "location_id", fx.ID, "error", err)
		}
	}

	for _, fx := range fixtures.Villas {
		villa, err := domainvillas.NewVilla(domainvillas.CreateVillaParams{
			ID:               domainvillas.VillaID(fx.ID),
			LocationID:       domainvillas.LocationID(fx.LocationID),
			Name:             fx.Name,
			Description:      fx.Description,
			GuestsLimit:      fx.GuestsLimit,
			Bedrooms:         fx.Bedrooms,
			Bathrooms:        fx.Bathrooms,
			NightlyRateCents: fx.NightlyRateCents,
			Now:              now,
		})
		if err != nil {
			logger.Error("villa fixture invalid", "villa_id", fx.ID, "error", err)
			continue
		}
		if err := villa.Activate(now); err != nil {
			logger.Error("villa fixture activation failed", "villa_id", fx.ID, "error", err)
			continue
		}
		if err := a.villas.Save(ctx, villa); err != nil {
			logger.Error("cannot store fixture villa", "villa_id", fx.ID, "error", err)
			continue
		}
		logger.Info("villa fixture imported", "villa_id", villa.ID)
	}

	for _, fx := range fixtures.Blocks {
		start, err := dateonly.Parse(fx.StartDate)
		if err != nil {
			logger.Error("fixture start date invalid", "record_id", fx.ID, "error", err)
			continue
		}
		end, err := dateonly.Parse(fx.EndDate)
		if err != nil {
			logger.Error("fixture end date invalid", "record_id", fx.ID, "error", err)
			continue
		}
		record := domainschedule.BlockedDateRecord{
			ID:         domainschedule.RecordID(fx.ID),
			Scope:      domainschedule.Scope(fx.Scope),
			LocationID: fx.LocationID,
			VillaID:    fx.VillaID,
			Range:      dateonly.Range{Start: start, End: end},
			Reason:     fx.Reason,
			Color:      fx.Color,
			IsBlocked:  fx.IsBlocked,
			CreatedAt:  now,
		}
		if err := record.Validate(); err != nil {
			logger.Error("fixture record invalid", "record_id", fx.ID, "error", err)
			continue
		}
		if err := a.schedule.Save(ctx, record); err != nil {
			logger.Error("cannot store fixture record", "record_id", fx.ID, "error", err)
			continue
		}
		logger.Info("blocked-date fixture imported", "record_id", record.ID)
	}
	return nil
}
