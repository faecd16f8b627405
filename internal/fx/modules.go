package fx

import (
	"database/sql"

	"dota-review-tracker/internal/config"
	"dota-review-tracker/internal/database"
	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/logger"
	"dota-review-tracker/internal/messaging"
	"dota-review-tracker/internal/repository"
	"dota-review-tracker/internal/server"
	"dota-review-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvidePublisher(hub *messaging.Hub) service.Publisher {
	return hub
}

func RegisterController(adapter *host.Adapter, controller *service.GameController) {
	adapter.AddListener(controller.HandleEvent)
}

// StoreModule is everything needed to work on the local store alone.
var StoreModule = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewReviewRepository),
	fx.Provide(repository.NewDataRepository),
)

var Module = fx.Options(
	StoreModule,
	// host
	fx.Provide(fx.Annotate(host.NewBridge, fx.As(new(host.Host)))),
	fx.Provide(host.NewAdapter),
	// messaging
	fx.Provide(messaging.NewHub),
	fx.Provide(ProvidePublisher),
	// svc
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewReviewService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewTransferService),
	fx.Provide(service.NewGameController),
	fx.Invoke(RegisterController),
	// server
	fx.Provide(server.NewTrackerServer),
)
