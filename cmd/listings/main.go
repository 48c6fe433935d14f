package main

import (
	"stayindia/internal/health"
	"stayindia/internal/listings/handler"
	"stayindia/internal/listings/repository"
	"stayindia/internal/listings/service"
	"stayindia/internal/listings/validator"
	"stayindia/pkg/app"
	"stayindia/pkg/authz"
	"stayindia/pkg/config"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Listings service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	listingService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewListingHandler(listingService, cfg.Log),
		health.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ListingService {
	listingService := service.NewListingService(
		repository.NewMongoListingRepository(cfg),
		validator.NewListingValidator(cfg),
		authz.New(),
		cfg,
	)

	cfg.Log.Info("Listing service initialized", "database", cfg.MongoDatabaseName)
	return listingService
}
