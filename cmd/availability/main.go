package main

import (
	"reservo/internal/availability/handler"
	"reservo/internal/availability/repository"
	"reservo/internal/availability/service"
	"reservo/internal/availability/validator"
	"reservo/pkg/app"
	"reservo/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Availability service")

	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityValidator := validator.NewAvailabilityValidator(cfg.Log)
	ruleRepo := repository.NewMongoAvailabilityRuleRepository(cfg)

	availabilityService := service.NewAvailabilityService(
		ruleRepo,
		availabilityValidator,
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
