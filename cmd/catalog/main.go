package main

import (
	"reservo/internal/catalog/handler"
	"reservo/internal/catalog/repository"
	"reservo/internal/catalog/service"
	"reservo/internal/catalog/validator"
	"reservo/pkg/app"
	"reservo/pkg/config"
)

const ServiceName = "catalog"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Catalog service")

	serviceTypeService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewServiceTypeHandler(serviceTypeService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ServiceTypeService {
	serviceTypeValidator := validator.NewServiceTypeValidator(cfg.Log)
	serviceTypeRepo := repository.NewMongoServiceTypeRepository(cfg)

	serviceTypeService := service.NewServiceTypeService(
		serviceTypeRepo,
		serviceTypeValidator,
		cfg,
	)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return serviceTypeService
}
