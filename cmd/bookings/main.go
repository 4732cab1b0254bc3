package main

import (
	"os"

	"reservo/internal/bookings/handler"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/service"
	"reservo/internal/bookings/validator"
	"reservo/pkg/app"
	"reservo/pkg/config"
	"reservo/pkg/kafka"
	kafka_config "reservo/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	bookingService := initServices(cfg)
	events := initEvents(cfg)
	defer func() {
		if err := events.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, events, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	scheduleReader := repository.NewScheduleReader(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		scheduleReader,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initEvents wires the Kafka publisher when brokers are configured and
// degrades to a no-op otherwise, so a broker is never a hard dependency.
func initEvents(cfg *config.Config) kafka.EventPublisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return kafka.NoopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, kafka.TopicBookingEvents, kafka.TopicBookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka event publisher initialized",
		"brokers", kafkaCfg.Brokers,
		"topic", kafka.TopicBookingEvents,
	)
	return kafka.NewPublisher(producer, cfg.Log, ServiceName)
}
