package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/sarops/missionline/internal/config"
	"github.com/sarops/missionline/internal/database"
	"github.com/sarops/missionline/internal/handler"
	"github.com/sarops/missionline/internal/notify"
	"github.com/sarops/missionline/internal/repository"
	"github.com/sarops/missionline/internal/router"
	"github.com/sarops/missionline/internal/service"
	"github.com/sarops/missionline/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	loc := cfg.Org.Location()

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var notifier notify.Notifier = notify.LogNotifier{}
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		amqpNotifier := notify.NewAMQPNotifier()
		notifier = amqpNotifier
		go func() {
			if err := notify.StartActivityConsumer(amqpNotifier.URL); err != nil {
				log.Printf("activity-consumer: %v", err)
			}
		}()
	}

	st := store.NewSQLStore(db)
	eventSvc := service.NewEventService(st, notifier, loc)
	rosterSvc := service.NewRosterService(st, notifier, loc)

	events := handler.NewEventHandler(repository.NewEventRepo(db), eventSvc, cfg.Org)
	roster := handler.NewRosterHandler(repository.NewSignInRepo(db), rosterSvc, cfg.Org)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, events, roster, cfg.JWTSecret, config.LoadRateLimitConfig(), config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tz=%s)", addr, cfg.Env, cfg.Org.Timezone)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
