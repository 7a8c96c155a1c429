package main

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mvilar/controlcar/internal/auth"
	"github.com/mvilar/controlcar/internal/config"
	"github.com/mvilar/controlcar/internal/db"
	"github.com/mvilar/controlcar/internal/handlers"
	"github.com/mvilar/controlcar/internal/middleware"
	"github.com/mvilar/controlcar/internal/push"
	"github.com/mvilar/controlcar/internal/reminder"
	"github.com/mvilar/controlcar/internal/scheduler"
	"github.com/mvilar/controlcar/internal/telemetry"
)

func main() {
	cfg := config.Load()

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	records := db.NewMongoStore(client.Database(cfg.MongoDatabase))

	sender, err := push.NewFCMSender(context.Background(), cfg.FCMCredentialsFile)
	if err != nil {
		log.Fatalf("Failed to initialize FCM: %v", err)
	}

	job := &reminder.Job{
		Tokens:    records,
		Reminders: records,
		Vehicles:  records,
		Documents: records,
		Fines:     records,
		Push:      sender,
		Composer:  reminder.NewComposer(cfg.Locale, cfg.Currency),
	}

	sched, err := scheduler.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	err = sched.AddJob(cfg.Schedule, func() {
		_, _ = job.Run(context.Background(), cfg.DaysBefore)
	})
	if err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.MQTTBroker != "" {
		sub := telemetry.NewSubscriber(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, records)
		if err := sub.Start(); err != nil {
			log.WithError(err).Warn("odometer subscriber unavailable, continuing without it")
		} else {
			defer sub.Stop()
		}
	}

	authService := auth.NewService(cfg.JWTSecret)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	reminderHandler := handlers.NewReminderHandler(job, cfg.DaysBefore)
	tokenHandler := handlers.NewTokenHandler(records)
	seedHandler := handlers.NewSeedHandler(records, records, records)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/reminders/run", reminderHandler.RunNow)
	mux.HandleFunc("/api/tokens", tokenHandler.Handle)
	mux.HandleFunc("/api/admin/seed-test", seedHandler.Seed)

	handler := middleware.RequestLogger(authMiddleware.Authenticate(mux))

	log.WithFields(log.Fields{
		"addr":     cfg.HTTPAddr,
		"schedule": cfg.Schedule,
		"timezone": cfg.Timezone,
	}).Info("server listening")
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, handler))
}
