// The reminderjob command runs a single evaluation pass from the command
// line, useful for ad-hoc runs and external cron setups. The lookahead can be
// passed as the first argument, overriding REMINDER_DAYS_BEFORE.
package main

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/mvilar/controlcar/internal/config"
	"github.com/mvilar/controlcar/internal/db"
	"github.com/mvilar/controlcar/internal/push"
	"github.com/mvilar/controlcar/internal/reminder"
)

func main() {
	cfg := config.Load()

	days := cfg.DaysBefore
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			days = reminder.ClampDaysBefore(n, cfg.DaysBefore)
		}
	}

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

	summary, err := job.Run(context.Background(), days)
	if err != nil {
		os.Exit(1)
	}
	log.WithFields(log.Fields{
		"daysBefore": summary.DaysBefore,
		"sent":       summary.Sent,
	}).Info("reminder job done")
}
