package reminder

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mvilar/controlcar/internal/db"
	"github.com/mvilar/controlcar/internal/models"
	"github.com/mvilar/controlcar/internal/push"
)

const defaultOpTimeout = 10 * time.Second

// Summary totals one evaluation run.
type Summary struct {
	DaysBefore    int `json:"daysBefore"`
	UsersScanned  int `json:"usersScanned"`
	UsersSkipped  int `json:"usersSkipped"`
	UsersNotified int `json:"usersNotified"`
	Sent          int `json:"sent"`
	SendFailures  int `json:"sendFailures"`
}

// Job runs a full evaluation pass over every user holding a notification
// token: load that user's records, evaluate due status, compose at most one
// candidate per category and deliver each candidate with a single multicast
// call. Users are independent; a failure for one never aborts the others.
type Job struct {
	Tokens    db.TokenDirectory
	Reminders db.ReminderCollection
	Vehicles  db.VehicleCollection
	Documents db.DocumentCollection
	Fines     db.FineCollection
	Push      push.Sender
	Composer  *Composer

	// OpTimeout bounds each store read and each delivery call so one slow
	// dependency cannot stall the whole run.
	OpTimeout time.Duration

	// Now allows tests to pin the evaluation instant.
	Now func() time.Time
}

func (j *Job) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *Job) opTimeout() time.Duration {
	if j.OpTimeout > 0 {
		return j.OpTimeout
	}
	return defaultOpTimeout
}

type userRecords struct {
	reminders []models.Reminder
	vehicles  []models.Vehicle
	documents []models.Document
	fines     []models.Fine
}

// Run performs one full scan with the given lookahead. Only a failure to
// enumerate the token directory aborts the run; it is logged here as well so
// the scheduled path surfaces it even when the caller ignores the error.
func (j *Job) Run(ctx context.Context, daysBefore int) (*Summary, error) {
	summary := &Summary{DaysBefore: daysBefore}

	opCtx, cancel := context.WithTimeout(ctx, j.opTimeout())
	tokens, err := j.Tokens.ListAllTokens(opCtx)
	cancel()
	if err != nil {
		log.WithError(err).Error("reminder job failed: cannot list notification tokens")
		return summary, err
	}

	tokensByUser := make(map[string][]string)
	for _, t := range tokens {
		if t.UserID == "" || t.Token == "" {
			continue
		}
		tokensByUser[t.UserID] = append(tokensByUser[t.UserID], t.Token)
	}

	now := j.now()
	for userID, userTokens := range tokensByUser {
		if len(userTokens) == 0 {
			continue
		}
		summary.UsersScanned++

		records, err := j.fetchUserRecords(ctx, userID)
		if err != nil {
			summary.UsersSkipped++
			log.WithError(err).WithField("userId", userID).Warn("skipping user: failed to load records")
			continue
		}

		candidates := j.selectCandidates(records, now, daysBefore)
		if len(candidates) == 0 {
			continue
		}
		summary.UsersNotified++

		for _, cand := range candidates {
			j.deliver(ctx, userID, userTokens, cand, summary)
		}
	}

	log.WithFields(log.Fields{
		"daysBefore":    daysBefore,
		"usersScanned":  summary.UsersScanned,
		"usersNotified": summary.UsersNotified,
		"sent":          summary.Sent,
		"sendFailures":  summary.SendFailures,
	}).Info("reminder job finished")
	return summary, nil
}

// fetchUserRecords loads the four record collections for one user
// concurrently. The reads are independent and read-only.
func (j *Job) fetchUserRecords(ctx context.Context, userID string) (*userRecords, error) {
	opCtx, cancel := context.WithTimeout(ctx, j.opTimeout())
	defer cancel()

	records := &userRecords{}
	g, gctx := errgroup.WithContext(opCtx)
	g.Go(func() error {
		var err error
		records.reminders, err = j.Reminders.ListRemindersByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records.vehicles, err = j.Vehicles.ListVehiclesByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records.documents, err = j.Documents.ListDocumentsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records.fines, err = j.Fines.ListFinesByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// selectCandidates picks at most one candidate per category. Within a
// category an overdue candidate is never displaced by a later due-soon one,
// but a later overdue candidate displaces whatever was held before.
func (j *Job) selectCandidates(records *userRecords, now time.Time, daysBefore int) []models.Candidate {
	vehicleByID := make(map[string]*models.Vehicle, len(records.vehicles))
	for i := range records.vehicles {
		vehicleByID[records.vehicles[i].ID] = &records.vehicles[i]
	}

	var maintenance *models.Candidate
	for i := range records.reminders {
		r := &records.reminders[i]
		vehicle := vehicleByID[r.VehicleID]
		mileage := 0
		if vehicle != nil {
			mileage = vehicle.CurrentMileage
		}
		st := Evaluate(r.DueDate, r.DueMileage, r.IsCompleted, now, mileage, daysBefore)
		if !st.Any() {
			continue
		}
		cand := j.Composer.Maintenance(r, st, vehicle)
		if maintenance == nil || st.Overdue {
			maintenance = &cand
		}
	}

	var document *models.Candidate
	for i := range records.documents {
		d := &records.documents[i]
		st := EvaluateDate(d.DueDate, now, daysBefore)
		if !st.Any() {
			continue
		}
		cand := j.Composer.Document(d, st, vehicleByID[d.VehicleID])
		if document == nil || st.Overdue {
			document = &cand
		}
	}

	var fine *models.Candidate
	for i := range records.fines {
		f := &records.fines[i]
		st := EvaluateDate(f.DueDate, now, daysBefore)
		if !st.Any() {
			continue
		}
		cand := j.Composer.Fine(f, st, vehicleByID[f.VehicleID])
		if fine == nil || st.Overdue {
			fine = &cand
		}
	}

	var out []models.Candidate
	for _, c := range []*models.Candidate{maintenance, document, fine} {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// deliver multicasts one candidate to all of a user's tokens. Failures are
// logged with their counts and never abort the run.
func (j *Job) deliver(ctx context.Context, userID string, tokens []string, cand models.Candidate, summary *Summary) {
	opCtx, cancel := context.WithTimeout(ctx, j.opTimeout())
	defer cancel()

	res, err := j.Push.SendMulticast(opCtx, tokens, cand.Title, cand.Body, map[string]string{"url": cand.TargetRoute})
	if err != nil {
		summary.SendFailures++
		log.WithError(err).WithFields(log.Fields{
			"userId":   userID,
			"category": cand.Category,
		}).Error("failed to send notification")
		return
	}

	summary.Sent += res.SuccessCount
	summary.SendFailures += res.FailureCount
	log.WithFields(log.Fields{
		"userId":   userID,
		"category": cand.Category,
		"url":      cand.TargetRoute,
		"success":  res.SuccessCount,
		"failure":  res.FailureCount,
	}).Info("notification sent")
}
