package store

import (
	"context"
	"time"

	"github.com/mvilar/controlcar/internal/models"
)

const dayDuration = 24 * time.Hour

// Reminders returns a copy of the reminder list.
func (s *Store) Reminders() []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Reminder(nil), s.reminders...)
}

// AddReminder adds an incomplete reminder, assigning identity, ownership and
// a default medium priority.
func (s *Store) AddReminder(ctx context.Context, reminder models.Reminder) models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reminder.ID == "" {
		reminder.ID = s.newID()
	}
	reminder.IsCompleted = false
	if !models.IsValidPriority(reminder.Priority) {
		reminder.Priority = models.PriorityMedium
	}
	reminder.UserID = s.userID
	reminder.FamilyID = s.familyID
	reminder.CreatedAt = s.now()
	s.reminders = append(s.reminders, reminder)
	if s.remoteEnabledLocked() {
		s.syncRemote("upsert reminder", func() error { return s.remote.UpsertReminder(ctx, reminder) })
	}
	s.persistLocked()
	return reminder
}

// UpdateReminder replaces a reminder by id, keeping ownership fields.
func (s *Store) UpdateReminder(ctx context.Context, reminder models.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID == reminder.ID {
			reminder.UserID = s.reminders[i].UserID
			reminder.FamilyID = s.reminders[i].FamilyID
			s.reminders[i] = reminder
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert reminder", func() error { return s.remote.UpsertReminder(ctx, reminder) })
			}
			break
		}
	}
	s.persistLocked()
}

// ToggleReminder flips a reminder's completion flag. On the incomplete to
// complete edge of a repeating reminder it materializes the next occurrence:
// a fresh incomplete copy due repeatEveryDays after the old due date (or
// after now, when the reminder had no due date). The completed original is
// kept as history. Toggling back to incomplete spawns nothing.
func (s *Store) ToggleReminder(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID != id {
			continue
		}
		s.reminders[i].IsCompleted = !s.reminders[i].IsCompleted
		toggled := s.reminders[i]

		if toggled.IsCompleted && toggled.Repeats() {
			next := s.nextOccurrenceLocked(toggled)
			s.reminders = append(s.reminders, next)
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert reminder", func() error { return s.remote.UpsertReminder(ctx, next) })
			}
		}
		if s.remoteEnabledLocked() {
			s.syncRemote("upsert reminder", func() error { return s.remote.UpsertReminder(ctx, toggled) })
		}
		break
	}
	s.persistLocked()
}

// nextOccurrenceLocked duplicates a completed repeating reminder with a new
// identity and the due date moved forward by the repeat interval.
func (s *Store) nextOccurrenceLocked(r models.Reminder) models.Reminder {
	next := r
	next.ID = s.newID()
	next.IsCompleted = false
	next.UserID = s.userID
	next.FamilyID = s.familyID

	base := s.now()
	if r.DueDate != nil {
		base = *r.DueDate
	}
	due := base.Add(time.Duration(*r.RepeatEveryDays) * dayDuration)
	next.DueDate = &due

	if r.DueMileage != nil {
		m := *r.DueMileage
		next.DueMileage = &m
	}
	if r.RepeatEveryDays != nil {
		d := *r.RepeatEveryDays
		next.RepeatEveryDays = &d
	}
	return next
}

// SnoozeReminder shifts a reminder's due date forward by the given number of
// days, starting from the current due date or from now when it has none.
func (s *Store) SnoozeReminder(ctx context.Context, id string, days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID != id {
			continue
		}
		base := s.now()
		if s.reminders[i].DueDate != nil {
			base = *s.reminders[i].DueDate
		}
		due := base.Add(time.Duration(days) * dayDuration)
		s.reminders[i].DueDate = &due
		if s.remoteEnabledLocked() {
			snoozed := s.reminders[i]
			s.syncRemote("upsert reminder", func() error { return s.remote.UpsertReminder(ctx, snoozed) })
		}
		break
	}
	s.persistLocked()
}

// RemoveReminder removes a reminder by id.
func (s *Store) RemoveReminder(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.reminders[:0]
	for _, r := range s.reminders {
		if r.ID != id {
			out = append(out, r)
		}
	}
	s.reminders = out
	if s.remoteEnabledLocked() {
		s.syncRemote("delete reminder", func() error { return s.remote.DeleteReminder(ctx, id) })
	}
	s.persistLocked()
}
