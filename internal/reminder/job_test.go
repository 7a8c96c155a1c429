package reminder

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvilar/controlcar/internal/models"
	"github.com/mvilar/controlcar/internal/push"
)

// fakeRecords implements the record collection interfaces in memory.
type fakeRecords struct {
	tokens    []models.NotificationToken
	reminders map[string][]models.Reminder
	vehicles  map[string][]models.Vehicle
	documents map[string][]models.Document
	fines     map[string][]models.Fine

	tokensErr error
	userErr   map[string]error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		reminders: make(map[string][]models.Reminder),
		vehicles:  make(map[string][]models.Vehicle),
		documents: make(map[string][]models.Document),
		fines:     make(map[string][]models.Fine),
		userErr:   make(map[string]error),
	}
}

func (f *fakeRecords) ListAllTokens(context.Context) ([]models.NotificationToken, error) {
	return f.tokens, f.tokensErr
}
func (f *fakeRecords) InsertToken(context.Context, models.NotificationToken) error { return nil }
func (f *fakeRecords) DeleteToken(context.Context, string, string) error           { return nil }

func (f *fakeRecords) ListRemindersByUser(_ context.Context, userID string) ([]models.Reminder, error) {
	if err := f.userErr[userID]; err != nil {
		return nil, err
	}
	return f.reminders[userID], nil
}
func (f *fakeRecords) ListRemindersByFamily(context.Context, string) ([]models.Reminder, error) {
	return nil, nil
}
func (f *fakeRecords) UpsertReminder(context.Context, models.Reminder) error { return nil }
func (f *fakeRecords) DeleteReminder(context.Context, string) error          { return nil }

func (f *fakeRecords) ListVehiclesByUser(_ context.Context, userID string) ([]models.Vehicle, error) {
	return f.vehicles[userID], nil
}
func (f *fakeRecords) ListVehiclesByFamily(context.Context, string) ([]models.Vehicle, error) {
	return nil, nil
}
func (f *fakeRecords) UpsertVehicle(context.Context, models.Vehicle) error     { return nil }
func (f *fakeRecords) UpdateVehicleMileage(context.Context, string, int) error { return nil }
func (f *fakeRecords) RemoveVehicleCascade(context.Context, string) error      { return nil }

func (f *fakeRecords) ListDocumentsByUser(_ context.Context, userID string) ([]models.Document, error) {
	return f.documents[userID], nil
}
func (f *fakeRecords) ListDocumentsByFamily(context.Context, string) ([]models.Document, error) {
	return nil, nil
}
func (f *fakeRecords) UpsertDocument(context.Context, models.Document) error { return nil }
func (f *fakeRecords) DeleteDocument(context.Context, string) error          { return nil }

func (f *fakeRecords) ListFinesByUser(_ context.Context, userID string) ([]models.Fine, error) {
	return f.fines[userID], nil
}
func (f *fakeRecords) ListFinesByFamily(context.Context, string) ([]models.Fine, error) {
	return nil, nil
}
func (f *fakeRecords) UpsertFine(context.Context, models.Fine) error { return nil }
func (f *fakeRecords) DeleteFine(context.Context, string) error      { return nil }

type sentMessage struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

// fakeSender records multicast calls.
type fakeSender struct {
	sent    []sentMessage
	result  *push.Result
	err     error
	failFor map[string]error // keyed by title
}

func (f *fakeSender) SendMulticast(_ context.Context, tokens []string, title, body string, data map[string]string) (*push.Result, error) {
	f.sent = append(f.sent, sentMessage{tokens: tokens, title: title, body: body, data: data})
	if err := f.failFor[title]; err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &push.Result{SuccessCount: len(tokens)}, nil
}

func newTestJob(records *fakeRecords, sender *fakeSender) *Job {
	return &Job{
		Tokens:    records,
		Reminders: records,
		Vehicles:  records,
		Documents: records,
		Fines:     records,
		Push:      sender,
		Composer:  NewComposer("pt-BR", "BRL"),
		Now:       func() time.Time { return now },
	}
}

func TestJob_MileageDueSoonEndToEnd(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{{UserID: "u1", Token: "tok-1"}}
	records.vehicles["u1"] = []models.Vehicle{
		{ID: "v1", UserID: "u1", Model: "Gol", Plate: "XYZ-9876", CurrentMileage: 9900},
	}
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", VehicleID: "v1", Description: "Troca de óleo", DueMileage: intPtr(10000)},
	}
	sender := &fakeSender{}

	summary, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"tok-1"}, msg.tokens)
	assert.Equal(t, "Manutenção chegando", msg.title)
	assert.Contains(t, msg.body, "Gol XYZ-9876")
	assert.Contains(t, msg.body, "Troca de óleo")
	assert.Equal(t, map[string]string{"url": "/maintenances"}, msg.data)

	assert.Equal(t, 1, summary.UsersNotified)
	assert.Equal(t, 1, summary.Sent)
}

func TestJob_TieBreakOverdueBeatsDueSoon(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{{UserID: "u1", Token: "tok-1"}}
	overdue := now.AddDate(0, 0, -3)
	soon := now.AddDate(0, 0, 7)
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", Description: "Pastilhas", DueDate: &overdue},
		{ID: "r2", UserID: "u1", Description: "Filtro de ar", DueDate: &overdue},
		{ID: "r3", UserID: "u1", Description: "Alinhamento", DueDate: &soon},
	}
	sender := &fakeSender{}

	_, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)

	// Exactly one maintenance notification, and never the due-soon one.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Manutenção atrasada", sender.sent[0].title)
	assert.NotContains(t, sender.sent[0].body, "Alinhamento")
	// Ties between overdue records resolve to the last one scanned.
	assert.Contains(t, sender.sent[0].body, "Filtro de ar")
}

func TestJob_DueSoonNeverDisplacesOverdue(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{{UserID: "u1", Token: "tok-1"}}
	overdue := now.AddDate(0, 0, -1)
	soon := now.AddDate(0, 0, 7)
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", Description: "Correia", DueDate: &overdue},
		{ID: "r2", UserID: "u1", Description: "Velas", DueDate: &soon},
	}
	sender := &fakeSender{}

	_, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "Correia")
}

func TestJob_OneCandidatePerCategory(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{
		{UserID: "u1", Token: "tok-1"},
		{UserID: "u1", Token: "tok-2"},
	}
	overdue := now.AddDate(0, 0, -2)
	value := 100.0
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", Description: "Revisão", DueDate: &overdue},
	}
	records.documents["u1"] = []models.Document{
		{ID: "d1", UserID: "u1", Title: "Seguro", DueDate: &overdue},
	}
	records.fines["u1"] = []models.Fine{
		{ID: "f1", UserID: "u1", Description: "Rodízio", DueDate: &overdue, Value: &value},
	}
	sender := &fakeSender{}

	summary, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, sender.sent, 3)

	var titles []string
	for _, msg := range sender.sent {
		titles = append(titles, msg.title)
		// Each category multicasts to every token of the user at once.
		assert.Equal(t, []string{"tok-1", "tok-2"}, msg.tokens)
	}
	sort.Strings(titles)
	assert.Equal(t, []string{"Documento vencido", "Manutenção atrasada", "Multa vencida"}, titles)
	assert.Equal(t, 1, summary.UsersNotified)
	assert.Equal(t, 6, summary.Sent)
}

func TestJob_CompletedRemindersExcluded(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{{UserID: "u1", Token: "tok-1"}}
	overdue := now.AddDate(0, 0, -10)
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", Description: "Feita", DueDate: &overdue, IsCompleted: true},
	}
	sender := &fakeSender{}

	summary, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
	assert.Zero(t, summary.UsersNotified)
}

func TestJob_UserWithoutTokensSkipped(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{
		{UserID: "u1", Token: ""},
		{UserID: "", Token: "orphan"},
	}
	overdue := now.AddDate(0, 0, -1)
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", Description: "Revisão", DueDate: &overdue},
	}
	sender := &fakeSender{}

	summary, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
	assert.Zero(t, summary.UsersScanned)
}

func TestJob_UserReadFailureIsolated(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{
		{UserID: "bad", Token: "tok-bad"},
		{UserID: "good", Token: "tok-good"},
	}
	records.userErr["bad"] = errors.New("read failed")
	overdue := now.AddDate(0, 0, -1)
	records.reminders["good"] = []models.Reminder{
		{ID: "r1", UserID: "good", Description: "Revisão", DueDate: &overdue},
	}
	sender := &fakeSender{}

	summary, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"tok-good"}, sender.sent[0].tokens)
	assert.Equal(t, 1, summary.UsersSkipped)
	assert.Equal(t, 1, summary.UsersNotified)
}

func TestJob_TokenListFailureAbortsRun(t *testing.T) {
	records := newFakeRecords()
	records.tokensErr = errors.New("directory unavailable")
	sender := &fakeSender{}

	_, err := newTestJob(records, sender).Run(context.Background(), 7)
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestJob_DeliveryFailureDoesNotAbort(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{{UserID: "u1", Token: "tok-1"}}
	overdue := now.AddDate(0, 0, -1)
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", Description: "Revisão", DueDate: &overdue},
	}
	records.documents["u1"] = []models.Document{
		{ID: "d1", UserID: "u1", Title: "Seguro", DueDate: &overdue},
	}
	sender := &fakeSender{failFor: map[string]error{"Manutenção atrasada": errors.New("fcm down")}}

	summary, err := newTestJob(records, sender).Run(context.Background(), 7)
	require.NoError(t, err)

	// Both categories were attempted despite the first failing.
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 1, summary.SendFailures)
	assert.Equal(t, 1, summary.Sent)
}

func TestJob_RunIsIdempotent(t *testing.T) {
	records := newFakeRecords()
	records.tokens = []models.NotificationToken{{UserID: "u1", Token: "tok-1"}}
	records.vehicles["u1"] = []models.Vehicle{
		{ID: "v1", UserID: "u1", Model: "Gol", Plate: "XYZ-9876", CurrentMileage: 9900},
	}
	records.reminders["u1"] = []models.Reminder{
		{ID: "r1", UserID: "u1", VehicleID: "v1", Description: "Troca de óleo", DueMileage: intPtr(10000)},
	}

	first := &fakeSender{}
	_, err := newTestJob(records, first).Run(context.Background(), 7)
	require.NoError(t, err)

	second := &fakeSender{}
	_, err = newTestJob(records, second).Run(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first.sent, second.sent)
}
