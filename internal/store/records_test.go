package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvilar/controlcar/internal/models"
)

func TestPricePerLiter(t *testing.T) {
	tests := []struct {
		name      string
		totalCost float64
		liters    float64
		want      float64
	}{
		{"regular fill-up", 250, 40, 6.25},
		{"rounds to two decimals", 100, 3, 33.33},
		{"zero liters", 100, 0, 0},
		{"negative liters", 100, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PricePerLiter(tt.totalCost, tt.liters))
		})
	}
}

func TestAverageKmPerLiter(t *testing.T) {
	tests := []struct {
		name     string
		fuelings []models.Fueling
		want     float64
	}{
		{"needs at least two fill-ups", []models.Fueling{{Odometer: 1000, Liters: 40}}, 0},
		{
			"simple average",
			[]models.Fueling{
				{Odometer: 1000, Liters: 40},
				{Odometer: 1500, Liters: 50},
			},
			10,
		},
		{
			"sorts by odometer before pairing",
			[]models.Fueling{
				{Odometer: 1500, Liters: 50},
				{Odometer: 1000, Liters: 40},
			},
			10,
		},
		{
			"skips pairs without distance",
			[]models.Fueling{
				{Odometer: 1000, Liters: 40},
				{Odometer: 1000, Liters: 30},
				{Odometer: 1400, Liters: 40},
			},
			10,
		},
		{"all liters zero", []models.Fueling{{Odometer: 1000}, {Odometer: 2000}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageKmPerLiter(tt.fuelings))
		})
	}
}

func TestToggleTrip(t *testing.T) {
	s := newTestStore(t, newFakeRemote())
	tr := s.AddTrip(context.Background(), models.Trip{Description: "Viagem à praia"})
	assert.False(t, tr.IsCompleted)

	s.ToggleTrip(context.Background(), tr.ID)
	assert.True(t, s.Trips()[0].IsCompleted)

	// Trips never recur: toggling adds no record.
	assert.Len(t, s.Trips(), 1)
}

func TestUpdateFueling_RecomputesPrice(t *testing.T) {
	s := newTestStore(t, newFakeRemote())
	f := s.AddFueling(context.Background(), models.Fueling{Liters: 40, TotalCost: 200})
	require.Equal(t, 5.0, f.PricePerLiter)

	f.TotalCost = 240
	s.UpdateFueling(context.Background(), f)
	assert.Equal(t, 6.0, s.Fuelings()[0].PricePerLiter)
}

func TestUpdateRecordsKeepOwnership(t *testing.T) {
	s := newTestStore(t, newFakeRemote())
	d := s.AddDocument(context.Background(), models.Document{Title: "CRLV"})
	require.Equal(t, "u1", d.UserID)

	d.UserID = "someone-else"
	d.Title = "CRLV 2024"
	s.UpdateDocument(context.Background(), d)

	got := s.Documents()[0]
	assert.Equal(t, "CRLV 2024", got.Title)
	assert.Equal(t, "u1", got.UserID)
}

func TestRemoveFine(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(t, remote)
	f := s.AddFine(context.Background(), models.Fine{Description: "Estacionamento"})
	require.Contains(t, remote.fines, f.ID)

	s.RemoveFine(context.Background(), f.ID)
	assert.Empty(t, s.Fines())
	assert.NotContains(t, remote.fines, f.ID)
}
