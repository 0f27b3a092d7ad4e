package domain

import (
	"testing"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateKcal(t *testing.T) {
	tests := []struct {
		name         string
		kcal, weight int
		eaten        int
		want         int
	}{
		{name: "half portion", kcal: 100, weight: 100, eaten: 50, want: 50},
		{name: "same weight", kcal: 100, weight: 100, eaten: 100, want: 100},
		{name: "per 100g scaled up", kcal: 250, weight: 100, eaten: 340, want: 850},
		{name: "zero kcal product", kcal: 0, weight: 100, eaten: 500, want: 0},
		{name: "repeating fraction rounds down", kcal: 100, weight: 3, eaten: 1, want: 33},
		{name: "repeating fraction rounds up", kcal: 200, weight: 3, eaten: 1, want: 67},
		{name: "tie rounds to even (down)", kcal: 1, weight: 2, eaten: 1, want: 0},
		{name: "tie rounds to even (up)", kcal: 3, weight: 2, eaten: 1, want: 2},
		{name: "tie 2.5 rounds to 2", kcal: 5, weight: 2, eaten: 1, want: 2},
		{name: "max small ints", kcal: 32767, weight: 1, eaten: 32767, want: 32767 * 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateKcal(tt.kcal, tt.weight, tt.eaten)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateKcal_MatchesRatio(t *testing.T) {
	for k := 0; k <= 900; k += 37 {
		for w := 1; w <= 500; w += 41 {
			for eaten := 1; eaten <= 1000; eaten += 97 {
				got, err := CalculateKcal(k, w, eaten)
				require.NoError(t, err)
				assert.InDelta(t, float64(k)/float64(w)*float64(eaten), float64(got), 0.5+1e-9,
					"k=%d w=%d e=%d", k, w, eaten)
			}
		}
	}
}

func TestCalculateKcal_InvalidInput(t *testing.T) {
	tests := []struct {
		name                string
		kcal, weight, eaten int
	}{
		{name: "zero product weight", kcal: 100, weight: 0, eaten: 50},
		{name: "negative product weight", kcal: 100, weight: -1, eaten: 50},
		{name: "zero eaten weight", kcal: 100, weight: 100, eaten: 0},
		{name: "negative eaten weight", kcal: 100, weight: 100, eaten: -10},
		{name: "negative kcal", kcal: -1, weight: 100, eaten: 10},
		{name: "overflow", kcal: 1 << 30, weight: 1, eaten: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateKcal(tt.kcal, tt.weight, tt.eaten)
			assert.ErrorIs(t, err, e.ErrInvalidInput)
		})
	}
}

func TestEatenProductSnapshot(t *testing.T) {
	categoryID := int64(7)
	slug := "fruits"
	product := &Product{
		ID:                3,
		Name:              "apple",
		Weight:            100,
		UnitOfMeasurement: UnitGram,
		Kcal:              52,
		CategoryID:        &categoryID,
		CategorySlug:      &slug,
	}

	ep := &EatenProduct{Weight: 150}
	require.NoError(t, ep.Snapshot(product))

	assert.Equal(t, int64(3), ep.ProductID)
	assert.Equal(t, "apple", ep.ProductName)
	assert.Equal(t, 78, ep.Kcal)
	assert.Equal(t, UnitGram, ep.UnitOfMeasurement)
	assert.Equal(t, &categoryID, ep.CategoryID)
	assert.Equal(t, &slug, ep.CategorySlug)

	// Изменение продукта после записи не влияет на снимок.
	product.Kcal = 1000
	assert.Equal(t, 78, ep.Kcal)
}

func TestUnitOfMeasurementValid(t *testing.T) {
	assert.True(t, UnitGram.Valid())
	assert.True(t, UnitMilliliter.Valid())
	assert.True(t, UnitPiece.Valid())
	assert.False(t, UnitOfMeasurement("kg").Valid())
	assert.False(t, UnitOfMeasurement("").Valid())
}
