package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAggregateDaily(t *testing.T) {
	d1, d2 := day("2026-10-18"), day("2026-10-19")

	got := AggregateDaily([]EatenProduct{
		{PublicationDate: d1, Kcal: 100},
		{PublicationDate: d1, Kcal: 50},
		{PublicationDate: d2, Kcal: 30},
	})

	assert.Equal(t, []DailyTotal{
		{Date: d2, TotalKcal: 30},
		{Date: d1, TotalKcal: 150},
	}, got)
}

func TestAggregateDaily_Empty(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil))
}

func TestAggregateDaily_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 1, 2, 21, 30, 0, 0, time.UTC)

	got := AggregateDaily([]EatenProduct{
		{PublicationDate: morning, Kcal: 10},
		{PublicationDate: evening, Kcal: 15},
	})

	assert.Equal(t, []DailyTotal{{Date: day("2026-01-02"), TotalKcal: 25}}, got)
}
