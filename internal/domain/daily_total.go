package domain

import (
	"sort"
	"time"
)

// DailyTotal — сумма калорий пользователя за день.
type DailyTotal struct {
	Date      time.Time
	TotalKcal int64
}

// AggregateDaily группирует записи по дате и суммирует калории.
// Результат отсортирован по дате по убыванию.
func AggregateDaily(entries []EatenProduct) []DailyTotal {
	sums := make(map[time.Time]int64, len(entries))
	for _, entry := range entries {
		sums[DateOf(entry.PublicationDate)] += int64(entry.Kcal)
	}

	result := make([]DailyTotal, 0, len(sums))
	for date, total := range sums {
		result = append(result, DailyTotal{Date: date, TotalKcal: total})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})

	return result
}
