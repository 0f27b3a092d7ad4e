package domain

import (
	"fmt"
	"math"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// CalculateKcal считает калории съеденной порции: productKcal / productWeight * eatenWeight.
// Округление банковское (half-to-even), результат должен помещаться в int32 колонку.
func CalculateKcal(productKcal, productWeight, eatenWeight int) (int, error) {
	const op = "domain.CalculateKcal"

	switch {
	case productWeight <= 0:
		return 0, e.Wrap(op, fmt.Errorf("product weight must be positive, got %d: %w", productWeight, e.ErrInvalidInput))
	case eatenWeight <= 0:
		return 0, e.Wrap(op, fmt.Errorf("eaten weight must be positive, got %d: %w", eatenWeight, e.ErrInvalidInput))
	case productKcal < 0:
		return 0, e.Wrap(op, fmt.Errorf("product kcal must not be negative, got %d: %w", productKcal, e.ErrInvalidInput))
	}

	// Умножаем до деления, чтобы точное значение не зависело от точности Div.
	kcal := decimal.NewFromInt(int64(productKcal)).
		Mul(decimal.NewFromInt(int64(eatenWeight))).
		Div(decimal.NewFromInt(int64(productWeight))).
		RoundBank(0)

	if kcal.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, e.Wrap(op, fmt.Errorf("kcal %s overflows storage: %w", kcal.String(), e.ErrInvalidInput))
	}

	return int(kcal.IntPart()), nil
}
