package preprocessing

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// MedianImputer replaces sentinel zeros in the configured columns with the
// column median. In the diabetes data a 0 in Glucose, BloodPressure,
// SkinThickness, Insulin or BMI is a missing measurement, not a real value,
// so the median is computed over the non-zero entries only.
type MedianImputer struct {
	SentinelColumns []int
	Medians         map[int]decimal.Decimal
	IsFitted        bool
}

func NewMedianImputer(sentinelColumns []int) *MedianImputer {
	return &MedianImputer{
		SentinelColumns: sentinelColumns,
		Medians:         make(map[int]decimal.Decimal),
	}
}

func (mi *MedianImputer) Fit(X [][]decimal.Decimal) error {
	if len(X) == 0 {
		return fmt.Errorf("empty dataset")
	}

	mi.Medians = make(map[int]decimal.Decimal)

	for _, col := range mi.SentinelColumns {
		if col < 0 || col >= len(X[0]) {
			return fmt.Errorf("sentinel column %d out of range", col)
		}

		valid := make([]float64, 0, len(X))
		for i := range X {
			if !X[i][col].IsZero() {
				v, _ := X[i][col].Float64()
				valid = append(valid, v)
			}
		}

		if len(valid) == 0 {
			return fmt.Errorf("column %d has no valid values to impute from", col)
		}

		median, err := stats.Median(valid)
		if err != nil {
			return fmt.Errorf("median of column %d: %w", col, err)
		}

		mi.Medians[col] = decimal.NewFromFloat(median)
	}

	mi.IsFitted = true
	return nil
}

func (mi *MedianImputer) Transform(X [][]decimal.Decimal) ([][]decimal.Decimal, error) {
	if !mi.IsFitted {
		return nil, fmt.Errorf("imputer must be fitted before transform")
	}

	result := make([][]decimal.Decimal, len(X))
	for i := range X {
		result[i] = make([]decimal.Decimal, len(X[i]))
		copy(result[i], X[i])
	}

	for _, col := range mi.SentinelColumns {
		for i := range result {
			if result[i][col].IsZero() {
				result[i][col] = mi.Medians[col]
			}
		}
	}

	return result, nil
}

func (mi *MedianImputer) FitTransform(X [][]decimal.Decimal) ([][]decimal.Decimal, error) {
	if err := mi.Fit(X); err != nil {
		return nil, err
	}
	return mi.Transform(X)
}
