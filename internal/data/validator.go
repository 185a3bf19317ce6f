package data

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

func (dv *DataValidator) ValidateDataset(X [][]decimal.Decimal, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	if len(X) != len(y) {
		return fmt.Errorf("feature matrix and labels have different lengths: %d vs %d", len(X), len(y))
	}

	for i, sample := range X {
		if len(sample) != NumFeatures {
			return fmt.Errorf("inconsistent feature count at sample %d: expected %d, got %d", i, NumFeatures, len(sample))
		}
	}

	return dv.ValidateLabels(y)
}

func (dv *DataValidator) ValidateLabels(y []int) error {
	if len(y) == 0 {
		return fmt.Errorf("labels are empty")
	}

	classCount := make(map[int]int)
	for i, label := range y {
		if label != Negative && label != Positive {
			return fmt.Errorf("invalid label %d at sample %d, expected 0 or 1", label, i)
		}
		classCount[label]++
	}

	if len(classCount) < 2 {
		return fmt.Errorf("dataset must contain both outcome classes, found %d", len(classCount))
	}

	return nil
}

type FeatureSummary struct {
	Name   string
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// Profile computes per-feature summary statistics plus the class balance.
// Used for the dataset report before any preprocessing runs.
func (dv *DataValidator) Profile(X [][]decimal.Decimal, y []int) ([]FeatureSummary, map[int]int, error) {
	if err := dv.ValidateDataset(X, y); err != nil {
		return nil, nil, err
	}

	summaries := make([]FeatureSummary, NumFeatures)
	for j := 0; j < NumFeatures; j++ {
		column := make([]float64, len(X))
		for i := range X {
			column[i], _ = X[i][j].Float64()
		}

		mean, err := stats.Mean(column)
		if err != nil {
			return nil, nil, fmt.Errorf("profiling column %s: %w", FeatureNames[j], err)
		}
		median, _ := stats.Median(column)
		min, _ := stats.Min(column)
		max, _ := stats.Max(column)
		stdDev, _ := stats.StandardDeviation(column)

		summaries[j] = FeatureSummary{
			Name:   FeatureNames[j],
			Mean:   mean,
			Median: median,
			Min:    min,
			Max:    max,
			StdDev: stdDev,
		}
	}

	classCount := make(map[int]int)
	for _, label := range y {
		classCount[label]++
	}

	return summaries, classCount, nil
}
