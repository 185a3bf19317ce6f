package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVReader loads the diabetes dataset from a CSV file with exactly nine
// columns per row: the eight predictors in schema order followed by the
// outcome encoded as 0 or 1. A header row is detected and skipped.
type CSVReader struct {
	path string
}

func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

func (r *CSVReader) Load() ([][]decimal.Decimal, []int, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("data file %s is empty", r.path)
	}

	if isHeader(records[0]) {
		records = records[1:]
	}

	X := make([][]decimal.Decimal, len(records))
	y := make([]int, len(records))

	for i, record := range records {
		if len(record) != NumFeatures+1 {
			return nil, nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(record), NumFeatures+1)
		}

		X[i] = make([]decimal.Decimal, NumFeatures)
		for j := 0; j < NumFeatures; j++ {
			val, err := decimal.NewFromString(strings.TrimSpace(record[j]))
			if err != nil {
				return nil, nil, fmt.Errorf("row %d, column %s: %w", i, FeatureNames[j], err)
			}
			X[i][j] = val
		}

		label, err := strconv.Atoi(strings.TrimSpace(record[NumFeatures]))
		if err != nil || (label != Negative && label != Positive) {
			return nil, nil, fmt.Errorf("row %d has invalid outcome %q, expected 0 or 1", i, record[NumFeatures])
		}
		y[i] = label
	}

	return X, y, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	return err != nil
}
