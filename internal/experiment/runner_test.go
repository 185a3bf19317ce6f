package experiment

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/data"
)

// syntheticDataset builds 40 diabetes-shaped rows (8 features, binary
// outcome) where Glucose separates the classes and a few rows carry
// sentinel zeros for the imputer to fill.
func syntheticDataset() ([][]decimal.Decimal, []int) {
	var X [][]decimal.Decimal
	var y []int

	row := func(glucose, insulin float64, label int) {
		features := []float64{
			float64(len(X) % 5), // Pregnancies
			glucose,
			70 + float64(len(X)%10), // BloodPressure
			25 + float64(len(X)%8),  // SkinThickness
			insulin,
			30 + float64(len(X)%6),  // BMI
			0.4 + 0.01*float64(len(X)%9),
			30 + float64(len(X)%20), // Age
		}
		converted := make([]decimal.Decimal, len(features))
		for j, v := range features {
			converted[j] = decimal.NewFromFloat(v)
		}
		X = append(X, converted)
		y = append(y, label)
	}

	for i := 0; i < 24; i++ {
		insulin := 80.0 + float64(i)
		if i%6 == 0 {
			insulin = 0 // sentinel
		}
		row(85+float64(i), insulin, data.Negative)
	}
	for i := 0; i < 16; i++ {
		insulin := 150.0 + float64(i)
		if i%5 == 0 {
			insulin = 0 // sentinel
		}
		row(150+float64(i), insulin, data.Positive)
	}

	return X, y
}

func testConfig() *PipelineConfig {
	config := DefaultConfig()
	config.Pipeline.Seed = 42
	config.Pipeline.KValues = []int{1, 3, 5}
	config.Pipeline.Workers = 2
	return config
}

func TestRunnerEndToEnd(t *testing.T) {
	X, y := syntheticDataset()

	result, err := NewRunner(testConfig()).Run(X, y)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, len(X), result.TrainSize+result.TestSize)
	assert.Contains(t, []int{1, 3, 5}, result.BestK)
	assert.Len(t, result.Sweep, 3)

	// Chosen K carries the sweep's maximum accuracy.
	var bestAccuracy, maxAccuracy float64
	for _, point := range result.Sweep {
		if point.K == result.BestK {
			bestAccuracy = point.Accuracy
		}
		maxAccuracy = math.Max(maxAccuracy, point.Accuracy)
	}
	assert.Equal(t, maxAccuracy, bestAccuracy)

	assert.Equal(t, result.TestSize, result.Confusion.Total())
	assert.GreaterOrEqual(t, result.AUC, 0.0)
	assert.LessOrEqual(t, result.AUC, 1.0)
	assert.InDelta(t, result.Confusion.Accuracy(), result.Baseline, 1e-12)

	assert.Len(t, result.Importances, data.NumFeatures)
	for i := 1; i < len(result.Importances); i++ {
		assert.GreaterOrEqual(t, result.Importances[i-1].AccuracyDrop, result.Importances[i].AccuracyDrop)
	}

	require.NotNil(t, result.Model)
	require.NotNil(t, result.Scaler)
	require.NotNil(t, result.Imputer)
}

func TestRunnerReproducibleForFixedSeed(t *testing.T) {
	X, y := syntheticDataset()

	first, err := NewRunner(testConfig()).Run(X, y)
	require.NoError(t, err)
	second, err := NewRunner(testConfig()).Run(X, y)
	require.NoError(t, err)

	assert.Equal(t, first.BestK, second.BestK)
	assert.Equal(t, first.Sweep, second.Sweep)
	assert.Equal(t, first.Confusion, second.Confusion)
	assert.Equal(t, first.AUC, second.AUC)
	assert.Equal(t, first.Importances, second.Importances)
}

func TestRunnerRejectsBadInput(t *testing.T) {
	_, err := NewRunner(testConfig()).Run(nil, nil)
	assert.Error(t, err)

	// Single-class dataset fails validation before any modeling.
	X, y := syntheticDataset()
	for i := range y {
		y[i] = data.Negative
	}
	_, err = NewRunner(testConfig()).Run(X, y)
	assert.Error(t, err)
}

func TestRunnerExports(t *testing.T) {
	X, y := syntheticDataset()
	runner := NewRunner(testConfig())

	result, err := runner.Run(X, y)
	require.NoError(t, err)

	dir := t.TempDir()
	sweepPath := filepath.Join(dir, "sweep.csv")
	impPath := filepath.Join(dir, "importance.csv")
	rocPath := filepath.Join(dir, "roc.csv")

	require.NoError(t, runner.ExportSweep(result, sweepPath))
	require.NoError(t, runner.ExportImportances(result, impPath))
	require.NoError(t, runner.ExportROC(result, rocPath))

	for _, path := range []string{sweepPath, impPath, rocPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.InDelta(t, 0.70, config.Pipeline.TrainFraction, 1e-12)
	assert.Equal(t, DefaultKCandidates(), config.Pipeline.KValues)
	assert.Equal(t, int64(42), config.Pipeline.Seed)
}

func TestLoadConfigParsesYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "pipeline:\n  train_fraction: 0.8\n  seed: 7\n  k_values: [3, 5]\n  workers: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, config.Pipeline.TrainFraction, 1e-12)
	assert.Equal(t, int64(7), config.Pipeline.Seed)
	assert.Equal(t, []int{3, 5}, config.Pipeline.KValues)
	assert.Equal(t, 2, config.Pipeline.Workers)
}
