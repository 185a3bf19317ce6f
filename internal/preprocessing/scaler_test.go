package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerRoundTrip(t *testing.T) {
	X := matrix(
		[]float64{1, 10},
		[]float64{2, 20},
		[]float64{3, 30},
		[]float64{4, 40},
	)

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	// Transforming the training data with its own parameters gives each
	// feature mean 0 and std 1.
	for j := 0; j < 2; j++ {
		sum := 0.0
		for i := range scaled {
			v, _ := scaled[i][j].Float64()
			sum += v
		}
		mean := sum / float64(len(scaled))
		assert.InDelta(t, 0, mean, 1e-9)

		variance := 0.0
		for i := range scaled {
			v, _ := scaled[i][j].Float64()
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(scaled))
		assert.InDelta(t, 1, math.Sqrt(variance), 1e-9)
	}
}

func TestStandardScalerFrozenParameters(t *testing.T) {
	train := matrix([]float64{0}, []float64{10})
	scaler := NewStandardScaler()
	require.NoError(t, scaler.Fit(train))

	// A query equal to the training mean maps to 0 under the frozen fit,
	// whatever the query batch looks like.
	query := matrix([]float64{5}, []float64{100})
	scaled, err := scaler.Transform(query)
	require.NoError(t, err)

	assert.True(t, scaled[0][0].IsZero())
	v, _ := scaled[1][0].Float64()
	assert.InDelta(t, 19, v, 1e-9)
}

func TestStandardScalerZeroVarianceFeature(t *testing.T) {
	X := matrix([]float64{7, 1}, []float64{7, 2}, []float64{7, 3})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	// Constant column: std forced to 1, every z-score is 0.
	for i := range scaled {
		assert.True(t, scaled[i][0].IsZero(), "row %d", i)
	}
}

func TestStandardScalerTransformBeforeFit(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.Transform(matrix([]float64{1}))
	assert.Error(t, err)
}

func TestStandardScalerWidthMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	require.NoError(t, scaler.Fit(matrix([]float64{1, 2}, []float64{3, 4})))

	_, err := scaler.Transform(matrix([]float64{1}))
	assert.Error(t, err)
}
