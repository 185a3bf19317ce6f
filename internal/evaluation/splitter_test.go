package evaluation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each row carries a unique id in its single feature so rows can be tracked
// across the split.
func labeledRows(negatives, positives int) ([][]decimal.Decimal, []int) {
	n := negatives + positives
	X := make([][]decimal.Decimal, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		X[i] = []decimal.Decimal{decimal.NewFromInt(int64(i))}
		if i >= negatives {
			y[i] = 1
		}
	}
	return X, y
}

func TestStratifiedSplitCountsAndDisjointness(t *testing.T) {
	X, y := labeledRows(60, 40)

	splitter := NewStratifiedSplitter(0.70, 42)
	XTrain, XTest, yTrain, yTest, err := splitter.Split(X, y)
	require.NoError(t, err)

	assert.Equal(t, len(X), len(XTrain)+len(XTest))
	assert.Equal(t, len(XTrain), len(yTrain))
	assert.Equal(t, len(XTest), len(yTest))

	seen := make(map[string]int)
	for _, row := range XTrain {
		seen[row[0].String()]++
	}
	for _, row := range XTest {
		seen[row[0].String()]++
	}
	assert.Len(t, seen, len(X))
	for id, count := range seen {
		assert.Equal(t, 1, count, "row %s appears %d times", id, count)
	}
}

func TestStratifiedSplitPreservesClassProportions(t *testing.T) {
	X, y := labeledRows(60, 40)

	splitter := NewStratifiedSplitter(0.70, 7)
	_, _, yTrain, yTest, err := splitter.Split(X, y)
	require.NoError(t, err)

	countPositives := func(labels []int) int {
		n := 0
		for _, l := range labels {
			n += l
		}
		return n
	}

	// 60/40 at 0.70: exactly 42 negatives and 28 positives in train.
	assert.Equal(t, 28, countPositives(yTrain))
	assert.Equal(t, 12, countPositives(yTest))

	// Both classes present in both sets.
	assert.Less(t, countPositives(yTrain), len(yTrain))
	assert.Less(t, countPositives(yTest), len(yTest))
}

func TestStratifiedSplitReproducible(t *testing.T) {
	X, y := labeledRows(30, 20)

	first, _, _, _, err := NewStratifiedSplitter(0.70, 99).Split(X, y)
	require.NoError(t, err)
	second, _, _, _, err := NewStratifiedSplitter(0.70, 99).Split(X, y)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i][0].Equal(second[i][0]), "row %d differs between runs", i)
	}
}

func TestStratifiedSplitValidation(t *testing.T) {
	X, y := labeledRows(10, 10)

	_, _, _, _, err := NewStratifiedSplitter(0, 1).Split(X, y)
	assert.Error(t, err)

	_, _, _, _, err = NewStratifiedSplitter(1, 1).Split(X, y)
	assert.Error(t, err)

	_, _, _, _, err = NewStratifiedSplitter(0.7, 1).Split(nil, nil)
	assert.Error(t, err)

	_, _, _, _, err = NewStratifiedSplitter(0.7, 1).Split(X, y[:len(y)-1])
	assert.Error(t, err)
}

func TestStratifiedSplitSingletonClassFails(t *testing.T) {
	X, y := labeledRows(5, 0)
	X = append(X, []decimal.Decimal{decimal.NewFromInt(100)})
	y = append(y, 1)

	_, _, _, _, err := NewStratifiedSplitter(0.7, 1).Split(X, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot appear in both sets")
}
