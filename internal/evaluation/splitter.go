package evaluation

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
)

// StratifiedSplitter partitions a labeled dataset into train and test sets,
// splitting each class independently at the train fraction so both sets
// keep the full dataset's class balance. The split is reproducible for a
// fixed seed.
type StratifiedSplitter struct {
	trainFraction float64
	seed          int64
}

func NewStratifiedSplitter(trainFraction float64, seed int64) *StratifiedSplitter {
	return &StratifiedSplitter{
		trainFraction: trainFraction,
		seed:          seed,
	}
}

func (ss *StratifiedSplitter) Split(X [][]decimal.Decimal, y []int) ([][]decimal.Decimal, [][]decimal.Decimal, []int, []int, error) {
	if len(X) != len(y) {
		return nil, nil, nil, nil, fmt.Errorf("x and y must have the same length")
	}

	if len(X) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("cannot split empty dataset")
	}

	if ss.trainFraction <= 0 || ss.trainFraction >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("train fraction must be between 0 and 1, got %v", ss.trainFraction)
	}

	classIndices := make(map[int][]int)
	for i, label := range y {
		classIndices[label] = append(classIndices[label], i)
	}

	// Map iteration order is random; sort the classes so the same seed
	// always consumes the rng in the same order.
	classes := make([]int, 0, len(classIndices))
	for class := range classIndices {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(ss.seed))

	var trainIndices, testIndices []int
	for _, class := range classes {
		indices := classIndices[class]
		if len(indices) < 2 {
			return nil, nil, nil, nil, fmt.Errorf("class %d has only %d sample(s), cannot appear in both sets", class, len(indices))
		}

		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		trainCount := int(float64(len(indices)) * ss.trainFraction)
		if trainCount == 0 {
			trainCount = 1
		}
		if trainCount == len(indices) {
			trainCount = len(indices) - 1
		}

		trainIndices = append(trainIndices, indices[:trainCount]...)
		testIndices = append(testIndices, indices[trainCount:]...)
	}

	rng.Shuffle(len(trainIndices), func(i, j int) {
		trainIndices[i], trainIndices[j] = trainIndices[j], trainIndices[i]
	})
	rng.Shuffle(len(testIndices), func(i, j int) {
		testIndices[i], testIndices[j] = testIndices[j], testIndices[i]
	})

	XTrain := make([][]decimal.Decimal, len(trainIndices))
	XTest := make([][]decimal.Decimal, len(testIndices))
	yTrain := make([]int, len(trainIndices))
	yTest := make([]int, len(testIndices))

	for i, idx := range trainIndices {
		XTrain[i] = make([]decimal.Decimal, len(X[idx]))
		copy(XTrain[i], X[idx])
		yTrain[i] = y[idx]
	}

	for i, idx := range testIndices {
		XTest[i] = make([]decimal.Decimal, len(X[idx]))
		copy(XTest[i], X[idx])
		yTest[i] = y[idx]
	}

	return XTrain, XTest, yTrain, yTest, nil
}
