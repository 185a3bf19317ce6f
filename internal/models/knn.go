package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/data"
)

// KNN classifies query rows by Euclidean-distance majority vote over the K
// nearest training rows. Tie rules are fixed so results are reproducible:
// equal distances keep the original training-row order (first row wins),
// and an even-K vote split falls back to the class of the single nearest
// neighbor.
type KNN struct {
	BaseModel
	K      int
	XTrain [][]decimal.Decimal
	YTrain []int
}

// Prediction holds the predicted outcome for one query row and the vote
// fraction re-expressed as the probability of the Positive class.
type Prediction struct {
	Label        int
	PositiveProb decimal.Decimal
}

func NewKNN(k int) *KNN {
	return &KNN{
		K: k,
		BaseModel: BaseModel{
			Name: "KNN",
			Params: map[string]any{
				"k": k,
			},
		},
	}
}

func (knn *KNN) Fit(X [][]decimal.Decimal, y []int) error {
	if knn.K < 1 {
		return fmt.Errorf("k must be at least 1, got %d", knn.K)
	}
	if len(X) != len(y) {
		return fmt.Errorf("x and y must have the same length")
	}
	if knn.K >= len(X) {
		return fmt.Errorf("k=%d must be smaller than the training set size %d", knn.K, len(X))
	}

	knn.XTrain = make([][]decimal.Decimal, len(X))
	for i := range X {
		knn.XTrain[i] = make([]decimal.Decimal, len(X[i]))
		copy(knn.XTrain[i], X[i])
	}

	knn.YTrain = make([]int, len(y))
	copy(knn.YTrain, y)

	knn.Classes = ExtractClasses(y)
	return nil
}

func (knn *KNN) Predict(X [][]decimal.Decimal) []int {
	predictions := make([]int, len(X))

	for i, sample := range X {
		neighbors := knn.findNeighbors(sample)
		predictions[i] = knn.majorityVote(neighbors)
	}

	return predictions
}

// Classify is Predict plus the P(Positive) estimate per query row. Safe for
// concurrent use once fitted; nothing below mutates the model.
func (knn *KNN) Classify(X [][]decimal.Decimal) []Prediction {
	results := make([]Prediction, len(X))
	k := decimal.NewFromInt(int64(knn.K))

	for i, sample := range X {
		neighbors := knn.findNeighbors(sample)
		positiveVotes := 0
		for _, idx := range neighbors {
			if knn.YTrain[idx] == data.Positive {
				positiveVotes++
			}
		}

		results[i] = Prediction{
			Label:        knn.majorityVote(neighbors),
			PositiveProb: decimal.NewFromInt(int64(positiveVotes)).Div(k),
		}
	}

	return results
}

func (knn *KNN) findNeighbors(sample []decimal.Decimal) []int {
	type neighbor struct {
		index    int
		distance float64
	}

	neighbors := make([]neighbor, len(knn.XTrain))

	for i, trainSample := range knn.XTrain {
		neighbors[i] = neighbor{index: i, distance: euclidean(sample, trainSample)}
	}

	// Stable sort keeps equal-distance rows in training order.
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].distance < neighbors[j].distance
	})

	kNeighbors := make([]int, knn.K)
	for i := 0; i < knn.K; i++ {
		kNeighbors[i] = neighbors[i].index
	}

	return kNeighbors
}

func euclidean(a, b []decimal.Decimal) float64 {
	sum := 0.0
	for i := range a {
		diff, _ := a[i].Sub(b[i]).Float64()
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

func (knn *KNN) majorityVote(neighbors []int) int {
	positive := 0
	for _, idx := range neighbors {
		if knn.YTrain[idx] == data.Positive {
			positive++
		}
	}

	negative := len(neighbors) - positive
	switch {
	case positive > negative:
		return data.Positive
	case negative > positive:
		return data.Negative
	default:
		// Even K split in half: side with the nearest neighbor.
		return knn.YTrain[neighbors[0]]
	}
}

func (knn *KNN) GetClasses() []int {
	return knn.Classes
}

func (knn *KNN) Reset() {
	knn.XTrain = nil
	knn.YTrain = nil
	knn.Classes = nil
}
