package experiment

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/evaluation"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/models"
)

type FeatureImportance struct {
	FeatureIndex int     `json:"feature_index"`
	FeatureName  string  `json:"feature_name"`
	AccuracyDrop float64 `json:"accuracy_drop"`
}

// ImportanceAnalyzer estimates feature importance by permutation: shuffle
// one feature column of the test set, reclassify, and record how far
// accuracy falls from the unpermuted baseline. Every feature is permuted
// against the original test set, never a previously permuted copy, and each
// feature draws its shuffle from a seed derived from the run seed, so the
// whole analysis is reproducible.
type ImportanceAnalyzer struct {
	Seed       int64
	MaxWorkers int
}

func NewImportanceAnalyzer(seed int64, maxWorkers int) *ImportanceAnalyzer {
	if maxWorkers < 1 {
		maxWorkers = 4
	}
	return &ImportanceAnalyzer{
		Seed:       seed,
		MaxWorkers: maxWorkers,
	}
}

// Analyze returns the baseline accuracy and the per-feature accuracy drops
// ranked by drop descending (feature order breaks ties). The model must
// already be fitted; it is only read here.
func (ia *ImportanceAnalyzer) Analyze(model *models.KNN, XTest [][]decimal.Decimal, yTest []int, featureNames []string) (float64, []FeatureImportance, error) {
	if len(XTest) == 0 {
		return 0, nil, fmt.Errorf("cannot analyze importance on an empty test set")
	}

	nFeatures := len(XTest[0])
	if len(featureNames) != nFeatures {
		return 0, nil, fmt.Errorf("got %d feature names for %d features", len(featureNames), nFeatures)
	}

	baseline, err := evaluation.Accuracy(yTest, model.Predict(XTest))
	if err != nil {
		return 0, nil, err
	}

	importances := make([]FeatureImportance, nFeatures)
	errs := make([]error, nFeatures)

	workers := ia.MaxWorkers
	if workers > nFeatures {
		workers = nFeatures
	}

	jobs := make(chan int, nFeatures)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for col := range jobs {
				permuted := permuteColumn(XTest, col, ia.Seed+int64(col)+1)
				accuracy, err := evaluation.Accuracy(yTest, model.Predict(permuted))
				importances[col] = FeatureImportance{
					FeatureIndex: col,
					FeatureName:  featureNames[col],
					AccuracyDrop: baseline - accuracy,
				}
				errs[col] = err
			}
		}()
	}

	for col := 0; col < nFeatures; col++ {
		jobs <- col
	}
	close(jobs)

	wg.Wait()

	for col, err := range errs {
		if err != nil {
			return 0, nil, fmt.Errorf("feature %s permutation failed: %w", featureNames[col], err)
		}
	}

	sort.SliceStable(importances, func(i, j int) bool {
		return importances[i].AccuracyDrop > importances[j].AccuracyDrop
	})

	return baseline, importances, nil
}

// permuteColumn deep-copies X and shuffles the values of a single column
// across rows, leaving everything else untouched.
func permuteColumn(X [][]decimal.Decimal, col int, seed int64) [][]decimal.Decimal {
	result := make([][]decimal.Decimal, len(X))
	for i := range X {
		result[i] = make([]decimal.Decimal, len(X[i]))
		copy(result[i], X[i])
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(X))
	for i, src := range perm {
		result[i][col] = X[src][col]
	}

	return result
}
