package experiment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/evaluation"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/models"
)

type KSweepPoint struct {
	K        int     `json:"k"`
	Accuracy float64 `json:"accuracy"`
}

// KSelector sweeps candidate K values, scoring each by held-out accuracy.
// Candidates are evaluated independently, so the sweep runs on a small
// worker pool; results are written by index, keeping the outcome
// deterministic regardless of scheduling.
type KSelector struct {
	Candidates []int
	MaxWorkers int
}

// DefaultKCandidates returns the odd values 1..25. Odd K keeps the
// top-level majority vote from ever splitting evenly.
func DefaultKCandidates() []int {
	ks := make([]int, 0, 13)
	for k := 1; k <= 25; k += 2 {
		ks = append(ks, k)
	}
	return ks
}

func NewKSelector(candidates []int, maxWorkers int) *KSelector {
	if maxWorkers < 1 {
		maxWorkers = 4
	}
	return &KSelector{
		Candidates: candidates,
		MaxWorkers: maxWorkers,
	}
}

// SelectBest returns the K with the highest test accuracy along with the
// full sweep. Ties go to the smallest K.
func (ks *KSelector) SelectBest(XTrain [][]decimal.Decimal, yTrain []int, XTest [][]decimal.Decimal, yTest []int) (int, []KSweepPoint, error) {
	if len(ks.Candidates) == 0 {
		return 0, nil, fmt.Errorf("no candidate k values to sweep")
	}

	candidates := make([]int, len(ks.Candidates))
	copy(candidates, ks.Candidates)
	sort.Ints(candidates)

	for _, k := range candidates {
		if k < 1 {
			return 0, nil, fmt.Errorf("candidate k=%d must be at least 1", k)
		}
		if k >= len(XTrain) {
			return 0, nil, fmt.Errorf("candidate k=%d must be smaller than the training set size %d", k, len(XTrain))
		}
	}

	sweep := make([]KSweepPoint, len(candidates))
	errs := make([]error, len(candidates))

	workers := ks.MaxWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan int, len(candidates))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				accuracy, err := evaluateK(candidates[idx], XTrain, yTrain, XTest, yTest)
				sweep[idx] = KSweepPoint{K: candidates[idx], Accuracy: accuracy}
				errs[idx] = err
			}
		}()
	}

	for idx := range candidates {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			return 0, nil, fmt.Errorf("k=%d evaluation failed: %w", candidates[idx], err)
		}
	}

	best := sweep[0]
	for _, point := range sweep[1:] {
		if point.Accuracy > best.Accuracy {
			best = point
		}
	}

	return best.K, sweep, nil
}

func evaluateK(k int, XTrain [][]decimal.Decimal, yTrain []int, XTest [][]decimal.Decimal, yTest []int) (float64, error) {
	model := models.NewKNN(k)
	if err := model.Fit(XTrain, yTrain); err != nil {
		return 0, err
	}

	return evaluation.Accuracy(yTest, model.Predict(XTest))
}
