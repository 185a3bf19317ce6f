package evaluation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
)

// ROCPoint is one (FPR, TPR) point of the ROC curve at a given probability
// threshold. A row counts as predicted positive when its score is >= the
// threshold.
type ROCPoint struct {
	Threshold float64 `json:"threshold"`
	FPR       float64 `json:"fpr"`
	TPR       float64 `json:"tpr"`
}

// BuildROCCurve sweeps the distinct probability scores as thresholds from
// high to low and records the resulting (FPR, TPR) pairs. The curve always
// starts at (0,0) and ends at (1,1), and its points come out sorted by FPR
// ascending with duplicates collapsed.
func BuildROCCurve(probabilities []float64, yTrue []int, positiveLabel int) ([]ROCPoint, error) {
	if len(probabilities) != len(yTrue) {
		return nil, fmt.Errorf("probabilities and labels have different lengths: %d vs %d", len(probabilities), len(yTrue))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("cannot build roc curve from empty input")
	}

	totalPositives := 0
	for _, label := range yTrue {
		if label == positiveLabel {
			totalPositives++
		}
	}
	totalNegatives := len(yTrue) - totalPositives

	if totalPositives == 0 || totalNegatives == 0 {
		return nil, fmt.Errorf("roc curve requires both classes, got %d positives and %d negatives", totalPositives, totalNegatives)
	}

	thresholds := distinctDescending(probabilities)

	curve := []ROCPoint{{Threshold: math.Inf(1), FPR: 0, TPR: 0}}
	for _, threshold := range thresholds {
		tp, fp := 0, 0
		for i, p := range probabilities {
			if p >= threshold {
				if yTrue[i] == positiveLabel {
					tp++
				} else {
					fp++
				}
			}
		}

		point := ROCPoint{
			Threshold: threshold,
			FPR:       float64(fp) / float64(totalNegatives),
			TPR:       float64(tp) / float64(totalPositives),
		}

		last := curve[len(curve)-1]
		if point.FPR == last.FPR && point.TPR == last.TPR {
			continue
		}
		curve = append(curve, point)
	}

	last := curve[len(curve)-1]
	if last.FPR != 1 || last.TPR != 1 {
		curve = append(curve, ROCPoint{Threshold: math.Inf(-1), FPR: 1, TPR: 1})
	}

	return curve, nil
}

// AUC integrates the curve with the trapezoidal rule. Points must be sorted
// by FPR ascending, which BuildROCCurve guarantees.
func AUC(curve []ROCPoint) (float64, error) {
	if len(curve) < 2 {
		return 0, fmt.Errorf("auc needs at least 2 curve points, got %d", len(curve))
	}

	fpr := make([]float64, len(curve))
	tpr := make([]float64, len(curve))
	for i, point := range curve {
		fpr[i] = point.FPR
		tpr[i] = point.TPR
	}

	if !sort.Float64sAreSorted(fpr) {
		return 0, fmt.Errorf("roc curve points are not sorted by fpr")
	}

	return integrate.Trapezoidal(fpr, tpr), nil
}

func distinctDescending(values []float64) []float64 {
	seen := make(map[float64]bool)
	distinct := make([]float64, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	return distinct
}
