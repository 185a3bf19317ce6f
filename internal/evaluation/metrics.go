package evaluation

import (
	"fmt"
	"math"
)

// ConfusionMatrix holds binary classification counts with class 1 as the
// positive outcome. Derived rates with a zero denominator are reported as
// NaN rather than failing; the other metrics stay valid.
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
}

func BuildConfusionMatrix(yTrue, yPred []int, positiveLabel int) (*ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("true and predicted labels have different lengths: %d vs %d", len(yTrue), len(yPred))
	}

	cm := &ConfusionMatrix{}
	for i := range yTrue {
		switch {
		case yTrue[i] == positiveLabel && yPred[i] == positiveLabel:
			cm.TruePositives++
		case yTrue[i] != positiveLabel && yPred[i] != positiveLabel:
			cm.TrueNegatives++
		case yTrue[i] != positiveLabel && yPred[i] == positiveLabel:
			cm.FalsePositives++
		default:
			cm.FalseNegatives++
		}
	}

	return cm, nil
}

func (cm *ConfusionMatrix) Total() int {
	return cm.TruePositives + cm.TrueNegatives + cm.FalsePositives + cm.FalseNegatives
}

func (cm *ConfusionMatrix) Accuracy() float64 {
	return ratio(cm.TruePositives+cm.TrueNegatives, cm.Total())
}

// Sensitivity is the true-positive rate, TP/(TP+FN).
func (cm *ConfusionMatrix) Sensitivity() float64 {
	return ratio(cm.TruePositives, cm.TruePositives+cm.FalseNegatives)
}

// Specificity is the true-negative rate, TN/(TN+FP).
func (cm *ConfusionMatrix) Specificity() float64 {
	return ratio(cm.TrueNegatives, cm.TrueNegatives+cm.FalsePositives)
}

// PPV is the positive predictive value, TP/(TP+FP).
func (cm *ConfusionMatrix) PPV() float64 {
	return ratio(cm.TruePositives, cm.TruePositives+cm.FalsePositives)
}

// NPV is the negative predictive value, TN/(TN+FN).
func (cm *ConfusionMatrix) NPV() float64 {
	return ratio(cm.TrueNegatives, cm.TrueNegatives+cm.FalseNegatives)
}

func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return math.NaN()
	}
	return float64(numerator) / float64(denominator)
}

func (cm *ConfusionMatrix) FormatMetrics() string {
	result := fmt.Sprintf("Accuracy: %.4f\n", cm.Accuracy())
	result += fmt.Sprintf("Sensitivity: %.4f\n", cm.Sensitivity())
	result += fmt.Sprintf("Specificity: %.4f\n", cm.Specificity())
	result += fmt.Sprintf("PPV: %.4f\n", cm.PPV())
	result += fmt.Sprintf("NPV: %.4f\n", cm.NPV())
	return result
}

// Accuracy is the plain correct/total score used by the K sweep and the
// permutation-importance loop.
func Accuracy(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("true and predicted labels have different lengths: %d vs %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("cannot score an empty prediction set")
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(yTrue)), nil
}
