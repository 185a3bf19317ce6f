package data

// The Pima Indians Diabetes dataset has a fixed schema: eight numeric
// predictors followed by a binary outcome column.
const NumFeatures = 8

const (
	Negative = 0
	Positive = 1
)

var FeatureNames = []string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// SentinelColumns lists the feature indices where a recorded 0 marks a
// missing measurement rather than a true value. Pregnancies,
// DiabetesPedigreeFunction and Age can legitimately be zero or near zero
// and are excluded.
var SentinelColumns = []int{1, 2, 3, 4, 5}

func LabelName(label int) string {
	if label == Positive {
		return "Positive"
	}
	return "Negative"
}
