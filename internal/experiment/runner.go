package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/data"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/evaluation"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/models"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/preprocessing"
)

type PipelineConfig struct {
	Pipeline struct {
		TrainFraction float64 `yaml:"train_fraction"`
		Seed          int64   `yaml:"seed"`
		KValues       []int   `yaml:"k_values"`
		Workers       int     `yaml:"workers"`
	} `yaml:"pipeline"`
}

func DefaultConfig() *PipelineConfig {
	config := &PipelineConfig{}
	config.Pipeline.TrainFraction = 0.70
	config.Pipeline.Seed = 42
	config.Pipeline.KValues = DefaultKCandidates()
	config.Pipeline.Workers = 4
	return config
}

// LoadConfig reads a yaml pipeline config, falling back to defaults for the
// whole file when it does not exist and for any field left unset.
func LoadConfig(path string) (*PipelineConfig, error) {
	config := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Pipeline.TrainFraction == 0 {
		config.Pipeline.TrainFraction = 0.70
	}
	if len(config.Pipeline.KValues) == 0 {
		config.Pipeline.KValues = DefaultKCandidates()
	}
	if config.Pipeline.Workers < 1 {
		config.Pipeline.Workers = 4
	}

	return config, nil
}

// Result is everything one pipeline run produces: the chosen K and its
// sweep, the held-out confusion matrix with derived rates, the ROC curve
// and AUC, and the ranked permutation importances.
type Result struct {
	RunID         string
	Seed          int64
	TrainSize     int
	TestSize      int
	BestK         int
	Sweep         []KSweepPoint
	Confusion     *evaluation.ConfusionMatrix
	Accuracy      float64
	Sensitivity   float64
	Specificity   float64
	PPV           float64
	NPV           float64
	ROC           []evaluation.ROCPoint
	AUC           float64
	Baseline      float64
	Importances   []FeatureImportance
	ElapsedMillis int64

	// Fitted artifacts, kept so callers can bundle and persist them.
	Model   *models.KNN
	Scaler  *preprocessing.StandardScaler
	Imputer *preprocessing.MedianImputer
}

type Runner struct {
	Config *PipelineConfig
}

func NewRunner(config *PipelineConfig) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Runner{Config: config}
}

// Run executes the full pipeline on an in-memory labeled dataset:
// impute -> stratified split -> scale (fit on train) -> K sweep -> final
// fit -> confusion/ROC evaluation -> permutation importance.
func (r *Runner) Run(X [][]decimal.Decimal, y []int) (*Result, error) {
	start := time.Now()

	validator := data.NewDataValidator()
	if err := validator.ValidateDataset(X, y); err != nil {
		return nil, fmt.Errorf("data validation failed: %w", err)
	}

	imputer := preprocessing.NewMedianImputer(data.SentinelColumns)
	XImputed, err := imputer.FitTransform(X)
	if err != nil {
		return nil, fmt.Errorf("imputation failed: %w", err)
	}

	splitter := evaluation.NewStratifiedSplitter(r.Config.Pipeline.TrainFraction, r.Config.Pipeline.Seed)
	XTrain, XTest, yTrain, yTest, err := splitter.Split(XImputed, y)
	if err != nil {
		return nil, fmt.Errorf("split failed: %w", err)
	}

	scaler := preprocessing.NewStandardScaler()
	XTrainScaled, err := scaler.FitTransform(XTrain)
	if err != nil {
		return nil, fmt.Errorf("scaling failed: %w", err)
	}
	XTestScaled, err := scaler.Transform(XTest)
	if err != nil {
		return nil, fmt.Errorf("scaling failed: %w", err)
	}

	selector := NewKSelector(r.Config.Pipeline.KValues, r.Config.Pipeline.Workers)
	bestK, sweep, err := selector.SelectBest(XTrainScaled, yTrain, XTestScaled, yTest)
	if err != nil {
		return nil, fmt.Errorf("k selection failed: %w", err)
	}

	model := models.NewKNN(bestK)
	if err := model.Fit(XTrainScaled, yTrain); err != nil {
		return nil, fmt.Errorf("final fit failed: %w", err)
	}

	predictions := model.Classify(XTestScaled)
	yPred := make([]int, len(predictions))
	probabilities := make([]float64, len(predictions))
	for i, p := range predictions {
		yPred[i] = p.Label
		probabilities[i], _ = p.PositiveProb.Float64()
	}

	confusion, err := evaluation.BuildConfusionMatrix(yTest, yPred, data.Positive)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	roc, err := evaluation.BuildROCCurve(probabilities, yTest, data.Positive)
	if err != nil {
		return nil, fmt.Errorf("roc construction failed: %w", err)
	}
	auc, err := evaluation.AUC(roc)
	if err != nil {
		return nil, fmt.Errorf("auc integration failed: %w", err)
	}

	analyzer := NewImportanceAnalyzer(r.Config.Pipeline.Seed, r.Config.Pipeline.Workers)
	baseline, importances, err := analyzer.Analyze(model, XTestScaled, yTest, data.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("importance analysis failed: %w", err)
	}

	return &Result{
		RunID:         uuid.NewString(),
		Seed:          r.Config.Pipeline.Seed,
		TrainSize:     len(XTrain),
		TestSize:      len(XTest),
		BestK:         bestK,
		Sweep:         sweep,
		Confusion:     confusion,
		Accuracy:      confusion.Accuracy(),
		Sensitivity:   confusion.Sensitivity(),
		Specificity:   confusion.Specificity(),
		PPV:           confusion.PPV(),
		NPV:           confusion.NPV(),
		ROC:           roc,
		AUC:           auc,
		Baseline:      baseline,
		Importances:   importances,
		ElapsedMillis: time.Since(start).Milliseconds(),
		Model:         model,
		Scaler:        scaler,
		Imputer:       imputer,
	}, nil
}

func (r *Runner) ExportSweep(result *Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"RunID", "K", "Accuracy", "Chosen"})
	for _, point := range result.Sweep {
		chosen := ""
		if point.K == result.BestK {
			chosen = "*"
		}
		writer.Write([]string{
			result.RunID,
			fmt.Sprintf("%d", point.K),
			fmt.Sprintf("%.4f", point.Accuracy),
			chosen,
		})
	}

	return writer.Error()
}

func (r *Runner) ExportImportances(result *Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"RunID", "Rank", "Feature", "AccuracyDrop"})
	for rank, imp := range result.Importances {
		writer.Write([]string{
			result.RunID,
			fmt.Sprintf("%d", rank+1),
			imp.FeatureName,
			fmt.Sprintf("%.4f", imp.AccuracyDrop),
		})
	}

	return writer.Error()
}

func (r *Runner) ExportROC(result *Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"RunID", "Threshold", "FPR", "TPR"})
	for _, point := range result.ROC {
		writer.Write([]string{
			result.RunID,
			fmt.Sprintf("%.4f", point.Threshold),
			fmt.Sprintf("%.4f", point.FPR),
			fmt.Sprintf("%.4f", point.TPR),
		})
	}

	return writer.Error()
}
