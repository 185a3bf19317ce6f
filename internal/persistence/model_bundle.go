package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/models"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/preprocessing"
)

// ModelBundle packages the fitted classifier with the preprocessing
// parameters it was trained against, so a reloaded model sees queries
// imputed and scaled exactly as during training.
type ModelBundle struct {
	Model     *models.KNN
	Scaler    *preprocessing.StandardScaler
	Imputer   *preprocessing.MedianImputer
	Metadata  BundleMetadata
	CreatedAt time.Time
}

type BundleMetadata struct {
	RunID       string
	Dataset     string
	K           int
	Accuracy    float64
	Sensitivity float64
	Specificity float64
	AUC         float64
	Seed        int64
	Features    []string
}

func NewModelBundle(model *models.KNN, scaler *preprocessing.StandardScaler, imputer *preprocessing.MedianImputer) *ModelBundle {
	return &ModelBundle{
		Model:     model,
		Scaler:    scaler,
		Imputer:   imputer,
		CreatedAt: time.Now(),
	}
}

func (mb *ModelBundle) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(mb); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	return nil
}

func LoadModelBundle(filename string) (*ModelBundle, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var bundle ModelBundle
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}

	return &bundle, nil
}

func (mb *ModelBundle) SaveMetadata(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "RunID: %s\n", mb.Metadata.RunID)
	fmt.Fprintf(file, "Dataset: %s\n", mb.Metadata.Dataset)
	fmt.Fprintf(file, "Created: %s\n", mb.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(file, "K: %d\n", mb.Metadata.K)
	fmt.Fprintf(file, "Seed: %d\n", mb.Metadata.Seed)
	fmt.Fprintf(file, "Accuracy: %.4f\n", mb.Metadata.Accuracy)
	fmt.Fprintf(file, "Sensitivity: %.4f\n", mb.Metadata.Sensitivity)
	fmt.Fprintf(file, "Specificity: %.4f\n", mb.Metadata.Specificity)
	fmt.Fprintf(file, "AUC: %.4f\n", mb.Metadata.AUC)

	return nil
}
