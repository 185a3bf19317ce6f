package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/data"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/experiment"
	"github.com/christ0pper/Predicting-Diabetes-Risk-with-Machine-Learning-KNN/internal/persistence"
)

func main() {
	dataFile := flag.String("data", "", "Path to the diabetes CSV file (9 columns, outcome last)")
	configFile := flag.String("config", "config/config.yaml", "Path to pipeline configuration file")
	outputDir := flag.String("output", "results", "Output directory for exports and the model bundle")
	seed := flag.Int64("seed", -1, "Random seed override (-1 keeps the configured seed)")
	trainFraction := flag.Float64("train-fraction", 0, "Train fraction override (0 keeps the configured value)")

	flag.Parse()

	if *dataFile == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/train/main.go -data data/diabetes.csv")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config, err := experiment.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed >= 0 {
		config.Pipeline.Seed = *seed
	}
	if *trainFraction > 0 {
		config.Pipeline.TrainFraction = *trainFraction
	}

	fmt.Printf("Loading dataset from %s...\n", *dataFile)
	X, y, err := data.NewCSVReader(*dataFile).Load()
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}
	fmt.Printf("Loaded %d samples with %d features\n", len(X), data.NumFeatures)

	printProfile(X, y)

	runner := experiment.NewRunner(config)
	result, err := runner.Run(X, y)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	printReport(result)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	exportAll(runner, result, *dataFile, *outputDir)
}

func printProfile(X [][]decimal.Decimal, y []int) {
	summaries, classCount, err := data.NewDataValidator().Profile(X, y)
	if err != nil {
		log.Fatalf("Data validation failed: %v", err)
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("\n%s\n", cyan("=== Dataset profile ==="))
	for _, s := range summaries {
		fmt.Printf(" %-26s mean=%-8.2f median=%-8.2f min=%-8.2f max=%-8.2f std=%.2f\n",
			s.Name, s.Mean, s.Median, s.Min, s.Max, s.StdDev)
	}
	fmt.Printf(" Outcome: %d negative / %d positive\n", classCount[data.Negative], classCount[data.Positive])
}

func printReport(result *experiment.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("\n%s\n", cyan("=== K selection ==="))
	for _, point := range result.Sweep {
		marker := " "
		if point.K == result.BestK {
			marker = green("*")
		}
		fmt.Printf(" %s k=%-3d accuracy=%.4f\n", marker, point.K, point.Accuracy)
	}
	fmt.Printf("Best K: %s\n", green(result.BestK))

	fmt.Printf("\n%s\n", cyan("=== Test set evaluation ==="))
	cm := result.Confusion
	fmt.Printf("              Predicted+  Predicted-\n")
	fmt.Printf(" Actual+      %-10d  %-10d\n", cm.TruePositives, cm.FalseNegatives)
	fmt.Printf(" Actual-      %-10d  %-10d\n", cm.FalsePositives, cm.TrueNegatives)
	fmt.Printf(" Accuracy:    %s\n", green(formatRate(result.Accuracy)))
	fmt.Printf(" Sensitivity: %s\n", formatRate(result.Sensitivity))
	fmt.Printf(" Specificity: %s\n", formatRate(result.Specificity))
	fmt.Printf(" PPV:         %s\n", formatRate(result.PPV))
	fmt.Printf(" NPV:         %s\n", formatRate(result.NPV))
	fmt.Printf(" AUC:         %s\n", green(formatRate(result.AUC)))

	fmt.Printf("\n%s\n", cyan("=== Permutation importance ==="))
	fmt.Printf(" Baseline accuracy: %.4f\n", result.Baseline)
	for rank, imp := range result.Importances {
		fmt.Printf(" %2d. %-26s %s\n", rank+1, imp.FeatureName, yellow(fmt.Sprintf("%+.4f", imp.AccuracyDrop)))
	}

	fmt.Printf("\nRun %s finished in %dms (train=%d test=%d)\n",
		result.RunID, result.ElapsedMillis, result.TrainSize, result.TestSize)
}

func formatRate(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v)
}

func exportAll(runner *experiment.Runner, result *experiment.Result, dataFile, outputDir string) {
	red := color.New(color.FgRed).SprintFunc()

	if err := runner.ExportSweep(result, filepath.Join(outputDir, "k_sweep.csv")); err != nil {
		fmt.Printf("%s failed to export sweep: %v\n", red("warning:"), err)
	}
	if err := runner.ExportImportances(result, filepath.Join(outputDir, "importance.csv")); err != nil {
		fmt.Printf("%s failed to export importances: %v\n", red("warning:"), err)
	}
	if err := runner.ExportROC(result, filepath.Join(outputDir, "roc.csv")); err != nil {
		fmt.Printf("%s failed to export roc curve: %v\n", red("warning:"), err)
	}

	bundle := persistence.NewModelBundle(result.Model, result.Scaler, result.Imputer)
	bundle.Metadata = persistence.BundleMetadata{
		RunID:       result.RunID,
		Dataset:     dataFile,
		K:           result.BestK,
		Accuracy:    result.Accuracy,
		Sensitivity: result.Sensitivity,
		Specificity: result.Specificity,
		AUC:         result.AUC,
		Seed:        result.Seed,
		Features:    data.FeatureNames,
	}

	bundlePath := filepath.Join(outputDir, "model.bundle")
	if err := bundle.Save(bundlePath); err != nil {
		fmt.Printf("%s failed to save model bundle: %v\n", red("warning:"), err)
	} else {
		fmt.Printf("Model bundle saved to %s\n", bundlePath)
	}
	if err := bundle.SaveMetadata(filepath.Join(outputDir, "model.txt")); err != nil {
		fmt.Printf("%s failed to save metadata: %v\n", red("warning:"), err)
	}
}
